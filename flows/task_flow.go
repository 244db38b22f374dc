package flows

import (
	"context"

	"tasktracker/models"
	"tasktracker/session"
	"tasktracker/utilities"
	"tasktracker/validation"
)

// TaskStore is the external row-store boundary: insert, filtered select in
// descending creation order, update by id, delete by id. Update and Delete
// are user-scoped so a session can only touch its own rows.
type TaskStore interface {
	Insert(ctx context.Context, task *models.Task) error
	List(ctx context.Context, userID, statusFilter string) ([]models.Task, error)
	Update(ctx context.Context, id, userID, title, description, status string) error
	Delete(ctx context.Context, id, userID string) error
}

// TaskReconciler runs every task mutation against the store and then
// refetches the session's task list, so displayed state always comes from
// the store rather than from an optimistic local patch. When two mutations
// race, the last refetch to resolve wins; there is no sequencing token.
type TaskReconciler struct {
	store TaskStore
}

func NewTaskReconciler(store TaskStore) *TaskReconciler {
	return &TaskReconciler{store: store}
}

// List refetches the session's task list under its current status filter
// and replaces the local copy wholesale.
func (r *TaskReconciler) List(ctx context.Context, sess *session.Context) error {
	tasks, err := r.store.List(ctx, sess.UserID, sess.StatusFilter)
	if err != nil {
		utilities.LogError(err, "Failed to fetch tasks")
		sess.Notifications.Show("Error fetching tasks", models.NotifyError)
		return err
	}
	sess.Tasks = tasks
	return nil
}

// Create validates the form, inserts the task with its extras, and
// refetches. A failed insert preserves the submitted form on the session
// so the user can retry without retyping.
func (r *TaskReconciler) Create(ctx context.Context, sess *session.Context, form session.TaskForm) (validation.ValidationErrors, error) {
	form.Title = validation.Sanitize(form.Title)
	form.Description = validation.Sanitize(form.Description)
	form.Tags = validation.Sanitize(form.Tags)

	errs := validation.ValidateTaskForm(form.Title, form.Description, form.Status, form.Priority)
	if !errs.Valid() {
		sess.CreateForm = form
		sess.Notifications.Show("Please fill all required fields", models.NotifyError)
		return errs, nil
	}

	task := &models.Task{
		UserID:      sess.UserID,
		Title:       form.Title,
		Description: form.Description,
		Status:      form.Status,
		Extras: models.TaskExtras{
			Tags:     validation.SplitTags(form.Tags),
			DueDate:  form.DueDate,
			Priority: form.Priority,
		},
	}
	if err := r.store.Insert(ctx, task); err != nil {
		utilities.LogError(err, "Failed to create task")
		sess.CreateForm = form
		sess.Notifications.Show("Failed to create task", models.NotifyError)
		return nil, err
	}

	sess.Notifications.Show("Task created successfully!", models.NotifySuccess)
	sess.CreateForm = session.TaskForm{Status: models.StatusPending}
	utilities.LogInfo("Task created for user %s", sess.UserID)

	// A refetch failure after a successful insert surfaces as its own
	// notification; the two outcomes are reported independently.
	return nil, r.List(ctx, sess)
}

// Update rewrites only the three editable fields; extras are immutable
// after creation. A failed update keeps the edit snapshot for retry.
func (r *TaskReconciler) Update(ctx context.Context, sess *session.Context, edit session.EditForm) (bool, error) {
	edit.Title = validation.Sanitize(edit.Title)
	edit.Description = validation.Sanitize(edit.Description)

	if !validation.ValidateTaskEdit(edit.Title, edit.Description, edit.Status) {
		sess.EditForm = &edit
		sess.Notifications.Show("Please fill all required fields", models.NotifyError)
		return false, nil
	}

	if err := r.store.Update(ctx, edit.TaskID, sess.UserID, edit.Title, edit.Description, edit.Status); err != nil {
		utilities.LogError(err, "Failed to update task")
		sess.EditForm = &edit
		sess.Notifications.Show("Failed to update task", models.NotifyError)
		return true, err
	}

	sess.Notifications.Show("Task updated successfully!", models.NotifySuccess)
	sess.EditForm = nil
	utilities.LogInfo("Task %s updated for user %s", edit.TaskID, sess.UserID)
	return true, r.List(ctx, sess)
}

// Delete is unconditional: no validation gate, and a failure leaves the
// displayed list untouched.
func (r *TaskReconciler) Delete(ctx context.Context, sess *session.Context, taskID string) error {
	if err := r.store.Delete(ctx, taskID, sess.UserID); err != nil {
		utilities.LogError(err, "Failed to delete task")
		sess.Notifications.Show("Failed to delete task", models.NotifyError)
		return err
	}

	sess.Notifications.Show("Task deleted successfully", models.NotifySuccess)
	utilities.LogInfo("Task %s deleted for user %s", taskID, sess.UserID)
	return r.List(ctx, sess)
}
