package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"tasktracker/models"
	"tasktracker/session"
	"tasktracker/utilities"
)

var validFilters = map[string]bool{
	"all":                   true,
	models.StatusPending:    true,
	models.StatusInProgress: true,
	models.StatusDone:       true,
}

type tasksResponse struct {
	Tasks        []models.Task        `json:"tasks"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// ListTasksHandler reconciles and returns the session's task list. An
// optional status query parameter narrows the filter first.
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	if status := r.URL.Query().Get("status"); status != "" {
		if !validFilters[status] {
			utilities.LogError(nil, "Rejected invalid status filter "+status)
			http.Error(w, "Invalid status filter", http.StatusBadRequest)
			return
		}
		sess.StatusFilter = status
	}

	if err := reconciler.List(r.Context(), sess); err != nil {
		writeJSON(w, http.StatusInternalServerError, tasksResponse{
			Tasks:        sess.Tasks,
			Notification: sess.Notifications.Active(),
		})
		return
	}

	writeJSON(w, http.StatusOK, tasksResponse{Tasks: sess.Tasks})
}

// CreateTaskHandler submits the create-task form through the reconciler.
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	var form session.TaskForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		utilities.LogError(err, "Failed to decode create-task request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	errs, err := reconciler.Create(r.Context(), sess, form)
	if !errs.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors":       errs,
			"notification": sess.Notifications.Active(),
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, tasksResponse{
			Tasks:        sess.Tasks,
			Notification: sess.Notifications.Active(),
		})
		return
	}

	writeJSON(w, http.StatusCreated, tasksResponse{
		Tasks:        sess.Tasks,
		Notification: sess.Notifications.Active(),
	})
}

// UpdateTaskHandler rewrites the three editable fields of one task.
func UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	taskID := mux.Vars(r)["task_id"]

	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utilities.LogError(err, "Failed to decode update-task request")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	valid, err := reconciler.Update(r.Context(), sess, session.EditForm{
		TaskID:      taskID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	})
	if !valid {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"notification": sess.Notifications.Active(),
			"edit":         sess.EditForm,
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, tasksResponse{
			Tasks:        sess.Tasks,
			Notification: sess.Notifications.Active(),
		})
		return
	}

	writeJSON(w, http.StatusOK, tasksResponse{
		Tasks:        sess.Tasks,
		Notification: sess.Notifications.Active(),
	})
}

// DeleteTaskHandler removes one task. No validation gate; a store failure
// leaves the displayed list untouched.
func DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	taskID := mux.Vars(r)["task_id"]

	if err := reconciler.Delete(r.Context(), sess, taskID); err != nil {
		writeJSON(w, http.StatusInternalServerError, tasksResponse{
			Tasks:        sess.Tasks,
			Notification: sess.Notifications.Active(),
		})
		return
	}

	writeJSON(w, http.StatusOK, tasksResponse{
		Tasks:        sess.Tasks,
		Notification: sess.Notifications.Active(),
	})
}

// NotificationsHandler returns the session's active notification, if one
// has not yet expired.
func NotificationsHandler(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"notification": sess.Notifications.Active(),
	})
}
