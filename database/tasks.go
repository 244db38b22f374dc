package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"tasktracker/models"
)

// TaskStore is the row store behind the task reconciler: insert, filtered
// select newest-first, update by id, delete by id. The store owns id and
// created_at assignment; extras travel as an opaque JSONB blob.
type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func (s *TaskStore) Insert(ctx context.Context, task *models.Task) error {
	extras, err := json.Marshal(task.Extras)
	if err != nil {
		return fmt.Errorf("failed to encode extras: %w", err)
	}

	query := `INSERT INTO tasks (user_id, title, description, status, extras)
              VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err = s.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Description, task.Status, extras,
	).Scan(&task.ID, &task.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// List returns the user's tasks, optionally narrowed to one status,
// ordered newest-created first.
func (s *TaskStore) List(ctx context.Context, userID, statusFilter string) ([]models.Task, error) {
	query := `SELECT id, user_id, title, description, status, extras, created_at
              FROM tasks WHERE user_id = $1`
	params := []interface{}{userID}

	if statusFilter != "" && statusFilter != "all" {
		query += " AND status = $2"
		params = append(params, statusFilter)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to select tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		var extras []byte
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Description,
			&task.Status, &extras, &task.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to read task row: %w", err)
		}
		if len(extras) > 0 {
			if err := json.Unmarshal(extras, &task.Extras); err != nil {
				return nil, fmt.Errorf("failed to decode extras for task %s: %w", task.ID, err)
			}
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Update rewrites the three editable columns and nothing else; extras are
// immutable after creation. The user scope keeps a session from touching
// rows it does not own.
func (s *TaskStore) Update(ctx context.Context, id, userID, title, description, status string) error {
	query := `UPDATE tasks SET title = $1, description = $2, status = $3
              WHERE id = $4 AND user_id = $5`
	result, err := s.db.ExecContext(ctx, query, title, description, status, id, userID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(result, id)
}

func (s *TaskStore) Delete(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("task %s not found", id)
	}
	return nil
}
