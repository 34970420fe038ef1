package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tendhq/tend/internal/db"
	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/record"
)

// StoreTaskInput contains parameters for the StoreTask operation.
type StoreTaskInput struct {
	Title       string  // required
	Description *string // optional
	Status      string  // default: backlog
	AreaID      *string // optional life-area link
	EntryID     *string // originating journal entry, if any
}

// StoreTaskOutput contains the result of the StoreTask operation.
type StoreTaskOutput struct {
	Task *record.Task `json:"task"`
}

// StoreTask creates a task.
func StoreTask(ctx context.Context, database *sql.DB, input StoreTaskInput) (*StoreTaskOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if input.Status == "" {
		input.Status = record.TaskBacklog
	}
	if !record.ValidTaskStatus(input.Status) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"status must be one of: %s", strings.Join(record.TaskStatuses, ", ")))
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	task := &record.Task{
		ID:          id,
		Title:       record.Truncate(title, 120),
		Description: cleanOptionalString(input.Description),
		Status:      input.Status,
		AreaID:      cleanOptionalString(input.AreaID),
		EntryID:     cleanOptionalString(input.EntryID),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.InsertTask(ctx, database, task); err != nil {
		return nil, err
	}
	return &StoreTaskOutput{Task: task}, nil
}

// ListTasksInput contains parameters for the ListTasks operation.
type ListTasksInput struct {
	Status *string // optional filter
	Since  *int64  // optional created-after Unix timestamp
	Limit  int
	Offset int
}

// ListTasksOutput contains the result of the ListTasks operation.
type ListTasksOutput struct {
	Tasks      []record.Task `json:"tasks"`
	Pagination Pagination    `json:"pagination"`
}

// ListTasks lists tasks, newest first.
func ListTasks(ctx context.Context, database *sql.DB, input ListTasksInput) (*ListTasksOutput, error) {
	status := cleanOptionalString(input.Status)
	if status != nil && !record.ValidTaskStatus(*status) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"status must be one of: %s", strings.Join(record.TaskStatuses, ", ")))
	}

	limit, offset := clampPage(input.Limit, input.Offset)

	// Fetch one extra row to compute HasMore without a count query.
	tasks, err := db.ListTasks(ctx, database, status, input.Since, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(tasks) > limit
	if hasMore {
		tasks = tasks[:limit]
	}
	return &ListTasksOutput{
		Tasks:      tasks,
		Pagination: Pagination{Limit: limit, Offset: offset, HasMore: hasMore},
	}, nil
}

// UpdateTaskStatusInput contains parameters for the UpdateTaskStatus operation.
type UpdateTaskStatusInput struct {
	ID     string
	Status string
}

// UpdateTaskStatusOutput contains the result of the UpdateTaskStatus operation.
type UpdateTaskStatusOutput struct {
	Task *record.Task `json:"task"`
}

// UpdateTaskStatus moves a task to a new status.
func UpdateTaskStatus(ctx context.Context, database *sql.DB, input UpdateTaskStatusInput) (*UpdateTaskStatusOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if !record.ValidTaskStatus(input.Status) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"status must be one of: %s", strings.Join(record.TaskStatuses, ", ")))
	}

	if err := db.UpdateTaskStatus(ctx, database, id, input.Status, time.Now().Unix()); err != nil {
		return nil, err
	}
	task, err := db.GetTaskByID(ctx, database, id)
	if err != nil {
		return nil, err
	}
	return &UpdateTaskStatusOutput{Task: task}, nil
}

// DeleteTaskInput contains parameters for the DeleteTask operation.
type DeleteTaskInput struct {
	ID string
}

// DeleteTask removes a task permanently.
func DeleteTask(ctx context.Context, database *sql.DB, input DeleteTaskInput) error {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return errors.NewInvalidRequest("id is required")
	}
	return db.DeleteTask(ctx, database, id)
}
