package ops

import (
	"context"
	"testing"

	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/record"
)

func TestStoreTask(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	out, err := StoreTask(ctx, database, StoreTaskInput{
		Title:       "  Email Sarah  ",
		Description: stringPtr("about the contract"),
	})
	if err != nil {
		t.Fatalf("StoreTask: %v", err)
	}
	if out.Task.Title != "Email Sarah" {
		t.Errorf("title = %q, want trimmed", out.Task.Title)
	}
	if out.Task.Status != record.TaskBacklog {
		t.Errorf("status = %q, want backlog default", out.Task.Status)
	}
	if out.Task.ID == "" || out.Task.CreatedAt == 0 {
		t.Errorf("task = %+v, want ID and timestamps set", out.Task)
	}
}

func TestStoreTaskValidation(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	_, err := StoreTask(ctx, database, StoreTaskInput{Title: "   "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty title err = %v, want ErrInvalidRequest", err)
	}

	_, err = StoreTask(ctx, database, StoreTaskInput{Title: "x", Status: "someday"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("bad status err = %v, want ErrInvalidRequest", err)
	}
}

func TestListTasksFiltersAndPaginates(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := StoreTask(ctx, database, StoreTaskInput{Title: "task", Status: record.TaskBacklog}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := StoreTask(ctx, database, StoreTaskInput{Title: "urgent", Status: record.TaskToday}); err != nil {
		t.Fatal(err)
	}

	out, err := ListTasks(ctx, database, ListTasksInput{Status: stringPtr(record.TaskToday)})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(out.Tasks) != 1 || out.Tasks[0].Title != "urgent" {
		t.Errorf("filtered tasks = %+v", out.Tasks)
	}

	page, err := ListTasks(ctx, database, ListTasksInput{Limit: 4})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(page.Tasks) != 4 {
		t.Errorf("got %d tasks, want 4", len(page.Tasks))
	}
	if !page.Pagination.HasMore {
		t.Error("HasMore = false with 6 tasks and limit 4")
	}

	rest, err := ListTasks(ctx, database, ListTasksInput{Limit: 4, Offset: 4})
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(rest.Tasks) != 2 || rest.Pagination.HasMore {
		t.Errorf("second page = %d tasks, HasMore=%v; want 2, false",
			len(rest.Tasks), rest.Pagination.HasMore)
	}
}

func TestListTasksRejectsBadStatus(t *testing.T) {
	database := setupDB(t)
	_, err := ListTasks(context.Background(), database, ListTasksInput{Status: stringPtr("nope")})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestUpdateTaskStatus(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	stored, err := StoreTask(ctx, database, StoreTaskInput{Title: "move me"})
	if err != nil {
		t.Fatal(err)
	}

	out, err := UpdateTaskStatus(ctx, database, UpdateTaskStatusInput{
		ID:     stored.Task.ID,
		Status: record.TaskDone,
	})
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if out.Task.Status != record.TaskDone {
		t.Errorf("status = %q, want done", out.Task.Status)
	}

	_, err = UpdateTaskStatus(ctx, database, UpdateTaskStatusInput{ID: "01MISSING", Status: record.TaskDone})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing task err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTask(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	stored, err := StoreTask(ctx, database, StoreTaskInput{Title: "doomed"})
	if err != nil {
		t.Fatal(err)
	}
	if err := DeleteTask(ctx, database, DeleteTaskInput{ID: stored.Task.ID}); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	err = DeleteTask(ctx, database, DeleteTaskInput{ID: stored.Task.ID})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}
