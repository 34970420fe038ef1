package ops

import (
	"context"
	"testing"

	"github.com/tendhq/tend/internal/errors"
)

func TestStoreGoal(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	out, err := StoreGoal(ctx, database, StoreGoalInput{
		Title:       "Run a 5k",
		Description: stringPtr("by June"),
	})
	if err != nil {
		t.Fatalf("StoreGoal: %v", err)
	}
	if !out.Goal.Active {
		t.Error("new goal should be active")
	}
	if out.Goal.Description == nil || *out.Goal.Description != "by June" {
		t.Errorf("description = %v", out.Goal.Description)
	}
}

func TestStoreGoalRequiresTitle(t *testing.T) {
	database := setupDB(t)
	_, err := StoreGoal(context.Background(), database, StoreGoalInput{Title: " "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestListGoals(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := StoreGoal(ctx, database, StoreGoalInput{Title: title}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := ListGoals(ctx, database, ListGoalsInput{ActiveOnly: true})
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(out.Goals) != 3 {
		t.Fatalf("got %d goals, want 3", len(out.Goals))
	}
	if out.Pagination.HasMore {
		t.Error("HasMore = true with 3 goals")
	}
}
