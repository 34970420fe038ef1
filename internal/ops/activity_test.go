package ops

import (
	"context"
	"testing"
	"time"

	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/record"
)

func TestLogActivity(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	out, err := LogActivity(ctx, database, LogActivityInput{
		Title:           "Gym session",
		DurationMinutes: intPtr(45),
		Energy:          stringPtr(record.EnergyHigh),
	})
	if err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if out.Activity.DurationMinutes == nil || *out.Activity.DurationMinutes != 45 {
		t.Errorf("duration = %v, want 45", out.Activity.DurationMinutes)
	}
	if out.Activity.OccurredAt == 0 {
		t.Error("OccurredAt should default to now")
	}
}

func TestLogActivityValidation(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	_, err := LogActivity(ctx, database, LogActivityInput{Title: ""})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty title err = %v, want ErrInvalidRequest", err)
	}

	_, err = LogActivity(ctx, database, LogActivityInput{Title: "x", DurationMinutes: intPtr(-10)})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("negative duration err = %v, want ErrInvalidRequest", err)
	}

	_, err = LogActivity(ctx, database, LogActivityInput{Title: "x", Energy: stringPtr("turbo")})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("bad energy err = %v, want ErrInvalidRequest", err)
	}
}

func TestListActivitiesSinceFilter(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	old := time.Now().AddDate(0, 0, -30).Unix()
	if _, err := LogActivity(ctx, database, LogActivityInput{Title: "old walk", OccurredAt: &old}); err != nil {
		t.Fatal(err)
	}
	if _, err := LogActivity(ctx, database, LogActivityInput{Title: "recent run"}); err != nil {
		t.Fatal(err)
	}

	since := time.Now().AddDate(0, 0, -7).Unix()
	out, err := ListActivities(ctx, database, ListActivitiesInput{Since: &since})
	if err != nil {
		t.Fatalf("ListActivities: %v", err)
	}
	if len(out.Activities) != 1 || out.Activities[0].Title != "recent run" {
		t.Errorf("activities = %+v, want only the recent one", out.Activities)
	}
}
