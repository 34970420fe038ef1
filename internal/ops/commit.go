package ops

import (
	"context"
	"database/sql"

	"github.com/tendhq/tend/internal/reconcile"
)

// RecordCommitter persists adjudicated candidates through the ops layer.
// It satisfies reconcile.Committer.
type RecordCommitter struct {
	DB *sql.DB
}

func (rc *RecordCommitter) CommitActivity(ctx context.Context, c *reconcile.Candidate, entryID *string) (string, error) {
	input := LogActivityInput{Title: c.Title, EntryID: entryID}
	if c.Activity != nil {
		input.DurationMinutes = c.Activity.DurationMinutes
		input.Notes = c.Activity.Notes
		input.Energy = c.Activity.EnergyHint
	}
	out, err := LogActivity(ctx, rc.DB, input)
	if err != nil {
		return "", err
	}
	return out.Activity.ID, nil
}

func (rc *RecordCommitter) CommitTask(ctx context.Context, c *reconcile.Candidate, entryID *string) (string, error) {
	input := StoreTaskInput{Title: c.Title, EntryID: entryID}
	if c.Task != nil {
		input.Description = c.Task.Description
		input.Status = c.Task.Status
	}
	out, err := StoreTask(ctx, rc.DB, input)
	if err != nil {
		return "", err
	}
	return out.Task.ID, nil
}

func (rc *RecordCommitter) CommitGoal(ctx context.Context, c *reconcile.Candidate, entryID *string) (string, error) {
	input := StoreGoalInput{Title: c.Title, EntryID: entryID}
	if c.Goal != nil {
		input.Description = c.Goal.Description
	}
	out, err := StoreGoal(ctx, rc.DB, input)
	if err != nil {
		return "", err
	}
	return out.Goal.ID, nil
}
