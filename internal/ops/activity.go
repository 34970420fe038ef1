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

// LogActivityInput contains parameters for the LogActivity operation.
type LogActivityInput struct {
	Title           string  // required
	DurationMinutes *int    // optional
	Notes           *string // optional
	Energy          *string // optional, one of the energy hints
	AreaID          *string // optional life-area link
	EntryID         *string // originating journal entry, if any
	OccurredAt      *int64  // optional, defaults to now
}

// LogActivityOutput contains the result of the LogActivity operation.
type LogActivityOutput struct {
	Activity *record.Activity `json:"activity"`
}

// LogActivity records something the user did.
func LogActivity(ctx context.Context, database *sql.DB, input LogActivityInput) (*LogActivityOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if input.DurationMinutes != nil && *input.DurationMinutes < 0 {
		return nil, errors.NewInvalidRequest("durationMinutes must not be negative")
	}
	energy := cleanOptionalString(input.Energy)
	if energy != nil && !record.ValidEnergyHint(*energy) {
		return nil, errors.NewInvalidRequest(fmt.Sprintf(
			"energy must be one of: %s", strings.Join(record.EnergyHints, ", ")))
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	occurredAt := now
	if input.OccurredAt != nil {
		occurredAt = *input.OccurredAt
	}
	activity := &record.Activity{
		ID:              id,
		Title:           record.Truncate(title, 120),
		DurationMinutes: input.DurationMinutes,
		Notes:           cleanOptionalString(input.Notes),
		Energy:          energy,
		AreaID:          cleanOptionalString(input.AreaID),
		EntryID:         cleanOptionalString(input.EntryID),
		OccurredAt:      occurredAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.InsertActivity(ctx, database, activity); err != nil {
		return nil, err
	}
	return &LogActivityOutput{Activity: activity}, nil
}

// ListActivitiesInput contains parameters for the ListActivities operation.
type ListActivitiesInput struct {
	Since  *int64 // optional occurred-after Unix timestamp
	Limit  int
	Offset int
}

// ListActivitiesOutput contains the result of the ListActivities operation.
type ListActivitiesOutput struct {
	Activities []record.Activity `json:"activities"`
	Pagination Pagination        `json:"pagination"`
}

// ListActivities lists logged activities, newest first.
func ListActivities(ctx context.Context, database *sql.DB, input ListActivitiesInput) (*ListActivitiesOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	activities, err := db.ListActivities(ctx, database, input.Since, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(activities) > limit
	if hasMore {
		activities = activities[:limit]
	}
	return &ListActivitiesOutput{
		Activities: activities,
		Pagination: Pagination{Limit: limit, Offset: offset, HasMore: hasMore},
	}, nil
}
