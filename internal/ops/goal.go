package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/tendhq/tend/internal/db"
	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/record"
)

// StoreGoalInput contains parameters for the StoreGoal operation.
type StoreGoalInput struct {
	Title       string  // required
	Description *string // optional
	AreaID      *string // optional life-area link
	EntryID     *string // originating journal entry, if any
}

// StoreGoalOutput contains the result of the StoreGoal operation.
type StoreGoalOutput struct {
	Goal *record.Goal `json:"goal"`
}

// StoreGoal creates an active goal.
func StoreGoal(ctx context.Context, database *sql.DB, input StoreGoalInput) (*StoreGoalOutput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	goal := &record.Goal{
		ID:          id,
		Title:       record.Truncate(title, 120),
		Description: cleanOptionalString(input.Description),
		AreaID:      cleanOptionalString(input.AreaID),
		EntryID:     cleanOptionalString(input.EntryID),
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.InsertGoal(ctx, database, goal); err != nil {
		return nil, err
	}
	return &StoreGoalOutput{Goal: goal}, nil
}

// ListGoalsInput contains parameters for the ListGoals operation.
type ListGoalsInput struct {
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ListGoalsOutput contains the result of the ListGoals operation.
type ListGoalsOutput struct {
	Goals      []record.Goal `json:"goals"`
	Pagination Pagination    `json:"pagination"`
}

// ListGoals lists goals, newest first.
func ListGoals(ctx context.Context, database *sql.DB, input ListGoalsInput) (*ListGoalsOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	goals, err := db.ListGoals(ctx, database, input.ActiveOnly, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(goals) > limit
	if hasMore {
		goals = goals[:limit]
	}
	return &ListGoalsOutput{
		Goals:      goals,
		Pagination: Pagination{Limit: limit, Offset: offset, HasMore: hasMore},
	}, nil
}
