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

// AddEntryInput contains parameters for the AddEntry operation.
type AddEntryInput struct {
	Text string  // required
	Mood *string // optional one-word self-report
}

// AddEntryOutput contains the result of the AddEntry operation.
type AddEntryOutput struct {
	Entry *record.JournalEntry `json:"entry"`
}

// AddEntry stores a free-text journal entry.
func AddEntry(ctx context.Context, database *sql.DB, input AddEntryInput) (*AddEntryOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	entry := &record.JournalEntry{
		ID:        id,
		Text:      text,
		Mood:      cleanOptionalString(input.Mood),
		CreatedAt: time.Now().Unix(),
	}
	if err := db.InsertEntry(ctx, database, entry); err != nil {
		return nil, err
	}
	return &AddEntryOutput{Entry: entry}, nil
}

// ListEntriesInput contains parameters for the ListEntries operation.
type ListEntriesInput struct {
	Since  *int64 // optional created-after Unix timestamp
	Limit  int
	Offset int
}

// ListEntriesOutput contains the result of the ListEntries operation.
type ListEntriesOutput struct {
	Entries    []record.JournalEntry `json:"entries"`
	Pagination Pagination            `json:"pagination"`
}

// ListEntries lists journal entries, newest first.
func ListEntries(ctx context.Context, database *sql.DB, input ListEntriesInput) (*ListEntriesOutput, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	entries, err := db.ListEntries(ctx, database, input.Since, limit+1, offset)
	if err != nil {
		return nil, err
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}
	return &ListEntriesOutput{
		Entries:    entries,
		Pagination: Pagination{Limit: limit, Offset: offset, HasMore: hasMore},
	}, nil
}
