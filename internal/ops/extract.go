package ops

import (
	"context"
	"database/sql"
	"strings"

	"github.com/tendhq/tend/internal/db"
	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/extract"
)

// vocabLimit caps how many known titles of each kind the prompt carries.
const vocabLimit = 25

// ExtractNoteInput contains parameters for the ExtractNote operation.
type ExtractNoteInput struct {
	Note string // required

	// SaveEntry also stores the note as a journal entry and stamps the
	// extraction with its ID.
	SaveEntry bool
	Mood      *string // optional, only used with SaveEntry
}

// ExtractNoteOutput contains the result of the ExtractNote operation.
type ExtractNoteOutput struct {
	Result  extract.Result `json:"result"`
	EntryID *string        `json:"entry_id,omitempty"`
}

// ExtractNote classifies a free-text note into candidate seeds. The
// user's existing vocabulary (areas, goals, tasks, activities) is loaded
// to bias the model toward known names; extraction itself never fails,
// it falls back to the heuristic.
func ExtractNote(ctx context.Context, database *sql.DB, pipeline *extract.Pipeline, input ExtractNoteInput) (*ExtractNoteOutput, error) {
	note := strings.TrimSpace(input.Note)
	if note == "" {
		return nil, errors.NewInvalidRequest("note is required")
	}

	var entryID *string
	if input.SaveEntry {
		out, err := AddEntry(ctx, database, AddEntryInput{Text: note, Mood: input.Mood})
		if err != nil {
			return nil, err
		}
		entryID = &out.Entry.ID
	}

	ec, err := loadVocabulary(ctx, database)
	if err != nil {
		return nil, err
	}

	return &ExtractNoteOutput{
		Result:  pipeline.Extract(ctx, note, ec),
		EntryID: entryID,
	}, nil
}

// loadVocabulary gathers known names for the extraction prompt.
func loadVocabulary(ctx context.Context, database *sql.DB) (extract.Context, error) {
	var ec extract.Context

	areas, err := db.ListAreas(ctx, database)
	if err != nil {
		return ec, err
	}
	for _, a := range areas {
		ec.AreaNames = append(ec.AreaNames, a.NameRaw)
	}

	goals, err := db.ListGoals(ctx, database, true, vocabLimit, 0)
	if err != nil {
		return ec, err
	}
	for _, g := range goals {
		ec.GoalTitles = append(ec.GoalTitles, g.Title)
	}

	tasks, err := db.ListTasks(ctx, database, nil, nil, vocabLimit, 0)
	if err != nil {
		return ec, err
	}
	for _, t := range tasks {
		ec.TaskTitles = append(ec.TaskTitles, t.Title)
	}

	activities, err := db.ListActivities(ctx, database, nil, vocabLimit, 0)
	if err != nil {
		return ec, err
	}
	for _, a := range activities {
		ec.ActivityTitles = append(ec.ActivityTitles, a.Title)
	}

	return ec, nil
}
