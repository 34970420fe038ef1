package ops

import (
	"context"
	"testing"

	"github.com/tendhq/tend/internal/errors"
)

func TestAddEntry(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	out, err := AddEntry(ctx, database, AddEntryInput{
		Text: "Long day, but the presentation went well.",
		Mood: stringPtr("relieved"),
	})
	if err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if out.Entry.ID == "" || out.Entry.CreatedAt == 0 {
		t.Errorf("entry = %+v, want ID and timestamp set", out.Entry)
	}
	if out.Entry.Mood == nil || *out.Entry.Mood != "relieved" {
		t.Errorf("mood = %v", out.Entry.Mood)
	}
}

func TestAddEntryRequiresText(t *testing.T) {
	database := setupDB(t)
	_, err := AddEntry(context.Background(), database, AddEntryInput{Text: "  "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestListEntries(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	for _, text := range []string{"day one", "day two", "day three"} {
		if _, err := AddEntry(ctx, database, AddEntryInput{Text: text}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := ListEntries(ctx, database, ListEntriesInput{Limit: 2})
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(out.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(out.Entries))
	}
	if !out.Pagination.HasMore {
		t.Error("HasMore = false with 3 entries and limit 2")
	}
}
