package ops

import (
	"database/sql"
	"testing"

	"github.com/tendhq/tend/internal/db"
)

// setupDB creates a fresh database in a temp directory.
func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }
func int64Ptr(i int64) *int64    { return &i }

func TestGenerateULID(t *testing.T) {
	a, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID: %v", err)
	}
	b, err := generateULID()
	if err != nil {
		t.Fatalf("generateULID: %v", err)
	}
	if len(a) != 26 {
		t.Errorf("ULID length = %d, want 26", len(a))
	}
	if a == b {
		t.Error("consecutive ULIDs collided")
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name                 string
		limit, offset        int
		wantLimit, wantOffset int
	}{
		{"defaults", 0, 0, DefaultListLimit, 0},
		{"negative", -5, -3, DefaultListLimit, 0},
		{"in range", 50, 10, 50, 10},
		{"over max", 1000, 0, MaxListLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := clampPage(tt.limit, tt.offset)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("clampPage(%d, %d) = (%d, %d), want (%d, %d)",
					tt.limit, tt.offset, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestCleanOptionalString(t *testing.T) {
	if got := cleanOptionalString(nil); got != nil {
		t.Errorf("nil input = %v", got)
	}
	if got := cleanOptionalString(stringPtr("  ")); got != nil {
		t.Errorf("blank input = %v", got)
	}
	if got := cleanOptionalString(stringPtr(" x ")); got == nil || *got != "x" {
		t.Errorf("trimmed input = %v", got)
	}
}
