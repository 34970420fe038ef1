package ops

import (
	"context"
	"testing"

	"github.com/tendhq/tend/internal/errors"
)

func TestStoreAreaNormalizesName(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	out, err := StoreArea(ctx, database, StoreAreaInput{Name: "  Health  "})
	if err != nil {
		t.Fatalf("StoreArea: %v", err)
	}
	if out.Area.NameRaw != "Health" {
		t.Errorf("NameRaw = %q", out.Area.NameRaw)
	}
	if out.Area.NameNorm != "health" {
		t.Errorf("NameNorm = %q", out.Area.NameNorm)
	}
}

func TestStoreAreaDuplicateName(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	if _, err := StoreArea(ctx, database, StoreAreaInput{Name: "Career"}); err != nil {
		t.Fatal(err)
	}
	_, err := StoreArea(ctx, database, StoreAreaInput{Name: " CAREER "})
	if !errors.Is(err, errors.ErrNameExists) {
		t.Errorf("duplicate err = %v, want ErrNameExists", err)
	}
}

func TestStoreAreaRequiresName(t *testing.T) {
	database := setupDB(t)
	_, err := StoreArea(context.Background(), database, StoreAreaInput{Name: "   "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestListAreas(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	for _, name := range []string{"Health", "Career"} {
		if _, err := StoreArea(ctx, database, StoreAreaInput{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	out, err := ListAreas(ctx, database)
	if err != nil {
		t.Fatalf("ListAreas: %v", err)
	}
	if len(out.Areas) != 2 {
		t.Fatalf("got %d areas, want 2", len(out.Areas))
	}
}
