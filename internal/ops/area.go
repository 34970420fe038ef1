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

// StoreAreaInput contains parameters for the StoreArea operation.
type StoreAreaInput struct {
	Name string // required, unique by normalized form
}

// StoreAreaOutput contains the result of the StoreArea operation.
type StoreAreaOutput struct {
	Area *record.LifeArea `json:"area"`
}

// StoreArea creates a life area. Names collide on their normalized form,
// so "Health" and "  health " are the same area.
func StoreArea(ctx context.Context, database *sql.DB, input StoreAreaInput) (*StoreAreaOutput, error) {
	raw := strings.TrimSpace(input.Name)
	norm := record.Normalize(raw)
	if norm == "" {
		return nil, errors.NewInvalidRequest("name is required")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	area := &record.LifeArea{
		ID:        id,
		NameRaw:   raw,
		NameNorm:  norm,
		CreatedAt: time.Now().Unix(),
	}
	if err := db.InsertArea(ctx, database, area); err != nil {
		if err == db.ErrUniqueConstraint {
			return nil, errors.NewNameExists("life area", raw)
		}
		return nil, err
	}
	return &StoreAreaOutput{Area: area}, nil
}

// ListAreasOutput contains the result of the ListAreas operation.
type ListAreasOutput struct {
	Areas []record.LifeArea `json:"areas"`
}

// ListAreas lists every life area in creation order.
func ListAreas(ctx context.Context, database *sql.DB) (*ListAreasOutput, error) {
	areas, err := db.ListAreas(ctx, database)
	if err != nil {
		return nil, err
	}
	return &ListAreasOutput{Areas: areas}, nil
}
