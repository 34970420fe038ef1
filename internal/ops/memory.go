package ops

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tendhq/tend/internal/db"
	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/recall"
	"github.com/tendhq/tend/internal/record"
)

// StoreMemoryInput contains parameters for the StoreMemory operation.
type StoreMemoryInput struct {
	Text string // required

	// Vector may be supplied directly; when nil the embedder is called.
	Vector []float64

	Meta map[string]string // optional
}

// StoreMemoryOutput contains the result of the StoreMemory operation.
type StoreMemoryOutput struct {
	Memory *record.MemoryVector `json:"memory"`
}

// StoreMemory embeds and persists a memory snippet. The embedder may be
// nil when the caller supplies the vector itself.
func StoreMemory(ctx context.Context, database *sql.DB, embedder recall.Embedder, input StoreMemoryInput) (*StoreMemoryOutput, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewInvalidRequest("text is required")
	}

	vector := input.Vector
	if len(vector) == 0 {
		if embedder == nil {
			return nil, errors.NewInvalidRequest("no embedding service configured; supply a vector")
		}
		var err error
		vector, err = embedder.Embed(ctx, text)
		if err != nil {
			return nil, errors.NewInternal(fmt.Errorf("embedding text: %w", err))
		}
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	memory := &record.MemoryVector{
		ID:        id,
		Text:      text,
		Vector:    vector,
		Meta:      input.Meta,
		CreatedAt: time.Now().Unix(),
	}
	if err := db.InsertMemory(ctx, database, memory); err != nil {
		return nil, err
	}
	return &StoreMemoryOutput{Memory: memory}, nil
}

// RecallMemoriesInput contains parameters for the RecallMemories operation.
type RecallMemoriesInput struct {
	Query string // required unless Vector is supplied

	// Vector may be supplied directly; when nil the embedder is called.
	Vector []float64

	TopK int // default: recall.DefaultTopK
}

// RecallMemoriesOutput contains the result of the RecallMemories operation.
type RecallMemoriesOutput struct {
	Matches []recall.Match `json:"matches"`
}

// RecallMemories ranks the stored memories against the query and returns
// the top matches.
func RecallMemories(ctx context.Context, database *sql.DB, embedder recall.Embedder, input RecallMemoriesInput) (*RecallMemoriesOutput, error) {
	vector := input.Vector
	if len(vector) == 0 {
		query := strings.TrimSpace(input.Query)
		if query == "" {
			return nil, errors.NewInvalidRequest("query is required")
		}
		if embedder == nil {
			return nil, errors.NewInvalidRequest("no embedding service configured; supply a vector")
		}
		var err error
		vector, err = embedder.Embed(ctx, query)
		if err != nil {
			return nil, errors.NewInternal(fmt.Errorf("embedding text: %w", err))
		}
	}

	corpus, err := db.ListMemories(ctx, database)
	if err != nil {
		return nil, err
	}
	return &RecallMemoriesOutput{Matches: recall.Rank(vector, corpus, input.TopK)}, nil
}
