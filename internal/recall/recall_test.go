package recall

import (
	"math"
	"testing"

	"github.com/tendhq/tend/internal/record"
)

func mem(id string, vector []float64) record.MemoryVector {
	return record.MemoryVector{ID: id, Vector: vector}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"scaled", []float64{1, 1}, []float64{3, 3}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineDegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}},
		{"both empty", nil, nil},
		{"zero vector", []float64{0, 0}, []float64{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); !math.IsNaN(got) {
				t.Errorf("Cosine = %v, want NaN", got)
			}
		})
	}
}

func TestRankOrdersByScoreDescending(t *testing.T) {
	query := []float64{1, 0}
	corpus := []record.MemoryVector{
		mem("far", []float64{0, 1}),
		mem("near", []float64{1, 0.1}),
		mem("exact", []float64{2, 0}),
	}

	matches := Rank(query, corpus, 10)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	wantOrder := []string{"exact", "near", "far"}
	for i, id := range wantOrder {
		if matches[i].Memory.ID != id {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].Memory.ID, id)
		}
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, matches[i].Score, matches[i-1].Score)
		}
	}
}

func TestRankTiesKeepCorpusOrder(t *testing.T) {
	query := []float64{1, 0}
	corpus := []record.MemoryVector{
		mem("first", []float64{2, 0}),
		mem("second", []float64{5, 0}),
		mem("third", []float64{1, 0}),
	}

	matches := Rank(query, corpus, 10)
	wantOrder := []string{"first", "second", "third"}
	for i, id := range wantOrder {
		if matches[i].Memory.ID != id {
			t.Errorf("matches[%d] = %s, want %s", i, matches[i].Memory.ID, id)
		}
	}
}

func TestRankNaNScoresLast(t *testing.T) {
	query := []float64{1, 0}
	corpus := []record.MemoryVector{
		mem("zero", []float64{0, 0}),
		mem("good", []float64{1, 1}),
		mem("mismatched", []float64{1, 2, 3}),
	}

	matches := Rank(query, corpus, 10)
	if matches[0].Memory.ID != "good" {
		t.Errorf("matches[0] = %s, want good", matches[0].Memory.ID)
	}
	// NaN entries keep corpus order among themselves.
	if matches[1].Memory.ID != "zero" || matches[2].Memory.ID != "mismatched" {
		t.Errorf("NaN order = %s, %s; want zero, mismatched",
			matches[1].Memory.ID, matches[2].Memory.ID)
	}
	if !math.IsNaN(matches[1].Score) || !math.IsNaN(matches[2].Score) {
		t.Error("degenerate vectors should score NaN")
	}
}

func TestRankTruncatesToTopK(t *testing.T) {
	query := []float64{1}
	corpus := []record.MemoryVector{
		mem("a", []float64{1}),
		mem("b", []float64{2}),
		mem("c", []float64{3}),
		mem("d", []float64{4}),
	}

	matches := Rank(query, corpus, 2)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
}

func TestRankEmptyCorpus(t *testing.T) {
	matches := Rank([]float64{1, 2}, nil, 5)
	if matches == nil {
		t.Fatal("want empty slice, got nil")
	}
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(matches))
	}
}

func TestRankDefaultTopK(t *testing.T) {
	query := []float64{1}
	var corpus []record.MemoryVector
	for i := 0; i < 12; i++ {
		corpus = append(corpus, mem(string(rune('a'+i)), []float64{float64(i + 1)}))
	}

	matches := Rank(query, corpus, 0)
	if len(matches) != DefaultTopK {
		t.Fatalf("got %d matches, want %d", len(matches), DefaultTopK)
	}
}
