// Package recall ranks stored memories against a query vector by cosine
// similarity. The corpus is small enough for a full linear scan; no index.
package recall

import (
	"math"
	"sort"

	"github.com/tendhq/tend/internal/record"
)

// DefaultTopK is the number of ranked memories returned when the caller
// passes no limit.
const DefaultTopK = 5

// Match pairs a stored memory with its similarity score against the query.
type Match struct {
	Memory record.MemoryVector `json:"memory"`
	Score  float64             `json:"score"`
}

// Rank scores every memory against the query vector and returns the top K
// in descending score order. Ties and NaN scores keep corpus order, with
// NaN ranked after every real score. An empty corpus yields an empty slice.
func Rank(query []float64, corpus []record.MemoryVector, topK int) []Match {
	if topK <= 0 {
		topK = DefaultTopK
	}

	matches := make([]Match, 0, len(corpus))
	for _, m := range corpus {
		matches = append(matches, Match{Memory: m, Score: Cosine(query, m.Vector)})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Score, matches[j].Score
		if math.IsNaN(a) {
			return false
		}
		if math.IsNaN(b) {
			return true
		}
		return a > b
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// or a zero-magnitude vector yield NaN, which Rank orders last.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.NaN()
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return math.NaN()
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
