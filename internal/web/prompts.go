package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tendhq/tend/internal/ops"
)

// cannedPrompts is the fallback set served when the window is exhausted
// or the model is unavailable. Rotated by day so repeat visitors still
// see variety.
var cannedPrompts = [][]string{
	{
		"What gave you energy today?",
		"What is one thing you keep putting off, and why?",
		"What would make tomorrow feel like a win?",
	},
	{
		"What did you do today that your future self will thank you for?",
		"Which life area got the least attention this week?",
		"What small moment today deserves remembering?",
	},
	{
		"What drained you today, and was it worth it?",
		"What progress did you make on a goal, however small?",
		"Who did you connect with today?",
	},
}

func cannedFor(now time.Time) []string {
	return cannedPrompts[now.YearDay()%len(cannedPrompts)]
}

// promptsResponse is the body for POST /api/journal/prompts. Canned is
// true when the canned fallback set was served.
type promptsResponse struct {
	Prompts []string `json:"prompts"`
	Canned  bool     `json:"canned"`
}

// HandlePrompts handles POST /api/journal/prompts — suggest journaling
// prompts. On rate-limit exhaustion or any model failure this fails soft:
// HTTP 200 with the canned set, never an error.
func (h *Handlers) HandlePrompts(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	if !h.promptsLimiter.Allow(clientIP(r), now) {
		writeJSON(w, http.StatusOK, promptsResponse{Prompts: cannedFor(now), Canned: true})
		return
	}

	prompts, err := h.generatePrompts(r.Context())
	if err != nil || len(prompts) == 0 {
		writeJSON(w, http.StatusOK, promptsResponse{Prompts: cannedFor(now), Canned: true})
		return
	}
	writeJSON(w, http.StatusOK, promptsResponse{Prompts: prompts, Canned: false})
}

// generatePrompts asks the model for personalized prompts, seeded with
// recent journal context.
func (h *Handlers) generatePrompts(ctx context.Context) ([]string, error) {
	if h.deps.Generator == nil {
		return nil, nil
	}

	var b strings.Builder
	b.WriteString("Suggest 3 short journaling prompts for a personal life journal. ")
	b.WriteString("Return ONLY a JSON array of strings, no commentary.\n")

	entries, err := ops.ListEntries(ctx, h.deps.DB, ops.ListEntriesInput{Limit: 3})
	if err == nil && len(entries.Entries) > 0 {
		b.WriteString("Recent entries for context:\n")
		for _, e := range entries.Entries {
			b.WriteString("- ")
			b.WriteString(truncateLine(e.Text, 200))
			b.WriteString("\n")
		}
	}

	raw, err := h.deps.Generator.Generate(ctx, b.String())
	if err != nil {
		return nil, err
	}

	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")

	var prompts []string
	if err := json.Unmarshal([]byte(raw), &prompts); err != nil {
		return nil, err
	}
	out := prompts[:0]
	for _, p := range prompts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}

func truncateLine(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
