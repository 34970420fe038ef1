package extract

import (
	"context"
	"errors"
	"strings"
)

// Generator is the remote text-generation collaborator: one prompt in,
// raw text out. No streaming, no retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline runs extraction with the remote model and falls back to the
// heuristic on any failure. Callers get a Result unconditionally: model
// hiccups must never surface an empty screen to the user.
type Pipeline struct {
	gen      Generator
	maxItems int
}

// NewPipeline creates an extraction pipeline. A nil generator is allowed
// and makes every extraction take the heuristic path (offline mode).
func NewPipeline(gen Generator, maxItems int) *Pipeline {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Pipeline{gen: gen, maxItems: maxItems}
}

// Extract classifies a note, preferring the remote model. Any transport
// error, unparseable reply, schema violation, or all-empty model result
// falls back to the heuristic. Never returns an error.
func (p *Pipeline) Extract(ctx context.Context, note string, ec Context) Result {
	result, err := p.viaModel(ctx, note, ec)
	if err != nil || result.Empty() {
		return Heuristic(note, p.maxItems)
	}
	return result
}

// viaModel asks the generator for a strict-JSON extraction and validates
// the reply. All failures come back as *Error values.
func (p *Pipeline) viaModel(ctx context.Context, note string, ec Context) (Result, error) {
	if p.gen == nil {
		return Result{}, &Error{Kind: KindTransport, Err: errNoGenerator}
	}

	raw, err := p.gen.Generate(ctx, buildPrompt(note, ec))
	if err != nil {
		return Result{}, &Error{Kind: KindTransport, Err: err}
	}

	result, perr := ParseResult(raw)
	if perr != nil {
		return Result{}, perr
	}

	result = capItems(result, p.maxItems)
	return result, nil
}

// capItems truncates each category list to the configured limit.
func capItems(r Result, maxItems int) Result {
	if len(r.Activities) > maxItems {
		r.Activities = r.Activities[:maxItems]
	}
	if len(r.Tasks) > maxItems {
		r.Tasks = r.Tasks[:maxItems]
	}
	if len(r.Goals) > maxItems {
		r.Goals = r.Goals[:maxItems]
	}
	return r
}

var errNoGenerator = errors.New("no generator configured")

// buildPrompt combines the fixed instruction block with the serialized
// user vocabulary and the raw note. The known names bias the model toward
// existing vocabulary instead of inventing near-duplicates.
func buildPrompt(note string, ec Context) string {
	var b strings.Builder

	b.WriteString(`You classify a personal journal note into structured items. Return ONLY JSON, no commentary.

JSON format:
{
  "activities": [{"title": "string", "durationMinutes": 0, "notes": "string", "energyHint": "low|medium|high", "confidence": 0.0}],
  "tasks": [{"title": "string", "description": "string", "status": "backlog|scheduled|today|inprogress|blocked", "confidence": 0.0}],
  "goals": [{"title": "string", "description": "string", "confidence": 0.0}]
}

Rules:
- "title" is required for every item; all other fields are optional.
- A single statement may belong to more than one category.
- Omit a category entirely rather than inventing items.
- Prefer the user's existing names below when they fit.
`)

	writeVocab(&b, "Known life areas", ec.AreaNames)
	writeVocab(&b, "Known goals", ec.GoalTitles)
	writeVocab(&b, "Known tasks", ec.TaskTitles)
	writeVocab(&b, "Known activity types", ec.ActivityTitles)

	b.WriteString("\nNote:\n")
	b.WriteString(note)
	b.WriteString("\n")

	return b.String()
}

func writeVocab(b *strings.Builder, label string, names []string) {
	if len(names) == 0 {
		return
	}
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n")
}
