// Package reconcile drives the review workflow over extraction output:
// every extracted item becomes an editable in-memory candidate, and a
// session walks the user through committing, skipping, or re-typing each
// one. Candidates never outlive their session and are never persisted
// directly.
package reconcile

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tendhq/tend/internal/extract"
	"github.com/tendhq/tend/internal/record"
)

// Kind discriminates the candidate variants.
type Kind string

const (
	KindActivity Kind = "activity"
	KindTask     Kind = "task"
	KindGoal     Kind = "goal"
)

// ActivityFields is the payload for an activity candidate.
type ActivityFields struct {
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	EnergyHint      *string `json:"energyHint,omitempty"`
}

// TaskFields is the payload for a task candidate.
type TaskFields struct {
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status"`
}

// GoalFields is the payload for a goal candidate.
type GoalFields struct {
	Description *string `json:"description,omitempty"`
}

// Candidate is one proposed record awaiting adjudication. The payload
// pointer matching Kind is set; the other two are nil. IDs are
// process-local and never persisted.
type Candidate struct {
	ID         string   `json:"id"`
	Kind       Kind     `json:"kind"`
	Include    bool     `json:"include"`
	Title      string   `json:"title"`
	Confidence *float64 `json:"confidence,omitempty"`

	Activity *ActivityFields `json:"activity,omitempty"`
	Task     *TaskFields     `json:"task,omitempty"`
	Goal     *GoalFields     `json:"goal,omitempty"`
}

var (
	idMu      sync.Mutex
	idEntropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func newCandidateID() string {
	idMu.Lock()
	defer idMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), idEntropy).String()
}

// FromResult converts extraction output 1:1 into candidates, all included
// by default. Order follows the result: activities, then tasks, then goals.
func FromResult(result extract.Result) []*Candidate {
	candidates := make([]*Candidate, 0,
		len(result.Activities)+len(result.Tasks)+len(result.Goals))

	for _, seed := range result.Activities {
		candidates = append(candidates, &Candidate{
			ID:         newCandidateID(),
			Kind:       KindActivity,
			Include:    true,
			Title:      seed.Title,
			Confidence: seed.Confidence,
			Activity: &ActivityFields{
				DurationMinutes: seed.DurationMinutes,
				Notes:           seed.Notes,
				EnergyHint:      seed.EnergyHint,
			},
		})
	}
	for _, seed := range result.Tasks {
		status := seed.Status
		if status == "" {
			status = record.TaskBacklog
		}
		candidates = append(candidates, &Candidate{
			ID:         newCandidateID(),
			Kind:       KindTask,
			Include:    true,
			Title:      seed.Title,
			Confidence: seed.Confidence,
			Task: &TaskFields{
				Description: seed.Description,
				Status:      status,
			},
		})
	}
	for _, seed := range result.Goals {
		candidates = append(candidates, &Candidate{
			ID:         newCandidateID(),
			Kind:       KindGoal,
			Include:    true,
			Title:      seed.Title,
			Confidence: seed.Confidence,
			Goal:       &GoalFields{Description: seed.Description},
		})
	}
	return candidates
}

// Retype returns a new candidate of the target kind carrying over the
// title, confidence, and free-text body (description or notes). Fields
// with no meaning in the target kind (duration, energy, status) are
// dropped rather than carried as stale baggage.
func (c *Candidate) Retype(target Kind) *Candidate {
	out := &Candidate{
		ID:         c.ID,
		Kind:       target,
		Include:    c.Include,
		Title:      c.Title,
		Confidence: c.Confidence,
	}

	body := c.body()
	switch target {
	case KindActivity:
		out.Activity = &ActivityFields{Notes: body}
	case KindTask:
		out.Task = &TaskFields{Description: body, Status: record.TaskBacklog}
	case KindGoal:
		out.Goal = &GoalFields{Description: body}
	}
	return out
}

// body returns the candidate's free-text field, whichever variant it
// lives in.
func (c *Candidate) body() *string {
	switch {
	case c.Activity != nil:
		return c.Activity.Notes
	case c.Task != nil:
		return c.Task.Description
	case c.Goal != nil:
		return c.Goal.Description
	default:
		return nil
	}
}
