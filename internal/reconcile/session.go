package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/tendhq/tend/internal/extract"
)

// State names the workflow steps. The cancelled exit is reachable from
// every state.
type State string

const (
	StateWrite         State = "write"
	StateClassify      State = "classify"
	StateAddActivities State = "addActivities"
	StateAddTasks      State = "addTasks"
	StateAddGoals      State = "addGoals"
	StateDone          State = "done"
	StateCancelled     State = "cancelled"
)

// Advisory errors: the session stays in (or returns to) write, and the
// caller should show the message rather than an empty review screen.
var (
	ErrNothingExtracted = errors.New("nothing could be extracted from the note; try rephrasing")
	ErrNothingIncluded  = errors.New("no candidates were included; nothing to review")
)

// queuePriority is the fixed processing order between kinds.
var queuePriority = []Kind{KindActivity, KindTask, KindGoal}

// Committer persists one adjudicated candidate as its native record kind
// and returns the new record's ID. The session never assumes
// transactionality across commits.
type Committer interface {
	CommitActivity(ctx context.Context, c *Candidate, entryID *string) (string, error)
	CommitTask(ctx context.Context, c *Candidate, entryID *string) (string, error)
	CommitGoal(ctx context.Context, c *Candidate, entryID *string) (string, error)
}

// Session is one single-user reconciliation run: extraction output in,
// zero or more committed records out. Not safe for concurrent use; each
// session belongs to exactly one user interaction.
type Session struct {
	state     State
	committer Committer
	entryID   *string

	candidates []*Candidate

	queues map[Kind][]*Candidate
	index  map[Kind]int

	committed []string
}

// NewSession starts a session in the write state. entryID, when present,
// is carried onto every committed record as the originating journal
// entry; the session itself never deduplicates across runs.
func NewSession(committer Committer, entryID *string) *Session {
	return &Session{
		state:     StateWrite,
		committer: committer,
		entryID:   entryID,
		queues:    map[Kind][]*Candidate{},
		index:     map[Kind]int{},
	}
}

// State returns the current workflow state.
func (s *Session) State() State { return s.state }

// Candidates returns the editable candidate list. Valid in classify;
// callers mutate the candidates in place (title, kind via Retype and
// Replace, include flag) before calling Continue.
func (s *Session) Candidates() []*Candidate { return s.candidates }

// CommittedIDs lists the record IDs persisted so far, in commit order.
func (s *Session) CommittedIDs() []string { return s.committed }

// Submit feeds extraction output into the session and advances to
// classify. An all-empty result keeps the session in write and returns
// ErrNothingExtracted.
func (s *Session) Submit(result extract.Result) error {
	if err := s.require(StateWrite); err != nil {
		return err
	}
	if result.Empty() {
		return ErrNothingExtracted
	}
	s.candidates = FromResult(result)
	s.state = StateClassify
	return nil
}

// Replace swaps a candidate after a kind change made with Retype. Valid
// in classify and in the add states (re-typing the current queue item is
// handled by RetypeCurrent instead).
func (s *Session) Replace(updated *Candidate) error {
	for i, c := range s.candidates {
		if c.ID == updated.ID {
			s.candidates[i] = updated
			return nil
		}
	}
	return fmt.Errorf("no candidate with id %s", updated.ID)
}

// Continue partitions the included candidates into per-kind queues and
// advances to the first non-empty add state. If nothing is included the
// session returns to write with ErrNothingIncluded.
func (s *Session) Continue() error {
	if err := s.require(StateClassify); err != nil {
		return err
	}

	s.queues = map[Kind][]*Candidate{}
	s.index = map[Kind]int{}
	for _, c := range s.candidates {
		if c.Include {
			s.queues[c.Kind] = append(s.queues[c.Kind], c)
		}
	}

	next := s.nextQueue()
	if next == "" {
		s.state = StateWrite
		return ErrNothingIncluded
	}
	s.state = addState(next)
	return nil
}

// Current returns the queue item under review. Valid in the add states.
func (s *Session) Current() (*Candidate, error) {
	kind, err := s.activeKind()
	if err != nil {
		return nil, err
	}
	return s.queues[kind][s.index[kind]], nil
}

// Commit persists the current item as its native kind and advances. On a
// persistence failure the index does not move: the same item stays
// active so the user can retry or skip.
func (s *Session) Commit(ctx context.Context) error {
	kind, err := s.activeKind()
	if err != nil {
		return err
	}
	c := s.queues[kind][s.index[kind]]

	var id string
	switch kind {
	case KindActivity:
		id, err = s.committer.CommitActivity(ctx, c, s.entryID)
	case KindTask:
		id, err = s.committer.CommitTask(ctx, c, s.entryID)
	case KindGoal:
		id, err = s.committer.CommitGoal(ctx, c, s.entryID)
	}
	if err != nil {
		return err
	}

	s.committed = append(s.committed, id)
	s.advance(kind)
	return nil
}

// Skip advances past the current item without persisting it.
func (s *Session) Skip() error {
	kind, err := s.activeKind()
	if err != nil {
		return err
	}
	s.advance(kind)
	return nil
}

// RetypeCurrent moves the current item to another kind's queue. The item
// is removed from the current queue and appended to the target's, so it
// comes up again when that queue is processed; the current index does
// not advance past the shrunk queue's bounds.
func (s *Session) RetypeCurrent(target Kind) error {
	kind, err := s.activeKind()
	if err != nil {
		return err
	}
	if target == kind {
		return nil
	}

	i := s.index[kind]
	c := s.queues[kind][i]
	s.queues[kind] = append(s.queues[kind][:i], s.queues[kind][i+1:]...)
	s.queues[target] = append(s.queues[target], c.Retype(target))

	if s.index[kind] >= len(s.queues[kind]) {
		s.transition()
	}
	return nil
}

// Cancel exits the session from any state. Already-committed records are
// kept; the remaining candidates are discarded.
func (s *Session) Cancel() {
	s.state = StateCancelled
	s.candidates = nil
	s.queues = map[Kind][]*Candidate{}
}

// advance moves past the current item and transitions when the queue is
// exhausted.
func (s *Session) advance(kind Kind) {
	s.index[kind]++
	if s.index[kind] >= len(s.queues[kind]) {
		s.transition()
	}
}

// transition moves to the first kind with unprocessed items, in fixed
// priority order, or to done when none remain.
func (s *Session) transition() {
	next := s.nextQueue()
	if next == "" {
		s.state = StateDone
		return
	}
	s.state = addState(next)
}

// nextQueue returns the first kind with unprocessed items, or "".
func (s *Session) nextQueue() Kind {
	for _, kind := range queuePriority {
		if s.index[kind] < len(s.queues[kind]) {
			return kind
		}
	}
	return ""
}

// activeKind maps the current add state to its queue kind.
func (s *Session) activeKind() (Kind, error) {
	switch s.state {
	case StateAddActivities:
		return KindActivity, nil
	case StateAddTasks:
		return KindTask, nil
	case StateAddGoals:
		return KindGoal, nil
	default:
		return "", fmt.Errorf("not reviewing a queue in state %q", s.state)
	}
}

func (s *Session) require(want State) error {
	if s.state != want {
		return fmt.Errorf("operation requires state %q, session is in %q", want, s.state)
	}
	return nil
}

func addState(kind Kind) State {
	switch kind {
	case KindActivity:
		return StateAddActivities
	case KindTask:
		return StateAddTasks
	default:
		return StateAddGoals
	}
}
