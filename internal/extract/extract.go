// Package extract turns free-text journal notes into structured candidate
// seeds for activities, tasks, and goals. The remote model path and the
// deterministic heuristic path both produce the same Result shape.
package extract

import (
	"fmt"
	"strings"
)

// DefaultMaxItems caps each category list when the caller passes no limit.
const DefaultMaxItems = 12

// Title and description truncation bounds, shared by both extraction paths.
const (
	MaxTitleLen       = 120
	MaxDescriptionLen = 500
)

// ActivitySeed is a proposed activity record.
type ActivitySeed struct {
	Title           string   `json:"title"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
	EnergyHint      *string  `json:"energyHint,omitempty"`
	Confidence      *float64 `json:"confidence,omitempty"`
}

// TaskSeed is a proposed task record.
type TaskSeed struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Status      string   `json:"status"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// GoalSeed is a proposed goal record.
type GoalSeed struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// Result is the normalized extraction output. Both the remote model path
// and the heuristic path produce this shape.
type Result struct {
	Activities []ActivitySeed `json:"activities"`
	Tasks      []TaskSeed     `json:"tasks"`
	Goals      []GoalSeed     `json:"goals"`
}

// Empty reports whether all three category lists are empty.
func (r Result) Empty() bool {
	return len(r.Activities) == 0 && len(r.Tasks) == 0 && len(r.Goals) == 0
}

// Context carries known user vocabulary to bias the model toward
// existing names. Every field is optional.
type Context struct {
	AreaNames      []string `json:"areaNames,omitempty"`
	GoalTitles     []string `json:"goalTitles,omitempty"`
	TaskTitles     []string `json:"taskTitles,omitempty"`
	ActivityTitles []string `json:"activityTitles,omitempty"`
}

// ErrorKind classifies an extraction failure.
type ErrorKind string

const (
	// KindTransport covers network errors, timeouts, and non-2xx API replies.
	KindTransport ErrorKind = "transport"
	// KindNonJSON means the model reply was not parseable JSON.
	KindNonJSON ErrorKind = "non_json"
	// KindSchemaInvalid means the parsed reply failed schema validation.
	KindSchemaInvalid ErrorKind = "schema_invalid"
)

// Error is an expected extraction failure. It is a value, not a panic:
// the pipeline absorbs every Error by falling back to the heuristic.
type Error struct {
	Kind ErrorKind

	// Violations lists field-level problems for KindSchemaInvalid.
	Violations []string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case len(e.Violations) > 0:
		return fmt.Sprintf("extraction %s: %s", e.Kind, strings.Join(e.Violations, "; "))
	case e.Err != nil:
		return fmt.Sprintf("extraction %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("extraction %s", e.Kind)
	}
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}
