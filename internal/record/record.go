// Package record defines the persisted domain types for Tend: tasks,
// goals, activities, life areas, journal entries, and memory vectors.
package record

// Task statuses. Backlog is the default for newly extracted tasks.
const (
	TaskBacklog    = "backlog"
	TaskScheduled  = "scheduled"
	TaskToday      = "today"
	TaskInProgress = "inprogress"
	TaskBlocked    = "blocked"
	TaskDone       = "done"
)

// Activity energy hints.
const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

// TaskStatuses lists every valid task status.
var TaskStatuses = []string{
	TaskBacklog, TaskScheduled, TaskToday, TaskInProgress, TaskBlocked, TaskDone,
}

// EnergyHints lists every valid energy hint.
var EnergyHints = []string{EnergyLow, EnergyMedium, EnergyHigh}

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	for _, v := range TaskStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ValidEnergyHint reports whether s is a known energy hint.
func ValidEnergyHint(s string) bool {
	for _, v := range EnergyHints {
		if s == v {
			return true
		}
	}
	return false
}

// Task is a persisted actionable item.
type Task struct {
	// ID is a ULID that uniquely identifies this task
	ID string

	// Title is the short actionable statement
	Title string

	// Description holds optional longer detail
	Description *string

	// Status is one of the TaskStatuses values
	Status string

	// AreaID optionally links the task to a life area
	AreaID *string

	// EntryID is the journal entry this task was extracted from, if any
	EntryID *string

	// CreatedAt is the Unix timestamp when the task was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp when the task was last updated
	UpdatedAt int64
}

// Goal is a persisted aspiration with an optional life area.
type Goal struct {
	ID          string
	Title       string
	Description *string
	AreaID      *string
	EntryID     *string

	// Active marks goals that still appear in reviews
	Active bool

	CreatedAt int64
	UpdatedAt int64
}

// Activity is a persisted log of something the user did.
type Activity struct {
	ID    string
	Title string

	// DurationMinutes is the parsed or user-supplied duration, if known
	DurationMinutes *int

	// Notes holds free-text detail about the activity
	Notes *string

	// Energy is one of the EnergyHints values, if set
	Energy *string

	AreaID  *string
	EntryID *string

	// OccurredAt is when the activity happened (defaults to creation time)
	OccurredAt int64

	CreatedAt int64
	UpdatedAt int64
}

// LifeArea is a user-defined category of life (health, career, ...).
// Names are unique by normalized form.
type LifeArea struct {
	ID        string
	NameRaw   string
	NameNorm  string
	CreatedAt int64
}

// JournalEntry is a free-text note; extraction runs reference its ID.
type JournalEntry struct {
	ID   string
	Text string

	// Mood is an optional one-word self-report
	Mood *string

	CreatedAt int64
}

// MemoryVector pairs a text snippet with its embedding.
// Immutable after creation.
type MemoryVector struct {
	ID   string
	Text string

	// Vector is the embedding; length is fixed per embedding model
	Vector []float64

	// Meta is an open key-value map (source, entry id, ...)
	Meta map[string]string

	CreatedAt int64
}
