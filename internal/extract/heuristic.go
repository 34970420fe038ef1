package extract

import (
	"regexp"
	"strings"

	"github.com/tendhq/tend/internal/record"
)

// sentenceSplit breaks a note on sentence-terminal punctuation or newlines.
var sentenceSplit = regexp.MustCompile(`[.!?\n]+`)

// durationRegex captures "<number> <unit>" durations. Longer unit spellings
// come first so the alternation does not stop at a prefix.
var durationRegex = regexp.MustCompile(`(?i)(\d+)\s*(minutes|mins|min|hours|hrs|hour|hr)\b`)

// activityTerms is a fixed vocabulary of physical/work action cues.
// Deliberately non-exhaustive: the heuristic is a good-enough fallback,
// not a precision classifier.
var activityTerms = []string{
	"went", "go for a", "going for a", "gym", "workout", "work out",
	"worked out", "trained", "training", "walked", "walk", "yoga",
	"swam", "swim", "jogged", "jog", "hiked", "hike", "cycling",
	"biked", "lifted", "played", "practiced", "exercis", "stretch",
	"meditat", "climbed",
}

// exerciseTerms mark a sentence as high-energy.
var exerciseTerms = []string{
	"gym", "run", "ran", "workout", "work out", "worked out", "train",
	"sprint", "lift", "swim", "swam", "cardio", "hiit", "exercis",
	"yoga", "hike", "cycling", "jog", "climb",
}

// taskCues signal an imperative or obligation.
var taskCues = []string{
	"need to", "needs to", "should", "have to", "has to", "must ",
	"todo", "to-do", "remind me", "don't forget", "dont forget",
	"schedule", "email", "call ", "follow up", "submit", "book ",
	"pay ", "buy ", "pick up", "finish", "deadline",
}

// goalCues signal an aspiration.
var goalCues = []string{
	"i want to", "i'd like to", "i would like to", "aim to", "aiming to",
	"my goal", "hope to", "hoping to", "dream of", "over the next",
	"by the end of", "long term", "long-term", "work towards",
	"working towards",
}

// Heuristic classifies a free-text note into activity/task/goal seeds
// using keyword and pattern matching. It is pure and deterministic: no
// network, no storage, and no failure mode on well-formed string input.
// An empty note yields all-empty lists.
func Heuristic(note string, maxItems int) Result {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}

	result := Result{
		Activities: []ActivitySeed{},
		Tasks:      []TaskSeed{},
		Goals:      []GoalSeed{},
	}

	seenActivities := map[string]bool{}
	seenTasks := map[string]bool{}
	seenGoals := map[string]bool{}

	for _, raw := range sentenceSplit.Split(note, -1) {
		sentence := strings.TrimSpace(raw)
		if sentence == "" {
			continue
		}
		lower := strings.ToLower(sentence)
		title := record.Truncate(sentence, MaxTitleLen)
		description := descriptionFor(sentence)
		key := record.TitleKey(title)
		if key == "" {
			continue
		}

		// A sentence may land in more than one category: the same
		// statement can be actionable in more than one way.
		if containsAny(lower, activityTerms) && !seenActivities[key] {
			seenActivities[key] = true
			seed := ActivitySeed{Title: title}
			if minutes, ok := parseDuration(lower); ok {
				seed.DurationMinutes = &minutes
			}
			if containsAny(lower, exerciseTerms) {
				high := record.EnergyHigh
				seed.EnergyHint = &high
			}
			result.Activities = append(result.Activities, seed)
		}

		if containsAny(lower, taskCues) && !seenTasks[key] {
			seenTasks[key] = true
			result.Tasks = append(result.Tasks, TaskSeed{
				Title:       title,
				Description: description,
				Status:      record.TaskBacklog,
			})
		}

		if containsAny(lower, goalCues) && !seenGoals[key] {
			seenGoals[key] = true
			result.Goals = append(result.Goals, GoalSeed{
				Title:       title,
				Description: description,
			})
		}
	}

	if len(result.Activities) > maxItems {
		result.Activities = result.Activities[:maxItems]
	}
	if len(result.Tasks) > maxItems {
		result.Tasks = result.Tasks[:maxItems]
	}
	if len(result.Goals) > maxItems {
		result.Goals = result.Goals[:maxItems]
	}

	return result
}

// descriptionFor keeps the full sentence as a description when the title
// had to be truncated.
func descriptionFor(sentence string) *string {
	if len([]rune(sentence)) <= MaxTitleLen {
		return nil
	}
	d := record.Truncate(sentence, MaxDescriptionLen)
	return &d
}

// parseDuration extracts a duration in minutes, converting hour units.
func parseDuration(lower string) (int, bool) {
	m := durationRegex.FindStringSubmatch(lower)
	if m == nil {
		return 0, false
	}
	n := 0
	for _, r := range m[1] {
		n = n*10 + int(r-'0')
	}
	if strings.HasPrefix(m[2], "h") {
		n *= 60
	}
	return n, true
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
