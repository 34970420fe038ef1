package extract

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/tendhq/tend/internal/record"
)

func TestHeuristic_EmptyNote(t *testing.T) {
	result := Heuristic("", 12)

	if !result.Empty() {
		t.Errorf("empty note should yield empty result, got %+v", result)
	}
	// Lists must be non-nil so the result serializes as [] not null
	if result.Activities == nil || result.Tasks == nil || result.Goals == nil {
		t.Error("category lists should be initialized, not nil")
	}
}

func TestHeuristic_WhitespaceAndPunctuationOnly(t *testing.T) {
	for _, note := range []string{"   ", "\n\n\n", "...!!!", ". . ."} {
		result := Heuristic(note, 12)
		if !result.Empty() {
			t.Errorf("Heuristic(%q) should be empty, got %+v", note, result)
		}
	}
}

func TestHeuristic_Deterministic(t *testing.T) {
	note := "Went to the gym for 45 mins. Need to email Sarah about the contract. I want to run a 5k by June."

	first := Heuristic(note, 12)
	for i := 0; i < 5; i++ {
		again := Heuristic(note, 12)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differed:\nfirst = %+v\nagain = %+v", i, first, again)
		}
	}
}

func TestHeuristic_DedupByNormalizedTitle(t *testing.T) {
	result := Heuristic("Went for a run. went for a RUN!", 12)

	if len(result.Activities) != 1 {
		t.Fatalf("len(Activities) = %d, want 1 (case/punctuation-insensitive dedup)", len(result.Activities))
	}
	// First occurrence wins
	if result.Activities[0].Title != "Went for a run" {
		t.Errorf("Title = %q, want first occurrence", result.Activities[0].Title)
	}
}

func TestHeuristic_DurationParsing(t *testing.T) {
	tests := []struct {
		note string
		want int
	}{
		{"Worked out for 90 minutes", 90},
		{"trained for 2 hours", 120},
		{"Went for a walk for 30 min", 30},
		{"did yoga for 1 hr", 60},
		{"swam 45 mins at the pool", 45},
	}

	for _, tt := range tests {
		t.Run(tt.note, func(t *testing.T) {
			result := Heuristic(tt.note, 12)
			if len(result.Activities) != 1 {
				t.Fatalf("len(Activities) = %d, want 1", len(result.Activities))
			}
			got := result.Activities[0].DurationMinutes
			if got == nil {
				t.Fatal("DurationMinutes = nil, want value")
			}
			if *got != tt.want {
				t.Errorf("DurationMinutes = %d, want %d", *got, tt.want)
			}
		})
	}
}

func TestHeuristic_NoDuration(t *testing.T) {
	result := Heuristic("Went for a walk", 12)
	if len(result.Activities) != 1 {
		t.Fatalf("len(Activities) = %d, want 1", len(result.Activities))
	}
	if result.Activities[0].DurationMinutes != nil {
		t.Errorf("DurationMinutes = %v, want nil", *result.Activities[0].DurationMinutes)
	}
}

func TestHeuristic_EnergyHint(t *testing.T) {
	result := Heuristic("Went to the gym for 45 mins", 12)
	if len(result.Activities) != 1 {
		t.Fatalf("len(Activities) = %d, want 1", len(result.Activities))
	}
	hint := result.Activities[0].EnergyHint
	if hint == nil || *hint != record.EnergyHigh {
		t.Errorf("EnergyHint = %v, want high for exercise terms", hint)
	}

	// Non-exercise activity gets no hint
	result = Heuristic("Went to the library", 12)
	if len(result.Activities) != 1 {
		t.Fatalf("len(Activities) = %d, want 1", len(result.Activities))
	}
	if result.Activities[0].EnergyHint != nil {
		t.Errorf("EnergyHint = %q, want nil for non-exercise", *result.Activities[0].EnergyHint)
	}
}

func TestHeuristic_MultiCategoryMembership(t *testing.T) {
	result := Heuristic("I need to go for a run tomorrow", 12)

	if len(result.Activities) != 1 {
		t.Errorf("len(Activities) = %d, want 1 (run)", len(result.Activities))
	}
	if len(result.Tasks) != 1 {
		t.Errorf("len(Tasks) = %d, want 1 (need-to cue)", len(result.Tasks))
	}
	if len(result.Goals) != 0 {
		t.Errorf("len(Goals) = %d, want 0", len(result.Goals))
	}
}

func TestHeuristic_TaskDefaults(t *testing.T) {
	result := Heuristic("Need to email Sarah about the contract", 12)

	if len(result.Tasks) != 1 {
		t.Fatalf("len(Tasks) = %d, want 1", len(result.Tasks))
	}
	task := result.Tasks[0]
	if task.Status != record.TaskBacklog {
		t.Errorf("Status = %q, want backlog default", task.Status)
	}
	if task.Description != nil {
		t.Errorf("Description = %v, want nil for short sentence", *task.Description)
	}
}

func TestHeuristic_LongSentenceTruncation(t *testing.T) {
	long := "Need to " + strings.Repeat("review the quarterly budget spreadsheet ", 20)
	result := Heuristic(long, 12)

	if len(result.Tasks) != 1 {
		t.Fatalf("len(Tasks) = %d, want 1", len(result.Tasks))
	}
	task := result.Tasks[0]
	if got := len([]rune(task.Title)); got != MaxTitleLen {
		t.Errorf("len(Title) = %d, want %d", got, MaxTitleLen)
	}
	if task.Description == nil {
		t.Fatal("Description = nil, want truncated full sentence")
	}
	if got := len([]rune(*task.Description)); got > MaxDescriptionLen {
		t.Errorf("len(Description) = %d, want <= %d", got, MaxDescriptionLen)
	}
}

func TestHeuristic_MaxItemsTruncation(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "Need to finish report number %d. ", i)
	}

	result := Heuristic(b.String(), 12)

	if len(result.Tasks) != 12 {
		t.Fatalf("len(Tasks) = %d, want exactly 12", len(result.Tasks))
	}
	// First-seen order preserved
	for i, task := range result.Tasks {
		want := fmt.Sprintf("number %d", i)
		if !strings.Contains(task.Title, want) {
			t.Errorf("Tasks[%d].Title = %q, want to contain %q", i, task.Title, want)
		}
	}
}

func TestHeuristic_GoalCues(t *testing.T) {
	tests := []string{
		"I want to run a 5k by June",
		"My goal is to read more books",
		"Aim to save three months of expenses over the next year",
	}
	for _, note := range tests {
		t.Run(note, func(t *testing.T) {
			result := Heuristic(note, 12)
			if len(result.Goals) != 1 {
				t.Errorf("len(Goals) = %d, want 1 for %q", len(result.Goals), note)
			}
		})
	}
}

func TestHeuristic_EndToEndScenario(t *testing.T) {
	note := "Went to the gym for 45 mins. Need to email Sarah about the contract. I want to run a 5k by June."
	result := Heuristic(note, 12)

	if len(result.Activities) != 1 {
		t.Fatalf("len(Activities) = %d, want 1", len(result.Activities))
	}
	activity := result.Activities[0]
	if !strings.Contains(strings.ToLower(activity.Title), "gym") {
		t.Errorf("activity Title = %q, want to contain gym", activity.Title)
	}
	if activity.DurationMinutes == nil || *activity.DurationMinutes != 45 {
		t.Errorf("DurationMinutes = %v, want 45", activity.DurationMinutes)
	}
	if activity.EnergyHint == nil || *activity.EnergyHint != record.EnergyHigh {
		t.Errorf("EnergyHint = %v, want high", activity.EnergyHint)
	}

	if len(result.Tasks) != 1 {
		t.Fatalf("len(Tasks) = %d, want 1", len(result.Tasks))
	}
	if !strings.Contains(result.Tasks[0].Title, "email Sarah") {
		t.Errorf("task Title = %q, want to contain %q", result.Tasks[0].Title, "email Sarah")
	}

	if len(result.Goals) != 1 {
		t.Fatalf("len(Goals) = %d, want 1", len(result.Goals))
	}
	if !strings.Contains(result.Goals[0].Title, "run a 5k") {
		t.Errorf("goal Title = %q, want to contain %q", result.Goals[0].Title, "run a 5k")
	}
}
