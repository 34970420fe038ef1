package extract

import (
	"strings"
	"testing"

	"github.com/tendhq/tend/internal/record"
)

func TestParseResultValid(t *testing.T) {
	raw := `{
		"activities": [{"title": "Gym session", "durationMinutes": 45, "energyHint": "high", "confidence": 0.9}],
		"tasks": [{"title": "Email Sarah", "description": "about the quarterly report", "status": "today"}],
		"goals": [{"title": "Run a 5k", "confidence": 0.7}]
	}`

	result, perr := ParseResult(raw)
	if perr != nil {
		t.Fatalf("ParseResult error: %v", perr)
	}

	if len(result.Activities) != 1 || len(result.Tasks) != 1 || len(result.Goals) != 1 {
		t.Fatalf("got %d/%d/%d items, want 1/1/1",
			len(result.Activities), len(result.Tasks), len(result.Goals))
	}

	act := result.Activities[0]
	if act.Title != "Gym session" {
		t.Errorf("activity title = %q", act.Title)
	}
	if act.DurationMinutes == nil || *act.DurationMinutes != 45 {
		t.Errorf("durationMinutes = %v, want 45", act.DurationMinutes)
	}
	if act.EnergyHint == nil || *act.EnergyHint != record.EnergyHigh {
		t.Errorf("energyHint = %v, want high", act.EnergyHint)
	}
	if act.Confidence == nil || *act.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", act.Confidence)
	}

	task := result.Tasks[0]
	if task.Status != "today" {
		t.Errorf("task status = %q, want today", task.Status)
	}
	if task.Description == nil || *task.Description != "about the quarterly report" {
		t.Errorf("task description = %v", task.Description)
	}
}

func TestParseResultStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"tasks\": [{\"title\": \"Call dentist\"}]}\n```"

	result, perr := ParseResult(raw)
	if perr != nil {
		t.Fatalf("ParseResult error: %v", perr)
	}
	if len(result.Tasks) != 1 || result.Tasks[0].Title != "Call dentist" {
		t.Fatalf("tasks = %+v", result.Tasks)
	}
}

func TestParseResultNonJSON(t *testing.T) {
	_, perr := ParseResult("Sure! Here are your tasks: call the dentist.")
	if perr == nil {
		t.Fatal("expected error for non-JSON reply")
	}
	if perr.Kind != KindNonJSON {
		t.Errorf("kind = %v, want KindNonJSON", perr.Kind)
	}
}

func TestParseResultTopLevelNotObject(t *testing.T) {
	_, perr := ParseResult(`["not", "an", "object"]`)
	if perr == nil {
		t.Fatal("expected error for array top level")
	}
	if perr.Kind != KindSchemaInvalid {
		t.Errorf("kind = %v, want KindSchemaInvalid", perr.Kind)
	}
}

func TestParseResultCollectsAllViolations(t *testing.T) {
	raw := `{
		"activities": [{"durationMinutes": -5}],
		"tasks": [{"title": "Valid", "status": "bogus"}],
		"goals": [{"title": "", "confidence": 2.5}]
	}`

	_, perr := ParseResult(raw)
	if perr == nil {
		t.Fatal("expected schema error")
	}
	if perr.Kind != KindSchemaInvalid {
		t.Fatalf("kind = %v, want KindSchemaInvalid", perr.Kind)
	}

	wantFragments := []string{
		"activities[0].title: required",
		"activities[0].durationMinutes",
		"tasks[0].status",
		"goals[0].title",
		"goals[0].confidence",
	}
	joined := strings.Join(perr.Violations, "\n")
	for _, frag := range wantFragments {
		if !strings.Contains(joined, frag) {
			t.Errorf("violations missing %q; got:\n%s", frag, joined)
		}
	}
}

func TestParseResultDefaults(t *testing.T) {
	result, perr := ParseResult(`{"tasks": [{"title": "No status given"}]}`)
	if perr != nil {
		t.Fatalf("ParseResult error: %v", perr)
	}
	if result.Tasks[0].Status != record.TaskBacklog {
		t.Errorf("status = %q, want backlog default", result.Tasks[0].Status)
	}
	if result.Activities == nil || result.Goals == nil {
		t.Error("missing categories should default to empty slices, not nil")
	}
	if len(result.Activities) != 0 || len(result.Goals) != 0 {
		t.Errorf("expected empty activities/goals, got %d/%d",
			len(result.Activities), len(result.Goals))
	}
}

func TestParseResultIgnoresUnknownFields(t *testing.T) {
	raw := `{"goals": [{"title": "Learn piano", "deadline": "2027-01-01", "priority": 3}]}`

	result, perr := ParseResult(raw)
	if perr != nil {
		t.Fatalf("ParseResult error: %v", perr)
	}
	if len(result.Goals) != 1 || result.Goals[0].Title != "Learn piano" {
		t.Fatalf("goals = %+v", result.Goals)
	}
}

func TestParseResultTruncatesLongFields(t *testing.T) {
	longTitle := strings.Repeat("t", 300)
	longDesc := strings.Repeat("d", 900)
	raw := `{"tasks": [{"title": "` + longTitle + `", "description": "` + longDesc + `"}]}`

	result, perr := ParseResult(raw)
	if perr != nil {
		t.Fatalf("ParseResult error: %v", perr)
	}
	if got := len(result.Tasks[0].Title); got != MaxTitleLen {
		t.Errorf("title length = %d, want %d", got, MaxTitleLen)
	}
	if got := len(*result.Tasks[0].Description); got != MaxDescriptionLen {
		t.Errorf("description length = %d, want %d", got, MaxDescriptionLen)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{}\n```  ", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
