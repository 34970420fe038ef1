package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tendhq/tend/internal/record"
)

// ParseResult decodes raw model output into a Result. A JSON parse failure
// yields KindNonJSON; a structurally valid JSON document that does not
// match the Result schema yields KindSchemaInvalid with the full list of
// field-level violations.
func ParseResult(raw string) (Result, *Error) {
	raw = stripFences(raw)

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Result{}, &Error{Kind: KindNonJSON, Err: err}
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return Result{}, &Error{
			Kind:       KindSchemaInvalid,
			Violations: []string{"top level: expected object"},
		}
	}

	v := &validator{}
	result := Result{
		Activities: v.activities(obj["activities"]),
		Tasks:      v.tasks(obj["tasks"]),
		Goals:      v.goals(obj["goals"]),
	}

	if len(v.violations) > 0 {
		return Result{}, &Error{Kind: KindSchemaInvalid, Violations: v.violations}
	}
	return result, nil
}

// stripFences removes an optional Markdown code-fence wrapper
// (```json ... ```) from model output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// validator accumulates field-level schema violations while converting
// loosely-typed JSON into seed structs.
type validator struct {
	violations []string
}

func (v *validator) addf(format string, args ...any) {
	v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

// items coerces a category value into a slice of objects. A missing
// category defaults to empty; anything else non-array is a violation.
func (v *validator) items(field string, value any) []map[string]any {
	if value == nil {
		return nil
	}
	arr, ok := value.([]any)
	if !ok {
		v.addf("%s: expected array", field)
		return nil
	}
	out := make([]map[string]any, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			v.addf("%s[%d]: expected object", field, i)
			continue
		}
		out = append(out, obj)
	}
	return out
}

func (v *validator) activities(value any) []ActivitySeed {
	seeds := []ActivitySeed{}
	for i, obj := range v.items("activities", value) {
		path := fmt.Sprintf("activities[%d]", i)
		seed := ActivitySeed{
			Title:      v.title(path, obj),
			Confidence: v.confidence(path, obj),
		}
		if raw, present := obj["durationMinutes"]; present && raw != nil {
			n, ok := raw.(float64)
			if !ok || n != float64(int(n)) || n < 0 {
				v.addf("%s.durationMinutes: expected non-negative integer", path)
			} else {
				minutes := int(n)
				seed.DurationMinutes = &minutes
			}
		}
		if notes := v.optionalString(path, "notes", obj); notes != nil {
			trimmed := record.Truncate(*notes, MaxDescriptionLen)
			seed.Notes = &trimmed
		}
		if hint := v.optionalString(path, "energyHint", obj); hint != nil {
			if !record.ValidEnergyHint(*hint) {
				v.addf("%s.energyHint: %q not in {low, medium, high}", path, *hint)
			} else {
				seed.EnergyHint = hint
			}
		}
		seeds = append(seeds, seed)
	}
	return seeds
}

func (v *validator) tasks(value any) []TaskSeed {
	seeds := []TaskSeed{}
	for i, obj := range v.items("tasks", value) {
		path := fmt.Sprintf("tasks[%d]", i)
		seed := TaskSeed{
			Title:       v.title(path, obj),
			Description: v.description(path, obj),
			Status:      record.TaskBacklog,
			Confidence:  v.confidence(path, obj),
		}
		if status := v.optionalString(path, "status", obj); status != nil {
			if !record.ValidTaskStatus(*status) {
				v.addf("%s.status: %q not a valid task status", path, *status)
			} else {
				seed.Status = *status
			}
		}
		seeds = append(seeds, seed)
	}
	return seeds
}

func (v *validator) goals(value any) []GoalSeed {
	seeds := []GoalSeed{}
	for i, obj := range v.items("goals", value) {
		path := fmt.Sprintf("goals[%d]", i)
		seeds = append(seeds, GoalSeed{
			Title:       v.title(path, obj),
			Description: v.description(path, obj),
			Confidence:  v.confidence(path, obj),
		})
	}
	return seeds
}

// title enforces the one required field: a non-empty string, truncated to
// the shared title bound.
func (v *validator) title(path string, obj map[string]any) string {
	raw, present := obj["title"]
	if !present {
		v.addf("%s.title: required", path)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		v.addf("%s.title: expected string", path)
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		v.addf("%s.title: must not be empty", path)
		return ""
	}
	return record.Truncate(s, MaxTitleLen)
}

func (v *validator) description(path string, obj map[string]any) *string {
	s := v.optionalString(path, "description", obj)
	if s == nil {
		return nil
	}
	trimmed := record.Truncate(*s, MaxDescriptionLen)
	return &trimmed
}

func (v *validator) confidence(path string, obj map[string]any) *float64 {
	raw, present := obj["confidence"]
	if !present || raw == nil {
		return nil
	}
	n, ok := raw.(float64)
	if !ok || n < 0 || n > 1 {
		v.addf("%s.confidence: expected number in [0, 1]", path)
		return nil
	}
	return &n
}

func (v *validator) optionalString(path, field string, obj map[string]any) *string {
	raw, present := obj[field]
	if !present || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		v.addf("%s.%s: expected string", path, field)
		return nil
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
