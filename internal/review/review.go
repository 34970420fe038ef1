// Package review builds the periodic review report: a Markdown summary of
// tasks, goals, activities, and journal entries over a time window, with
// optional HTML rendering for export.
package review

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/record"
)

// Format selects the report output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ValidFormat reports whether f is a supported report format.
func ValidFormat(f Format) bool {
	return f == FormatMarkdown || f == FormatHTML
}

// Data is everything the report covers, already filtered to the window.
type Data struct {
	WindowStart time.Time
	WindowEnd   time.Time

	Tasks      []record.Task
	Goals      []record.Goal
	Activities []record.Activity
	Entries    []record.JournalEntry
}

// Markdown renders the review as a Markdown document. Deterministic for
// the same input; sections with no data say so instead of disappearing.
func Markdown(d Data) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Review: %s to %s\n\n",
		d.WindowStart.Format("2006-01-02"), d.WindowEnd.Format("2006-01-02"))

	writeTaskSection(&b, d.Tasks)
	writeGoalSection(&b, d.Goals)
	writeActivitySection(&b, d.Activities)
	writeJournalSection(&b, d.Entries)

	return b.String()
}

func writeTaskSection(b *strings.Builder, tasks []record.Task) {
	b.WriteString("## Tasks\n\n")
	if len(tasks) == 0 {
		b.WriteString("No tasks in this window.\n\n")
		return
	}

	done := 0
	byStatus := map[string]int{}
	for _, t := range tasks {
		byStatus[t.Status]++
		if t.Status == record.TaskDone {
			done++
		}
	}
	fmt.Fprintf(b, "%d tasks, %d completed.\n\n", len(tasks), done)

	b.WriteString("| Status | Count |\n|---|---|\n")
	for _, status := range record.TaskStatuses {
		if n := byStatus[status]; n > 0 {
			fmt.Fprintf(b, "| %s | %d |\n", status, n)
		}
	}
	b.WriteString("\n")

	for _, t := range tasks {
		if t.Status == record.TaskDone {
			fmt.Fprintf(b, "- [x] %s\n", t.Title)
		} else {
			fmt.Fprintf(b, "- [ ] %s (%s)\n", t.Title, t.Status)
		}
	}
	b.WriteString("\n")
}

func writeGoalSection(b *strings.Builder, goals []record.Goal) {
	b.WriteString("## Goals\n\n")
	if len(goals) == 0 {
		b.WriteString("No goals tracked.\n\n")
		return
	}
	for _, g := range goals {
		marker := " "
		if !g.Active {
			marker = "x"
		}
		if g.Description != nil {
			fmt.Fprintf(b, "- [%s] **%s** — %s\n", marker, g.Title, *g.Description)
		} else {
			fmt.Fprintf(b, "- [%s] **%s**\n", marker, g.Title)
		}
	}
	b.WriteString("\n")
}

func writeActivitySection(b *strings.Builder, activities []record.Activity) {
	b.WriteString("## Activities\n\n")
	if len(activities) == 0 {
		b.WriteString("No activities logged.\n\n")
		return
	}

	total := 0
	for _, a := range activities {
		if a.DurationMinutes != nil {
			total += *a.DurationMinutes
		}
	}
	fmt.Fprintf(b, "%d activities logged, %d minutes tracked.\n\n", len(activities), total)

	for _, a := range activities {
		line := "- " + a.Title
		if a.DurationMinutes != nil {
			line += fmt.Sprintf(" (%d min)", *a.DurationMinutes)
		}
		if a.Energy != nil {
			line += fmt.Sprintf(" [energy: %s]", *a.Energy)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}

func writeJournalSection(b *strings.Builder, entries []record.JournalEntry) {
	b.WriteString("## Journal\n\n")
	if len(entries) == 0 {
		b.WriteString("No journal entries.\n\n")
		return
	}
	fmt.Fprintf(b, "%d entries.\n\n", len(entries))
	for _, e := range entries {
		day := time.Unix(e.CreatedAt, 0).UTC().Format("2006-01-02")
		fmt.Fprintf(b, "- **%s**: %s\n", day, excerpt(e.Text, 140))
	}
	b.WriteString("\n")
}

// excerpt trims an entry to one display line.
func excerpt(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

var renderer = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.TaskList))

// HTML renders the review as a standalone HTML page.
func HTML(d Data) (string, error) {
	var body bytes.Buffer
	if err := renderer.Convert([]byte(Markdown(d)), &body); err != nil {
		return "", errors.NewInternal(fmt.Errorf("rendering review report: %w", err))
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>Review %s</title>\n", d.WindowEnd.Format("2006-01-02"))
	page.WriteString("<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto;padding:0 1rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:0.25rem 0.5rem}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// Render produces the report in the requested format.
func Render(d Data, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return Markdown(d), nil
	case FormatHTML:
		return HTML(d)
	default:
		return "", errors.NewInvalidRequest(fmt.Sprintf("unknown report format %q", format))
	}
}
