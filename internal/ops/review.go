package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/db"
	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/review"
)

// reviewScanLimit bounds how many rows of each kind a report covers.
const reviewScanLimit = 500

// BuildReviewInput contains parameters for the BuildReview operation.
type BuildReviewInput struct {
	WindowDays int           // default: cfg.ReviewWindowDays
	Format     review.Format // default: markdown

	// Export also writes the report under the reports directory.
	Export     bool
	ReportsDir string // required when Export is set
}

// BuildReviewOutput contains the result of the BuildReview operation.
type BuildReviewOutput struct {
	Content string `json:"content"`
	Path    string `json:"path,omitempty"`
}

// BuildReview renders the periodic review over the configured window.
func BuildReview(ctx context.Context, database *sql.DB, cfg *config.Config, input BuildReviewInput) (*BuildReviewOutput, error) {
	days := input.WindowDays
	if days <= 0 {
		days = cfg.ReviewWindowDays
	}
	format := input.Format
	if format == "" {
		format = review.FormatMarkdown
	}
	if !review.ValidFormat(format) {
		return nil, errors.NewInvalidRequest("format must be one of: markdown, html")
	}
	if input.Export && input.ReportsDir == "" {
		return nil, errors.NewInvalidRequest("reports directory is required for export")
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	since := start.Unix()

	tasks, err := db.ListTasks(ctx, database, nil, &since, reviewScanLimit, 0)
	if err != nil {
		return nil, err
	}
	goals, err := db.ListGoals(ctx, database, true, reviewScanLimit, 0)
	if err != nil {
		return nil, err
	}
	activities, err := db.ListActivities(ctx, database, &since, reviewScanLimit, 0)
	if err != nil {
		return nil, err
	}
	entries, err := db.ListEntries(ctx, database, &since, reviewScanLimit, 0)
	if err != nil {
		return nil, err
	}

	data := review.Data{
		WindowStart: start,
		WindowEnd:   end,
		Tasks:       tasks,
		Goals:       goals,
		Activities:  activities,
		Entries:     entries,
	}

	content, err := review.Render(data, format)
	if err != nil {
		return nil, err
	}

	out := &BuildReviewOutput{Content: content}
	if input.Export {
		path, err := review.Export(input.ReportsDir, data, format)
		if err != nil {
			return nil, err
		}
		out.Path = path
	}
	return out, nil
}
