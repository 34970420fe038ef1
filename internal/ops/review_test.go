package ops

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/record"
	"github.com/tendhq/tend/internal/review"
)

func testConfig() *config.Config {
	return config.DefaultConfig()
}

func TestBuildReviewMarkdown(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	if _, err := StoreTask(ctx, database, StoreTaskInput{Title: "Email Sarah", Status: record.TaskToday}); err != nil {
		t.Fatal(err)
	}
	if _, err := StoreGoal(ctx, database, StoreGoalInput{Title: "Run a 5k"}); err != nil {
		t.Fatal(err)
	}
	if _, err := LogActivity(ctx, database, LogActivityInput{Title: "Gym", DurationMinutes: intPtr(45)}); err != nil {
		t.Fatal(err)
	}

	out, err := BuildReview(ctx, database, testConfig(), BuildReviewInput{})
	if err != nil {
		t.Fatalf("BuildReview: %v", err)
	}
	for _, want := range []string{"## Tasks", "Email Sarah", "Run a 5k", "45 minutes tracked"} {
		if !strings.Contains(out.Content, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if out.Path != "" {
		t.Error("Path set without Export")
	}
}

func TestBuildReviewExportHTML(t *testing.T) {
	database := setupDB(t)
	dir := filepath.Join(t.TempDir(), "reports")

	out, err := BuildReview(context.Background(), database, testConfig(), BuildReviewInput{
		Format:     review.FormatHTML,
		Export:     true,
		ReportsDir: dir,
	})
	if err != nil {
		t.Fatalf("BuildReview: %v", err)
	}
	if !strings.HasSuffix(out.Path, ".html") {
		t.Errorf("path = %s, want .html report", out.Path)
	}
	if !strings.Contains(out.Content, "<!DOCTYPE html>") {
		t.Error("content is not HTML")
	}
}

func TestBuildReviewValidation(t *testing.T) {
	database := setupDB(t)
	ctx := context.Background()

	_, err := BuildReview(ctx, database, testConfig(), BuildReviewInput{Format: "pdf"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("bad format err = %v, want ErrInvalidRequest", err)
	}

	_, err = BuildReview(ctx, database, testConfig(), BuildReviewInput{Export: true})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("export without dir err = %v, want ErrInvalidRequest", err)
	}
}
