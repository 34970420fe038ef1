package web

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/ops"
	"github.com/tendhq/tend/internal/ratelimit"
	"github.com/tendhq/tend/internal/review"
)

// maxBodyBytes bounds request bodies; journal notes are short.
const maxBodyBytes = 1 << 20

// Handlers contains HTTP route handlers for the Tend API.
type Handlers struct {
	deps ServerDeps

	extractLimiter *ratelimit.Limiter
	promptsLimiter *ratelimit.Limiter
}

// errorEnvelope is the JSON error body for non-2xx responses.
type errorEnvelope struct {
	Error   string           `json:"error"`
	Code    errors.ErrorCode `json:"code,omitempty"`
	Details map[string]any   `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if te, ok := errors.AsTendError(err); ok {
		writeJSON(w, te.Status, errorEnvelope{
			Error:   te.Message,
			Code:    te.Code,
			Details: te.Details,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{
		Error: "an internal error occurred",
		Code:  errors.ErrInternal,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewInvalidRequest("request body must be valid JSON")
	}
	return nil
}

// clientIP keys the rate limiters. Port is stripped from RemoteAddr; a
// reverse proxy's X-Forwarded-For is deliberately ignored since the API
// binds to localhost by default.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// HandleExtract handles POST /api/extract — classify a note into
// candidate seeds. Hard 429 on rate-limit exhaustion.
func (h *Handlers) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if !h.extractLimiter.Allow(clientIP(r), time.Now()) {
		retry := h.extractLimiter.RetryAfter(clientIP(r), time.Now())
		seconds := int(retry.Round(time.Second).Seconds())
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		writeError(w, errors.NewRateLimited(seconds))
		return
	}

	var body struct {
		Input     string  `json:"input"`
		SaveEntry bool    `json:"save_entry"`
		Mood      *string `json:"mood,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.ExtractNote(r.Context(), h.deps.DB, h.deps.Pipeline, ops.ExtractNoteInput{
		Note:      body.Input,
		SaveEntry: body.SaveEntry,
		Mood:      body.Mood,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateTask handles POST /api/tasks.
func (h *Handlers) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string  `json:"title"`
		Description *string `json:"description,omitempty"`
		Status      string  `json:"status,omitempty"`
		AreaID      *string `json:"area_id,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.StoreTask(r.Context(), h.deps.DB, ops.StoreTaskInput{
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		AreaID:      body.AreaID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleListTasks handles GET /api/tasks.
func (h *Handlers) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListTasks(r.Context(), h.deps.DB, ops.ListTasksInput{
		Status: ptrString(r.URL.Query().Get("status")),
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleUpdateTaskStatus handles PATCH /api/tasks/{id}/status.
func (h *Handlers) HandleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.UpdateTaskStatus(r.Context(), h.deps.DB, ops.UpdateTaskStatusInput{
		ID:     r.PathValue("id"),
		Status: body.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleDeleteTask handles DELETE /api/tasks/{id}.
func (h *Handlers) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := ops.DeleteTask(r.Context(), h.deps.DB, ops.DeleteTaskInput{ID: r.PathValue("id")}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCreateGoal handles POST /api/goals.
func (h *Handlers) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title       string  `json:"title"`
		Description *string `json:"description,omitempty"`
		AreaID      *string `json:"area_id,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.StoreGoal(r.Context(), h.deps.DB, ops.StoreGoalInput{
		Title:       body.Title,
		Description: body.Description,
		AreaID:      body.AreaID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleListGoals handles GET /api/goals.
func (h *Handlers) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListGoals(r.Context(), h.deps.DB, ops.ListGoalsInput{
		ActiveOnly: r.URL.Query().Get("active") != "false",
		Limit:      parseIntParam(r, "limit", 0),
		Offset:     parseIntParam(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateActivity handles POST /api/activities.
func (h *Handlers) HandleCreateActivity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title           string  `json:"title"`
		DurationMinutes *int    `json:"durationMinutes,omitempty"`
		Notes           *string `json:"notes,omitempty"`
		Energy          *string `json:"energy,omitempty"`
		AreaID          *string `json:"area_id,omitempty"`
		OccurredAt      *int64  `json:"occurred_at,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.LogActivity(r.Context(), h.deps.DB, ops.LogActivityInput{
		Title:           body.Title,
		DurationMinutes: body.DurationMinutes,
		Notes:           body.Notes,
		Energy:          body.Energy,
		AreaID:          body.AreaID,
		OccurredAt:      body.OccurredAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleListActivities handles GET /api/activities.
func (h *Handlers) HandleListActivities(w http.ResponseWriter, r *http.Request) {
	var since *int64
	if raw := r.URL.Query().Get("since"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			since = &n
		}
	}

	out, err := ops.ListActivities(r.Context(), h.deps.DB, ops.ListActivitiesInput{
		Since:  since,
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateArea handles POST /api/areas.
func (h *Handlers) HandleCreateArea(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.StoreArea(r.Context(), h.deps.DB, ops.StoreAreaInput{Name: body.Name})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleListAreas handles GET /api/areas.
func (h *Handlers) HandleListAreas(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListAreas(r.Context(), h.deps.DB)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateEntry handles POST /api/journal.
func (h *Handlers) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string  `json:"text"`
		Mood *string `json:"mood,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.AddEntry(r.Context(), h.deps.DB, ops.AddEntryInput{
		Text: body.Text,
		Mood: body.Mood,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleListEntries handles GET /api/journal.
func (h *Handlers) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	out, err := ops.ListEntries(r.Context(), h.deps.DB, ops.ListEntriesInput{
		Limit:  parseIntParam(r, "limit", 0),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleStoreMemory handles POST /api/memories.
func (h *Handlers) HandleStoreMemory(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text   string            `json:"text"`
		Vector []float64         `json:"vector,omitempty"`
		Meta   map[string]string `json:"meta,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.StoreMemory(r.Context(), h.deps.DB, h.deps.Embedder, ops.StoreMemoryInput{
		Text:   body.Text,
		Vector: body.Vector,
		Meta:   body.Meta,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

// HandleRecall handles POST /api/recall.
func (h *Handlers) HandleRecall(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query  string    `json:"query"`
		Vector []float64 `json:"vector,omitempty"`
		TopK   int       `json:"top_k,omitempty"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		writeError(w, err)
		return
	}

	out, err := ops.RecallMemories(r.Context(), h.deps.DB, h.deps.Embedder, ops.RecallMemoriesInput{
		Query:  body.Query,
		Vector: body.Vector,
		TopK:   body.TopK,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleReviewReport handles GET /api/review/report.
func (h *Handlers) HandleReviewReport(w http.ResponseWriter, r *http.Request) {
	format := review.Format(r.URL.Query().Get("format"))
	if format == "" {
		format = review.FormatMarkdown
	}

	out, err := ops.BuildReview(r.Context(), h.deps.DB, h.deps.Cfg, ops.BuildReviewInput{
		WindowDays: parseIntParam(r, "days", 0),
		Format:     format,
		Export:     r.URL.Query().Get("export") == "true",
		ReportsDir: h.deps.ReportsDir,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	switch format {
	case review.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	}
	if r.URL.Query().Get("download") == "true" {
		name := "review.md"
		if format == review.FormatHTML {
			name = "review.html"
		}
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	if out.Path != "" {
		w.Header().Set("X-Report-Path", out.Path)
	}
	w.Write([]byte(out.Content))
}

// HandleHealth handles GET /api/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DB.PingContext(r.Context()); err != nil {
		writeError(w, errors.NewInternal(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
