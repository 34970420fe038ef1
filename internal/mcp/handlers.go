package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tendhq/tend/internal/errors"
	"github.com/tendhq/tend/internal/ops"
	"github.com/tendhq/tend/internal/review"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	deps Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{deps: deps}
}

// Request types for each tool

// ExtractRequest represents the arguments for journal_extract.
type ExtractRequest struct {
	Note      string  `json:"note"`
	SaveEntry bool    `json:"save_entry,omitempty"`
	Mood      *string `json:"mood,omitempty"`
}

// JournalAddRequest represents the arguments for journal_add.
type JournalAddRequest struct {
	Text string  `json:"text"`
	Mood *string `json:"mood,omitempty"`
}

// JournalListRequest represents the arguments for journal_list.
type JournalListRequest struct {
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// TaskStoreRequest represents the arguments for task_store.
type TaskStoreRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	AreaID      *string `json:"area_id,omitempty"`
}

// TaskListRequest represents the arguments for task_list.
type TaskListRequest struct {
	Status *string `json:"status,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}

// TaskStatusRequest represents the arguments for task_status.
type TaskStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// GoalStoreRequest represents the arguments for goal_store.
type GoalStoreRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	AreaID      *string `json:"area_id,omitempty"`
}

// GoalListRequest represents the arguments for goal_list.
type GoalListRequest struct {
	IncludeInactive bool `json:"include_inactive,omitempty"`
	Limit           int  `json:"limit,omitempty"`
	Offset          int  `json:"offset,omitempty"`
}

// ActivityLogRequest represents the arguments for activity_log.
type ActivityLogRequest struct {
	Title           string  `json:"title"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
	Notes           *string `json:"notes,omitempty"`
	Energy          *string `json:"energy,omitempty"`
	AreaID          *string `json:"area_id,omitempty"`
}

// AreaStoreRequest represents the arguments for area_store.
type AreaStoreRequest struct {
	Name string `json:"name"`
}

// MemoryStoreRequest represents the arguments for memory_store.
type MemoryStoreRequest struct {
	Text string `json:"text"`
}

// MemoryRecallRequest represents the arguments for memory_recall.
type MemoryRecallRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k,omitempty"`
}

// ReviewReportRequest represents the arguments for review_report.
type ReviewReportRequest struct {
	Days   int    `json:"days,omitempty"`
	Format string `json:"format,omitempty"`
	Export bool   `json:"export,omitempty"`
}

// Tool handlers

func (h *Handlers) HandleExtract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExtractRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ExtractNote(ctx, h.deps.DB, h.deps.Pipeline, ops.ExtractNoteInput{
		Note:      input.Note,
		SaveEntry: input.SaveEntry,
		Mood:      input.Mood,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleJournalAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[JournalAddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.AddEntry(ctx, h.deps.DB, ops.AddEntryInput{
		Text: input.Text,
		Mood: input.Mood,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleJournalList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[JournalListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListEntries(ctx, h.deps.DB, ops.ListEntriesInput{
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleTaskStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaskStoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.StoreTask(ctx, h.deps.DB, ops.StoreTaskInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		AreaID:      input.AreaID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleTaskList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaskListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListTasks(ctx, h.deps.DB, ops.ListTasksInput{
		Status: input.Status,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleTaskStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TaskStatusRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateTaskStatus(ctx, h.deps.DB, ops.UpdateTaskStatusInput{
		ID:     input.ID,
		Status: input.Status,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleGoalStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GoalStoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.StoreGoal(ctx, h.deps.DB, ops.StoreGoalInput{
		Title:       input.Title,
		Description: input.Description,
		AreaID:      input.AreaID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleGoalList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GoalListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListGoals(ctx, h.deps.DB, ops.ListGoalsInput{
		ActiveOnly: !input.IncludeInactive,
		Limit:      input.Limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleActivityLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ActivityLogRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.LogActivity(ctx, h.deps.DB, ops.LogActivityInput{
		Title:           input.Title,
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
		Energy:          input.Energy,
		AreaID:          input.AreaID,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleAreaStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AreaStoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.StoreArea(ctx, h.deps.DB, ops.StoreAreaInput{Name: input.Name})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleMemoryStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MemoryStoreRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.StoreMemory(ctx, h.deps.DB, h.deps.Embedder, ops.StoreMemoryInput{
		Text: input.Text,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleMemoryRecall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MemoryRecallRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RecallMemories(ctx, h.deps.DB, h.deps.Embedder, ops.RecallMemoriesInput{
		Query: input.Query,
		TopK:  input.TopK,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

func (h *Handlers) HandleReviewReport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReviewReportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.BuildReview(ctx, h.deps.DB, h.deps.Cfg, ops.BuildReviewInput{
		WindowDays: input.Days,
		Format:     review.Format(input.Format),
		Export:     input.Export,
		ReportsDir: h.deps.ReportsDir,
	})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(result)
}

// errorResult converts an error into an MCP error result with a JSON body.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if tendErr, ok := errors.AsTendError(err); ok {
		errorObj := map[string]any{
			"code":    tendErr.Code,
			"message": tendErr.Message,
			"status":  tendErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if tendErr.Code != errors.ErrInternal && tendErr.Details != nil {
			errorObj["details"] = tendErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult wraps data in a JSON tool result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
