package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var extractToolDef = mcp.NewTool("journal_extract",
	mcp.WithDescription("Classify a free-text journal note into candidate activities, tasks, and goals. Falls back to a local heuristic when the model is unavailable."),
	mcp.WithString("note", mcp.Required(), mcp.Description("The free-text note to classify")),
	mcp.WithBoolean("save_entry", mcp.Description("Also store the note as a journal entry")),
	mcp.WithString("mood", mcp.Description("Optional one-word mood, stored with the entry")),
)

var journalAddToolDef = mcp.NewTool("journal_add",
	mcp.WithDescription("Store a free-text journal entry."),
	mcp.WithString("text", mcp.Required(), mcp.Description("The entry text")),
	mcp.WithString("mood", mcp.Description("Optional one-word mood")),
)

var journalListToolDef = mcp.NewTool("journal_list",
	mcp.WithDescription("List journal entries, newest first."),
	mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Entries to skip")),
)

var taskStoreToolDef = mcp.NewTool("task_store",
	mcp.WithDescription("Create a task."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Short actionable statement")),
	mcp.WithString("description", mcp.Description("Optional longer detail")),
	mcp.WithString("status", mcp.Description("One of: backlog, scheduled, today, inprogress, blocked, done (default backlog)")),
	mcp.WithString("area_id", mcp.Description("Optional life-area ID")),
)

var taskListToolDef = mcp.NewTool("task_list",
	mcp.WithDescription("List tasks, newest first."),
	mcp.WithString("status", mcp.Description("Filter by status")),
	mcp.WithNumber("limit", mcp.Description("Maximum tasks to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Tasks to skip")),
)

var taskStatusToolDef = mcp.NewTool("task_status",
	mcp.WithDescription("Move a task to a new status."),
	mcp.WithString("id", mcp.Required(), mcp.Description("The task ID")),
	mcp.WithString("status", mcp.Required(), mcp.Description("One of: backlog, scheduled, today, inprogress, blocked, done")),
)

var goalStoreToolDef = mcp.NewTool("goal_store",
	mcp.WithDescription("Create an active goal."),
	mcp.WithString("title", mcp.Required(), mcp.Description("The goal statement")),
	mcp.WithString("description", mcp.Description("Optional longer detail")),
	mcp.WithString("area_id", mcp.Description("Optional life-area ID")),
)

var goalListToolDef = mcp.NewTool("goal_list",
	mcp.WithDescription("List goals, newest first."),
	mcp.WithBoolean("include_inactive", mcp.Description("Also return inactive goals")),
	mcp.WithNumber("limit", mcp.Description("Maximum goals to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Goals to skip")),
)

var activityLogToolDef = mcp.NewTool("activity_log",
	mcp.WithDescription("Record something the user did."),
	mcp.WithString("title", mcp.Required(), mcp.Description("What happened")),
	mcp.WithNumber("duration_minutes", mcp.Description("How long it took, in minutes")),
	mcp.WithString("notes", mcp.Description("Free-text detail")),
	mcp.WithString("energy", mcp.Description("One of: low, medium, high")),
	mcp.WithString("area_id", mcp.Description("Optional life-area ID")),
)

var areaStoreToolDef = mcp.NewTool("area_store",
	mcp.WithDescription("Create a life area (health, career, ...). Names are unique case-insensitively."),
	mcp.WithString("name", mcp.Required(), mcp.Description("The area name")),
)

var memoryStoreToolDef = mcp.NewTool("memory_store",
	mcp.WithDescription("Embed and store a memory snippet for later recall."),
	mcp.WithString("text", mcp.Required(), mcp.Description("The snippet to remember")),
)

var memoryRecallToolDef = mcp.NewTool("memory_recall",
	mcp.WithDescription("Rank stored memories against a query by cosine similarity and return the best matches."),
	mcp.WithString("query", mcp.Required(), mcp.Description("What to look for")),
	mcp.WithNumber("top_k", mcp.Description("How many matches to return (default 5)")),
)

var reviewReportToolDef = mcp.NewTool("review_report",
	mcp.WithDescription("Build the periodic review report over recent tasks, goals, activities, and journal entries."),
	mcp.WithNumber("days", mcp.Description("Window size in days (default from config)")),
	mcp.WithString("format", mcp.Description("markdown or html (default markdown)")),
	mcp.WithBoolean("export", mcp.Description("Also write the report to the reports directory")),
)
