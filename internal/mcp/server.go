// Package mcp exposes Tend operations as MCP tools over stdio, so agent
// clients can journal, manage records, and recall memories.
package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tendhq/tend/internal/config"
	"github.com/tendhq/tend/internal/extract"
	"github.com/tendhq/tend/internal/recall"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"journal_extract": {
		def:     extractToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleExtract },
	},
	"journal_add": {
		def:     journalAddToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleJournalAdd },
	},
	"journal_list": {
		def:     journalListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleJournalList },
	},
	"task_store": {
		def:     taskStoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaskStore },
	},
	"task_list": {
		def:     taskListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaskList },
	},
	"task_status": {
		def:     taskStatusToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTaskStatus },
	},
	"goal_store": {
		def:     goalStoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGoalStore },
	},
	"goal_list": {
		def:     goalListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGoalList },
	},
	"activity_log": {
		def:     activityLogToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleActivityLog },
	},
	"area_store": {
		def:     areaStoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAreaStore },
	},
	"memory_store": {
		def:     memoryStoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMemoryStore },
	},
	"memory_recall": {
		def:     memoryRecallToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMemoryRecall },
	},
	"review_report": {
		def:     reviewReportToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleReviewReport },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// Deps carries the collaborators the tool handlers need.
type Deps struct {
	DB         *sql.DB
	Cfg        *config.Config
	Pipeline   *extract.Pipeline
	Embedder   recall.Embedder
	ReportsDir string
}

// NewServer creates a new MCP server with Tend tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(deps Deps, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"tend",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(deps)

	disabled := make(map[string]bool)
	for _, name := range deps.Cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(deps Deps, version string) error {
	return server.ServeStdio(NewServer(deps, version))
}
