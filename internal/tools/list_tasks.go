package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ListTasksTool handles the list_tasks MCP tool.
type ListTasksTool struct {
	marvin Marvin
}

// NewListTasksTool creates a ListTasksTool.
func NewListTasksTool(m Marvin) *ListTasksTool {
	return &ListTasksTool{marvin: m}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("list_tasks",
		mcp.WithDescription(
			"Get the hierarchical structure of categories, projects and tasks from Amazing Marvin.\n\n"+
				"The output structure uses the following abbreviations:\n"+
				"- \"t\": Title of the task\n"+
				"- \"due\": Due date (YYYY-MM-DD)\n"+
				"- \"est\": Time estimate (e.g., \"30m\" for 30 minutes, \"2h\" for 2 hours)\n"+
				"- \"pri\": Priority level (1-3, with 3 being highest priority)\n"+
				"- \"sub\": Subprojects contained within this project\n"+
				"- \"tasks\": List of tasks within this project\n"+
				"- \"id\": Friendly ID for referencing this item in other calls "+
				"(\"t1\" for tasks, \"p1\" for projects, \"c1\" for categories)\n\n"+
				"Unsorted tasks appear under a synthetic \"Inbox\" entry with ID \"p0\".\n"+
				"To refer to a specific task or project in other API calls, use these friendly IDs.",
		),
	)
}

// Handle processes the list_tasks tool call.
func (t *ListTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := t.marvin.ListHierarchy(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(out), nil
}
