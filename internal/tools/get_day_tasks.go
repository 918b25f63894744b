package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetDayTasksTool handles the get_day_tasks MCP tool.
type GetDayTasksTool struct {
	marvin Marvin
}

// NewGetDayTasksTool creates a GetDayTasksTool.
func NewGetDayTasksTool(m Marvin) *GetDayTasksTool {
	return &GetDayTasksTool{marvin: m}
}

// Definition returns the MCP tool definition for registration.
func (t *GetDayTasksTool) Definition() mcp.Tool {
	return mcp.NewTool("get_day_tasks",
		mcp.WithDescription(
			"Get all tasks scheduled for a specific day.\n\n"+
				"This tool returns all tasks (both completed and incomplete) that are "+
				"scheduled for the requested day. You can use this to review what tasks "+
				"are set for a particular date.\n\n"+
				"Required format for the day parameter is YYYY-MM-DD (e.g., 2025-05-14).\n\n"+
				"The response includes a list of tasks with their completion status, due "+
				"dates, time estimates, and priorities.",
		),
		mcp.WithString("day",
			mcp.Required(),
			mcp.Description("The day to fetch tasks for in YYYY-MM-DD format (e.g., 2025-05-14)."),
		),
	)
}

// Handle processes the get_day_tasks tool call.
func (t *GetDayTasksTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day := req.GetString("day", "")
	if day == "" {
		return mcp.NewToolResultError("'day' is required"), nil
	}

	res, err := t.marvin.DayTasks(ctx, day)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}
