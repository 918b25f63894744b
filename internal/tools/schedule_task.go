package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ScheduleTaskTool handles the schedule_task MCP tool.
type ScheduleTaskTool struct {
	marvin Marvin
}

// NewScheduleTaskTool creates a ScheduleTaskTool.
func NewScheduleTaskTool(m Marvin) *ScheduleTaskTool {
	return &ScheduleTaskTool{marvin: m}
}

// Definition returns the MCP tool definition for registration.
func (t *ScheduleTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("schedule_task",
		mcp.WithDescription(
			"Schedule a task for a specific day in Amazing Marvin.\n\n"+
				"This tool allows you to specify which day a task should be worked on "+
				"(as opposed to when it's due). Pass \"unassigned\" as the day to remove "+
				"the task from its scheduled day.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The friendly ID (t1, t2, etc.) of the task to schedule"),
		),
		mcp.WithString("day",
			mcp.Required(),
			mcp.Description("The day to schedule the task for (YYYY-MM-DD), or \"unassigned\""),
		),
	)
}

// Handle processes the schedule_task tool call.
func (t *ScheduleTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	day := req.GetString("day", "")
	if day == "" {
		return mcp.NewToolResultError("'day' is required"), nil
	}

	res, err := t.marvin.ScheduleTask(ctx, taskID, day)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}
