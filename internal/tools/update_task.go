package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marvin-tools/marvin-mcp/internal/adapter"
)

// UpdateTaskTool handles the update_task MCP tool.
type UpdateTaskTool struct {
	marvin Marvin
}

// NewUpdateTaskTool creates an UpdateTaskTool.
func NewUpdateTaskTool(m Marvin) *UpdateTaskTool {
	return &UpdateTaskTool{marvin: m}
}

// Definition returns the MCP tool definition for registration.
func (t *UpdateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("update_task",
		mcp.WithDescription(
			"Update an existing task in Amazing Marvin.\n\n"+
				"You can update basic properties of a task such as its title, parent "+
				"project, due date, time estimate, and priority. Passing an empty "+
				"time_estimate removes the estimate; passing an empty parent_id moves "+
				"the task to the Inbox. For scheduling tasks to specific days, use the "+
				"schedule_task tool instead.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The friendly ID (t1, t2, etc.) of the task to update"),
		),
		mcp.WithString("title",
			mcp.Description("New title for the task"),
		),
		mcp.WithString("parent_id",
			mcp.Description("New parent project or category friendly ID (p1, c1, etc.)"),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date for the task (YYYY-MM-DD)"),
		),
		mcp.WithString("time_estimate",
			mcp.Description("New time estimate in human-readable format (e.g., '30m', '1.5h', '1h 30m')"),
		),
		mcp.WithNumber("priority",
			mcp.Description("New priority level (1-3, with 3 being highest)"),
		),
	)
}

// Handle processes the update_task tool call. Only the arguments
// actually present in the request are forwarded, so an omitted field
// is never touched.
func (t *UpdateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID := req.GetString("task_id", "")
	if taskID == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}

	var u adapter.TaskUpdates
	if v, ok := strArg(req, "title"); ok {
		u.Title = &v
	}
	if v, ok := strArg(req, "parent_id"); ok {
		u.ParentToken = &v
	}
	if v, ok := strArg(req, "due_date"); ok {
		u.DueDate = &v
	}
	if v, ok := strArg(req, "time_estimate"); ok {
		u.TimeEstimate = &v
	}
	if _, ok := req.GetArguments()["priority"]; ok {
		p := intArg(req, "priority", 0)
		u.Priority = &p
	}

	res, err := t.marvin.UpdateTask(ctx, taskID, u)
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}
