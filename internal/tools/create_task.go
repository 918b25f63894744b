package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marvin-tools/marvin-mcp/internal/adapter"
)

// CreateTaskTool handles the create_task MCP tool.
type CreateTaskTool struct {
	marvin Marvin
}

// NewCreateTaskTool creates a CreateTaskTool.
func NewCreateTaskTool(m Marvin) *CreateTaskTool {
	return &CreateTaskTool{marvin: m}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTaskTool) Definition() mcp.Tool {
	return mcp.NewTool("create_task",
		mcp.WithDescription(
			"Create a new task in Amazing Marvin.\n\n"+
				"You can create tasks with various properties and place them in specific "+
				"projects or categories using their friendly IDs. Time estimates can be "+
				"specified in human-readable format like \"30m\", \"1.5h\", or \"1h 30m\". "+
				"Priority can be set from 1-3, with 3 being the highest priority.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the task"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Optional ID of the parent project (\"p1\") or category (\"c1\") "+
				"where the task should be created. If not provided, the task lands in the Inbox."),
		),
		mcp.WithString("day",
			mcp.Description("Optional day to schedule the task for (YYYY-MM-DD)"),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional due date for the task (YYYY-MM-DD)"),
		),
		mcp.WithString("time_estimate",
			mcp.Description("Optional time estimate in human-readable format (e.g., '30m', '1.5h', '1h 30m')"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Optional priority level (1-3, with 3 being highest)"),
		),
	)
}

// Handle processes the create_task tool call.
func (t *CreateTaskTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	res, err := t.marvin.CreateTask(ctx, adapter.TaskInput{
		Title:        title,
		ParentToken:  req.GetString("parent_id", ""),
		Day:          req.GetString("day", ""),
		DueDate:      req.GetString("due_date", ""),
		TimeEstimate: req.GetString("time_estimate", ""),
		Priority:     intArg(req, "priority", 0),
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}
