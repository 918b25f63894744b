package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marvin-tools/marvin-mcp/internal/adapter"
)

// CreateProjectTool handles the create_project MCP tool.
type CreateProjectTool struct {
	marvin Marvin
}

// NewCreateProjectTool creates a CreateProjectTool.
func NewCreateProjectTool(m Marvin) *CreateProjectTool {
	return &CreateProjectTool{marvin: m}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription(
			"Create a new project in Amazing Marvin.\n\n"+
				"You can create projects with various properties and place them within "+
				"other projects or categories using friendly IDs. Projects can contain "+
				"tasks and other subprojects.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the project"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Optional ID of the parent project (\"p1\") or category (\"c1\") "+
				"where the project should be created. If not provided, the project is created "+
				"at the top level."),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional due date for the project (YYYY-MM-DD)"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Optional priority level (1-3, with 3 being highest)"),
		),
	)
}

// Handle processes the create_project tool call.
func (t *CreateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	res, err := t.marvin.CreateProject(ctx, adapter.TaskInput{
		Title:       title,
		ParentToken: req.GetString("parent_id", ""),
		DueDate:     req.GetString("due_date", ""),
		Priority:    intArg(req, "priority", 0),
	})
	if err != nil {
		return toolError(err)
	}
	return jsonResult(res)
}
