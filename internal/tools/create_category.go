package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marvin-tools/marvin-mcp/internal/adapter"
)

// CreateCategoryTool handles the create_category MCP tool.
type CreateCategoryTool struct {
	marvin Marvin
}

// NewCreateCategoryTool creates a CreateCategoryTool.
func NewCreateCategoryTool(m Marvin) *CreateCategoryTool {
	return &CreateCategoryTool{marvin: m}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateCategoryTool) Definition() mcp.Tool {
	return mcp.NewTool("create_category",
		mcp.WithDescription(
			"Create a new category in Amazing Marvin.\n\n"+
				"Categories are static folders that organize projects and tasks into "+
				"logical groups. They represent areas of responsibility or life domains "+
				"like \"Work\", \"Health\", or \"Household\". You can nest categories "+
				"within other categories to create a hierarchical structure.\n\n"+
				"The response includes the created category information and its new ID.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the category"),
		),
		mcp.WithString("parent_id",
			mcp.Description("Optional ID of the parent category (\"c1\") or project (\"p1\") "+
				"where the category should be created. If not provided, the category is "+
				"created at the root level."),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional due date for the category (YYYY-MM-DD)"),
		),
		mcp.WithNumber("priority",
			mcp.Description("Optional priority level (1-3, with 3 being highest)"),
		),
	)
}

// Handle processes the create_category tool call.
func (t *CreateCategoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title := req.GetString("title", "")
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}

	res, err := t.marvin.CreateCategory(ctx, adapter.TaskInput{
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
