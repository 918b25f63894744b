// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools that depend on abstractions. No
// business logic lives here, only wiring.
package server

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/marvin-tools/marvin-mcp/internal/adapter"
	"github.com/marvin-tools/marvin-mcp/internal/config"
	"github.com/marvin-tools/marvin-mcp/internal/couch"
	"github.com/marvin-tools/marvin-mcp/internal/marvin"
	"github.com/marvin-tools/marvin-mcp/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools registered.
// The context bounds the startup work (connectivity check and
// friendly-ID seeding), not the server's lifetime.
func New(ctx context.Context) (*server.MCPServer, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	client := couch.NewClient(cfg)
	if err := client.Ping(ctx); err != nil {
		// The store may just be waking up; the first tool call
		// retries anyway.
		log.Printf("WARNING: Marvin store unreachable at startup: %v", err)
	}

	svc := marvin.New(client)
	adp := adapter.New(ctx, svc)

	s := server.NewMCPServer(
		"marvin-mcp",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	listTasks := tools.NewListTasksTool(adp)
	s.AddTool(listTasks.Definition(), listTasks.Handle)

	createTask := tools.NewCreateTaskTool(adp)
	s.AddTool(createTask.Definition(), createTask.Handle)

	createProject := tools.NewCreateProjectTool(adp)
	s.AddTool(createProject.Definition(), createProject.Handle)

	createCategory := tools.NewCreateCategoryTool(adp)
	s.AddTool(createCategory.Definition(), createCategory.Handle)

	updateTask := tools.NewUpdateTaskTool(adp)
	s.AddTool(updateTask.Definition(), updateTask.Handle)

	scheduleTask := tools.NewScheduleTaskTool(adp)
	s.AddTool(scheduleTask.Definition(), scheduleTask.Handle)

	getDayTasks := tools.NewGetDayTasksTool(adp)
	s.AddTool(getDayTasks.Definition(), getDayTasks.Handle)

	return s, nil
}

// serverInstructions returns the system instructions that tell the AI
// how to work with the Amazing Marvin store.
func serverInstructions() string {
	return `You have access to the user's Amazing Marvin task manager.

Start with list_tasks to see the current hierarchy of categories,
projects and tasks. Every item carries a friendly ID ("c1" for
categories, "p1" for projects, "t1" for tasks); use these IDs when
creating, updating or scheduling items. The "Inbox" entry with ID "p0"
holds tasks that are not assigned to any project.

Dates are always YYYY-MM-DD. Time estimates are human-readable strings
like "30m", "1.5h" or "1h 30m". Priorities run 1-3 with 3 highest.

Use schedule_task (not update_task) to set the day a task should be
worked on, and get_day_tasks to review a day's schedule.`
}
