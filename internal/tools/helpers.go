// Package tools implements the MCP tool handlers.
//
// Each tool follows the same pattern:
// - A struct with its dependency (the Marvin adapter) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
//
// Handlers validate nothing beyond argument presence; semantic
// validation (dates, estimates, token namespaces) lives in the
// adapter, which reports it as adapter.InputError.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marvin-tools/marvin-mcp/internal/adapter"
	"github.com/marvin-tools/marvin-mcp/internal/couch"
	"github.com/marvin-tools/marvin-mcp/internal/ids"
)

// Marvin is the adapter surface the tools drive. Satisfied by
// *adapter.Adapter; faked in tests.
type Marvin interface {
	ListHierarchy(ctx context.Context) (string, error)
	DayTasks(ctx context.Context, day string) (*adapter.DayResult, error)
	CreateTask(ctx context.Context, in adapter.TaskInput) (*adapter.TaskResult, error)
	CreateProject(ctx context.Context, in adapter.TaskInput) (*adapter.ProjectResult, error)
	CreateCategory(ctx context.Context, in adapter.TaskInput) (*adapter.CategoryResult, error)
	UpdateTask(ctx context.Context, token string, u adapter.TaskUpdates) (*adapter.UpdateResult, error)
	ScheduleTask(ctx context.Context, token, day string) (*adapter.UpdateResult, error)
}

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// strArg returns the string argument and whether it was present.
// Presence matters for update_task, where an empty string clears a
// field and an absent key leaves it alone.
func strArg(req mcp.CallToolRequest, key string) (string, bool) {
	v, ok := req.GetArguments()[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// toolError maps an adapter failure to a tool result. Bad input and
// unknown tokens are the caller's mistake and come back as error
// results it can correct; store failures come back as error results
// too so the session survives a flaky backend.
func toolError(err error) (*mcp.CallToolResult, error) {
	var ie *adapter.InputError
	var te *ids.InvalidTokenError
	if errors.As(err, &ie) || errors.As(err, &te) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var se *couch.StoreError
	if errors.As(err, &se) {
		return mcp.NewToolResultError(fmt.Sprintf("Marvin store request failed: %v", err)), nil
	}
	return nil, err
}

// jsonResult renders a payload as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
