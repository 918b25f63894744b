// Package adapter is the LLM-facing layer: it translates between
// friendly tokens and persistent store IDs, validates tool input
// before any store round trip, assembles the rendered hierarchy, and
// shapes write results. One Adapter instance owns one registry and
// (through the marvin service) the two collection caches; it must not
// be shared between concurrent sessions without external locking.
package adapter

import (
	"context"
	"log"
	"sort"

	"github.com/marvin-tools/marvin-mcp/internal/couch"
	"github.com/marvin-tools/marvin-mcp/internal/hierarchy"
	"github.com/marvin-tools/marvin-mcp/internal/ids"
	"github.com/marvin-tools/marvin-mcp/internal/marvin"
)

// API is the raw data layer the adapter drives. Implemented by
// *marvin.Service; faked in tests.
type API interface {
	Categories(ctx context.Context) ([]couch.Document, error)
	Tasks(ctx context.Context, parentID string) ([]couch.Document, error)
	TasksByDay(ctx context.Context, day string, includeCompleted bool) ([]couch.Document, error)
	CreateTask(ctx context.Context, nt marvin.NewTask) (string, error)
	CreateContainer(ctx context.Context, nc marvin.NewContainer) (string, error)
	UpdateTask(ctx context.Context, id string, updates couch.Document) (couch.Document, error)
}

// Adapter binds the raw API to the friendly-ID registry.
type Adapter struct {
	api API
	reg *ids.Registry
}

// New creates an adapter and seeds the registry with a deterministic
// bulk pass over the current collections, so restarts against an
// unchanged store reproduce the same token assignment. A failed bulk
// fetch is not fatal: the registry starts empty and tokens are
// assigned lazily at first sight instead.
func New(ctx context.Context, api API) *Adapter {
	a := &Adapter{api: api, reg: ids.NewRegistry()}
	a.seedRegistry(ctx)
	return a
}

// seedRegistry assigns tokens to every known document in a fixed
// order: categories, then projects, then tasks, each group sorted by
// ascending createdAt with fetch order breaking ties.
func (a *Adapter) seedRegistry(ctx context.Context) {
	containers, err := a.api.Categories(ctx)
	if err != nil {
		log.Printf("WARNING: friendly-ID bulk init skipped: %v", err)
		return
	}
	tasks, err := a.api.Tasks(ctx, "")
	if err != nil {
		log.Printf("WARNING: friendly-ID bulk init skipped: %v", err)
		return
	}

	var categories, projects []couch.Document
	for _, c := range containers {
		if c.Str(couch.FieldType) == "category" {
			categories = append(categories, c)
		} else {
			projects = append(projects, c)
		}
	}

	byCreation(categories)
	byCreation(projects)
	byCreation(tasks)

	for _, c := range categories {
		a.reg.Token(ids.Category, c.ID())
	}
	for _, p := range projects {
		a.reg.Token(ids.Project, p.ID())
	}
	for _, t := range tasks {
		a.reg.Token(ids.Task, t.ID())
	}
	log.Printf("friendly-ID registry seeded: %d categories, %d projects, %d tasks",
		len(categories), len(projects), len(tasks))
}

// byCreation sorts documents by ascending createdAt, missing values
// sorting as zero. Stable so fetch order breaks ties.
func byCreation(docs []couch.Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Int64(couch.FieldCreatedAt) < docs[j].Int64(couch.FieldCreatedAt)
	})
}

// Hierarchy builds the current category/project/task tree.
func (a *Adapter) Hierarchy(ctx context.Context) (*hierarchy.Tree, error) {
	containers, err := a.api.Categories(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := a.api.Tasks(ctx, "")
	if err != nil {
		return nil, err
	}
	return hierarchy.Build(containers, tasks, a.reg), nil
}

// ListHierarchy renders the tree in the compact text form.
func (a *Adapter) ListHierarchy(ctx context.Context) (string, error) {
	tree, err := a.Hierarchy(ctx)
	if err != nil {
		return "", err
	}
	return hierarchy.Render(tree), nil
}

// DayTask is a task entry decorated with scheduling state for the
// day view.
type DayTask struct {
	hierarchy.TaskEntry
	Done bool   `json:"done"`
	Day  string `json:"day,omitempty"`
}

// DayResult is the get_day_tasks payload.
type DayResult struct {
	Date  string    `json:"date"`
	Tasks []DayTask `json:"tasks"`
}

// DayTasks returns every task scheduled for the given day, completed
// ones included, in the service's presentation order.
func (a *Adapter) DayTasks(ctx context.Context, day string) (*DayResult, error) {
	if !validDate(day) {
		return nil, inputErrorf("invalid date format %q: use YYYY-MM-DD", day)
	}

	docs, err := a.api.TasksByDay(ctx, day, true)
	if err != nil {
		return nil, err
	}

	tasks := make([]DayTask, 0, len(docs))
	for _, d := range docs {
		dt := DayTask{
			TaskEntry: hierarchy.TaskEntryOf(d, a.reg),
			Done:      d.Bool(couch.FieldDone),
		}
		if v := d.Str(couch.FieldDay); v != "" && v != ids.Unassigned {
			dt.Day = v
		}
		tasks = append(tasks, dt)
	}
	return &DayResult{Date: day, Tasks: tasks}, nil
}
