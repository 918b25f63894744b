package adapter

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/marvin-tools/marvin-mcp/internal/couch"
	"github.com/marvin-tools/marvin-mcp/internal/estimate"
	"github.com/marvin-tools/marvin-mcp/internal/ids"
	"github.com/marvin-tools/marvin-mcp/internal/marvin"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func validDate(s string) bool {
	return datePattern.MatchString(s)
}

// TaskInput carries the raw tool arguments for a create operation.
// TimeEstimate stays a string here; it is parsed during validation and
// echoed back verbatim in the result.
type TaskInput struct {
	Title        string
	ParentToken  string
	Day          string
	DueDate      string
	TimeEstimate string
	Priority     int
}

// CreatedTask echoes a successful create back in token form.
type CreatedTask struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Parent       string `json:"parent,omitempty"`
	Day          string `json:"day,omitempty"`
	DueDate      string `json:"due_date,omitempty"`
	TimeEstimate string `json:"time_estimate,omitempty"`
	Priority     int    `json:"priority,omitempty"`
}

// TaskResult is the create_task payload.
type TaskResult struct {
	Task    CreatedTask `json:"task"`
	Message string      `json:"message"`
}

// ProjectResult is the create_project payload.
type ProjectResult struct {
	Project CreatedTask `json:"project"`
	Message string      `json:"message"`
}

// CategoryResult is the create_category payload.
type CategoryResult struct {
	Category CreatedTask `json:"category"`
	Message  string      `json:"message"`
}

// resolveParent maps a friendly parent token back to a ParentRef. An
// empty token yields the given default. The namespace is picked off
// the token prefix so tasks can never be named as parents.
func (a *Adapter) resolveParent(token string, dflt marvin.ParentRef) (marvin.ParentRef, error) {
	if token == "" {
		return dflt, nil
	}
	var kind ids.Kind
	switch {
	case strings.HasPrefix(token, "c"):
		kind = ids.Category
	case strings.HasPrefix(token, "p"):
		kind = ids.Project
	default:
		return marvin.ParentRef{}, inputErrorf("invalid parent ID %q: expected a project (p#) or category (c#) token", token)
	}
	pid, err := a.reg.PersistentID(kind, token)
	if err != nil {
		return marvin.ParentRef{}, &InputError{Msg: fmt.Sprintf("unknown parent ID %q", token), Err: err}
	}
	return marvin.ParseParent(pid), nil
}

func (a *Adapter) validateInput(in TaskInput) (estMillis int64, err error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, inputErrorf("title must not be empty")
	}
	if in.Day != "" && in.Day != ids.Unassigned && !validDate(in.Day) {
		return 0, inputErrorf("invalid day %q: use YYYY-MM-DD", in.Day)
	}
	if in.DueDate != "" && !validDate(in.DueDate) {
		return 0, inputErrorf("invalid due date %q: use YYYY-MM-DD", in.DueDate)
	}
	if in.Priority != 0 && (in.Priority < 1 || in.Priority > 3) {
		return 0, inputErrorf("invalid priority %d: use 1, 2 or 3", in.Priority)
	}
	if in.TimeEstimate != "" {
		estMillis, err = estimate.Parse(in.TimeEstimate)
		if err != nil {
			return 0, &InputError{Msg: fmt.Sprintf("invalid time estimate %q", in.TimeEstimate), Err: err}
		}
	}
	return estMillis, nil
}

// CreateTask validates the input, resolves the parent token and
// creates the task. Without a parent the task lands in the Inbox.
func (a *Adapter) CreateTask(ctx context.Context, in TaskInput) (*TaskResult, error) {
	est, err := a.validateInput(in)
	if err != nil {
		return nil, err
	}
	parent, err := a.resolveParent(in.ParentToken, marvin.Unparented())
	if err != nil {
		return nil, err
	}

	id, err := a.api.CreateTask(ctx, marvin.NewTask{
		Title:        in.Title,
		Parent:       parent,
		Day:          in.Day,
		DueDate:      in.DueDate,
		TimeEstimate: est,
		Priority:     in.Priority,
	})
	if err != nil {
		return nil, err
	}

	token := a.reg.Token(ids.Task, id)
	parentToken := in.ParentToken
	if parentToken == "" {
		parentToken = ids.InboxToken
	}
	return &TaskResult{
		Task: CreatedTask{
			ID:           token,
			Title:        in.Title,
			Parent:       parentToken,
			Day:          in.Day,
			DueDate:      in.DueDate,
			TimeEstimate: in.TimeEstimate,
			Priority:     in.Priority,
		},
		Message: fmt.Sprintf("Task %q created successfully with ID %s", in.Title, token),
	}, nil
}

// CreateProject creates a project container. Without a parent it
// becomes a top-level project.
func (a *Adapter) CreateProject(ctx context.Context, in TaskInput) (*ProjectResult, error) {
	created, err := a.createContainer(ctx, in, marvin.KindProject)
	if err != nil {
		return nil, err
	}
	return &ProjectResult{
		Project: *created,
		Message: fmt.Sprintf("Project %q created successfully with ID %s", in.Title, created.ID),
	}, nil
}

// CreateCategory creates a category container.
func (a *Adapter) CreateCategory(ctx context.Context, in TaskInput) (*CategoryResult, error) {
	created, err := a.createContainer(ctx, in, marvin.KindCategory)
	if err != nil {
		return nil, err
	}
	return &CategoryResult{
		Category: *created,
		Message: fmt.Sprintf("Category %q created successfully with ID %s", in.Title, created.ID),
	}, nil
}

func (a *Adapter) createContainer(ctx context.Context, in TaskInput, kind marvin.ContainerKind) (*CreatedTask, error) {
	if in.Day != "" {
		return nil, inputErrorf("day applies to tasks only")
	}
	if in.TimeEstimate != "" {
		return nil, inputErrorf("time estimates apply to tasks only")
	}
	if _, err := a.validateInput(in); err != nil {
		return nil, err
	}
	parent, err := a.resolveParent(in.ParentToken, marvin.Root())
	if err != nil {
		return nil, err
	}

	id, err := a.api.CreateContainer(ctx, marvin.NewContainer{
		Title:    in.Title,
		Parent:   parent,
		DueDate:  in.DueDate,
		Priority: in.Priority,
		Kind:     kind,
	})
	if err != nil {
		return nil, err
	}

	idKind := ids.Project
	if kind == marvin.KindCategory {
		idKind = ids.Category
	}
	parentToken := in.ParentToken
	if parentToken == "" {
		parentToken = "root"
	}
	return &CreatedTask{
		ID:       a.reg.Token(idKind, id),
		Title:    in.Title,
		Parent:   parentToken,
		DueDate:  in.DueDate,
		Priority: in.Priority,
	}, nil
}

// TaskUpdates lists the fields an update may touch. Nil means leave
// unchanged; a pointer to the zero value clears where the field
// supports it (estimate, parent).
type TaskUpdates struct {
	Title        *string
	ParentToken  *string
	DueDate      *string
	TimeEstimate *string
	Priority     *int
}

func (u TaskUpdates) empty() bool {
	return u.Title == nil && u.ParentToken == nil && u.DueDate == nil &&
		u.TimeEstimate == nil && u.Priority == nil
}

// UpdatedTask echoes an update back in token form: the friendly ID,
// the title, and only the fields the caller supplied, verbatim.
// Store-level fields (_id, _rev, persistent parentId, millisecond
// estimates) never appear here.
type UpdatedTask struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	ParentID     *string `json:"parent_id,omitempty"`
	Day          string  `json:"day,omitempty"`
	DueDate      *string `json:"due_date,omitempty"`
	TimeEstimate *string `json:"time_estimate,omitempty"`
	Priority     *int    `json:"priority,omitempty"`
}

// UpdateResult is the update_task and schedule_task payload.
type UpdateResult struct {
	Task    UpdatedTask `json:"task"`
	Message string      `json:"message"`
}

// UpdateTask applies the given field changes to the task named by its
// friendly token.
func (a *Adapter) UpdateTask(ctx context.Context, token string, u TaskUpdates) (*UpdateResult, error) {
	if u.empty() {
		return nil, inputErrorf("no fields to update")
	}

	id, err := a.reg.PersistentID(ids.Task, token)
	if err != nil {
		return nil, &InputError{Msg: fmt.Sprintf("unknown task ID %q", token), Err: err}
	}

	updates := couch.Document{}
	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return nil, inputErrorf("title must not be empty")
		}
		updates[couch.FieldTitle] = *u.Title
	}
	if u.ParentToken != nil {
		parent, err := a.resolveParent(*u.ParentToken, marvin.Unparented())
		if err != nil {
			return nil, err
		}
		updates[couch.FieldParentID] = parent.StoreValue()
	}
	if u.DueDate != nil {
		if *u.DueDate != "" && !validDate(*u.DueDate) {
			return nil, inputErrorf("invalid due date %q: use YYYY-MM-DD", *u.DueDate)
		}
		updates[couch.FieldDueDate] = *u.DueDate
	}
	if u.TimeEstimate != nil {
		if *u.TimeEstimate == "" {
			updates[couch.FieldTimeEstimate] = nil
		} else {
			ms, err := estimate.Parse(*u.TimeEstimate)
			if err != nil {
				return nil, &InputError{Msg: fmt.Sprintf("invalid time estimate %q", *u.TimeEstimate), Err: err}
			}
			updates[couch.FieldTimeEstimate] = ms
		}
	}
	if u.Priority != nil {
		if *u.Priority < 1 || *u.Priority > 3 {
			return nil, inputErrorf("invalid priority %d: use 1, 2 or 3", *u.Priority)
		}
		updates[couch.FieldStarred] = *u.Priority
	}

	doc, err := a.api.UpdateTask(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	ut := UpdatedTask{
		ID:           token,
		Title:        doc.Str(couch.FieldTitle),
		ParentID:     u.ParentToken,
		DueDate:      u.DueDate,
		TimeEstimate: u.TimeEstimate,
		Priority:     u.Priority,
	}
	if u.Title != nil {
		ut.Title = *u.Title
	}
	return &UpdateResult{Task: ut, Message: "Task updated successfully"}, nil
}

// ScheduleTask sets the task's scheduled day. Passing "unassigned"
// removes it from any day.
func (a *Adapter) ScheduleTask(ctx context.Context, token, day string) (*UpdateResult, error) {
	if day != ids.Unassigned && !validDate(day) {
		return nil, inputErrorf("invalid day %q: use YYYY-MM-DD or %q", day, ids.Unassigned)
	}

	id, err := a.reg.PersistentID(ids.Task, token)
	if err != nil {
		return nil, &InputError{Msg: fmt.Sprintf("unknown task ID %q", token), Err: err}
	}

	doc, err := a.api.UpdateTask(ctx, id, couch.Document{couch.FieldDay: day})
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("Task scheduled for %s", day)
	if day == ids.Unassigned {
		msg = "Task unscheduled"
	}
	return &UpdateResult{
		Task:    UpdatedTask{ID: token, Title: doc.Str(couch.FieldTitle), Day: day},
		Message: msg,
	}, nil
}
