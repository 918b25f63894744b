// Package hierarchy reconstructs the category/project/task tree from
// the two flat parent-linked collections and renders it in the
// compact form the list_tasks tool emits. The tree is built fresh on
// every read and never persisted.
package hierarchy

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/marvin-tools/marvin-mcp/internal/couch"
	"github.com/marvin-tools/marvin-mcp/internal/estimate"
	"github.com/marvin-tools/marvin-mcp/internal/ids"
	"github.com/marvin-tools/marvin-mcp/internal/marvin"
)

// Untitled fallbacks for documents with no title.
const (
	untitledContainer = "Untitled"
	untitledTask      = "Untitled Task"
)

// Resolver hands out friendly tokens for persistent IDs.
// Satisfied by *ids.Registry.
type Resolver interface {
	Token(k ids.Kind, persistentID string) string
}

// TaskEntry is the compact one-line task record. Field order mirrors
// the rendered output: title, id, then the optional annotations.
type TaskEntry struct {
	Title string `json:"t"`
	ID    string `json:"id"`
	Due   string `json:"due,omitempty"`
	Est   string `json:"est,omitempty"`
	Pri   int    `json:"pri,omitempty"`
}

// Node is one container in the tree. Sub is ordered by first
// insertion of each title; setting an existing title again replaces
// the value in place, so the later sibling silently wins — titles are
// the keys and that collision behavior is part of the contract.
type Node struct {
	ID    string
	Pri   int
	Due   string
	Tasks []TaskEntry
	Sub   *orderedmap.OrderedMap[string, *Node]
}

// Tree is the top level: display title -> node.
type Tree = orderedmap.OrderedMap[string, *Node]

// Build assembles the tree from flat container and task collections.
// Containers whose parentId is "root" (or absent) become top-level
// entries; everything whose parentId is "unassigned" lands under a
// synthetic Inbox node carrying the reserved p0 token. The Inbox
// appears only when it has at least one member.
func Build(containers, tasks []couch.Document, res Resolver) *Tree {
	b := &builder{containers: containers, tasks: tasks, res: res}
	return b.build()
}

type builder struct {
	containers []couch.Document
	tasks      []couch.Document
	res        Resolver
}

func (b *builder) build() *Tree {
	tree := orderedmap.New[string, *Node]()

	var inboxContainers, inboxTasks []couch.Document
	for _, c := range b.containers {
		if marvin.ParentOf(c).IsUnassigned() {
			inboxContainers = append(inboxContainers, c)
		}
	}
	for _, t := range b.tasks {
		if marvin.ParentOf(t).IsUnassigned() {
			inboxTasks = append(inboxTasks, t)
		}
	}

	if len(inboxContainers) > 0 || len(inboxTasks) > 0 {
		inbox := &Node{ID: ids.InboxToken}
		for _, t := range inboxTasks {
			inbox.Tasks = append(inbox.Tasks, b.taskEntry(t))
		}
		if len(inboxContainers) > 0 {
			inbox.Sub = orderedmap.New[string, *Node]()
			for _, c := range inboxContainers {
				inbox.Sub.Set(title(c), b.containerNode(c))
			}
		}
		tree.Set("Inbox", inbox)
	}

	for _, c := range b.containers {
		if marvin.ParentOf(c).IsRoot() {
			tree.Set(title(c), b.containerNode(c))
		}
	}

	return tree
}

// containerNode recursively builds the node for one container:
// friendly ID and optional pri/due, then the tasks parented here,
// then the child containers.
func (b *builder) containerNode(c couch.Document) *Node {
	containerID := c.ID()
	node := &Node{
		ID:  b.res.Token(containerKind(c), containerID),
		Pri: c.Int(couch.FieldPriority),
		Due: c.Str(couch.FieldDueDate),
	}

	for _, t := range b.tasks {
		if marvin.ParentOf(t).Is(containerID) {
			node.Tasks = append(node.Tasks, b.taskEntry(t))
		}
	}

	for _, sub := range b.containers {
		if marvin.ParentOf(sub).Is(containerID) {
			if node.Sub == nil {
				node.Sub = orderedmap.New[string, *Node]()
			}
			node.Sub.Set(title(sub), b.containerNode(sub))
		}
	}

	return node
}

func (b *builder) taskEntry(t couch.Document) TaskEntry {
	return TaskEntryOf(t, b.res)
}

// TaskEntryOf maps a task document to its compact record: title,
// friendly token, and the optional due/est/pri annotations. Shared
// with the day-schedule view, which decorates it with completion
// status.
func TaskEntryOf(t couch.Document, res Resolver) TaskEntry {
	entry := TaskEntry{
		Title: t.Str(couch.FieldTitle),
		ID:    res.Token(ids.Task, t.ID()),
		Due:   t.Str(couch.FieldDueDate),
		Est:   estimate.Format(t.Int64(couch.FieldTimeEstimate)),
		Pri:   t.Int(couch.FieldStarred),
	}
	if entry.Title == "" {
		entry.Title = untitledTask
	}
	return entry
}

// containerKind maps the type discriminator to a token namespace:
// "category" is a static folder, anything else is a project.
func containerKind(c couch.Document) ids.Kind {
	if c.Str(couch.FieldType) == "category" {
		return ids.Category
	}
	return ids.Project
}

func title(c couch.Document) string {
	if t := c.Str(couch.FieldTitle); t != "" {
		return t
	}
	return untitledContainer
}
