package hierarchy

import (
	"strings"
	"testing"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/marvin-tools/marvin-mcp/internal/couch"
	"github.com/marvin-tools/marvin-mcp/internal/ids"
)

func TestRender_CompactTaskLines(t *testing.T) {
	containers := []couch.Document{container("cat-1", "root", "Work", "")}
	tasks := []couch.Document{
		{"_id": "task-1", "parentId": "cat-1", "title": "Write report", "timeEstimate": float64(5400000)},
		{"_id": "task-2", "parentId": "cat-1", "title": "Review", "dueDate": "2025-04-25"},
	}

	got := Render(Build(containers, tasks, ids.NewRegistry()))

	want := `{
  "Work": {
    "id": "p1",
    "tasks": [
      {"t":"Write report","id":"t1","est":"1.5h"},
      {"t":"Review","id":"t2","due":"2025-04-25"}
    ]
  }
}`
	if got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_NestedSubKeepsCompactTasks(t *testing.T) {
	containers := []couch.Document{
		container("cat-1", "root", "Work", ""),
		container("proj-1", "cat-1", "Launch", ""),
	}
	tasks := []couch.Document{task("task-1", "proj-1", "Ship it")}

	got := Render(Build(containers, tasks, ids.NewRegistry()))

	want := `{
  "Work": {
    "id": "p1",
    "sub": {
      "Launch": {
        "id": "p2",
        "tasks": [
          {"t":"Ship it","id":"t1"}
        ]
      }
    }
  }
}`
	if got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_EmptyTree(t *testing.T) {
	tree := orderedmap.New[string, *Node]()
	if got := Render(tree); got != "{}" {
		t.Errorf("Render(empty) = %q, want {}", got)
	}
}

func TestRender_EmptyTasksArrayOnOneLine(t *testing.T) {
	tree := orderedmap.New[string, *Node]()
	tree.Set("Work", &Node{ID: "p1", Tasks: []TaskEntry{}})

	got := Render(tree)
	if !strings.Contains(got, `"tasks": []`) {
		t.Errorf("empty tasks array not rendered as []: %s", got)
	}
	if strings.Contains(got, "[\n") {
		t.Errorf("empty tasks array spilled across lines: %s", got)
	}
}

func TestRender_EscapesTitles(t *testing.T) {
	tree := orderedmap.New[string, *Node]()
	tree.Set(`Say "hi"`, &Node{ID: "p1"})

	got := Render(tree)
	if !strings.Contains(got, `"Say \"hi\"": {`) {
		t.Errorf("title not JSON-escaped: %s", got)
	}
}

func TestRender_FullShapeWithInbox(t *testing.T) {
	containers := []couch.Document{
		container("cat-1", "root", "Work", ""),
	}
	tasks := []couch.Document{
		task("task-9", "unassigned", "Loose end"),
	}

	got := Render(Build(containers, tasks, ids.NewRegistry()))

	want := `{
  "Inbox": {
    "id": "p0",
    "tasks": [
      {"t":"Loose end","id":"t1"}
    ]
  },
  "Work": {
    "id": "p1"
  }
}`
	if got != want {
		t.Errorf("Render() =\n%s\nwant:\n%s", got, want)
	}
}
