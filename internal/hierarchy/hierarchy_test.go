package hierarchy

import (
	"testing"

	"github.com/marvin-tools/marvin-mcp/internal/couch"
	"github.com/marvin-tools/marvin-mcp/internal/ids"
)

func container(id, parent, title, typ string) couch.Document {
	d := couch.Document{"_id": id, "parentId": parent, "title": title, "db": "Categories"}
	if typ != "" {
		d["type"] = typ
	}
	return d
}

func task(id, parent, title string) couch.Document {
	return couch.Document{"_id": id, "parentId": parent, "title": title, "db": "Tasks"}
}

func TestBuild_RootProjectWithTask(t *testing.T) {
	containers := []couch.Document{container("cat-1", "root", "Work", "")}
	tasks := []couch.Document{
		{"_id": "task-1", "parentId": "cat-1", "title": "Write report", "timeEstimate": float64(5400000)},
	}

	tree := Build(containers, tasks, ids.NewRegistry())

	work, ok := tree.Get("Work")
	if !ok {
		t.Fatal("tree missing Work entry")
	}
	if work.ID != "p1" {
		t.Errorf("Work.ID = %s, want p1", work.ID)
	}
	if len(work.Tasks) != 1 {
		t.Fatalf("Work tasks = %d, want 1", len(work.Tasks))
	}
	entry := work.Tasks[0]
	if entry.Title != "Write report" || entry.ID != "t1" || entry.Est != "1.5h" {
		t.Errorf("task entry = %+v, want Write report/t1/1.5h", entry)
	}
	if work.Sub != nil {
		t.Error("Work.Sub should be nil with no child containers")
	}
}

func TestBuild_CategoryGetsCategoryToken(t *testing.T) {
	containers := []couch.Document{container("cat-1", "root", "Areas", "category")}

	tree := Build(containers, nil, ids.NewRegistry())

	areas, _ := tree.Get("Areas")
	if areas == nil || areas.ID != "c1" {
		t.Fatalf("Areas node = %+v, want id c1", areas)
	}
}

func TestBuild_InboxOnlyTasks(t *testing.T) {
	tasks := []couch.Document{task("task-1", "unassigned", "Loose end")}

	tree := Build(nil, tasks, ids.NewRegistry())

	if tree.Len() != 1 {
		t.Fatalf("tree entries = %d, want 1", tree.Len())
	}
	inbox, ok := tree.Get("Inbox")
	if !ok {
		t.Fatal("tree missing Inbox")
	}
	if inbox.ID != ids.InboxToken {
		t.Errorf("Inbox.ID = %s, want p0", inbox.ID)
	}
	if inbox.Sub != nil {
		t.Error("Inbox.Sub should be absent with no unassigned containers")
	}
	if len(inbox.Tasks) != 1 || inbox.Tasks[0].ID != "t1" {
		t.Errorf("Inbox tasks = %+v", inbox.Tasks)
	}
}

func TestBuild_NoInboxWithoutMembers(t *testing.T) {
	containers := []couch.Document{container("cat-1", "root", "Work", "")}

	tree := Build(containers, nil, ids.NewRegistry())

	if _, ok := tree.Get("Inbox"); ok {
		t.Error("Inbox present with no unassigned members")
	}
}

func TestBuild_NestedContainersAndInboxContainer(t *testing.T) {
	containers := []couch.Document{
		container("cat-1", "root", "Work", "category"),
		container("proj-1", "cat-1", "Launch", ""),
		container("cat-2", "unassigned", "Someday", ""),
	}
	tasks := []couch.Document{
		task("task-1", "proj-1", "Ship it"),
		task("task-2", "cat-2", "Dream"),
	}

	tree := Build(containers, tasks, ids.NewRegistry())

	work, _ := tree.Get("Work")
	if work == nil || work.Sub == nil {
		t.Fatal("Work.Sub missing")
	}
	launch, _ := work.Sub.Get("Launch")
	if launch == nil || len(launch.Tasks) != 1 || launch.Tasks[0].Title != "Ship it" {
		t.Fatalf("Launch node = %+v", launch)
	}

	inbox, _ := tree.Get("Inbox")
	if inbox == nil || inbox.Sub == nil {
		t.Fatal("Inbox.Sub missing")
	}
	someday, _ := inbox.Sub.Get("Someday")
	if someday == nil || len(someday.Tasks) != 1 || someday.Tasks[0].Title != "Dream" {
		t.Fatalf("Someday node = %+v", someday)
	}
}

func TestBuild_TitleCollisionLastWriteWins(t *testing.T) {
	containers := []couch.Document{
		container("cat-1", "root", "Work", ""),
		container("cat-2", "root", "Work", ""),
	}

	reg := ids.NewRegistry()
	tree := Build(containers, nil, reg)

	if tree.Len() != 1 {
		t.Fatalf("tree entries = %d, want 1 (title is the key)", tree.Len())
	}
	work, _ := tree.Get("Work")
	// Later sibling in fetch order overwrites the earlier one.
	if want := reg.Token(ids.Project, "cat-2"); work.ID != want {
		t.Errorf("Work.ID = %s, want %s (the later sibling)", work.ID, want)
	}
}

func TestBuild_UntitledDefaults(t *testing.T) {
	containers := []couch.Document{{"_id": "cat-1", "parentId": "root"}}
	tasks := []couch.Document{{"_id": "task-1", "parentId": "cat-1"}}

	tree := Build(containers, tasks, ids.NewRegistry())

	node, ok := tree.Get("Untitled")
	if !ok {
		t.Fatal("untitled container not keyed as Untitled")
	}
	if node.Tasks[0].Title != "Untitled Task" {
		t.Errorf("task title = %q, want Untitled Task", node.Tasks[0].Title)
	}
}

func TestBuild_StarredAndPriority(t *testing.T) {
	containers := []couch.Document{
		couch.Document{"_id": "cat-1", "parentId": "root", "title": "Work", "priority": float64(3), "dueDate": "2025-05-01"},
	}
	tasks := []couch.Document{
		{"_id": "task-1", "parentId": "cat-1", "title": "a", "isStarred": true},
		{"_id": "task-2", "parentId": "cat-1", "title": "b", "isStarred": float64(2)},
	}

	tree := Build(containers, tasks, ids.NewRegistry())
	work, _ := tree.Get("Work")

	if work.Pri != 3 || work.Due != "2025-05-01" {
		t.Errorf("container pri/due = %d/%s", work.Pri, work.Due)
	}
	if work.Tasks[0].Pri != 1 {
		t.Errorf("boolean isStarred pri = %d, want 1", work.Tasks[0].Pri)
	}
	if work.Tasks[1].Pri != 2 {
		t.Errorf("numeric isStarred pri = %d, want 2", work.Tasks[1].Pri)
	}
}
