// Package marvin is the raw data layer over the Amazing Marvin
// CouchDB database: the Categories and Tasks collections, their
// selectors, change-gated cached reads, and the document-shaping
// rules for creates and updates (rank assignment, fieldUpdates
// bookkeeping). No friendly IDs or LLM formatting here — that is
// internal/adapter's job.
package marvin

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/marvin-tools/marvin-mcp/internal/cache"
	"github.com/marvin-tools/marvin-mcp/internal/couch"
)

// Store is the remote document store contract the service needs.
// Implemented by *couch.Client; faked in tests.
type Store interface {
	cache.Store
	Get(ctx context.Context, id string) (couch.Document, error)
	Put(ctx context.Context, doc couch.Document) error
	Create(ctx context.Context, doc couch.Document) (string, error)
}

// Collection discriminator values in the shared database.
const (
	dbCategories = "Categories"
	dbTasks      = "Tasks"
)

// notDone matches documents that are incomplete or have no done flag
// at all (Marvin omits the field until first completion).
func notDone() couch.Selector {
	return couch.Or(couch.Eq(couch.FieldDone, false), couch.Absent(couch.FieldDone))
}

func categorySelector() couch.Selector {
	return couch.And(couch.Eq(couch.FieldDB, dbCategories), notDone())
}

func taskSelector() couch.Selector {
	return couch.And(couch.Eq(couch.FieldDB, dbTasks), notDone())
}

// Service owns the two collection caches. One instance per adapter;
// not safe for concurrent use.
type Service struct {
	store      Store
	categories *cache.Collection
	tasks      *cache.Collection

	// nowMillis is the write-path clock, replaceable in tests.
	nowMillis func() int64
}

// New creates a service with empty caches over the given store.
func New(store Store) *Service {
	return &Service{
		store:      store,
		categories: cache.New(store, categorySelector(), "categories"),
		tasks:      cache.New(store, taskSelector(), "tasks"),
		nowMillis:  func() int64 { return time.Now().UnixMilli() },
	}
}

// Categories returns all incomplete categories and projects, served
// from cache unless the change feed reports events.
func (s *Service) Categories(ctx context.Context) ([]couch.Document, error) {
	return s.categories.Documents(ctx)
}

// Tasks returns incomplete tasks. With a parentID the cache is
// bypassed entirely — the selector differs per call and per-parent
// caching is not attempted.
func (s *Service) Tasks(ctx context.Context, parentID string) ([]couch.Document, error) {
	if parentID == "" {
		return s.tasks.Documents(ctx)
	}

	log.Printf("fetching tasks for parent %s (cache bypass)", parentID)
	sel := couch.And(
		couch.Eq(couch.FieldDB, dbTasks),
		couch.Eq(couch.FieldParentID, parentID),
		notDone(),
	)
	docs, err := s.store.Find(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks for parent %s: %w", parentID, err)
	}
	for i, d := range docs {
		docs[i] = d.WithoutBookkeeping()
	}
	return docs, nil
}

// TasksByDay returns tasks scheduled for the given day, completed
// ones included unless excluded. Day queries never touch the cache.
// Results are ordered incomplete-first, then starred descending, then
// masterRank descending.
func (s *Service) TasksByDay(ctx context.Context, day string, includeCompleted bool) ([]couch.Document, error) {
	sel := couch.And(
		couch.Eq(couch.FieldDB, dbTasks),
		couch.Eq(couch.FieldDay, day),
	)
	if !includeCompleted {
		sel = couch.And(sel, notDone())
	}

	docs, err := s.store.Find(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("fetching tasks for day %s: %w", day, err)
	}
	for i, d := range docs {
		docs[i] = d.WithoutBookkeeping()
	}

	sort.SliceStable(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if a.Bool(couch.FieldDone) != b.Bool(couch.FieldDone) {
			return !a.Bool(couch.FieldDone)
		}
		if a.Int(couch.FieldStarred) != b.Int(couch.FieldStarred) {
			return a.Int(couch.FieldStarred) > b.Int(couch.FieldStarred)
		}
		return a.Int64(couch.FieldMasterRank) > b.Int64(couch.FieldMasterRank)
	})
	return docs, nil
}

// NewTask describes a task to create. Zero-valued optional fields are
// omitted from the stored document.
type NewTask struct {
	Title        string
	Parent       ParentRef
	Day          string
	DueDate      string
	TimeEstimate int64 // milliseconds
	Priority     int   // 1-3, stored in isStarred
}

// CreateTask inserts a new task document and returns its persistent
// ID. Rank is the max rank across all tasks plus one; masterRank is
// the max among siblings plus one.
func (s *Service) CreateTask(ctx context.Context, nt NewTask) (string, error) {
	all, err := s.Tasks(ctx, "")
	if err != nil {
		return "", fmt.Errorf("loading tasks for rank assignment: %w", err)
	}
	rank, masterRank := nextRanks(all, nt.Parent.StoreValue())

	now := s.nowMillis()
	doc := couch.Document{
		couch.FieldDB:         dbTasks,
		couch.FieldTitle:      nt.Title,
		couch.FieldParentID:   nt.Parent.StoreValue(),
		couch.FieldCreatedAt:  now,
		couch.FieldUpdatedAt:  now,
		couch.FieldRank:       rank,
		couch.FieldMasterRank: masterRank,
		couch.FieldUpdates:    map[string]any{},
	}
	if nt.Day != "" {
		doc[couch.FieldDay] = nt.Day
	} else {
		doc[couch.FieldDay] = unassignedSentinel
	}
	if nt.DueDate != "" {
		doc[couch.FieldDueDate] = nt.DueDate
	}
	if nt.TimeEstimate > 0 {
		doc[couch.FieldTimeEstimate] = nt.TimeEstimate
	}
	if nt.Priority > 0 {
		doc[couch.FieldStarred] = nt.Priority
	}

	id, err := s.store.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("creating task: %w", err)
	}
	log.Printf("created task %q (%s)", nt.Title, id)
	return id, nil
}

// ContainerKind selects the type discriminator for a new container.
type ContainerKind string

const (
	KindProject  ContainerKind = "project"
	KindCategory ContainerKind = "category"
)

// NewContainer describes a project or category to create.
type NewContainer struct {
	Title    string
	Parent   ParentRef
	DueDate  string
	Priority int
	Kind     ContainerKind
}

// CreateContainer inserts a new category or project document and
// returns its persistent ID. Ranks are computed against the existing
// containers, same scheme as tasks.
func (s *Service) CreateContainer(ctx context.Context, nc NewContainer) (string, error) {
	all, err := s.Categories(ctx)
	if err != nil {
		return "", fmt.Errorf("loading categories for rank assignment: %w", err)
	}
	rank, masterRank := nextRanks(all, nc.Parent.StoreValue())

	now := s.nowMillis()
	doc := couch.Document{
		couch.FieldDB:         dbCategories,
		couch.FieldType:       string(nc.Kind),
		couch.FieldTitle:      nc.Title,
		couch.FieldParentID:   nc.Parent.StoreValue(),
		couch.FieldCreatedAt:  now,
		couch.FieldUpdatedAt:  now,
		couch.FieldRank:       rank,
		couch.FieldMasterRank: masterRank,
	}
	if nc.DueDate != "" {
		doc[couch.FieldDueDate] = nc.DueDate
	}
	if nc.Priority > 0 {
		doc[couch.FieldPriority] = nc.Priority
	}

	id, err := s.store.Create(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", nc.Kind, err)
	}
	log.Printf("created %s %q (%s)", nc.Kind, nc.Title, id)
	return id, nil
}

// UpdateTask fetches the current task document, applies the updates,
// stamps updatedAt and the per-field fieldUpdates record, and writes
// it back. Returns the merged document without bookkeeping fields.
func (s *Service) UpdateTask(ctx context.Context, id string, updates couch.Document) (couch.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading task %s: %w", id, err)
	}

	now := s.nowMillis()
	doc[couch.FieldUpdatedAt] = now

	fu, _ := doc[couch.FieldUpdates].(map[string]any)
	if fu == nil {
		fu = map[string]any{}
	}
	for k, v := range updates {
		doc[k] = v
		fu[k] = now
	}
	doc[couch.FieldUpdates] = fu

	if err := s.store.Put(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}
	log.Printf("updated task %s (%d fields)", id, len(updates))
	return doc.WithoutBookkeeping(), nil
}

// nextRanks computes (rank, masterRank) for a new document: rank is
// global, masterRank is scoped to siblings under the same parent.
func nextRanks(all []couch.Document, parentID string) (int64, int64) {
	var maxRank, maxMaster int64
	for _, d := range all {
		if r := d.Int64(couch.FieldRank); r > maxRank {
			maxRank = r
		}
		if d.Str(couch.FieldParentID) != parentID {
			continue
		}
		if m := d.Int64(couch.FieldMasterRank); m > maxMaster {
			maxMaster = m
		}
	}
	return maxRank + 1, maxMaster + 1
}
