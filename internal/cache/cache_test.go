package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/marvin-tools/marvin-mcp/internal/couch"
)

// fakeStore scripts Changes/Find responses and counts calls.
type fakeStore struct {
	changes     []changesResp
	changesIdx  int
	findDocs    []couch.Document
	findErr     error
	findCalls   int
	changesCall int
}

type changesResp struct {
	matched bool
	seq     string
	err     error
}

func (f *fakeStore) Changes(ctx context.Context, since string, sel couch.Selector) (bool, string, error) {
	f.changesCall++
	if f.changesIdx >= len(f.changes) {
		return false, "", errors.New("unexpected Changes call")
	}
	r := f.changes[f.changesIdx]
	f.changesIdx++
	return r.matched, r.seq, r.err
}

func (f *fakeStore) Find(ctx context.Context, sel couch.Selector) ([]couch.Document, error) {
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findDocs, nil
}

func TestDocuments_FirstFetchAdoptsFeedCursor(t *testing.T) {
	store := &fakeStore{
		changes:  []changesResp{{matched: false, seq: "5-a"}},
		findDocs: []couch.Document{{"_id": "x"}},
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")

	docs, err := c.Documents(context.Background())
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if store.findCalls != 1 {
		t.Errorf("findCalls = %d, want 1", store.findCalls)
	}
	if c.seq != "5-a" {
		t.Errorf("seq = %s, want 5-a", c.seq)
	}
	// A quiet probe from the beginning resolves the cursor directly;
	// no extra feed check is needed.
	if store.changesCall != 1 {
		t.Errorf("changesCall = %d, want 1", store.changesCall)
	}
}

func TestDocuments_HotPathSkipsFind(t *testing.T) {
	store := &fakeStore{
		changes: []changesResp{
			{matched: false, seq: "5-a"}, // initial populate
			{matched: false, seq: "5-a"}, // no changes since
		},
		findDocs: []couch.Document{{"_id": "x"}},
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")

	first, err := c.Documents(context.Background())
	if err != nil {
		t.Fatalf("first Documents() error = %v", err)
	}
	second, err := c.Documents(context.Background())
	if err != nil {
		t.Fatalf("second Documents() error = %v", err)
	}

	if store.findCalls != 1 {
		t.Errorf("findCalls = %d, want 1 (hot path must not refetch)", store.findCalls)
	}
	// Same slice object, not a copy.
	if &first[0] != &second[0] {
		t.Error("hot path returned a different document list")
	}
}

func TestDocuments_ChangeEventsForceRefetch(t *testing.T) {
	store := &fakeStore{
		changes: []changesResp{
			{matched: false, seq: "5-a"},
			{matched: true, seq: "6-b"},
		},
		findDocs: []couch.Document{{"_id": "x"}},
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")

	if _, err := c.Documents(context.Background()); err != nil {
		t.Fatalf("first Documents() error = %v", err)
	}
	if _, err := c.Documents(context.Background()); err != nil {
		t.Fatalf("second Documents() error = %v", err)
	}

	if store.findCalls != 2 {
		t.Errorf("findCalls = %d, want 2", store.findCalls)
	}
	if c.seq != "6-b" {
		t.Errorf("seq = %s, want 6-b", c.seq)
	}
}

func TestDocuments_StripsFieldUpdates(t *testing.T) {
	store := &fakeStore{
		changes: []changesResp{{matched: false, seq: "1-a"}},
		findDocs: []couch.Document{
			{"_id": "x", "fieldUpdates": map[string]any{"title": float64(1)}},
		},
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")

	docs, err := c.Documents(context.Background())
	if err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if docs[0].Has(couch.FieldUpdates) {
		t.Error("fieldUpdates leaked through the cache")
	}
}

func TestDocuments_FeedErrorInvalidates(t *testing.T) {
	store := &fakeStore{
		changes: []changesResp{
			{matched: false, seq: "5-a"},
			{err: errors.New("boom")},
			{matched: false, seq: "9-z"},
		},
		findDocs: []couch.Document{{"_id": "x"}},
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")

	if _, err := c.Documents(context.Background()); err != nil {
		t.Fatalf("populate error = %v", err)
	}
	if _, err := c.Documents(context.Background()); err == nil {
		t.Fatal("expected error from failing feed probe")
	}
	if c.docs != nil || c.seq != couch.SeqStart {
		t.Errorf("cache not invalidated: docs=%v seq=%s", c.docs, c.seq)
	}

	// Next call starts over from the beginning sentinel.
	if _, err := c.Documents(context.Background()); err != nil {
		t.Fatalf("recovery fetch error = %v", err)
	}
	if store.findCalls != 2 {
		t.Errorf("findCalls = %d, want 2", store.findCalls)
	}
}

func TestDocuments_FindErrorInvalidatesAndPropagates(t *testing.T) {
	store := &fakeStore{
		changes: []changesResp{{matched: false, seq: "5-a"}},
		findErr: errors.New("network down"),
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")

	_, err := c.Documents(context.Background())
	if err == nil {
		t.Fatal("expected propagated find error")
	}
	if c.docs != nil || c.seq != couch.SeqStart {
		t.Errorf("cache not invalidated after find failure: seq=%s", c.seq)
	}
}

func TestDocuments_UnresolvedCursorRerunsBaselineProbe(t *testing.T) {
	// A quiet probe from a mid-stream cursor with no cache behind it
	// (the post-invalidation case with a manually advanced cursor)
	// cannot resolve a baseline; a second probe from the beginning
	// must supply one.
	store := &fakeStore{
		changes: []changesResp{
			{matched: false, seq: "8-q"}, // quiet, but cache is empty
			{matched: false, seq: "8-q"}, // baseline re-probe from SeqStart
		},
		findDocs: []couch.Document{{"_id": "x"}},
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")
	c.seq = "7-p" // non-initial cursor, nil docs

	if _, err := c.Documents(context.Background()); err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if store.changesCall != 2 {
		t.Errorf("changesCall = %d, want 2 (baseline re-probe)", store.changesCall)
	}
	if c.seq != "8-q" {
		t.Errorf("seq = %s, want 8-q", c.seq)
	}
}

func TestDocuments_BaselineProbeFailureKeepsOldCursor(t *testing.T) {
	store := &fakeStore{
		changes: []changesResp{
			{matched: false, seq: "8-q"},
			{err: errors.New("probe failed")},
		},
		findDocs: []couch.Document{{"_id": "x"}},
	}
	c := New(store, couch.Eq("db", "Tasks"), "tasks")
	c.seq = "7-p"

	if _, err := c.Documents(context.Background()); err != nil {
		t.Fatalf("Documents() error = %v", err)
	}
	if c.seq != "7-p" {
		t.Errorf("seq = %s, want 7-p (fall back to the old cursor)", c.seq)
	}
}
