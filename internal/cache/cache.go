// Package cache implements the change-feed-gated document cache. Each
// Collection pairs a fixed selector with the last-seen change cursor
// and the documents fetched under it. A read first probes the _changes
// feed; only when the feed reports events (or the cache has never been
// populated) does it pay for a full _find.
package cache

import (
	"context"
	"fmt"
	"log"

	"github.com/marvin-tools/marvin-mcp/internal/couch"
)

// Store is the slice of the remote store a Collection needs.
// Implemented by *couch.Client; faked in tests.
type Store interface {
	Find(ctx context.Context, sel couch.Selector) ([]couch.Document, error)
	Changes(ctx context.Context, since string, sel couch.Selector) (bool, string, error)
}

// Collection is the cache for one logical document collection. Not
// safe for concurrent use — it belongs to exactly one adapter
// instance, and the stdio server dispatches requests sequentially.
type Collection struct {
	store Store
	sel   couch.Selector
	name  string // for logs only

	docs []couch.Document
	seq  string
}

// New creates an empty collection cache over the given selector.
func New(store Store, sel couch.Selector, name string) *Collection {
	return &Collection{store: store, sel: sel, name: name, seq: couch.SeqStart}
}

// Documents returns the current documents for the collection,
// refetching only when the change feed reports events since the last
// cursor. Any store failure drops the cache entirely and resets the
// cursor, so the next call refetches from scratch — stale data is
// never served after an error.
func (c *Collection) Documents(ctx context.Context) ([]couch.Document, error) {
	matched, feedSeq, err := c.store.Changes(ctx, c.seq, c.sel)
	if err != nil {
		c.Invalidate()
		return nil, fmt.Errorf("checking %s changes: %w", c.name, err)
	}

	if !matched && c.seq != couch.SeqStart && c.docs != nil {
		log.Printf("returning cached %s (no changes since %s)", c.name, c.seq)
		return c.docs, nil
	}

	// The feed's cursor is only trustworthy as a baseline when it
	// either covered events or ran from the beginning. A quiet probe
	// from a mid-stream cursor with no cache behind it says nothing
	// about where the full fetch below lands.
	nextSeq := ""
	if matched || c.seq == couch.SeqStart {
		nextSeq = feedSeq
	}

	log.Printf("fetching fresh %s (changes detected or cache empty)", c.name)
	docs, err := c.store.Find(ctx, c.sel)
	if err != nil {
		c.Invalidate()
		return nil, fmt.Errorf("fetching %s: %w", c.name, err)
	}
	for i, d := range docs {
		docs[i] = d.WithoutBookkeeping()
	}

	if nextSeq == "" {
		if _, cur, err := c.store.Changes(ctx, couch.SeqStart, c.sel); err == nil && cur != "" {
			nextSeq = cur
		} else {
			nextSeq = c.seq
		}
	}

	c.docs = docs
	c.seq = nextSeq
	return docs, nil
}

// Invalidate drops the cached documents and resets the cursor to the
// beginning sentinel.
func (c *Collection) Invalidate() {
	c.docs = nil
	c.seq = couch.SeqStart
}
