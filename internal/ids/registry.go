// Package ids maintains the bidirectional mapping between persistent
// store identifiers and the short friendly tokens (t1, p1, c1) that
// tool calls use. Three independent namespaces, each a strict
// bijection with tokens allocated in increasing order from 1.
// Mappings live for the process lifetime and are never collected.
package ids

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is a token namespace.
type Kind int

const (
	Task Kind = iota
	Project
	Category
	kindCount
)

// Sentinel values shared with the store's parentId field.
const (
	// Unassigned is the persistent-ID sentinel for items that belong
	// in the synthetic Inbox.
	Unassigned = "unassigned"
	// InboxToken is the reserved token pre-bound to Unassigned. It is
	// outside the normal project counter, which starts at p1.
	InboxToken = "p0"
)

func (k Kind) prefix() string {
	switch k {
	case Task:
		return "t"
	case Project:
		return "p"
	case Category:
		return "c"
	}
	return "?"
}

func (k Kind) String() string {
	switch k {
	case Task:
		return "task"
	case Project:
		return "project"
	case Category:
		return "category"
	}
	return "unknown"
}

// InvalidTokenError reports a friendly token that does not resolve:
// never assigned, or carrying the wrong namespace prefix.
type InvalidTokenError struct {
	Token string
	Kind  Kind
}

func (e *InvalidTokenError) Error() string {
	p := e.Kind.prefix()
	return fmt.Sprintf("invalid %s ID %q: use a valid %s ID (%s1, %s2, ...) from list_tasks results",
		e.Kind, e.Token, e.Kind, p, p)
}

// Registry owns the three namespace tables. Not safe for concurrent
// use; one registry belongs to one adapter instance.
type Registry struct {
	tokens [kindCount]map[string]string // persistent ID -> token
	ids    [kindCount]map[string]string // token -> persistent ID
	next   [kindCount]int
}

// NewRegistry creates an empty registry with the Inbox binding
// (p0 <-> "unassigned") already in place.
func NewRegistry() *Registry {
	r := &Registry{}
	for k := Kind(0); k < kindCount; k++ {
		r.tokens[k] = make(map[string]string)
		r.ids[k] = make(map[string]string)
		r.next[k] = 1
	}
	r.tokens[Project][Unassigned] = InboxToken
	r.ids[Project][InboxToken] = Unassigned
	return r
}

// Token returns the friendly token for a persistent ID, allocating
// the next free token in the namespace on first sight. Idempotent.
// An empty persistent ID yields an empty token.
func (r *Registry) Token(k Kind, persistentID string) string {
	if persistentID == "" {
		return ""
	}
	if tok, ok := r.tokens[k][persistentID]; ok {
		return tok
	}
	tok := k.prefix() + strconv.Itoa(r.next[k])
	r.next[k]++
	r.tokens[k][persistentID] = tok
	r.ids[k][tok] = persistentID
	return tok
}

// PersistentID resolves a friendly token back to its persistent ID.
// Fails when the prefix does not match the namespace or the token was
// never assigned.
func (r *Registry) PersistentID(k Kind, token string) (string, error) {
	if token == "" {
		return "", &InvalidTokenError{Token: token, Kind: k}
	}
	if !strings.HasPrefix(token, k.prefix()) {
		return "", &InvalidTokenError{Token: token, Kind: k}
	}
	id, ok := r.ids[k][token]
	if !ok {
		return "", &InvalidTokenError{Token: token, Kind: k}
	}
	return id, nil
}

// Known reports whether a persistent ID already has a token in the
// namespace, without allocating one.
func (r *Registry) Known(k Kind, persistentID string) bool {
	_, ok := r.tokens[k][persistentID]
	return ok
}
