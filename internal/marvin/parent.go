package marvin

import "github.com/marvin-tools/marvin-mcp/internal/couch"

// The store encodes parent links as magic strings. ParentRef keeps
// that encoding at the boundary: everything above works with the
// tagged form.
const (
	rootSentinel       = "root"
	unassignedSentinel = "unassigned"
)

type parentKind int

const (
	parentRoot parentKind = iota
	parentUnassigned
	parentContainer
)

// ParentRef is the classified parentId of a document: top-level
// (root), Inbox (unassigned), or a real container reference.
type ParentRef struct {
	kind parentKind
	id   string
}

// Root is the top-level parent reference.
func Root() ParentRef { return ParentRef{kind: parentRoot} }

// Unparented is the Inbox parent reference.
func Unparented() ParentRef { return ParentRef{kind: parentUnassigned} }

// ChildOf references a concrete container by persistent ID.
func ChildOf(id string) ParentRef { return ParentRef{kind: parentContainer, id: id} }

// ParseParent classifies a raw parentId value. An absent or empty
// value counts as root, matching how the hierarchy treats containers
// with no parent pointer.
func ParseParent(raw string) ParentRef {
	switch raw {
	case rootSentinel, "":
		return Root()
	case unassignedSentinel:
		return Unparented()
	default:
		return ChildOf(raw)
	}
}

// ParentOf classifies a document's parentId field.
func ParentOf(d couch.Document) ParentRef {
	return ParseParent(d.Str(couch.FieldParentID))
}

// IsRoot reports a top-level reference.
func (p ParentRef) IsRoot() bool { return p.kind == parentRoot }

// IsUnassigned reports an Inbox reference.
func (p ParentRef) IsUnassigned() bool { return p.kind == parentUnassigned }

// Is reports whether the reference points at the given container.
func (p ParentRef) Is(containerID string) bool {
	return p.kind == parentContainer && p.id == containerID
}

// StoreValue renders the reference back to the store's string form.
func (p ParentRef) StoreValue() string {
	switch p.kind {
	case parentRoot:
		return rootSentinel
	case parentUnassigned:
		return unassignedSentinel
	default:
		return p.id
	}
}
