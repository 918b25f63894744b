package couch

import (
	"github.com/spf13/cast"
)

// Reserved document fields.
const (
	FieldID           = "_id"
	FieldRev          = "_rev"
	FieldUpdates      = "fieldUpdates"
	FieldDB           = "db"
	FieldParentID     = "parentId"
	FieldTitle        = "title"
	FieldType         = "type"
	FieldDone         = "done"
	FieldDay          = "day"
	FieldDueDate      = "dueDate"
	FieldPriority     = "priority"
	FieldStarred      = "isStarred"
	FieldTimeEstimate = "timeEstimate"
	FieldCreatedAt    = "createdAt"
	FieldUpdatedAt    = "updatedAt"
	FieldRank         = "rank"
	FieldMasterRank   = "masterRank"
)

// Document is a schemaless CouchDB document. Fields keep whatever
// shape the remote store gave them; accessors coerce on the way out
// because JSON numbers arrive as float64 and a few Marvin fields
// (isStarred, priority) show up as bool, int, or string depending on
// which client wrote them.
type Document map[string]any

// ID returns the persistent document identifier.
func (d Document) ID() string {
	return d.Str(FieldID)
}

// Str returns the field coerced to a string, or "" when absent.
func (d Document) Str(key string) string {
	v, ok := d[key]
	if !ok || v == nil {
		return ""
	}
	return cast.ToString(v)
}

// Int64 returns the field coerced to an int64, or 0 when absent or
// not numeric.
func (d Document) Int64(key string) int64 {
	v, ok := d[key]
	if !ok || v == nil {
		return 0
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0
	}
	return n
}

// Int returns the field coerced to an int. A bare true counts as 1 so
// that legacy boolean isStarred values still read as a priority.
func (d Document) Int(key string) int {
	if b, ok := d[key].(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return int(d.Int64(key))
}

// Bool returns the field coerced to a bool, or false when absent.
func (d Document) Bool(key string) bool {
	v, ok := d[key]
	if !ok || v == nil {
		return false
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return false
	}
	return b
}

// Has reports whether the field is present (even if null).
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// WithoutBookkeeping returns a copy of the document with the
// fieldUpdates edit-history record removed. Readers never see it; the
// write path maintains it separately.
func (d Document) WithoutBookkeeping() Document {
	if !d.Has(FieldUpdates) {
		return d
	}
	out := make(Document, len(d))
	for k, v := range d {
		if k == FieldUpdates {
			continue
		}
		out[k] = v
	}
	return out
}
