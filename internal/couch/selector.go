package couch

// Selector is a Mango query predicate, passed through to the store
// verbatim. The query language itself is opaque to this package —
// only the handful of combinators the Marvin collections need are
// provided.
type Selector map[string]any

// Eq matches documents whose field equals the given value.
func Eq(field string, value any) Selector {
	return Selector{field: value}
}

// Or combines sub-predicates with a boolean or.
func Or(subs ...Selector) Selector {
	clauses := make([]any, len(subs))
	for i, s := range subs {
		clauses[i] = map[string]any(s)
	}
	return Selector{"$or": clauses}
}

// Absent matches documents where the field does not exist.
func Absent(field string) Selector {
	return Selector{field: map[string]any{"$exists": false}}
}

// And merges predicates into one selector. Later fields win on
// collision, which never matters for the fixed selectors used here.
func And(subs ...Selector) Selector {
	out := Selector{}
	for _, s := range subs {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
