package hierarchy

import (
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Render serializes the tree with two-space indentation, except that
// task arrays collapse to one compact record per line. The rule is
// uniform at every depth: an LLM reading the output sees one task per
// line no matter how deep the project nests. An empty task array
// renders as a bare [] on its own line.
func Render(tree *Tree) string {
	var b strings.Builder
	writeObject(&b, tree, 0)
	return b.String()
}

func writeObject(b *strings.Builder, m *orderedmap.OrderedMap[string, *Node], depth int) {
	if m == nil || m.Len() == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	ind := indent(depth + 1)
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		b.WriteString(ind)
		b.WriteString(jsonString(pair.Key))
		b.WriteString(": ")
		writeNode(b, pair.Value, depth+1)
		if pair.Next() != nil {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(indent(depth))
	b.WriteString("}")
}

func writeNode(b *strings.Builder, n *Node, depth int) {
	ind := indent(depth + 1)
	var parts []string

	if n.ID != "" {
		parts = append(parts, ind+`"id": `+jsonString(n.ID))
	}
	if n.Pri != 0 {
		parts = append(parts, fmt.Sprintf("%s%q: %d", ind, "pri", n.Pri))
	}
	if n.Due != "" {
		parts = append(parts, ind+`"due": `+jsonString(n.Due))
	}
	if n.Tasks != nil {
		parts = append(parts, renderTasks(n.Tasks, depth+1))
	}
	if n.Sub != nil && n.Sub.Len() > 0 {
		var sub strings.Builder
		sub.WriteString(ind)
		sub.WriteString(`"sub": `)
		writeObject(&sub, n.Sub, depth+1)
		parts = append(parts, sub.String())
	}

	if len(parts) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	b.WriteString(strings.Join(parts, ",\n"))
	b.WriteString("\n")
	b.WriteString(indent(depth))
	b.WriteString("}")
}

// renderTasks emits the compact form: the array brackets on their own
// lines, one whitespace-free record per task between them.
func renderTasks(tasks []TaskEntry, depth int) string {
	ind := indent(depth)
	if len(tasks) == 0 {
		return ind + `"tasks": []`
	}
	var b strings.Builder
	b.WriteString(ind)
	b.WriteString(`"tasks": [`)
	b.WriteString("\n")
	recordInd := indent(depth + 1)
	for i, t := range tasks {
		record, err := json.Marshal(t)
		if err != nil {
			// A TaskEntry is plain strings and ints; this cannot fail.
			record = []byte("{}")
		}
		b.WriteString(recordInd)
		b.Write(record)
		if i < len(tasks)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(ind)
	b.WriteString("]")
	return b.String()
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}

func jsonString(s string) string {
	data, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(data)
}
