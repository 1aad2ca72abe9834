package toolpath

import (
	"strings"

	"github.com/maiereni/drl2rml/drill"
)

// Extent is the area covered by the vertices of one tool, in device units.
// DeepestZ is the smallest Z seen, starting from 0.
type Extent struct {
	MaxX, MaxY float32
	DeepestZ   float32
}

func (e *Extent) include(x, y, z float32) {
	e.MaxX = max(e.MaxX, x)
	e.MaxY = max(e.MaxY, y)
	e.DeepestZ = min(e.DeepestZ, z)
}

// Entry is the generated output for one tool.
type Entry struct {
	Tool   drill.Tool
	Holes  int
	Blocks int
	Extent Extent
	Text   string
}

// Result maps tool labels to generated text, in tool declaration order.
type Result struct {
	order   []string
	entries map[string]*Entry
}

func newResult() *Result {
	return &Result{entries: map[string]*Entry{}}
}

func (r *Result) add(e *Entry) {
	label := e.Tool.Label()
	if _, ok := r.entries[label]; !ok {
		r.order = append(r.order, label)
	}
	r.entries[label] = e
}

// Keys returns the tool labels in declaration order.
func (r *Result) Keys() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of tools.
func (r *Result) Len() int {
	return len(r.order)
}

// Get returns the text generated for label.
func (r *Result) Get(label string) (string, bool) {
	e, ok := r.entries[label]
	if !ok {
		return "", false
	}
	return e.Text, true
}

// Entry returns the full entry for label, or nil.
func (r *Result) Entry(label string) *Entry {
	return r.entries[label]
}

// Entries returns every entry in declaration order.
func (r *Result) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, label := range r.order {
		out = append(out, r.entries[label])
	}
	return out
}

// FileName returns the output file used for a tool label:
// "T1 0.4mm" -> "rnl1-T1.out".
func FileName(label string) string {
	id, _, _ := strings.Cut(label, " ")
	return "rnl1-" + id + ".out"
}
