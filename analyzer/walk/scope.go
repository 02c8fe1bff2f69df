package walk

import (
	"github.com/jsvet/jsvet/analyzer/source"
)

// Binding records one name introduced into a lexical scope.
type Binding struct {
	Name    string
	Span    source.Span // declaration site
	Kind    string      // "let", "const", "var", "function", "class", "param", "catch"
	ScopeID int
}

// Frame is one lexical scope level: a mapping from binding name to its
// declaration metadata. Frames are owned by a single Walker and are not
// shared across traversals.
type Frame struct {
	id       int
	kind     string
	bindings map[string]Binding
}

// ID returns the unique id of the scope within one traversal.
func (f *Frame) ID() int {
	return f.id
}

// Kind returns the scope-introducing construct kind, e.g. "function",
// "block", "loop", "catch", "switch" or "program".
func (f *Frame) Kind() string {
	return f.kind
}

// Lookup returns the binding for name in this frame only.
func (f *Frame) Lookup(name string) (Binding, bool) {
	b, ok := f.bindings[name]
	return b, ok
}

// Bind inserts or overwrites the binding for b.Name in this frame.
func (f *Frame) Bind(b Binding) {
	b.ScopeID = f.id
	f.bindings[b.Name] = b
}

// Len returns the number of bindings held by the frame.
func (f *Frame) Len() int {
	return len(f.bindings)
}
