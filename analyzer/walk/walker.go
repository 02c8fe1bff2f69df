// Package walk implements a scoped depth-first traversal over tree-sitter
// syntax trees. The walker owns a stack of lexical-scope frames and the
// identity of the enclosing function; both are pushed before descending
// into a scope-introducing node and popped symmetrically after, so a
// visitor never observes an unbalanced stack.
package walk

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/source"
)

// Visitor receives traversal hooks. Enter is called before a node's
// children are visited; returning false skips the subtree. Leave is
// called after the subtree, on every exit path. A visitor that only
// cares about some node kinds switches on n.Type() and falls through to
// the default recursive descent for everything else.
type Visitor interface {
	Enter(n *sitter.Node) bool
	Leave(n *sitter.Node)
}

// Walker drives a depth-first traversal while tracking lexical scopes
// and the enclosing function. A Walker holds per-run state only; create
// one per traversal.
type Walker struct {
	frames    []*Frame
	functions []*sitter.Node
	nextID    int
}

// New creates a walker with an empty scope stack.
func New() *Walker {
	return &Walker{}
}

// Walk visits n and its named descendants depth-first. Scope frames are
// pushed before Enter and popped after Leave, so hooks observe the scope
// of the node they are called for.
func (w *Walker) Walk(n *sitter.Node, v Visitor) {
	if n == nil || n.IsNull() {
		return
	}
	function := IsFunction(n)
	kind := ScopeKind(n)
	if function {
		w.functions = append(w.functions, n)
	}
	if kind != "" {
		w.push(kind)
	}
	if v.Enter(n) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			w.Walk(n.NamedChild(i), v)
		}
	}
	v.Leave(n)
	if kind != "" {
		w.pop()
	}
	if function {
		w.functions = w.functions[:len(w.functions)-1]
	}
}

// Depth returns the current number of scope frames.
func (w *Walker) Depth() int {
	return len(w.frames)
}

// Innermost returns the current innermost scope frame, or nil when the
// traversal is outside the program body.
func (w *Walker) Innermost() *Frame {
	if len(w.frames) == 0 {
		return nil
	}
	return w.frames[len(w.frames)-1]
}

// Outer returns the frame directly enclosing the innermost one, or nil.
// Hoisted declarations such as function names belong there rather than
// in the frame their own node pushed.
func (w *Walker) Outer() *Frame {
	if len(w.frames) < 2 {
		return nil
	}
	return w.frames[len(w.frames)-2]
}

// Lookup searches frames innermost-to-outermost for a binding.
func (w *Walker) Lookup(name string) (Binding, *Frame, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if b, ok := w.frames[i].Lookup(name); ok {
			return b, w.frames[i], true
		}
	}
	return Binding{}, nil, false
}

// LookupOuter searches enclosing frames, excluding the innermost one.
func (w *Walker) LookupOuter(name string) (Binding, *Frame, bool) {
	for i := len(w.frames) - 2; i >= 0; i-- {
		if b, ok := w.frames[i].Lookup(name); ok {
			return b, w.frames[i], true
		}
	}
	return Binding{}, nil, false
}

// LookupBelow searches the frames strictly enclosing the given frame,
// outermost-bound. It generalizes LookupOuter for bindings that live in
// a frame other than the innermost, such as hoisted function names.
func (w *Walker) LookupBelow(frame *Frame, name string) (Binding, *Frame, bool) {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if w.frames[i] != frame {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if b, ok := w.frames[j].Lookup(name); ok {
				return b, w.frames[j], true
			}
		}
		break
	}
	return Binding{}, nil, false
}

// EnclosingFunction returns the innermost function node the traversal is
// inside of, or nil at the top level.
func (w *Walker) EnclosingFunction() *sitter.Node {
	if len(w.functions) == 0 {
		return nil
	}
	return w.functions[len(w.functions)-1]
}

func (w *Walker) push(kind string) {
	w.nextID++
	w.frames = append(w.frames, &Frame{
		id:       w.nextID,
		kind:     kind,
		bindings: map[string]Binding{},
	})
}

func (w *Walker) pop() {
	w.frames = w.frames[:len(w.frames)-1]
}

// ScopeKind classifies scope-introducing constructs, returning "" for
// nodes that do not open a scope. A function body block shares the frame
// pushed for the function itself, so parameters and top-level body
// bindings live in one scope.
func ScopeKind(n *sitter.Node) string {
	switch n.Type() {
	case "program":
		return "program"
	case "statement_block":
		if parent := n.Parent(); parent != nil && IsFunction(parent) {
			return ""
		}
		return "block"
	case "for_statement", "for_in_statement", "while_statement", "do_statement":
		return "loop"
	case "catch_clause":
		return "catch"
	case "switch_body":
		return "switch"
	}
	if IsFunction(n) {
		return "function"
	}
	return ""
}

// IsFunction reports whether n introduces a function of any flavor.
func IsFunction(n *sitter.Node) bool {
	switch n.Type() {
	case "function_declaration", "function", "function_expression",
		"arrow_function", "generator_function", "generator_function_declaration",
		"method_definition":
		return true
	}
	return false
}

// FunctionBody returns the body of a function node: a statement block,
// or an expression for expression-bodied arrow functions.
func FunctionBody(n *sitter.Node) *sitter.Node {
	return n.ChildByFieldName("body")
}

// FunctionName returns the declared name of a function node, or "" for
// anonymous functions. For arrow functions and function expressions
// assigned to a variable, the declarator name is used.
func FunctionName(n *sitter.Node, src []byte) string {
	if name := n.ChildByFieldName("name"); name != nil {
		return name.Content(src)
	}
	if parent := n.Parent(); parent != nil && parent.Type() == "variable_declarator" {
		if name := parent.ChildByFieldName("name"); name != nil {
			return name.Content(src)
		}
	}
	return ""
}

// NodeSpan returns the half-open byte span covered by a node.
func NodeSpan(n *sitter.Node) source.Span {
	return source.NewSpan(int(n.StartByte()), int(n.EndByte()))
}
