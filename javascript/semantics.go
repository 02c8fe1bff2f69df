package javascript

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/source"
	"github.com/jsvet/jsvet/analyzer/walk"
)

// Symbol is one resolved binding together with its usage count.
type Symbol struct {
	Name       string
	Kind       string // "let", "const", "var", "function", "class", "param", "catch"
	Span       source.Span
	ScopeID    int
	References int
}

// ScopeInfo is one node of the scope graph.
type ScopeInfo struct {
	ID       int
	Kind     string
	ParentID int // zero for the program scope
	Span     source.Span
}

// Facts carries the symbol table and scope graph derived from one parse.
// It is built once per file ahead of detection and read-only afterwards.
type Facts struct {
	Scopes  []ScopeInfo
	Symbols []*Symbol
	// Globals counts references to names never declared in the file,
	// i.e. ambient globals such as console or process.
	Globals map[string]int

	byScope map[string]*Symbol
}

// Symbol returns the symbol declared as name in the given scope.
func (f *Facts) Symbol(scopeID int, name string) *Symbol {
	return f.byScope[symbolKey(scopeID, name)]
}

func symbolKey(scopeID int, name string) string {
	return fmt.Sprintf("%d:%s", scopeID, name)
}

// BuildFacts derives semantic facts from a parsed program: every binding
// with its declaring scope, reference counts per binding, and the names
// resolved to ambient globals.
func BuildFacts(root *sitter.Node, src []byte) *Facts {
	facts := &Facts{
		Globals: map[string]int{},
		byScope: map[string]*Symbol{},
	}
	walker := walk.New()
	builder := &factsBuilder{walker: walker, src: src, facts: facts}
	walker.Walk(root, builder)
	builder.resolveAll()
	return facts
}

type factsBuilder struct {
	walker  *walk.Walker
	src     []byte
	facts   *Facts
	scopes  []int
	pending []pendingRef
}

// pendingRef is one identifier read buffered during the walk, together
// with the scope chain active at its site, outermost first.
type pendingRef struct {
	name  string
	chain []int
}

func (b *factsBuilder) Enter(n *sitter.Node) bool {
	if kind := walk.ScopeKind(n); kind != "" {
		frame := b.walker.Innermost()
		parent := 0
		if len(b.scopes) > 0 {
			parent = b.scopes[len(b.scopes)-1]
		}
		b.scopes = append(b.scopes, frame.ID())
		b.facts.Scopes = append(b.facts.Scopes, ScopeInfo{
			ID:       frame.ID(),
			Kind:     kind,
			ParentID: parent,
			Span:     walk.NodeSpan(n),
		})
	}

	switch n.Type() {
	case "variable_declarator":
		b.declarePattern(n.ChildByFieldName("name"), declaratorKind(n), b.walker.Innermost())
	case "function_declaration", "generator_function_declaration":
		b.declareName(n, "function")
	case "class_declaration":
		b.declareName(n, "class")
	case "formal_parameters":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			b.declarePattern(n.NamedChild(i), "param", b.walker.Innermost())
		}
	case "arrow_function":
		// A bare arrow parameter has no formal_parameters list.
		b.declarePattern(n.ChildByFieldName("parameter"), "param", b.walker.Innermost())
	case "catch_clause":
		b.declarePattern(n.ChildByFieldName("parameter"), "catch", b.walker.Innermost())
	case "identifier", "shorthand_property_identifier":
		if isReference(n) {
			b.resolve(n.Content(b.src))
		}
	}
	return true
}

func (b *factsBuilder) Leave(n *sitter.Node) {
	if walk.ScopeKind(n) != "" {
		b.scopes = b.scopes[:len(b.scopes)-1]
	}
}

// declareName registers a hoisted declaration (function or class name)
// in the scope enclosing the declaration's own frame.
func (b *factsBuilder) declareName(n *sitter.Node, kind string) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	frame := b.walker.Innermost()
	if walk.ScopeKind(n) != "" {
		if outer := b.walker.Outer(); outer != nil {
			frame = outer
		}
	}
	b.declare(name, kind, frame)
}

// declarePattern registers every identifier introduced by a binding
// pattern: a plain identifier, a default-value pattern, a rest pattern,
// or object/array destructuring.
func (b *factsBuilder) declarePattern(n *sitter.Node, kind string, frame *walk.Frame) {
	if n == nil || frame == nil {
		return
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		b.declare(n, kind, frame)
	case "assignment_pattern":
		b.declarePattern(n.ChildByFieldName("left"), kind, frame)
	case "rest_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			b.declarePattern(n.NamedChild(i), kind, frame)
		}
	case "object_pattern", "array_pattern":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "pair_pattern" {
				b.declarePattern(child.ChildByFieldName("value"), kind, frame)
				continue
			}
			b.declarePattern(child, kind, frame)
		}
	}
}

func (b *factsBuilder) declare(name *sitter.Node, kind string, frame *walk.Frame) {
	symbol := &Symbol{
		Name:    name.Content(b.src),
		Kind:    kind,
		Span:    walk.NodeSpan(name),
		ScopeID: frame.ID(),
	}
	b.facts.Symbols = append(b.facts.Symbols, symbol)
	b.facts.byScope[symbolKey(frame.ID(), symbol.Name)] = symbol
	frame.Bind(walk.Binding{Name: symbol.Name, Span: symbol.Span, Kind: kind})
}

// resolve buffers one identifier read. Resolution happens after the
// walk so hoisted declarations referenced above their declaration site
// still count.
func (b *factsBuilder) resolve(name string) {
	chain := make([]int, len(b.scopes))
	copy(chain, b.scopes)
	b.pending = append(b.pending, pendingRef{name: name, chain: chain})
}

// resolveAll resolves the buffered reads against the completed scope
// graph, innermost scope first; names declared nowhere on the chain
// count as ambient globals.
func (b *factsBuilder) resolveAll() {
	for _, ref := range b.pending {
		resolved := false
		for i := len(ref.chain) - 1; i >= 0; i-- {
			if symbol := b.facts.Symbol(ref.chain[i], ref.name); symbol != nil {
				symbol.References++
				resolved = true
				break
			}
		}
		if !resolved {
			b.facts.Globals[ref.name]++
		}
	}
}

// declaratorKind returns the declaration keyword of the statement owning
// a variable_declarator.
func declaratorKind(n *sitter.Node) string {
	parent := n.Parent()
	if parent == nil {
		return "let"
	}
	if parent.Type() == "variable_declaration" {
		return "var"
	}
	// lexical_declaration starts with its "let" or "const" token.
	if token := parent.Child(0); token != nil {
		return token.Type()
	}
	return "let"
}

// isReference reports whether an identifier node reads a binding, as
// opposed to introducing one.
func isReference(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil {
		return true
	}
	switch parent.Type() {
	case "variable_declarator":
		return !sameNode(parent.ChildByFieldName("name"), n)
	case "function_declaration", "function", "function_expression",
		"generator_function", "generator_function_declaration",
		"method_definition", "class_declaration":
		return !sameNode(parent.ChildByFieldName("name"), n)
	case "formal_parameters", "rest_pattern", "object_pattern", "array_pattern", "pair_pattern":
		return false
	case "catch_clause":
		return !sameNode(parent.ChildByFieldName("parameter"), n)
	case "arrow_function":
		return !sameNode(parent.ChildByFieldName("parameter"), n)
	case "assignment_pattern":
		return !sameNode(parent.ChildByFieldName("left"), n)
	}
	return true
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
