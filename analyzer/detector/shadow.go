package detector

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/source"
	"github.com/jsvet/jsvet/analyzer/walk"
)

// Shadow reports bindings that collide inside one scope (an error) or
// shadow a binding from an enclosing scope (a warning). Sibling scopes
// never collide: frames are popped symmetrically on scope exit.
type Shadow struct{}

// NewShadow creates the shadow/duplicate-binding detector.
func NewShadow() *Shadow {
	return &Shadow{}
}

// Rule implements Detector.
func (s *Shadow) Rule() string {
	return "no-shadow"
}

// Detect implements Detector.
func (s *Shadow) Detect(ctx *Context) []diag.Diagnostic {
	walker := walk.New()
	visitor := &shadowVisitor{
		ctx:         ctx,
		walker:      walker,
		allowShadow: ctx.Options.Bool("allow_shadow", false),
	}
	walker.Walk(ctx.Root, visitor)
	return visitor.out
}

type shadowVisitor struct {
	ctx         *Context
	walker      *walk.Walker
	allowShadow bool
	out         []diag.Diagnostic
}

func (v *shadowVisitor) Enter(n *sitter.Node) bool {
	switch n.Type() {
	case "variable_declarator":
		v.bindPattern(n.ChildByFieldName("name"), "let", v.walker.Innermost())
	case "function_declaration", "generator_function_declaration", "class_declaration":
		// Hoisted names belong to the scope enclosing the one their own
		// node pushed.
		frame := v.walker.Innermost()
		if walk.ScopeKind(n) != "" {
			if outer := v.walker.Outer(); outer != nil {
				frame = outer
			}
		}
		if name := n.ChildByFieldName("name"); name != nil {
			v.check(name, "function", frame)
		}
	case "formal_parameters":
		v.bindParameters(n)
	case "arrow_function":
		// A bare arrow parameter has no formal_parameters list.
		v.bindPattern(n.ChildByFieldName("parameter"), "param", v.walker.Innermost())
	case "catch_clause":
		v.bindPattern(n.ChildByFieldName("parameter"), "catch", v.walker.Innermost())
	}
	return true
}

func (v *shadowVisitor) Leave(n *sitter.Node) {}

// bindParameters checks a parameter list pairwise for intra-list
// duplicates before registering the names.
func (v *shadowVisitor) bindParameters(params *sitter.Node) {
	var names []*sitter.Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		names = append(names, patternIdentifiers(params.NamedChild(i))...)
	}
	for i := 1; i < len(names); i++ {
		for j := 0; j < i; j++ {
			if v.ctx.Text(names[i]) != v.ctx.Text(names[j]) {
				continue
			}
			v.out = append(v.out, v.duplicate(v.ctx.Text(names[i]), walk.NodeSpan(names[i])))
			break
		}
	}
	for _, name := range names {
		v.check(name, "param", v.walker.Innermost())
	}
}

// bindPattern checks and registers every identifier a binding pattern
// introduces.
func (v *shadowVisitor) bindPattern(pattern *sitter.Node, kind string, frame *walk.Frame) {
	for _, name := range patternIdentifiers(pattern) {
		v.check(name, kind, frame)
	}
}

// check applies the shadow rules for one name, then inserts the binding
// into the target frame regardless of the outcome.
func (v *shadowVisitor) check(name *sitter.Node, kind string, frame *walk.Frame) {
	if frame == nil {
		return
	}
	text := v.ctx.Text(name)
	span := walk.NodeSpan(name)

	// Parameters were already checked pairwise; re-registration of a
	// parameter name is not a second declaration.
	if _, ok := frame.Lookup(text); ok && kind != "param" {
		v.out = append(v.out, v.duplicate(text, span))
	} else if !v.allowShadow {
		if _, _, ok := v.walker.LookupBelow(frame, text); ok {
			v.out = append(v.out, diag.Diagnostic{
				RuleID:   "no-shadow",
				Severity: diag.SevWarning,
				Position: v.ctx.Position(span),
				Message:  fmt.Sprintf("'%s' shadows a binding from an enclosing scope", text),
			})
		}
	}
	frame.Bind(walk.Binding{Name: text, Span: span, Kind: kind})
}

func (v *shadowVisitor) duplicate(name string, span source.Span) diag.Diagnostic {
	return diag.Diagnostic{
		RuleID:   "no-shadow",
		Severity: diag.SevError,
		Position: v.ctx.Position(span),
		Message:  fmt.Sprintf("'%s' is already declared in this scope", name),
	}
}

// patternIdentifiers lists the identifiers introduced by a binding
// pattern in source order.
func patternIdentifiers(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []*sitter.Node{n}
	case "assignment_pattern":
		return patternIdentifiers(n.ChildByFieldName("left"))
	case "pair_pattern":
		return patternIdentifiers(n.ChildByFieldName("value"))
	case "rest_pattern", "object_pattern", "array_pattern":
		var out []*sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			out = append(out, patternIdentifiers(n.NamedChild(i))...)
		}
		return out
	}
	return nil
}
