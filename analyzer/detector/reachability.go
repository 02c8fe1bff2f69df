package detector

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/walk"
)

// Reachability reports statements that can never execute because an
// earlier sibling terminates control flow. Each block and switch case is
// scanned independently: a terminator affects only its own sibling list.
type Reachability struct{}

// NewReachability creates the reachability detector.
func NewReachability() *Reachability {
	return &Reachability{}
}

// Rule implements Detector.
func (r *Reachability) Rule() string {
	return "no-unreachable"
}

// Detect implements Detector.
func (r *Reachability) Detect(ctx *Context) []diag.Diagnostic {
	visitor := &reachabilityVisitor{ctx: ctx}
	walk.New().Walk(ctx.Root, visitor)
	return visitor.out
}

type reachabilityVisitor struct {
	ctx *Context
	out []diag.Diagnostic
}

func (v *reachabilityVisitor) Enter(n *sitter.Node) bool {
	switch n.Type() {
	case "statement_block", "program":
		v.scan(n, nil)
	case "switch_case", "switch_default":
		v.scan(n, n.ChildByFieldName("value"))
	}
	return true
}

func (v *reachabilityVisitor) Leave(n *sitter.Node) {}

// scan walks one sibling list in order with an unreachable flag. skip is
// a non-statement child to ignore, such as a switch case's value.
func (v *reachabilityVisitor) scan(n *sitter.Node, skip *sitter.Node) {
	unreachable := false
	var terminator string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		statement := n.NamedChild(i)
		if statement.Type() == "comment" || (skip != nil && sameSpan(statement, skip)) {
			continue
		}
		if unreachable && executable(statement) {
			v.out = append(v.out, diag.Diagnostic{
				RuleID:   "no-unreachable",
				Severity: diag.SevError,
				Position: v.ctx.Position(walk.NodeSpan(statement)),
				Message:  fmt.Sprintf("unreachable code after '%s'", terminator),
			})
			continue
		}
		if terminating(statement) {
			unreachable = true
			terminator = terminatorKeyword(statement)
		}
	}
}

// terminating reports whether a statement unconditionally leaves the
// enclosing sibling list.
func terminating(n *sitter.Node) bool {
	switch n.Type() {
	case "return_statement", "throw_statement", "continue_statement", "break_statement":
		return true
	}
	return false
}

func terminatorKeyword(n *sitter.Node) string {
	switch n.Type() {
	case "return_statement":
		return "return"
	case "throw_statement":
		return "throw"
	case "continue_statement":
		return "continue"
	case "break_statement":
		return "break"
	}
	return n.Type()
}

// executable reports whether a statement has a runtime position
// dependency. Hoisted declarations, imports/exports and empty statements
// are reachable regardless of their position.
func executable(n *sitter.Node) bool {
	switch n.Type() {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "variable_declaration",
		"import_statement", "export_statement", "empty_statement":
		return false
	}
	return true
}
