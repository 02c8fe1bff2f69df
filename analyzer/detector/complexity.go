package detector

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/walk"
)

// Complexity scores every function's cyclomatic complexity and reports
// the ones exceeding the configured ceiling, one diagnostic per function.
type Complexity struct{}

// NewComplexity creates the complexity detector.
func NewComplexity() *Complexity {
	return &Complexity{}
}

// Rule implements Detector.
func (c *Complexity) Rule() string {
	return "max-complexity"
}

// Detect implements Detector.
func (c *Complexity) Detect(ctx *Context) []diag.Diagnostic {
	visitor := &complexityVisitor{
		ctx:          ctx,
		max:          ctx.Options.Int("max", 10),
		ignoreArrows: ctx.Options.Bool("ignore_arrows", false),
		skipTrivial:  ctx.Options.Bool("skip_trivial", true),
	}
	walk.New().Walk(ctx.Root, visitor)
	return visitor.out
}

type complexityVisitor struct {
	ctx          *Context
	max          int
	ignoreArrows bool
	skipTrivial  bool
	out          []diag.Diagnostic
}

func (v *complexityVisitor) Enter(n *sitter.Node) bool {
	if !walk.IsFunction(n) {
		return true
	}
	if v.ignoreArrows && n.Type() == "arrow_function" {
		return true
	}
	body := walk.FunctionBody(n)
	if body == nil {
		return true
	}
	if body.Type() != "statement_block" {
		// Expression-bodied arrow functions score a fixed 1.
		return true
	}
	if v.skipTrivial && statementCount(body) <= 2 {
		return true
	}
	score := 1 + scoreComplexity(body, v.ctx.Source)
	if score <= v.max {
		return true
	}
	name := walk.FunctionName(n, v.ctx.Source)
	if name == "" {
		name = "(anonymous)"
	}
	v.out = append(v.out, diag.Diagnostic{
		RuleID:   "max-complexity",
		Severity: diag.SevWarning,
		Position: v.ctx.Position(walk.NodeSpan(n)),
		Message:  fmt.Sprintf("function '%s' has cyclomatic complexity %d (max %d)", name, score, v.max),
	})
	return true
}

func (v *complexityVisitor) Leave(n *sitter.Node) {}

// statementCount counts the statements directly inside a block.
func statementCount(body *sitter.Node) int {
	count := 0
	for i := 0; i < int(body.NamedChildCount()); i++ {
		if body.NamedChild(i).Type() != "comment" {
			count++
		}
	}
	return count
}

// scoreComplexity sums the decision points below n without descending
// into nested functions, which are scored on their own.
func scoreComplexity(n *sitter.Node, src []byte) int {
	score := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if walk.IsFunction(child) {
			continue
		}
		switch child.Type() {
		case "if_statement", "for_statement", "for_in_statement",
			"while_statement", "do_statement", "ternary_expression":
			score++
		case "switch_case":
			score++
		case "binary_expression":
			if op := child.ChildByFieldName("operator"); op != nil {
				switch op.Type() {
				case "&&", "||":
					score++
				}
			}
		}
		score += scoreComplexity(child, src)
	}
	return score
}
