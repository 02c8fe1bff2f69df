package detector

import (
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/source"
	"github.com/jsvet/jsvet/analyzer/walk"
)

// numberContext classifies where a numeric literal occurs.
type numberContext uint8

const (
	contextGeneric numberContext = iota
	contextBinaryOperation
	contextArrayIndex
	contextFunctionCallArg
	contextReturnStatement
	contextDefaultAssignment
	contextComparison
	contextTimeout // known timeout/interval call; always allowed
)

// numberUsage is one literal occurrence recorded during the pass.
type numberUsage struct {
	value     float64
	text      string
	span      source.Span
	context   numberContext
	callee    string
	suggested string
}

// httpStatusNames maps well-known HTTP status codes to suggested
// constant names.
var httpStatusNames = map[int]string{
	200: "HTTP_OK",
	201: "HTTP_CREATED",
	204: "HTTP_NO_CONTENT",
	301: "HTTP_MOVED_PERMANENTLY",
	302: "HTTP_FOUND",
	304: "HTTP_NOT_MODIFIED",
	400: "HTTP_BAD_REQUEST",
	401: "HTTP_UNAUTHORIZED",
	403: "HTTP_FORBIDDEN",
	404: "HTTP_NOT_FOUND",
	409: "HTTP_CONFLICT",
	422: "HTTP_UNPROCESSABLE_ENTITY",
	429: "HTTP_TOO_MANY_REQUESTS",
	500: "HTTP_INTERNAL_SERVER_ERROR",
	502: "HTTP_BAD_GATEWAY",
	503: "HTTP_SERVICE_UNAVAILABLE",
}

var timeoutCallees = map[string]bool{
	"setTimeout":  true,
	"setInterval": true,
}

// MagicNumber reports unexplained numeric literals, classified by the
// construct surrounding them, with duplicate-occurrence suppression: a
// recurring value is reported once, at its first occurrence.
type MagicNumber struct{}

// NewMagicNumber creates the magic-number detector.
func NewMagicNumber() *MagicNumber {
	return &MagicNumber{}
}

// Rule implements Detector.
func (m *MagicNumber) Rule() string {
	return "no-magic-number"
}

// Detect implements Detector.
func (m *MagicNumber) Detect(ctx *Context) []diag.Diagnostic {
	if ctx.Options.Bool("skip_tests", true) && looksLikeTest(ctx) {
		return nil
	}
	ignored := map[int]bool{}
	for _, v := range ctx.Options.Ints("ignore", []int{-1, 0, 1, 2}) {
		ignored[v] = true
	}
	visitor := &magicVisitor{ctx: ctx, ignored: ignored}
	walk.New().Walk(ctx.Root, visitor)

	return m.report(ctx, visitor.usages)
}

// report applies the post-pass rules: values recurring at least the
// duplicate threshold are reported once; otherwise a magnitude ceiling
// applies per occurrence.
func (m *MagicNumber) report(ctx *Context, usages []numberUsage) []diag.Diagnostic {
	reportDuplicates := ctx.Options.Bool("report_duplicates", true)
	dupThreshold := ctx.Options.Int("duplicate_threshold", 2)
	maxMagnitude := ctx.Options.Int("max_magnitude", 1000)

	counts := map[float64]int{}
	for _, usage := range usages {
		counts[usage.value]++
	}

	var out []diag.Diagnostic
	reported := map[float64]bool{}
	for _, usage := range usages {
		recurs := reportDuplicates && counts[usage.value] >= dupThreshold
		oversized := usage.value >= float64(maxMagnitude) || usage.value <= -float64(maxMagnitude)
		if !recurs && !oversized {
			continue
		}
		if reported[usage.value] {
			continue
		}
		reported[usage.value] = true

		message := fmt.Sprintf("magic number %s", usage.text)
		if recurs {
			message = fmt.Sprintf("%s appears %d times", message, counts[usage.value])
		}
		if usage.suggested != "" {
			message = fmt.Sprintf("%s; extract a named constant such as %s", message, usage.suggested)
		}
		out = append(out, diag.Diagnostic{
			RuleID:       "no-magic-number",
			Severity:     diag.SevWarning,
			Position:     ctx.Position(usage.span),
			Message:      message,
			FixAvailable: usage.suggested != "",
		})
	}
	return out
}

type magicVisitor struct {
	ctx     *Context
	ignored map[int]bool
	usages  []numberUsage
}

func (v *magicVisitor) Enter(n *sitter.Node) bool {
	if n.Type() != "number" {
		return true
	}
	text := v.ctx.Text(n)
	span := walk.NodeSpan(n)

	// Fold a leading unary minus into the literal.
	negated := false
	anchor := n
	if parent := n.Parent(); parent != nil && parent.Type() == "unary_expression" {
		if op := parent.ChildByFieldName("operator"); op != nil && op.Type() == "-" {
			negated = true
			anchor = parent
			span = walk.NodeSpan(parent)
			text = "-" + text
		}
	}

	value, ok := parseNumber(text)
	if !ok {
		return true
	}
	if whole, isWhole := wholeValue(value); isWhole && v.ignored[whole] {
		return true
	}

	usage := classify(anchor, v.ctx.Source)
	usage.value = value
	usage.text = text
	usage.span = span
	if usage.context == contextTimeout {
		// Known timeout/interval argument; allowed by classification.
		return true
	}
	if usage.context == contextArrayIndex {
		// Small literal indexes into the leading array slots are allowed.
		if whole, isWhole := wholeValue(value); isWhole && whole >= 0 && whole < 16 {
			return true
		}
	}
	usage.suggested = suggestName(usage, negated)
	v.usages = append(v.usages, usage)
	return true
}

func (v *magicVisitor) Leave(n *sitter.Node) {}

// classify determines the context of a literal from its ancestors at
// visit time.
func classify(n *sitter.Node, src []byte) numberUsage {
	usage := numberUsage{context: contextGeneric}
	parent := n.Parent()
	if parent == nil {
		return usage
	}
	switch parent.Type() {
	case "binary_expression":
		usage.context = contextBinaryOperation
		if op := parent.ChildByFieldName("operator"); op != nil {
			switch op.Type() {
			case "<", ">", "<=", ">=", "==", "===", "!=", "!==":
				usage.context = contextComparison
			}
		}
	case "subscript_expression":
		if index := parent.ChildByFieldName("index"); sameSpan(index, n) {
			usage.context = contextArrayIndex
		}
	case "array":
		usage.context = contextArrayIndex
	case "arguments":
		usage.context = contextFunctionCallArg
		usage.callee = calleeName(parent.Parent(), src)
		if timeoutCallees[usage.callee] {
			usage.context = contextTimeout
		}
	case "return_statement":
		usage.context = contextReturnStatement
	case "variable_declarator", "assignment_pattern", "assignment_expression":
		usage.context = contextDefaultAssignment
	case "expression_statement", "parenthesized_expression":
		usage.context = contextGeneric
	}
	return usage
}

// suggestName proposes a constant name from small context tables.
func suggestName(usage numberUsage, negated bool) string {
	if whole, ok := wholeValue(usage.value); ok && !negated {
		if name, known := httpStatusNames[whole]; known {
			return name
		}
		if usage.context == contextFunctionCallArg && looksLikeDelayCallee(usage.callee) {
			return fmt.Sprintf("TIMEOUT_%dMS", whole)
		}
	}
	name := strings.ReplaceAll(usage.text, ".", "_")
	name = strings.ReplaceAll(name, "-", "NEGATIVE_")
	return "CONSTANT_" + name
}

// looksLikeDelayCallee reports whether a callee name suggests a
// millisecond delay argument, e.g. scheduleTimeout or pollInterval.
func looksLikeDelayCallee(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "interval") ||
		strings.Contains(lower, "delay")
}

// calleeName extracts the called name from a call_expression, using the
// property for member calls.
func calleeName(call *sitter.Node, src []byte) string {
	if call == nil || call.Type() != "call_expression" {
		return ""
	}
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return fn.Content(src)
	case "member_expression":
		if property := fn.ChildByFieldName("property"); property != nil {
			return property.Content(src)
		}
	}
	return ""
}

func parseNumber(text string) (float64, bool) {
	cleaned := strings.ReplaceAll(text, "_", "")
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return v, true
	}
	// Hex, octal and binary literals.
	if v, err := strconv.ParseInt(cleaned, 0, 64); err == nil {
		return float64(v), true
	}
	return 0, false
}

func wholeValue(v float64) (int, bool) {
	whole := int(v)
	if float64(whole) == v {
		return whole, true
	}
	return 0, false
}

func sameSpan(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}
