// Package detector implements the analysis rules. Every detector is an
// independent unit: it performs its own complete traversal of the parsed
// program, owns its accumulator state for exactly one run, and produces
// diagnostics in pre-order encounter order.
package detector

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/rules"
	"github.com/jsvet/jsvet/analyzer/source"
	"github.com/jsvet/jsvet/javascript"
)

// Context is the shared input one detector run receives. Root and Source
// come from the external parser; Facts is the optional semantic pass
// output; Options are the effective options for the rule being run.
type Context struct {
	Root     *sitter.Node
	Source   []byte
	Filename string
	Facts    *javascript.Facts
	Options  rules.Options
	Index    *source.Index
}

// Position resolves a span against the source text, through the
// precomputed line index when one is present.
func (c *Context) Position(span source.Span) source.Position {
	if c.Index != nil {
		return c.Index.Resolve(span)
	}
	return source.Resolve(c.Source, span)
}

// Text returns the source slice covered by a node.
func (c *Context) Text(n *sitter.Node) string {
	return n.Content(c.Source)
}

// Detector is one analysis unit producing diagnostics for one rule.
type Detector interface {
	// Rule returns the rule id the detector reports under.
	Rule() string
	// Detect runs one complete analysis pass and returns its findings.
	Detect(ctx *Context) []diag.Diagnostic
}

// ForRule returns the detector set implementing a rule. Hybrid rules map
// to more than one detector; their outputs are concatenated by the
// dispatcher in the order returned here.
func ForRule(id string) []Detector {
	switch id {
	case "no-duplicate-block":
		return []Detector{NewDuplicateBlock()}
	case "max-complexity":
		return []Detector{NewComplexity()}
	case "no-magic-number":
		return []Detector{NewMagicNumber()}
	case "no-unreachable":
		return []Detector{NewReachability()}
	case "no-shadow":
		return []Detector{NewShadow()}
	case "no-unused-binding":
		return []Detector{NewUnusedBinding()}
	case "no-sync-io":
		return []Detector{NewSyncIO()}
	case "no-hardcoded-secret":
		return []Detector{NewSecret()}
	case "no-env-literal":
		return []Detector{NewEnvAccess(), NewEndpointLiteral()}
	}
	return nil
}

// looksLikeTest applies the test-file heuristics shared by detectors
// that stay quiet in test code.
func looksLikeTest(ctx *Context) bool {
	if strings.Contains(ctx.Filename, ".test.") || strings.Contains(ctx.Filename, ".spec.") {
		return true
	}
	text := string(ctx.Source)
	if strings.Contains(text, "describe(") {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "it(") || strings.HasPrefix(trimmed, "test(") {
			return true
		}
	}
	return false
}
