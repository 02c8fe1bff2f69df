package detector

import (
	"fmt"
	"strings"

	"github.com/jsvet/jsvet/analyzer/diag"
)

// UnusedBinding reports declared bindings with zero references. It
// consumes the symbol table from the semantic pass; without facts it
// stays quiet rather than guessing.
type UnusedBinding struct{}

// NewUnusedBinding creates the unused-binding detector.
func NewUnusedBinding() *UnusedBinding {
	return &UnusedBinding{}
}

// Rule implements Detector.
func (u *UnusedBinding) Rule() string {
	return "no-unused-binding"
}

// Detect implements Detector.
func (u *UnusedBinding) Detect(ctx *Context) []diag.Diagnostic {
	if ctx.Facts == nil {
		return nil
	}
	ignorePrefix := ctx.Options.String("ignore_prefix", "_")

	var out []diag.Diagnostic
	for _, symbol := range ctx.Facts.Symbols {
		if symbol.References > 0 {
			continue
		}
		// Parameters and catch bindings are often required by signature.
		if symbol.Kind == "param" || symbol.Kind == "catch" {
			continue
		}
		if ignorePrefix != "" && strings.HasPrefix(symbol.Name, ignorePrefix) {
			continue
		}
		out = append(out, diag.Diagnostic{
			RuleID:   "no-unused-binding",
			Severity: diag.SevInfo,
			Position: ctx.Position(symbol.Span),
			Message:  fmt.Sprintf("'%s' is declared but never used", symbol.Name),
		})
	}
	return out
}
