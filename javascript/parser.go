// Package javascript is the external front-end of the analysis core: it
// parses JavaScript source through the tree-sitter grammar and derives
// the semantic facts consumed by semantics-aware rules. The analysis
// core itself never parses; it receives the tree and facts built here.
package javascript

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Parse parses JavaScript source and returns the syntax tree. tree-sitter
// produces a tree even for source with syntax errors; Parse only fails on
// parser-level errors such as cancellation.
func Parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	return tree, nil
}

// Language exposes the tree-sitter JavaScript grammar for callers that
// manage their own parser instances.
func Language() *sitter.Language {
	return javascript.GetLanguage()
}
