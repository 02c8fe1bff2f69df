package detector

import (
	"bytes"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/source"
	"github.com/jsvet/jsvet/analyzer/walk"
)

// minNormalizedLen guards against trivially small blocks whose normalized
// text collides by accident.
const minNormalizedLen = 20

// DuplicateBlock finds near-duplicate code blocks: block-like nodes whose
// source text, after comment stripping and whitespace collapsing, hashes
// to the same value. One diagnostic is emitted per duplicate group.
type DuplicateBlock struct{}

// NewDuplicateBlock creates the duplicate-block detector.
func NewDuplicateBlock() *DuplicateBlock {
	return &DuplicateBlock{}
}

// Rule implements Detector.
func (d *DuplicateBlock) Rule() string {
	return "no-duplicate-block"
}

// blockRecord is one candidate block held by the accumulator.
type blockRecord struct {
	span       source.Span
	lineCount  int
	normalized string
	reported   bool
}

// duplicateAccumulator collects candidate blocks for one run, grouped by
// the hash of their normalized text. It is constructed fresh per Detect
// call; Finalize is one-shot and must not be re-invoked.
type duplicateAccumulator struct {
	groups    map[uint64][]*blockRecord
	order     []uint64 // first-seen key order, follows pre-order traversal
	finalized bool
}

// Detect implements Detector.
func (d *DuplicateBlock) Detect(ctx *Context) []diag.Diagnostic {
	minLines := ctx.Options.Int("min_lines", 10)
	stripComments := ctx.Options.Bool("ignore_comments", true)
	collapseSpace := ctx.Options.Bool("ignore_whitespace", true)

	acc := &duplicateAccumulator{groups: map[uint64][]*blockRecord{}}
	visitor := &duplicateVisitor{
		ctx:           ctx,
		acc:           acc,
		minLines:      minLines,
		stripComments: stripComments,
		collapseSpace: collapseSpace,
	}
	walk.New().Walk(ctx.Root, visitor)
	return acc.finalize(ctx)
}

type duplicateVisitor struct {
	ctx           *Context
	acc           *duplicateAccumulator
	minLines      int
	stripComments bool
	collapseSpace bool
}

func (v *duplicateVisitor) Enter(n *sitter.Node) bool {
	if n.Type() != "statement_block" {
		return true
	}
	span := walk.NodeSpan(n)
	text := v.ctx.Source[span.Start:span.End]
	lineCount := bytes.Count(text, []byte("\n")) + 1
	if lineCount < v.minLines {
		return true
	}
	normalized := normalizeBlock(string(text), v.stripComments, v.collapseSpace)
	if len(normalized) < minNormalizedLen {
		return true
	}
	key, err := hashText([]byte(normalized))
	if err != nil {
		return true
	}
	if _, seen := v.acc.groups[key]; !seen {
		v.acc.order = append(v.acc.order, key)
	}
	v.acc.groups[key] = append(v.acc.groups[key], &blockRecord{
		span:       span,
		lineCount:  lineCount,
		normalized: normalized,
	})
	return true
}

func (v *duplicateVisitor) Leave(n *sitter.Node) {}

// finalize emits one diagnostic per group with two or more records and
// marks every group member reported. A second invocation on the same
// accumulator therefore emits nothing.
func (a *duplicateAccumulator) finalize(ctx *Context) []diag.Diagnostic {
	if a.finalized {
		return nil
	}
	a.finalized = true

	var out []diag.Diagnostic
	for _, key := range a.order {
		group := a.groups[key]
		if len(group) < 2 || group[0].reported {
			continue
		}
		first := group[0]
		out = append(out, diag.Diagnostic{
			RuleID:   "no-duplicate-block",
			Severity: diag.SevWarning,
			Position: ctx.Position(first.span),
			Message: fmt.Sprintf("duplicate code block: %d occurrences of the same %d-line block; extract a shared function",
				len(group), first.lineCount),
		})
		for _, record := range group {
			record.reported = true
		}
	}
	return out
}

// normalizeBlock canonicalizes block text for comparison. Comment
// stripping is a forward scan that honors string literals and copes with
// unterminated block comments by discarding to end of text. The
// transformation is idempotent.
func normalizeBlock(text string, stripComments, collapseSpace bool) string {
	if stripComments {
		text = stripJSComments(text)
	}
	if collapseSpace {
		text = collapseWhitespace(text)
	}
	return text
}

func stripJSComments(text string) string {
	var out []byte
	i := 0
	for i < len(text) {
		c := text[i]
		switch c {
		case '"', '\'', '`':
			quote := c
			out = append(out, c)
			i++
			for i < len(text) {
				out = append(out, text[i])
				if text[i] == '\\' && i+1 < len(text) {
					out = append(out, text[i+1])
					i += 2
					continue
				}
				if text[i] == quote {
					i++
					break
				}
				i++
			}
		case '/':
			if i+1 < len(text) && text[i+1] == '/' {
				for i < len(text) && text[i] != '\n' {
					i++
				}
				continue
			}
			if i+1 < len(text) && text[i+1] == '*' {
				end := i + 2
				for end+1 < len(text) && !(text[end] == '*' && text[end+1] == '/') {
					end++
				}
				if end+1 < len(text) {
					i = end + 2
				} else {
					// Unterminated comment: discard to end of text.
					i = len(text)
				}
				continue
			}
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

func collapseWhitespace(text string) string {
	var out []byte
	inSpace := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			inSpace = true
			continue
		}
		if inSpace && len(out) > 0 {
			out = append(out, ' ')
		}
		inSpace = false
		out = append(out, c)
	}
	return string(out)
}
