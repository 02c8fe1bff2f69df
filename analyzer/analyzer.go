// Package analyzer dispatches the detection strategies over one parsed
// program and concatenates their diagnostics. Dispatch is resilient: a
// fault inside one detector never suppresses the results of its
// siblings, and the advisory collaborator failing leaves diagnostics
// unannotated rather than dropped.
package analyzer

import (
	"context"
	"time"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/jsvet/jsvet/analyzer/advisory"
	"github.com/jsvet/jsvet/analyzer/detector"
	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/rules"
	"github.com/jsvet/jsvet/analyzer/source"
	"github.com/jsvet/jsvet/javascript"
)

// DefaultAdvisoryTimeout bounds one annotation round-trip unless the
// caller configures otherwise.
const DefaultAdvisoryTimeout = 3 * time.Second

// Analyzer runs the rules enabled by its configuration against parsed
// programs. An Analyzer is immutable after construction and safe to use
// for any number of files; all per-run state lives in the detectors'
// accumulators.
type Analyzer struct {
	catalog         *rules.Catalog
	config          *rules.Config
	advisor         advisory.Advisor
	advisoryTimeout time.Duration
	session         string
	logger          *zap.Logger
}

// New creates an analyzer with the built-in catalog, default
// configuration and no advisory collaborator.
func New(options ...Option) *Analyzer {
	a := &Analyzer{
		catalog:         rules.Default(),
		config:          rules.DefaultConfig(),
		advisoryTimeout: DefaultAdvisoryTimeout,
		logger:          zap.NewNop(),
	}
	for _, option := range options {
		option(a)
	}
	return a
}

// Input is the shared input every detector run receives: the externally
// parsed program, the raw source, and optional semantic facts.
type Input struct {
	Root     *sitter.Node
	Source   []byte
	Filename string
	Facts    *javascript.Facts
}

// Analyze dispatches all enabled rules in catalog order and returns the
// concatenated diagnostics. Ordering within one detector follows its
// traversal; ordering across detectors follows invocation order. The
// result is never position-sorted here.
func (a *Analyzer) Analyze(ctx context.Context, input Input) []diag.Diagnostic {
	index := source.NewIndex(input.Source)

	var out []diag.Diagnostic
	for _, rule := range a.catalog.Rules() {
		if !a.config.Enabled(rule.ID) {
			continue
		}
		out = append(out, a.runRule(ctx, rule, input, index)...)
	}
	return out
}

// AnalyzeSource parses src, builds semantic facts and analyzes the
// result. It is the single-call path for callers without their own
// parser integration.
func (a *Analyzer) AnalyzeSource(ctx context.Context, src []byte, filename string) ([]diag.Diagnostic, error) {
	tree, err := javascript.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	root := tree.RootNode()
	return a.Analyze(ctx, Input{
		Root:     root,
		Source:   src,
		Filename: filename,
		Facts:    javascript.BuildFacts(root, src),
	}), nil
}

// runRule executes the detector set for one rule according to its
// strategy tag and applies advisory annotation where the tag asks for it.
func (a *Analyzer) runRule(ctx context.Context, rule rules.Rule, input Input, index *source.Index) []diag.Diagnostic {
	facts := input.Facts
	if rule.Strategy == rules.Structural || rule.Strategy == rules.Heuristic {
		// Structural strategies run without semantic input.
		facts = nil
	}
	dctx := &detector.Context{
		Root:     input.Root,
		Source:   input.Source,
		Filename: input.Filename,
		Facts:    facts,
		Options:  a.config.OptionsFor(rule),
		Index:    index,
	}

	var collected []diag.Diagnostic
	for _, det := range detector.ForRule(rule.ID) {
		collected = append(collected, a.runDetector(det, dctx)...)
	}
	if rule.Strategy == rules.Heuristic || rule.Strategy == rules.Hybrid {
		collected = a.annotate(ctx, collected)
	}
	return collected
}

// runDetector isolates one detector run: a panic inside the detector is
// converted to zero diagnostics and a logged warning.
func (a *Analyzer) runDetector(det detector.Detector, dctx *detector.Context) (out []diag.Diagnostic) {
	defer func() {
		if fault := recover(); fault != nil {
			a.logger.Warn("detector fault; dropping its diagnostics",
				zap.String("rule", det.Rule()),
				zap.Any("fault", fault))
			out = nil
		}
	}()
	return det.Detect(dctx)
}

// annotate runs one best-effort advisory pass over the collected
// diagnostics. On any failure the originals are returned unannotated.
func (a *Analyzer) annotate(ctx context.Context, diagnostics []diag.Diagnostic) []diag.Diagnostic {
	if a.advisor == nil || len(diagnostics) == 0 {
		return diagnostics
	}
	actx, cancel := context.WithTimeout(ctx, a.advisoryTimeout)
	defer cancel()

	annotated, err := advisory.Apply(actx, a.advisor, a.session, diagnostics)
	if err != nil {
		a.logger.Warn("advisory annotation failed; diagnostics returned unannotated", zap.Error(err))
		return diagnostics
	}
	return annotated
}
