package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsvet/jsvet/analyzer/detector"
	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/rules"
)

const mixedSource = `const cacheSize = 30000;

function stop() {
  return 1;
  cleanup();
}

fs.readFileSync("data.bin");
`

func TestAnalyzer_AnalyzeSource(t *testing.T) {
	a := New()
	actual, err := a.AnalyzeSource(context.Background(), []byte(mixedSource), "app.js")
	require.NoError(t, err)

	var ruleIDs []string
	for _, d := range actual {
		ruleIDs = append(ruleIDs, d.RuleID)
	}
	// Catalog order, not position order.
	assert.Equal(t, []string{
		"no-magic-number",
		"no-unreachable",
		"no-unused-binding",
		"no-unused-binding",
		"no-sync-io",
	}, ruleIDs)
}

func TestAnalyzer_DisabledRuleSkipped(t *testing.T) {
	off := false
	config := rules.DefaultConfig()
	config.Rules["no-magic-number"] = rules.RuleConfig{Enabled: &off}
	config.Rules["no-unused-binding"] = rules.RuleConfig{Enabled: &off}

	a := New(WithConfig(config))
	actual, err := a.AnalyzeSource(context.Background(), []byte(mixedSource), "app.js")
	require.NoError(t, err)

	var ruleIDs []string
	for _, d := range actual {
		ruleIDs = append(ruleIDs, d.RuleID)
	}
	assert.Equal(t, []string{"no-unreachable", "no-sync-io"}, ruleIDs)
}

// panickyDetector stands in for a detector with an internal fault.
type panickyDetector struct{}

func (panickyDetector) Rule() string { return "no-sync-io" }

func (panickyDetector) Detect(*detector.Context) []diag.Diagnostic {
	panic("detector fault")
}

func TestAnalyzer_DetectorFaultContained(t *testing.T) {
	a := New()
	assert.NotPanics(t, func() {
		out := a.runDetector(panickyDetector{}, &detector.Context{})
		assert.Empty(t, out)
	})
}

// recordingAdvisor captures the session and extends every message.
type recordingAdvisor struct {
	session string
	suffix  string
	err     error
}

func (r *recordingAdvisor) Annotate(_ context.Context, session string, diagnostics []diag.Diagnostic) ([]diag.Diagnostic, error) {
	r.session = session
	if r.err != nil {
		return nil, r.err
	}
	out := make([]diag.Diagnostic, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = d.WithMessage(d.Message + r.suffix)
	}
	return out, nil
}

func TestAnalyzer_HeuristicFindingsAnnotated(t *testing.T) {
	advisor := &recordingAdvisor{suffix: "; replace with a named constant"}
	a := New(WithAdvisor(advisor), WithSession("review-7"))

	actual, err := a.AnalyzeSource(context.Background(), []byte(`const cacheSize = 30000;`), "app.js")
	require.NoError(t, err)

	require.Len(t, actual, 2)
	assert.Equal(t, "no-magic-number", actual[0].RuleID)
	assert.Contains(t, actual[0].Message, "; replace with a named constant")
	assert.Equal(t, "review-7", advisor.session)

	// SemanticsAware output is never sent for annotation.
	assert.Equal(t, "no-unused-binding", actual[1].RuleID)
	assert.NotContains(t, actual[1].Message, "; replace with a named constant")
}

func TestAnalyzer_AdvisorFailureLeavesFindings(t *testing.T) {
	advisor := &recordingAdvisor{err: errors.New("advisory unavailable")}
	a := New(WithAdvisor(advisor))

	actual, err := a.AnalyzeSource(context.Background(), []byte(`const cacheSize = 30000;`), "app.js")
	require.NoError(t, err)

	require.Len(t, actual, 2)
	assert.Equal(t, "no-magic-number", actual[0].RuleID)
	assert.Contains(t, actual[0].Message, "magic number 30000")
}
