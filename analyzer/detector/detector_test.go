package detector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/rules"
	"github.com/jsvet/jsvet/javascript"
)

// detect parses src and runs one detector against it with the rule's
// default options overlaid with the given overrides.
func detect(t *testing.T, det Detector, src string, overrides rules.Options) []diag.Diagnostic {
	t.Helper()
	return detectFile(t, det, src, "input.js", overrides)
}

func detectFile(t *testing.T, det Detector, src, filename string, overrides rules.Options) []diag.Diagnostic {
	t.Helper()
	tree, err := javascript.Parse(context.Background(), []byte(src))
	require.NoError(t, err)
	rule, ok := rules.Default().Get(det.Rule())
	require.True(t, ok, "rule %v not in catalog", det.Rule())
	options := rules.DefaultConfig().OptionsFor(rule)
	for key, value := range overrides {
		options[key] = value
	}
	dctx := &Context{
		Root:     tree.RootNode(),
		Source:   []byte(src),
		Filename: filename,
		Options:  options,
	}
	if det.Rule() == "no-unused-binding" {
		dctx.Facts = javascript.BuildFacts(dctx.Root, dctx.Source)
	}
	return det.Detect(dctx)
}
