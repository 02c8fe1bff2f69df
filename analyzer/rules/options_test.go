package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsvet/jsvet/analyzer/rules"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		wantEnabled map[string]bool
	}{
		{
			name:  "overrides and disable",
			input: "rules:\n  max-complexity:\n    options:\n      max: 5\n  no-sync-io:\n    enabled: false\n",
			wantEnabled: map[string]bool{
				"max-complexity": true,
				"no-sync-io":     false,
				"no-shadow":      true,
			},
		},
		{
			name:        "empty input keeps defaults",
			input:       "",
			wantEnabled: map[string]bool{"max-complexity": true},
		},
		{
			name:        "malformed input falls back to defaults",
			input:       "rules: [not: a: map",
			wantErr:     true,
			wantEnabled: map[string]bool{"max-complexity": true, "no-sync-io": true},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config, err := rules.ParseConfig([]byte(tc.input))
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NotNil(t, config)
			for id, want := range tc.wantEnabled {
				assert.Equal(t, want, config.Enabled(id), id)
			}
		})
	}
}

func TestConfig_OptionsFor(t *testing.T) {
	catalog := rules.Default()
	complexity, ok := catalog.Get("max-complexity")
	assert.True(t, ok)

	config, err := rules.ParseConfig([]byte("rules:\n  max-complexity:\n    options:\n      max: 5\n      bogus_key: 42\n"))
	assert.NoError(t, err)

	opts := config.OptionsFor(complexity)
	assert.Equal(t, 5, opts.Int("max", 10), "override applies")
	assert.Equal(t, true, opts.Bool("skip_trivial", false), "missing keys keep defaults")
	_, unknown := opts["bogus_key"]
	assert.False(t, unknown, "unknown keys are ignored")

	defaults := rules.DefaultConfig().OptionsFor(complexity)
	assert.Equal(t, 10, defaults.Int("max", 0))
}

func TestCatalog_Order(t *testing.T) {
	catalog := rules.Default()
	ids := make([]string, 0, catalog.Len())
	for _, rule := range catalog.Rules() {
		ids = append(ids, rule.ID)
	}
	assert.Equal(t, "no-duplicate-block", ids[0], "dispatch order follows catalog declaration order")
	magic, ok := catalog.Get("no-magic-number")
	assert.True(t, ok)
	assert.Equal(t, rules.Heuristic, magic.Strategy)
	assert.Equal(t, []int{-1, 0, 1, 2}, magic.Defaults.Ints("ignore", nil))
}
