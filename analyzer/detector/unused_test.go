package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/rules"
)

func TestUnusedBinding_Detect(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		overrides rules.Options
		expected  []string
	}{
		{
			name: "declared but never referenced",
			source: `const used = 1;
const unused = 2;
console.log(used);`,
			expected: []string{"'unused' is declared but never used"},
		},
		{
			name: "underscore prefix opts out",
			source: `const _ignored = 1;
const kept = 2;`,
			expected: []string{"'kept' is declared but never used"},
		},
		{
			name: "parameters and catch bindings exempt",
			source: `function handler(request) {
  try {
    run();
  } catch (err) {
  }
}
handler();`,
			expected: nil,
		},
		{
			name: "unused function declaration",
			source: `function helper() { return 1; }
function main() { return 2; }
main();`,
			expected: []string{"'helper' is declared but never used"},
		},
		{
			name: "hoisted function called before its declaration",
			source: `boot();
function boot() { return 1; }`,
			expected: nil,
		},
		{
			name: "custom ignore prefix",
			source: `const tmpValue = 1;
const other = 2;
console.log(other);`,
			overrides: rules.Options{"ignore_prefix": "tmp"},
			expected:  nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := detect(t, NewUnusedBinding(), tc.source, tc.overrides)
			var messages []string
			for _, d := range actual {
				assert.Equal(t, "no-unused-binding", d.RuleID)
				assert.Equal(t, diag.SevInfo, d.Severity)
				messages = append(messages, d.Message)
			}
			assert.Equal(t, tc.expected, messages)
		})
	}
}

func TestUnusedBinding_NoFactsStaysQuiet(t *testing.T) {
	det := NewUnusedBinding()
	actual := det.Detect(&Context{Source: []byte(`const unused = 1;`)})
	assert.Empty(t, actual)
}
