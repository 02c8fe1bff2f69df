package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsvet/jsvet/analyzer/diag"
)

func TestReachability_Detect(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{
			name: "statement after return",
			source: `function f() {
  return 1;
  console.log(2);
}`,
			expected: []string{"unreachable code after 'return'"},
		},
		{
			name: "hoisted declaration after return is fine",
			source: `function f() {
  return helper();
  function helper() { return 1; }
}`,
			expected: nil,
		},
		{
			name: "var hoists but let does not",
			source: `function f() {
  return 1;
  var hoisted = 2;
  let blocked = 3;
}`,
			expected: []string{"unreachable code after 'return'"},
		},
		{
			name: "throw terminates its block",
			source: `function f(x) {
  if (!x) {
    throw new Error("missing");
    cleanup();
  }
  return x;
}`,
			expected: []string{"unreachable code after 'throw'"},
		},
		{
			name: "statement after break in a switch case",
			source: `switch (kind) {
  case 1:
    handle();
    break;
    audit();
  default:
    fallback();
}`,
			expected: []string{"unreachable code after 'break'"},
		},
		{
			name: "terminator only affects its own sibling list",
			source: `function f(x) {
  if (x) {
    return 1;
  }
  return 2;
}`,
			expected: nil,
		},
		{
			name: "continue in a loop body",
			source: `for (const item of items) {
  continue;
  process(item);
}`,
			expected: []string{"unreachable code after 'continue'"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual := detect(t, NewReachability(), tc.source, nil)
			var messages []string
			for _, d := range actual {
				assert.Equal(t, "no-unreachable", d.RuleID)
				assert.Equal(t, diag.SevError, d.Severity)
				messages = append(messages, d.Message)
			}
			assert.Equal(t, tc.expected, messages)
		})
	}
}

func TestReachability_Position(t *testing.T) {
	src := `function f() {
  return 1;
  console.log(2);
}`
	actual := detect(t, NewReachability(), src, nil)
	if assert.Len(t, actual, 1) {
		assert.Equal(t, 3, actual[0].Position.Line)
		assert.Equal(t, 3, actual[0].Position.Column)
	}
}
