package advisory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/source"
)

type stubAdvisor struct {
	response []diag.Diagnostic
	err      error
}

func (s *stubAdvisor) Annotate(context.Context, string, []diag.Diagnostic) ([]diag.Diagnostic, error) {
	return s.response, s.err
}

func inputDiagnostics() []diag.Diagnostic {
	return []diag.Diagnostic{
		{RuleID: "no-magic-number", Message: "magic number 42", Severity: diag.SevWarning, Position: source.Position{Line: 1, Column: 11}},
		{RuleID: "no-hardcoded-secret", Message: "hard-coded secret assigned to 'token'", Severity: diag.SevError, Position: source.Position{Line: 3, Column: 15}},
	}
}

func TestApply_ExtendsMessages(t *testing.T) {
	input := inputDiagnostics()
	response := inputDiagnostics()
	response[0].Message += "; extract it into a named constant"
	response[1].Message += "; load it from a secret store"

	actual, err := Apply(context.Background(), &stubAdvisor{response: response}, "", input)
	require.NoError(t, err)
	require.Len(t, actual, 2)
	assert.Equal(t, response[0].Message, actual[0].Message)
	assert.Equal(t, response[1].Message, actual[1].Message)
	// Everything but the message comes from the input.
	assert.Equal(t, input[0].Severity, actual[0].Severity)
	assert.Equal(t, input[1].Position, actual[1].Position)
}

func TestApply_ShorterMessageIgnored(t *testing.T) {
	input := inputDiagnostics()
	response := inputDiagnostics()
	response[0].Message = "terse"

	actual, err := Apply(context.Background(), &stubAdvisor{response: response}, "", input)
	require.NoError(t, err)
	assert.Equal(t, input[0].Message, actual[0].Message)
	assert.Equal(t, response[1].Message, actual[1].Message)
}

func TestApply_RejectsShapeViolations(t *testing.T) {
	input := inputDiagnostics()

	tests := []struct {
		name     string
		response []diag.Diagnostic
	}{
		{
			name:     "short response",
			response: inputDiagnostics()[:1],
		},
		{
			name: "reordered entries",
			response: []diag.Diagnostic{
				inputDiagnostics()[1],
				inputDiagnostics()[0],
			},
		},
		{
			name: "moved position",
			response: func() []diag.Diagnostic {
				r := inputDiagnostics()
				r[0].Position.Line = 99
				return r
			}(),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := Apply(context.Background(), &stubAdvisor{response: tc.response}, "", input)
			assert.Error(t, err)
			assert.Equal(t, input, actual, "originals returned unchanged")
		})
	}
}

func TestApply_AdvisorErrorReturnsOriginals(t *testing.T) {
	input := inputDiagnostics()
	actual, err := Apply(context.Background(), &stubAdvisor{err: errors.New("boom")}, "", input)
	assert.Error(t, err)
	assert.Equal(t, input, actual)
}

func TestApply_NilAdvisorAndEmptyInput(t *testing.T) {
	input := inputDiagnostics()
	actual, err := Apply(context.Background(), nil, "", input)
	require.NoError(t, err)
	assert.Equal(t, input, actual)

	actual, err = Apply(context.Background(), &stubAdvisor{}, "", nil)
	require.NoError(t, err)
	assert.Empty(t, actual)
}
