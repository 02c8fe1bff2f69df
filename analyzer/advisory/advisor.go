// Package advisory integrates the external advisory service that extends
// diagnostic messages with remediation text. The collaborator is strictly
// best-effort: it runs once per dispatch, bounded by the caller's
// context, and any failure leaves the diagnostics unannotated.
package advisory

import (
	"context"

	"github.com/jsvet/jsvet/analyzer/diag"
)

// Advisor rewrites diagnostic messages. Implementations must return the
// same diagnostics in the same order, with only Message extended; the
// caller verifies and discards responses that break that contract.
type Advisor interface {
	Annotate(ctx context.Context, session string, diagnostics []diag.Diagnostic) ([]diag.Diagnostic, error)
}

// Apply runs one annotation attempt and merges the result. Only message
// extensions are taken from the response: rule id, position, severity
// and fixability always come from the input. On error, a short response,
// or reordered entries, the input is returned unchanged along with the
// error.
func Apply(ctx context.Context, advisor Advisor, session string, diagnostics []diag.Diagnostic) ([]diag.Diagnostic, error) {
	if advisor == nil || len(diagnostics) == 0 {
		return diagnostics, nil
	}
	annotated, err := advisor.Annotate(ctx, session, diagnostics)
	if err != nil {
		return diagnostics, err
	}
	if len(annotated) != len(diagnostics) {
		return diagnostics, errResponseShape
	}
	out := make([]diag.Diagnostic, len(diagnostics))
	for i, original := range diagnostics {
		if annotated[i].RuleID != original.RuleID || annotated[i].Position != original.Position {
			return diagnostics, errResponseShape
		}
		out[i] = original
		if len(annotated[i].Message) > len(original.Message) {
			out[i] = original.WithMessage(annotated[i].Message)
		}
	}
	return out, nil
}
