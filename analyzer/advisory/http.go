package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/source"
)

var errResponseShape = errors.New("advisory response does not match request shape")

// wireDiagnostic is the JSON shape exchanged with the advisory service.
type wireDiagnostic struct {
	RuleID       string `json:"ruleId"`
	Message      string `json:"message"`
	Severity     string `json:"severity"`
	Line         int    `json:"line"`
	Column       int    `json:"column"`
	FixAvailable bool   `json:"fixAvailable"`
}

type annotateRequest struct {
	Session     string           `json:"session"`
	Diagnostics []wireDiagnostic `json:"diagnostics"`
}

type annotateResponse struct {
	Diagnostics []wireDiagnostic `json:"diagnostics"`
}

// HTTPAdvisor talks to an advisory endpoint over HTTP. One request per
// Annotate call; the request honors both the passed context and the
// configured timeout.
type HTTPAdvisor struct {
	endpoint string
	client   *http.Client
}

// NewHTTPAdvisor creates an advisor for the given endpoint URL.
func NewHTTPAdvisor(endpoint string, timeout time.Duration) *HTTPAdvisor {
	return &HTTPAdvisor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Annotate implements Advisor.
func (a *HTTPAdvisor) Annotate(ctx context.Context, session string, diagnostics []diag.Diagnostic) ([]diag.Diagnostic, error) {
	payload, err := json.Marshal(annotateRequest{
		Session:     session,
		Diagnostics: toWire(diagnostics),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode advisory request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build advisory request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := a.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("advisory request failed: %w", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("advisory service returned status %d", response.StatusCode)
	}

	var decoded annotateResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode advisory response: %w", err)
	}
	return fromWire(decoded.Diagnostics), nil
}

func toWire(diagnostics []diag.Diagnostic) []wireDiagnostic {
	out := make([]wireDiagnostic, len(diagnostics))
	for i, d := range diagnostics {
		out[i] = wireDiagnostic{
			RuleID:       d.RuleID,
			Message:      d.Message,
			Severity:     d.Severity.String(),
			Line:         d.Position.Line,
			Column:       d.Position.Column,
			FixAvailable: d.FixAvailable,
		}
	}
	return out
}

func fromWire(wire []wireDiagnostic) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(wire))
	for i, w := range wire {
		out[i] = diag.Diagnostic{
			RuleID:       w.RuleID,
			Message:      w.Message,
			Severity:     parseSeverity(w.Severity),
			Position:     source.Position{Line: w.Line, Column: w.Column},
			FixAvailable: w.FixAvailable,
		}
	}
	return out
}

func parseSeverity(s string) diag.Severity {
	switch s {
	case "error":
		return diag.SevError
	case "warning":
		return diag.SevWarning
	}
	return diag.SevInfo
}
