// Package diag defines the diagnostic contract every detector converges on.
package diag

import (
	"fmt"

	"github.com/jsvet/jsvet/analyzer/source"
)

// Severity classifies a finding. It describes the finding itself, not the
// health of the analysis pipeline.
type Severity uint8

const (
	// SevInfo is for informational findings.
	SevInfo Severity = iota
	// SevWarning is for findings worth fixing.
	SevWarning
	// SevError is for findings that are almost certainly bugs.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "info"
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// Diagnostic is one reported finding. It is immutable once created;
// advisory annotation produces extended copies rather than mutating.
type Diagnostic struct {
	RuleID       string
	Message      string
	Severity     Severity
	Position     source.Position
	FixAvailable bool
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s: %s [%s]", d.Position, d.Severity, d.Message, d.RuleID)
}

// WithMessage returns a copy of the diagnostic carrying the given message.
// Rule id, position, severity and fixability are preserved.
func (d Diagnostic) WithMessage(message string) Diagnostic {
	d.Message = message
	return d
}
