package analyzer

import (
	"time"

	"go.uber.org/zap"

	"github.com/jsvet/jsvet/analyzer/advisory"
	"github.com/jsvet/jsvet/analyzer/rules"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCatalog replaces the built-in rule catalog. The catalog is an
// explicitly constructed value; the analyzer never consults a global
// registry.
func WithCatalog(catalog *rules.Catalog) Option {
	return func(a *Analyzer) {
		a.catalog = catalog
	}
}

// WithConfig supplies per-rule configuration. Missing rules run with
// compiled-in defaults.
func WithConfig(config *rules.Config) Option {
	return func(a *Analyzer) {
		a.config = config
	}
}

// WithAdvisor wires the external advisory rewriter used by heuristic and
// hybrid rules. Without one, those rules run unannotated.
func WithAdvisor(advisor advisory.Advisor) Option {
	return func(a *Analyzer) {
		a.advisor = advisor
	}
}

// WithAdvisoryTimeout bounds each annotation attempt.
func WithAdvisoryTimeout(timeout time.Duration) Option {
	return func(a *Analyzer) {
		a.advisoryTimeout = timeout
	}
}

// WithSession sets the free-form session context forwarded to the
// advisory service.
func WithSession(session string) Option {
	return func(a *Analyzer) {
		a.session = session
	}
}

// WithLogger sets the logger for dispatch warnings. The analyzer never
// logs on the happy path.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}
