// Package rules holds the static rule catalog: metadata about each rule,
// its execution strategy and its default options. The catalog carries no
// algorithm; detectors implement the rules it names.
package rules

import (
	"github.com/jsvet/jsvet/analyzer/diag"
)

// Category groups rules for reporting purposes.
type Category string

const (
	CategoryQuality    Category = "quality"
	CategoryComplexity Category = "complexity"
	CategorySecurity   Category = "security"
	CategoryStyle      Category = "style"
)

// Strategy classifies how a rule is executed by the dispatcher.
type Strategy uint8

const (
	// Structural rules run a single detector with no semantic input.
	Structural Strategy = iota
	// SemanticsAware rules consume resolved bindings from the semantic pass.
	SemanticsAware
	// Heuristic rules run a detector whose output is additionally
	// annotated by the external advisory service.
	Heuristic
	// Hybrid rules run two strategies and concatenate their output.
	Hybrid
)

func (s Strategy) String() string {
	switch s {
	case Structural:
		return "structural"
	case SemanticsAware:
		return "semantics-aware"
	case Heuristic:
		return "heuristic"
	case Hybrid:
		return "hybrid"
	}
	return "unknown"
}

// Rule is the static metadata for one rule id.
type Rule struct {
	ID       string
	Name     string
	Category Category
	Severity diag.Severity
	Strategy Strategy
	Fixable  bool
	Defaults Options
}

// Catalog is an immutable set of rules in a fixed order. Dispatch follows
// catalog order, which keeps diagnostic ordering deterministic. A catalog
// is an explicitly constructed value, never a process-wide registry.
type Catalog struct {
	rules []Rule
	byID  map[string]int
}

// NewCatalog builds a catalog from the given rules, preserving order.
// Later rules with a duplicate id replace earlier ones.
func NewCatalog(rules ...Rule) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(rules))}
	for _, rule := range rules {
		if at, ok := c.byID[rule.ID]; ok {
			c.rules[at] = rule
			continue
		}
		c.byID[rule.ID] = len(c.rules)
		c.rules = append(c.rules, rule)
	}
	return c
}

// Rules returns the catalog's rules in declaration order.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Get returns the rule for an id.
func (c *Catalog) Get(id string) (Rule, bool) {
	at, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[at], true
}

// Len returns the number of rules in the catalog.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return NewCatalog(
		Rule{
			ID:       "no-duplicate-block",
			Name:     "duplicate code block",
			Category: CategoryQuality,
			Severity: diag.SevWarning,
			Strategy: Structural,
			Defaults: Options{
				"min_lines":         10,
				"ignore_comments":   true,
				"ignore_whitespace": true,
			},
		},
		Rule{
			ID:       "max-complexity",
			Name:     "cyclomatic complexity",
			Category: CategoryComplexity,
			Severity: diag.SevWarning,
			Strategy: Structural,
			Defaults: Options{
				"max":           10,
				"ignore_arrows": false,
				"skip_trivial":  true,
			},
		},
		Rule{
			ID:       "no-magic-number",
			Name:     "magic number",
			Category: CategoryStyle,
			Severity: diag.SevWarning,
			Strategy: Heuristic,
			Fixable:  true,
			Defaults: Options{
				"ignore":              []interface{}{-1, 0, 1, 2},
				"skip_tests":          true,
				"report_duplicates":   true,
				"duplicate_threshold": 2,
				"max_magnitude":       1000,
			},
		},
		Rule{
			ID:       "no-unreachable",
			Name:     "unreachable code",
			Category: CategoryQuality,
			Severity: diag.SevError,
			Strategy: Structural,
			Defaults: Options{},
		},
		Rule{
			ID:       "no-shadow",
			Name:     "shadowed or duplicated binding",
			Category: CategoryQuality,
			Severity: diag.SevWarning,
			Strategy: Structural,
			Defaults: Options{
				"allow_shadow": false,
			},
		},
		Rule{
			ID:       "no-unused-binding",
			Name:     "unused binding",
			Category: CategoryQuality,
			Severity: diag.SevInfo,
			Strategy: SemanticsAware,
			Defaults: Options{
				"ignore_prefix": "_",
			},
		},
		Rule{
			ID:       "no-sync-io",
			Name:     "synchronous file API",
			Category: CategoryQuality,
			Severity: diag.SevWarning,
			Strategy: Structural,
			Defaults: Options{},
		},
		Rule{
			ID:       "no-hardcoded-secret",
			Name:     "hard-coded secret",
			Category: CategorySecurity,
			Severity: diag.SevError,
			Strategy: Heuristic,
			Defaults: Options{},
		},
		Rule{
			ID:       "no-env-literal",
			Name:     "environment and endpoint hygiene",
			Category: CategorySecurity,
			Severity: diag.SevWarning,
			Strategy: Hybrid,
			Defaults: Options{
				"allow_localhost": true,
			},
		},
	)
}
