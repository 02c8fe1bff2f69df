package rules

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Options is a record of recognized per-rule settings. Accessors apply a
// fallback when a key is missing or carries an unusable value, so a
// detector never fails on configuration it cannot interpret.
type Options map[string]interface{}

// Int returns the integer value for key, or fallback.
func (o Options) Int(key string, fallback int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// Bool returns the boolean value for key, or fallback.
func (o Options) Bool(key string, fallback bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return fallback
}

// String returns the string value for key, or fallback.
func (o Options) String(key string, fallback string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return fallback
}

// Ints returns the integer list for key, or fallback. Entries that are
// not numeric are skipped.
func (o Options) Ints(key string, fallback []int) []int {
	list, ok := o[key].([]interface{})
	if !ok {
		return fallback
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case int:
			out = append(out, v)
		case int64:
			out = append(out, int(v))
		case float64:
			out = append(out, int(v))
		}
	}
	return out
}

// merge overlays recognized keys from override onto a copy of the
// defaults. Keys the rule does not declare are ignored.
func (o Options) merge(override Options) Options {
	out := make(Options, len(o))
	for key, value := range o {
		out[key] = value
	}
	for key, value := range override {
		if _, known := out[key]; known {
			out[key] = value
		}
	}
	return out
}

// RuleConfig is the caller-supplied configuration for one rule.
type RuleConfig struct {
	Enabled *bool   `yaml:"enabled"`
	Options Options `yaml:"options"`
}

// Config maps rule ids to their configuration. Missing rules run with
// compiled-in defaults and are enabled.
type Config struct {
	Rules map[string]RuleConfig `yaml:"rules"`
}

// DefaultConfig returns an empty configuration: every rule enabled with
// its compiled-in defaults.
func DefaultConfig() *Config {
	return &Config{Rules: map[string]RuleConfig{}}
}

// ParseConfig decodes a YAML configuration document. On malformed input
// it returns the default configuration together with the parse error, so
// callers can log the problem and keep analyzing with defaults rather
// than disabling rules.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if len(data) == 0 {
		return config, nil
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse rule configuration: %w", err)
	}
	if config.Rules == nil {
		config.Rules = map[string]RuleConfig{}
	}
	return config, nil
}

// Enabled reports whether a rule should run under this configuration.
func (c *Config) Enabled(id string) bool {
	rc, ok := c.Rules[id]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}

// OptionsFor resolves the effective options for a rule: its compiled-in
// defaults overlaid with any recognized overrides. Unknown keys in the
// override are ignored.
func (c *Config) OptionsFor(rule Rule) Options {
	defaults := rule.Defaults
	if defaults == nil {
		defaults = Options{}
	}
	rc, ok := c.Rules[rule.ID]
	if !ok || rc.Options == nil {
		return defaults.merge(nil)
	}
	return defaults.merge(rc.Options)
}
