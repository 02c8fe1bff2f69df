package detector

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/walk"
)

// The pattern detectors are simple matchers built on the same traversal
// engine as the algorithmic ones: one complete pass each, diagnostics in
// encounter order.

// SyncIO reports calls to synchronous file-system APIs.
type SyncIO struct{}

// NewSyncIO creates the synchronous-IO detector.
func NewSyncIO() *SyncIO {
	return &SyncIO{}
}

// Rule implements Detector.
func (s *SyncIO) Rule() string {
	return "no-sync-io"
}

// Detect implements Detector.
func (s *SyncIO) Detect(ctx *Context) []diag.Diagnostic {
	visitor := &syncIOVisitor{ctx: ctx}
	walk.New().Walk(ctx.Root, visitor)
	return visitor.out
}

type syncIOVisitor struct {
	ctx *Context
	out []diag.Diagnostic
}

func (v *syncIOVisitor) Enter(n *sitter.Node) bool {
	if n.Type() != "call_expression" {
		return true
	}
	name := calleeName(n, v.ctx.Source)
	if !strings.HasSuffix(name, "Sync") || len(name) <= len("Sync") {
		return true
	}
	v.out = append(v.out, diag.Diagnostic{
		RuleID:   "no-sync-io",
		Severity: diag.SevWarning,
		Position: v.ctx.Position(walk.NodeSpan(n)),
		Message:  fmt.Sprintf("'%s' blocks the event loop; prefer the asynchronous variant", name),
	})
	return true
}

func (v *syncIOVisitor) Leave(n *sitter.Node) {}

// Secret reports string literals that look like credentials: values
// assigned to secret-named bindings, and literals shaped like well-known
// key formats wherever they occur.
type Secret struct{}

// NewSecret creates the hard-coded-secret detector.
func NewSecret() *Secret {
	return &Secret{}
}

// Rule implements Detector.
func (s *Secret) Rule() string {
	return "no-hardcoded-secret"
}

var (
	secretNamePattern  = regexp.MustCompile(`(?i)(password|passwd|secret|api[_-]?key|token|credential)`)
	awsAccessKeyShape  = regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`)
	placeholderPattern = regexp.MustCompile(`(?i)^(\$\{.*\}|<.*>|xxx+|changeme|placeholder|example|dummy|test)$`)
)

// Detect implements Detector.
func (s *Secret) Detect(ctx *Context) []diag.Diagnostic {
	visitor := &secretVisitor{ctx: ctx}
	walk.New().Walk(ctx.Root, visitor)
	return visitor.out
}

type secretVisitor struct {
	ctx *Context
	out []diag.Diagnostic
}

func (v *secretVisitor) Enter(n *sitter.Node) bool {
	switch n.Type() {
	case "variable_declarator":
		v.checkAssignment(n.ChildByFieldName("name"), n.ChildByFieldName("value"))
	case "assignment_expression":
		v.checkAssignment(n.ChildByFieldName("left"), n.ChildByFieldName("right"))
	case "pair":
		v.checkAssignment(n.ChildByFieldName("key"), n.ChildByFieldName("value"))
	case "string":
		if awsAccessKeyShape.MatchString(v.ctx.Text(n)) {
			v.report(n, "string literal shaped like an AWS access key id")
		}
	}
	return true
}

func (v *secretVisitor) Leave(n *sitter.Node) {}

func (v *secretVisitor) checkAssignment(name, value *sitter.Node) {
	if name == nil || value == nil || value.Type() != "string" {
		return
	}
	if !secretNamePattern.MatchString(v.ctx.Text(name)) {
		return
	}
	literal := strings.Trim(v.ctx.Text(value), "'\"`")
	if len(literal) < 8 || placeholderPattern.MatchString(literal) {
		return
	}
	v.report(value, fmt.Sprintf("hard-coded secret assigned to '%s'", v.ctx.Text(name)))
}

func (v *secretVisitor) report(n *sitter.Node, message string) {
	v.out = append(v.out, diag.Diagnostic{
		RuleID:   "no-hardcoded-secret",
		Severity: diag.SevError,
		Position: v.ctx.Position(walk.NodeSpan(n)),
		Message:  message,
	})
}

// EnvAccess is the structural half of the env-literal rule: direct
// process.env reads outside configuration modules.
type EnvAccess struct{}

// NewEnvAccess creates the env-access detector.
func NewEnvAccess() *EnvAccess {
	return &EnvAccess{}
}

// Rule implements Detector.
func (e *EnvAccess) Rule() string {
	return "no-env-literal"
}

// Detect implements Detector.
func (e *EnvAccess) Detect(ctx *Context) []diag.Diagnostic {
	if strings.Contains(strings.ToLower(ctx.Filename), "config") {
		return nil
	}
	visitor := &envVisitor{ctx: ctx}
	walk.New().Walk(ctx.Root, visitor)
	return visitor.out
}

type envVisitor struct {
	ctx *Context
	out []diag.Diagnostic
}

func (v *envVisitor) Enter(n *sitter.Node) bool {
	if n.Type() != "member_expression" {
		return true
	}
	object := n.ChildByFieldName("object")
	if object == nil || v.ctx.Text(object) != "process.env" {
		return true
	}
	v.out = append(v.out, diag.Diagnostic{
		RuleID:   "no-env-literal",
		Severity: diag.SevWarning,
		Position: v.ctx.Position(walk.NodeSpan(n)),
		Message:  fmt.Sprintf("'%s' read outside a configuration module", v.ctx.Text(n)),
	})
	// The object side is itself a member_expression; no need to descend.
	return false
}

func (v *envVisitor) Leave(n *sitter.Node) {}

// EndpointLiteral is the heuristic half of the env-literal rule:
// hard-coded plain-http endpoints.
type EndpointLiteral struct{}

// NewEndpointLiteral creates the endpoint-literal detector.
func NewEndpointLiteral() *EndpointLiteral {
	return &EndpointLiteral{}
}

// Rule implements Detector.
func (e *EndpointLiteral) Rule() string {
	return "no-env-literal"
}

// Detect implements Detector.
func (e *EndpointLiteral) Detect(ctx *Context) []diag.Diagnostic {
	allowLocalhost := ctx.Options.Bool("allow_localhost", true)
	visitor := &endpointVisitor{ctx: ctx, allowLocalhost: allowLocalhost}
	walk.New().Walk(ctx.Root, visitor)
	return visitor.out
}

type endpointVisitor struct {
	ctx            *Context
	allowLocalhost bool
	out            []diag.Diagnostic
}

func (v *endpointVisitor) Enter(n *sitter.Node) bool {
	if n.Type() != "string" {
		return true
	}
	literal := strings.Trim(v.ctx.Text(n), "'\"`")
	if !strings.HasPrefix(literal, "http://") {
		return true
	}
	if v.allowLocalhost &&
		(strings.HasPrefix(literal, "http://localhost") || strings.HasPrefix(literal, "http://127.0.0.1")) {
		return true
	}
	v.out = append(v.out, diag.Diagnostic{
		RuleID:   "no-env-literal",
		Severity: diag.SevWarning,
		Position: v.ctx.Position(walk.NodeSpan(n)),
		Message:  fmt.Sprintf("hard-coded insecure endpoint '%s'; move it to configuration", literal),
	})
	return true
}

func (v *endpointVisitor) Leave(n *sitter.Node) {}
