package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"go.uber.org/zap"

	"github.com/jsvet/jsvet/analyzer"
	"github.com/jsvet/jsvet/analyzer/advisory"
	"github.com/jsvet/jsvet/analyzer/diag"
	"github.com/jsvet/jsvet/analyzer/rules"
)

// ErrFindings signals that analysis completed but reported error-severity findings.
var ErrFindings = errors.New("findings with error severity")

var vetCmd = &cobra.Command{
	Use:   "vet [path ...]",
	Short: "Analyze JavaScript sources and report findings",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runVet,
}

var (
	vetConfig          string
	vetAdvisory        string
	vetAdvisoryTimeout time.Duration
	vetSession         string
	vetVerbose         bool
)

func init() {
	vetCmd.Flags().StringVarP(&vetConfig, "config", "c", "", "rule configuration file (YAML)")
	vetCmd.Flags().StringVar(&vetAdvisory, "advisory", "", "advisory service endpoint for enriching heuristic findings")
	vetCmd.Flags().DurationVar(&vetAdvisoryTimeout, "advisory-timeout", analyzer.DefaultAdvisoryTimeout, "advisory request timeout")
	vetCmd.Flags().StringVar(&vetSession, "session", "", "session identifier forwarded to the advisory service")
	vetCmd.Flags().BoolVarP(&vetVerbose, "verbose", "v", false, "enable debug logging")
}

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	infoColor    = color.New(color.FgCyan)
)

func runVet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := zap.NewNop()
	if vetVerbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = dev
		defer logger.Sync()
	}

	fs := afs.New()
	config := rules.DefaultConfig()
	if vetConfig != "" {
		data, err := fs.DownloadWithURL(ctx, vetConfig)
		if err != nil {
			return fmt.Errorf("failed to read config %v: %w", vetConfig, err)
		}
		parsed, err := rules.ParseConfig(data)
		if err != nil {
			return err
		}
		config = parsed
	}

	options := []analyzer.Option{
		analyzer.WithConfig(config),
		analyzer.WithLogger(logger),
		analyzer.WithAdvisoryTimeout(vetAdvisoryTimeout),
	}
	if vetAdvisory != "" {
		options = append(options, analyzer.WithAdvisor(advisory.NewHTTPAdvisor(vetAdvisory, vetAdvisoryTimeout)))
	}
	if vetSession != "" {
		options = append(options, analyzer.WithSession(vetSession))
	}
	a := analyzer.New(options...)

	files, err := collectSources(ctx, fs, args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no JavaScript sources found under %v", strings.Join(args, ", "))
	}

	hasErrors := false
	total := 0
	for _, file := range files {
		src, err := fs.DownloadWithURL(ctx, file)
		if err != nil {
			return fmt.Errorf("failed to read %v: %w", file, err)
		}
		diagnostics, err := a.AnalyzeSource(ctx, src, file)
		if err != nil {
			logger.Warn("skipping file", zap.String("file", file), zap.Error(err))
			continue
		}
		total += len(diagnostics)
		for _, d := range diagnostics {
			printDiagnostic(cmd.OutOrStdout(), file, d)
			if d.Severity == diag.SevError {
				hasErrors = true
			}
		}
	}
	if total > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d finding(s) in %d file(s)\n", total, len(files))
	}
	if hasErrors {
		return ErrFindings
	}
	return nil
}

// sourceExtensions lists the file suffixes treated as JavaScript sources.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".mjs": true,
	".cjs": true,
}

func collectSources(ctx context.Context, fs afs.Service, paths []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	add := func(location string) {
		if !seen[location] {
			seen[location] = true
			files = append(files, location)
		}
	}
	for _, p := range paths {
		object, err := fs.Object(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %v: %w", p, err)
		}
		if !object.IsDir() {
			add(p)
			continue
		}
		visitor := func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
			if info.IsDir() {
				return info.Name() != "node_modules", nil
			}
			if sourceExtensions[path.Ext(info.Name())] {
				add(url.Join(baseURL, parent, info.Name()))
			}
			return true, nil
		}
		if err := fs.Walk(ctx, p, storage.OnVisit(visitor)); err != nil {
			return nil, fmt.Errorf("failed to walk %v: %w", p, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

func printDiagnostic(w io.Writer, file string, d diag.Diagnostic) {
	severity := infoColor
	switch d.Severity {
	case diag.SevError:
		severity = errorColor
	case diag.SevWarning:
		severity = warningColor
	}
	fix := ""
	if d.FixAvailable {
		fix = " (fix available)"
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s%s\n",
		file, d.Position.Line, d.Position.Column,
		severity.Sprint(d.Severity.String()), d.RuleID, d.Message, fix)
}
