// Copyright © 2026 The FXLINT authors

// Package driver analyzes many formula files concurrently.  Each file is
// read and analyzed by one worker; the analysis itself is the synchronous,
// pure lint core.  Every file gets a trace span so that slow inputs can be
// found with any OpenTelemetry tracer provider.
package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/luthersystems/fxlint/lint"
)

// TracerName is the instrumentation name of driver spans.
const TracerName = "github.com/luthersystems/fxlint/driver"

// FileResult is the outcome of analyzing one file.  Err is set when the
// file could not be read; Result is nil in that case.
type FileResult struct {
	Path   string
	Source []byte
	Result *lint.AnalysisResult
	Err    error
}

// Driver runs a Linter over files.
type Driver struct {
	linter *lint.Linter
	jobs   int
	tracer trace.Tracer
	read   func(string) ([]byte, error)
}

// Option configures a Driver.
type Option func(*Driver)

// WithJobs bounds the number of files analyzed at once.  Values less than
// one select runtime.GOMAXPROCS(0).
func WithJobs(n int) Option {
	return func(d *Driver) {
		d.jobs = n
	}
}

// WithTracerProvider sets the provider of the driver's tracer.  The global
// provider is used by default.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *Driver) {
		d.tracer = tp.Tracer(TracerName)
	}
}

// WithReadFile replaces os.ReadFile.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(d *Driver) {
		d.read = fn
	}
}

// New returns a Driver that analyzes files with l.
func New(l *lint.Linter, opts ...Option) *Driver {
	d := &Driver{
		linter: l,
		tracer: otel.GetTracerProvider().Tracer(TracerName),
		read: func(path string) ([]byte, error) {
			return os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.jobs < 1 {
		d.jobs = runtime.GOMAXPROCS(0)
	}
	return d
}

// AnalyzeFiles analyzes every path and returns the results in the order of
// paths.  Unreadable files are reported through FileResult.Err.  The only
// error returned is the cancellation of ctx.
func (d *Driver) AnalyzeFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	ctx, span := d.tracer.Start(ctx, "fxlint.analyze-files",
		trace.WithAttributes(attribute.Int("fxlint.files", len(paths))))
	defer span.End()

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = d.analyzeFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return results, nil
}

// AnalyzeSource analyzes an in-memory formula under a display name.
func (d *Driver) AnalyzeSource(ctx context.Context, name string, src []byte) FileResult {
	_, span := d.tracer.Start(ctx, "fxlint.analyze",
		trace.WithAttributes(semconv.CodeFilepath(name)))
	defer span.End()
	res := d.linter.AnalyzeFile(src, name)
	annotate(span, res)
	return FileResult{Path: name, Source: src, Result: res}
}

func (d *Driver) analyzeFile(ctx context.Context, path string) FileResult {
	_, span := d.tracer.Start(ctx, "fxlint.analyze",
		trace.WithAttributes(semconv.CodeFilepath(path)))
	defer span.End()

	src, err := d.read(path)
	if err != nil {
		err = fmt.Errorf("%s: %w", path, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return FileResult{Path: path, Err: err}
	}
	res := d.linter.AnalyzeFile(src, path)
	annotate(span, res)
	return FileResult{Path: path, Source: src, Result: res}
}

func annotate(span trace.Span, res *lint.AnalysisResult) {
	span.SetAttributes(
		attribute.Int("fxlint.statements", len(res.Statements)),
		attribute.Int("fxlint.diagnostics", len(res.Diagnostics())),
		attribute.String("fxlint.complexity", res.Complexity.String()),
		attribute.Bool("fxlint.valid", res.Valid()),
	)
}

// Diagnostics returns the diagnostics of all results in order.
func Diagnostics(results []FileResult) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, r := range results {
		if r.Result != nil {
			diags = append(diags, r.Result.Diagnostics()...)
		}
	}
	return diags
}
