// Copyright © 2026 The FXLINT authors

package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/luthersystems/fxlint/catalog"
	"github.com/luthersystems/fxlint/driver"
	"github.com/luthersystems/fxlint/lint"
)

func newTracer(t *testing.T) (*tracetest.InMemoryExporter, *trace.TracerProvider) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	return exporter, tp
}

func writeFiles(t *testing.T, files map[string]string) map[string]string {
	t.Helper()
	dir := t.TempDir()
	paths := make(map[string]string, len(files))
	for name, src := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(src), 0o600))
		paths[name] = p
	}
	return paths
}

func TestAnalyzeFiles(t *testing.T) {
	exporter, tp := newTracer(t)
	paths := writeFiles(t, map[string]string{
		"good.fx": "Sum(1, 2)",
		"bad.fx":  "Sum(1)",
	})
	d := driver.New(lint.New(catalog.MustDefault()), driver.WithJobs(2), driver.WithTracerProvider(tp))

	order := []string{paths["bad.fx"], paths["good.fx"], filepath.Join(filepath.Dir(paths["bad.fx"]), "missing.fx")}
	results, err := d.AnalyzeFiles(context.Background(), order)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, r := range results {
		assert.Equal(t, order[i], r.Path, "results keep input order")
	}
	require.NoError(t, results[0].Err)
	assert.False(t, results[0].Result.Valid())
	assert.Equal(t, paths["bad.fx"], results[0].Result.File)
	require.NoError(t, results[1].Err)
	assert.True(t, results[1].Result.Valid())
	assert.Error(t, results[2].Err)
	assert.True(t, errors.Is(results[2].Err, os.ErrNotExist))
	assert.Nil(t, results[2].Result)

	diags := driver.Diagnostics(results)
	require.NotEmpty(t, diags)
	assert.Equal(t, paths["bad.fx"], diags[0].Position.File)

	spans := exporter.GetSpans()
	assert.Len(t, spans, 4, "one span per file plus the batch span")
	var failed int
	for _, s := range spans {
		if s.Name != "fxlint.analyze" {
			assert.Equal(t, "fxlint.analyze-files", s.Name)
			continue
		}
		var hasPath bool
		for _, kv := range s.Attributes {
			if kv.Key == semconv.CodeFilepathKey {
				hasPath = true
			}
		}
		assert.True(t, hasPath, "span %s carries the file path", s.Name)
		if s.Status.Code == codes.Error {
			failed++
		}
	}
	assert.Equal(t, 1, failed)
}

func TestAnalyzeFilesJobs(t *testing.T) {
	var running, peak int32
	read := func(path string) ([]byte, error) {
		n := atomic.AddInt32(&running, 1)
		defer atomic.AddInt32(&running, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		return []byte("Sum(1, 2)"), nil
	}
	_, tp := newTracer(t)
	d := driver.New(lint.New(catalog.MustDefault()),
		driver.WithJobs(1), driver.WithReadFile(read), driver.WithTracerProvider(tp))
	paths := []string{"a.fx", "b.fx", "c.fx", "d.fx"}
	results, err := d.AnalyzeFiles(context.Background(), paths)
	require.NoError(t, err)
	assert.Len(t, results, len(paths))
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestAnalyzeFilesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := driver.New(lint.New(catalog.MustDefault()),
		driver.WithReadFile(func(string) ([]byte, error) { return []byte("1"), nil }))
	_, err := d.AnalyzeFiles(ctx, []string{"a.fx"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeSource(t *testing.T) {
	exporter, tp := newTracer(t)
	d := driver.New(lint.New(catalog.MustDefault()), driver.WithTracerProvider(tp))
	r := d.AnalyzeSource(context.Background(), "<stdin>", []byte("If(x > 1, \"a\", \"b\")"))
	require.NoError(t, r.Err)
	assert.True(t, r.Result.Valid())
	assert.Equal(t, "<stdin>", r.Result.File)
	require.Len(t, exporter.GetSpans(), 1)
	assert.Equal(t, "fxlint.analyze", exporter.GetSpans()[0].Name)
}
