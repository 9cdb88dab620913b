package tracing

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	_, err = os.Stat(tracePath)
	require.NoError(t, err, "trace file should be created with parent dirs")
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestFileExporter_AppendsAndReadsBack(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	require.NoError(t, os.WriteFile(tracePath, []byte(`{"name":"existing"}`+"\n"), 0o644))

	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	start := time.Now()
	stub := tracetest.SpanStub{
		Name:      SpanRenderGroup,
		SpanKind:  trace.SpanKindInternal,
		StartTime: start,
		EndTime:   start.Add(100 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Ok},
		Attributes: []attribute.KeyValue{
			attribute.String(AttrGroupType, "delta"),
			attribute.Int(AttrOpCount, 3),
		},
		Events: []sdktrace.Event{{
			Name:       EventSizeGuard,
			Time:       start,
			Attributes: []attribute.KeyValue{attribute.Int("chars", 20000)},
		}},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records, err := ReadSpans(tracePath)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "existing", records[0].Name)

	rec := records[1]
	require.Equal(t, SpanRenderGroup, rec.Name)
	require.Equal(t, "INTERNAL", rec.Kind)
	require.Equal(t, "OK", rec.Status)
	require.InDelta(t, 100.0, rec.DurationMs, 0.001)
	require.Equal(t, "delta", rec.Attributes[AttrGroupType])
	require.EqualValues(t, 3, rec.Attributes[AttrOpCount])
	require.Len(t, rec.Events, 1)
	require.Equal(t, EventSizeGuard, rec.Events[0].Name)
	require.EqualValues(t, 20000, rec.Events[0].Attributes["chars"])
}

func TestFileExporter_ErrorStatus(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	stub := tracetest.SpanStub{
		Name:   SpanGitDiff,
		Status: sdktrace.Status{Code: codes.Error, Description: "not a git repository"},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records, err := ReadSpans(tracePath)
	require.NoError(t, err)
	require.Equal(t, "ERROR", records[0].Status)
	require.Equal(t, "not a git repository", records[0].StatusMsg)
	require.Empty(t, records[0].ParentSpanID)
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "shutdown is idempotent")

	stub := tracetest.SpanStub{Name: "late"}
	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
	require.Error(t, err)
}

func TestFileExporter_ThreadSafe(t *testing.T) {
	tracePath := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(tracePath)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := range 50 {
				stub := tracetest.SpanStub{
					Name:       SpanRenderFile,
					Attributes: []attribute.KeyValue{attribute.Int("worker", worker), attribute.Int("i", j)},
				}
				_ = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
			}
		}(i)
	}
	wg.Wait()
	require.NoError(t, exporter.Shutdown(context.Background()))

	records, err := ReadSpans(tracePath)
	require.NoError(t, err)
	require.Len(t, records, 400)
}

func TestReadSpans_Missing(t *testing.T) {
	_, err := ReadSpans(filepath.Join(t.TempDir(), "nope.jsonl"))
	require.ErrorContains(t, err, "open trace file")
}
