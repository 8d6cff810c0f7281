package otel_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	_ "modernc.org/sqlite"

	adapter "github.com/scgm/containergen/internal/adapter/otel"
	"github.com/scgm/containergen/internal/domain"
)

// --- Test telemetry setup ---

func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

func setupTestMeter(t *testing.T) *sdkmetric.ManualReader {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(mp)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	return reader
}

// --- Mocks ---

type mockRecords struct {
	written  int
	closed   int
	closeErr error
}

func (m *mockRecords) Write(context.Context, domain.Container) error {
	m.written++
	return nil
}

func (m *mockRecords) Close() error {
	m.closed++
	return m.closeErr
}

type mockIDList struct {
	err error
}

func (m *mockIDList) WriteIDs(context.Context, []string) error { return m.err }

type mockOutputs struct {
	records *mockRecords
	idList  *mockIDList
}

func (m *mockOutputs) CreateRecordWriter(string) (domain.RecordWriter, error) {
	return m.records, nil
}

func (m *mockOutputs) CreateIDListWriter(string) (domain.IDListWriter, error) {
	return m.idList, nil
}

// failingMeterProvider hands out meters that cannot create instruments.
type failingMeterProvider struct{ noop.MeterProvider }

func (failingMeterProvider) Meter(string, ...metric.MeterOption) metric.Meter {
	return failingMeter{}
}

type failingMeter struct{ noop.Meter }

func (failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errors.New("meter unavailable")
}

// --- Tests ---

func TestTracingRecordWriter_CountsAndTracesClose(t *testing.T) {
	spans := setupTestTracer(t)
	reader := setupTestMeter(t)
	ctx := context.Background()

	inner := &mockRecords{}
	w, err := adapter.NewTracingOutputs(&mockOutputs{records: inner}).CreateRecordWriter("out.sql")
	if err != nil {
		t.Fatalf("CreateRecordWriter failed: %v", err)
	}

	for _, status := range []domain.WasteLevel{domain.WasteLevelLight, domain.WasteLevelHeavy, domain.WasteLevelHeavy} {
		if err := w.Write(ctx, domain.Container{WasteLevelStatus: status}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if inner.written != 3 {
		t.Errorf("inner writer got %d records, want 3", inner.written)
	}

	got := spans.GetSpans()
	if len(got) != 1 || got[0].Name != "RecordWriter.Close" {
		t.Fatalf("spans = %v, want a single RecordWriter.Close", got)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collecting metrics: %v", err)
	}
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "containergen.records.written" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 3 {
		t.Errorf("records.written total = %d, want 3", total)
	}
}

func TestTracingRecordWriter_CloseError(t *testing.T) {
	spans := setupTestTracer(t)
	setupTestMeter(t)

	inner := &mockRecords{closeErr: errors.New("flush failed")}
	w, err := adapter.NewTracingRecordWriter(inner, "out.sql")
	if err != nil {
		t.Fatalf("NewTracingRecordWriter failed: %v", err)
	}

	if err := w.Close(); err == nil {
		t.Fatal("expected close error")
	}

	got := spans.GetSpans()
	if len(got) != 1 {
		t.Fatalf("got %d spans, want 1", len(got))
	}
	if got[0].Status.Code != codes.Error {
		t.Errorf("span status = %v, want Error", got[0].Status.Code)
	}
}

func TestTracingIDListWriter(t *testing.T) {
	spans := setupTestTracer(t)

	w, err := adapter.NewTracingOutputs(&mockOutputs{idList: &mockIDList{}}).CreateIDListWriter("ids.json")
	if err != nil {
		t.Fatalf("CreateIDListWriter failed: %v", err)
	}
	if err := w.WriteIDs(context.Background(), []string{"a", "b"}); err != nil {
		t.Fatalf("WriteIDs failed: %v", err)
	}

	got := spans.GetSpans()
	if len(got) != 1 || got[0].Name != "IDListWriter.WriteIDs" {
		t.Fatalf("spans = %v, want a single IDListWriter.WriteIDs", got)
	}
	if got[0].Status.Code == codes.Error {
		t.Error("span marked as error on success")
	}
}

func TestTracingIDListWriter_Error(t *testing.T) {
	spans := setupTestTracer(t)

	w := adapter.NewTracingIDListWriter(&mockIDList{err: errors.New("read-only")}, "ids.json")
	if err := w.WriteIDs(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}

	got := spans.GetSpans()
	if len(got) != 1 || got[0].Status.Code != codes.Error {
		t.Fatalf("spans = %v, want one error span", got)
	}
}

func TestOpenDB(t *testing.T) {
	db, err := adapter.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestTracingOutputs_CounterFailureClosesWriter(t *testing.T) {
	otel.SetMeterProvider(failingMeterProvider{})
	t.Cleanup(func() { otel.SetMeterProvider(noop.NewMeterProvider()) })

	inner := &mockRecords{}
	w, err := adapter.NewTracingOutputs(&mockOutputs{records: inner}).CreateRecordWriter("out.sql")
	if err == nil {
		t.Fatal("expected error when the records counter cannot be created")
	}
	if w != nil {
		t.Errorf("writer = %#v, want nil interface", w)
	}
	if inner.closed != 1 {
		t.Errorf("inner writer closed %d times, want 1", inner.closed)
	}
}
