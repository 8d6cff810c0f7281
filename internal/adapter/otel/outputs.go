package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/scgm/containergen/internal/domain"
)

const instrumentationName = "github.com/scgm/containergen/internal/adapter/otel"

// TracingOutputs wraps a domain.OutputFactory so every artifact it creates
// is traced.
type TracingOutputs struct {
	next domain.OutputFactory
}

// Compile-time check: TracingOutputs implements domain.OutputFactory.
var _ domain.OutputFactory = (*TracingOutputs)(nil)

// NewTracingOutputs creates a tracing decorator around the given factory.
func NewTracingOutputs(next domain.OutputFactory) *TracingOutputs {
	return &TracingOutputs{next: next}
}

func (o *TracingOutputs) CreateRecordWriter(path string) (domain.RecordWriter, error) {
	w, err := o.next.CreateRecordWriter(path)
	if err != nil {
		return nil, err
	}

	traced, err := NewTracingRecordWriter(w, path)
	if err != nil {
		return nil, errors.Join(err, w.Close())
	}
	return traced, nil
}

func (o *TracingOutputs) CreateIDListWriter(path string) (domain.IDListWriter, error) {
	w, err := o.next.CreateIDListWriter(path)
	if err != nil {
		return nil, err
	}
	return NewTracingIDListWriter(w, path), nil
}

// TracingRecordWriter wraps a domain.RecordWriter. Writes are counted
// rather than traced one by one; Close gets a span.
type TracingRecordWriter struct {
	next    domain.RecordWriter
	path    string
	tracer  trace.Tracer
	written metric.Int64Counter
	count   int64
}

// Compile-time check: TracingRecordWriter implements domain.RecordWriter.
var _ domain.RecordWriter = (*TracingRecordWriter)(nil)

// NewTracingRecordWriter creates a decorator around the given writer.
func NewTracingRecordWriter(next domain.RecordWriter, path string) (*TracingRecordWriter, error) {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"containergen.records.written",
		metric.WithDescription("Containers written to the SQL artifact"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, err
	}

	return &TracingRecordWriter{
		next:    next,
		path:    path,
		tracer:  otel.Tracer(instrumentationName),
		written: counter,
	}, nil
}

func (w *TracingRecordWriter) Write(ctx context.Context, c domain.Container) error {
	if err := w.next.Write(ctx, c); err != nil {
		return err
	}
	w.count++
	w.written.Add(ctx, 1, metric.WithAttributes(
		attribute.String("waste_level.status", string(c.WasteLevelStatus)),
	))
	return nil
}

func (w *TracingRecordWriter) Close() error {
	_, span := w.tracer.Start(context.Background(), "RecordWriter.Close",
		trace.WithAttributes(
			attribute.String("output.path", w.path),
			attribute.Int64("output.records", w.count),
		),
	)
	defer span.End()

	err := w.next.Close()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// TracingIDListWriter wraps a domain.IDListWriter with OpenTelemetry tracing.
type TracingIDListWriter struct {
	next   domain.IDListWriter
	path   string
	tracer trace.Tracer
}

// Compile-time check: TracingIDListWriter implements domain.IDListWriter.
var _ domain.IDListWriter = (*TracingIDListWriter)(nil)

// NewTracingIDListWriter creates a tracing decorator around the given writer.
func NewTracingIDListWriter(next domain.IDListWriter, path string) *TracingIDListWriter {
	return &TracingIDListWriter{
		next:   next,
		path:   path,
		tracer: otel.Tracer(instrumentationName),
	}
}

func (w *TracingIDListWriter) WriteIDs(ctx context.Context, ids []string) error {
	ctx, span := w.tracer.Start(ctx, "IDListWriter.WriteIDs",
		trace.WithAttributes(
			attribute.String("output.path", w.path),
			attribute.Int("output.ids", len(ids)),
		),
	)
	defer span.End()

	err := w.next.WriteIDs(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
