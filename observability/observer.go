package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/xfer/easy"
)

// TransferObserver records a span and metrics for every perform it is
// notified about.
type TransferObserver struct {
	ctx     context.Context
	tracer  trace.Tracer
	metrics *Metrics
}

var _ easy.Observer = (*TransferObserver)(nil)

// NewTransferObserver creates an observer recording on tracer and meter.
func NewTransferObserver(tracer trace.Tracer, meter metric.Meter) (*TransferObserver, error) {
	m, err := NewMetrics(meter)
	if err != nil {
		return nil, err
	}
	return &TransferObserver{ctx: context.Background(), tracer: tracer, metrics: m}, nil
}

// WithContext returns a copy whose spans are children of the span in ctx.
func (o *TransferObserver) WithContext(ctx context.Context) *TransferObserver {
	c := *o
	c.ctx = ctx
	return &c
}

// OnPerform records ev.
func (o *TransferObserver) OnPerform(ev easy.PerformEvent) {
	_, span := o.tracer.Start(o.ctx, SpanPerform,
		trace.WithTimestamp(ev.Start),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(AttrHandle, ev.HandleID),
			attribute.String(AttrURL, ev.URL),
			attribute.String(AttrScheme, ev.Protocol),
			attribute.Int64(AttrResponseCode, ev.ResponseCode),
			attribute.String(AttrStatus, ev.Code.String()),
			attribute.Int64(AttrBytesIn, ev.Downloaded),
			attribute.Int64(AttrBytesOut, ev.Uploaded),
		),
	)
	if ev.Err != nil {
		span.RecordError(ev.Err)
		span.SetStatus(codes.Error, ev.Err.Error())
		o.metrics.RecordFailure(o.ctx, ev.Code.String())
	}
	span.End(trace.WithTimestamp(ev.Start.Add(ev.Duration)))

	o.metrics.RecordTransfer(o.ctx, ev.Protocol, ev.Code.String(), ev.Duration, ev.Downloaded, ev.Uploaded)
}
