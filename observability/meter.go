package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/xfer/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	Endpoint       string
	Insecure       bool
	// Interval is the export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns development defaults.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "dev",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter installs a periodic OTLP meter provider as the global one.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the transfer instruments.
type Metrics struct {
	transfers metric.Int64Counter
	duration  metric.Float64Histogram
	bytesIn   metric.Int64Counter
	bytesOut  metric.Int64Counter
	failures  metric.Int64Counter
}

// NewMetrics creates the transfer instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	transfers, err := meter.Int64Counter("xfer.transfers",
		metric.WithDescription("Completed transfers"))
	if err != nil {
		return nil, fmt.Errorf("creating xfer.transfers counter: %w", err)
	}
	duration, err := meter.Float64Histogram("xfer.transfer.duration",
		metric.WithDescription("Total time of transfers"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating xfer.transfer.duration histogram: %w", err)
	}
	bytesIn, err := meter.Int64Counter("xfer.bytes.downloaded",
		metric.WithDescription("Body bytes received"), metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("creating xfer.bytes.downloaded counter: %w", err)
	}
	bytesOut, err := meter.Int64Counter("xfer.bytes.uploaded",
		metric.WithDescription("Body bytes sent"), metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("creating xfer.bytes.uploaded counter: %w", err)
	}
	failures, err := meter.Int64Counter("xfer.failures",
		metric.WithDescription("Failed transfers by status"))
	if err != nil {
		return nil, fmt.Errorf("creating xfer.failures counter: %w", err)
	}
	return &Metrics{
		transfers: transfers,
		duration:  duration,
		bytesIn:   bytesIn,
		bytesOut:  bytesOut,
		failures:  failures,
	}, nil
}

// RecordTransfer records one finished transfer.
func (m *Metrics) RecordTransfer(ctx context.Context, scheme, status string, d time.Duration, down, up int64) {
	attrs := metric.WithAttributes(
		attribute.String("scheme", scheme),
		attribute.String("status", status),
	)
	m.transfers.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("scheme", scheme)))
	if down > 0 {
		m.bytesIn.Add(ctx, down)
	}
	if up > 0 {
		m.bytesOut.Add(ctx, up)
	}
}

// RecordFailure counts a failed transfer.
func (m *Metrics) RecordFailure(ctx context.Context, status string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}
