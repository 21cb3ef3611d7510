// Package observability wires OpenTelemetry tracing and metrics into
// transfers.
//
// InitTracer and InitMeter install OTLP/HTTP exporters as the global
// providers. TransferObserver plugs into easy.WithObserver and records one
// span and a set of metrics per perform:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("xfer"))
//	defer tp.Shutdown(ctx)
//
//	obs, err := observability.NewTransferObserver(
//	    observability.Tracer("xfer"), observability.Meter("xfer"))
//	h, err := easy.New(easy.WithObserver(obs))
package observability
