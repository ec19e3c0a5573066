// Package observability provides OpenTelemetry tracing and metrics
// integration for services embedding transcriptkit.
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-service"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewAccumulatorMetrics(observability.Meter("my-service"))
//	acc, err := accumulator.New(cfg, accumulator.WithMetrics(metrics))
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-service"))
//	defer tp.Shutdown(ctx)
//
// Without an initialized provider all instruments are no-ops, so the
// library can always record unconditionally.
package observability
