// Package telemetry provides OpenTelemetry tracing and metrics for the
// ctxeng commands.
//
// # Overview
//
// Telemetry is off by default. When enabled, spans and metrics are sent
// to an OTLP collector over gRPC or HTTP/protobuf and flushed when the
// command exits.
//
// # Usage
//
//	cfg := telemetry.NewDefaultConfig()
//	tel, err := telemetry.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(ctx)
//
//	tracer := tel.Tracer("github.com/fyrsmithlabs/ctxeng/internal/health")
//	ctx, span := tracer.Start(ctx, "health.analyze")
//	defer span.End()
//
// # Configuration
//
//	telemetry:
//	  enabled: true
//	  endpoint: "localhost:4317"
//	  protocol: grpc        # or http/protobuf
//	  metrics:
//	    enabled: true
//	    export_interval: 15s
//	  shutdown:
//	    timeout: 5s
//
// # Error Handling
//
// If providers cannot be created the instance degrades to no-op providers
// and Health reports the cause. A telemetry failure never fails a command.
//
// # Testing
//
//	tt := telemetry.NewTestTelemetry()
//	_, span := tt.Tracer("test").Start(ctx, "test-span")
//	span.End()
//	tt.AssertSpanExists(t, "test-span")
package telemetry
