package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies the driver-loop tracer StartUpdateIteration uses.
const tracerName = "airbridge/driver"

// InitTracer installs a stdout-exporting TracerProvider as the global
// tracer, tagging its resource with the running session's ID so exported
// spans can be correlated with that session's audit trail, and returns a
// shutdown func to call on process exit.
func InitTracer(sessionID string) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			semconv.ServiceName("airbridge"),
			semconv.ServiceVersion("0.1.0"),
			semconv.ServiceInstanceID(sessionID),
		),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// StartUpdateIteration opens the one-span-per-driver-iteration that wraps
// Handler.Update, tagged with the captured frame's length. Call sites are
// expected to end the returned span once Update returns.
func StartUpdateIteration(ctx context.Context, frameLen int) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, "handler.Update", trace.WithAttributes(
		attribute.Int("airbridge.frame.bytes", frameLen),
	))
}
