package tracing

import (
	"context"
	"os"

	"github.com/linecard/bpsync/internal/util"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const DefaultServiceName = "bpsync"

// ServiceName reports OTEL_SERVICE_NAME, falling back to the Lambda function name.
func ServiceName() string {
	for _, key := range []string{"OTEL_SERVICE_NAME", "AWS_LAMBDA_FUNCTION_NAME"} {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return DefaultServiceName
}

// InitOtel installs the global tracer provider. Spans are exported over OTLP
// only when an exporter endpoint is configured.
func InitOtel() (tp *sdktrace.TracerProvider, shutdown func()) {
	ctx := context.Background()
	res := resource.NewSchemaless(attribute.String("service.name", ServiceName()))
	tp = sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	shutdown = func() {
		_ = tp.Shutdown(ctx)
	}

	if util.OtelConfigPresent() {
		log.Info().Str("service", ServiceName()).Msg("exporting blueprint sync spans over OTLP")

		exp, err := otlptrace.New(ctx, otlptracegrpc.NewClient())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create OTLP exporter")
		}

		tp = sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(exp),
		)

		shutdown = func() {
			_ = tp.ForceFlush(ctx)
			_ = exp.Shutdown(ctx)
			_ = tp.Shutdown(ctx)
		}
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetTracerProvider(tp)

	return tp, shutdown
}

// Fail marks the span as errored and hands the error back.
func Fail(span trace.Span, err error) error {
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
	return err
}
