package handler

import (
	"context"
	"encoding/json"

	"github.com/linecard/bpsync/internal/tracing"
	"github.com/linecard/bpsync/pkg/convention/action"
	"github.com/linecard/bpsync/pkg/sdk"

	"github.com/aws/aws-lambda-go/lambda"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-lambda-go/otellambda"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var api sdk.API

// Listen for events from the AWS Lambda runtime.
func Listen(tp *sdktrace.TracerProvider) {
	instrumented := otellambda.InstrumentHandler(Handler,
		otellambda.WithTracerProvider(tp),
		otellambda.WithFlusher(tp),
	)

	lambda.Start(instrumented)
}

// Handler processes one automation platform webhook delivery.
func Handler(ctx context.Context, payload json.RawMessage) (action.Output, error) {
	if err := BeforeEach(ctx); err != nil {
		return action.Output{}, err
	}

	ctx, span := otel.Tracer("").Start(ctx, "handler")
	defer span.End()

	out, err := api.Action.Invoke(ctx, payload)
	if err != nil {
		return action.Output{}, tracing.Fail(span, err)
	}

	return out, nil
}
