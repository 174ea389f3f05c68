package tracing

import (
	"context"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/viant/vacation/fault"
)

const instrumentation = "github.com/viant/vacation"

// Span attribute keys.
const (
	AttrOp        = attribute.Key("vacation.op")
	AttrRequestID = attribute.Key("vacation.request_id")
	AttrActorID   = attribute.Key("vacation.actor_id")
	AttrKind      = attribute.Key("vacation.error_kind")
)

// Shutdown flushes pending spans and releases the exporter.
type Shutdown func(ctx context.Context) error

var (
	installOnce sync.Once
	installed   Shutdown
	installErr  error
)

// Init installs a global tracer provider writing spans as JSON to outputFile,
// or to os.Stdout when outputFile is empty. Only the first call takes effect;
// later calls return the same Shutdown.
func Init(serviceName, serviceVersion, outputFile string) (Shutdown, error) {
	installOnce.Do(func() {
		var w io.Writer = os.Stdout
		var file *os.File
		if outputFile != "" {
			if file, installErr = os.Create(outputFile); installErr != nil {
				return
			}
			w = file
		}
		exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			installErr = err
			return
		}
		res, err := resource.New(context.Background(), resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		))
		if err != nil {
			installErr = err
			return
		}
		provider := sdktrace.NewTracerProvider(
			sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
			sdktrace.WithResource(res),
		)
		otel.SetTracerProvider(provider)
		installed = func(ctx context.Context) error {
			err := provider.Shutdown(ctx)
			if file != nil {
				if cerr := file.Close(); err == nil {
					err = cerr
				}
			}
			return err
		}
	})
	return installed, installErr
}

// Span covers a single engine operation.
type Span struct {
	span trace.Span
}

// StartTransition opens a span named vacation.<op> for requestID.
func StartTransition(ctx context.Context, op, requestID string) (context.Context, *Span) {
	ctx, span := otel.Tracer(instrumentation).Start(ctx, "vacation."+op,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(AttrOp.String(op), AttrRequestID.String(requestID)),
	)
	return ctx, &Span{span: span}
}

// Annotate adds a string attribute.
func (s *Span) Annotate(key attribute.Key, value string) {
	if s == nil || value == "" {
		return
	}
	s.span.SetAttributes(key.String(value))
}

// End records the outcome and ends the span. A failed operation carries its
// fault kind.
func (s *Span) End(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.SetAttributes(AttrKind.String(fault.KindOf(err).String()))
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}
