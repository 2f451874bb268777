// Package operation wraps service operations with tracing, metrics, logging and panic recovery.
package operation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry is the set of providers every service carries.
type Telemetry struct {
	Logger  *slog.Logger
	Metrics observability.OperationMetrics
	Tracer  trace.Tracer
}

// Run executes op inside a span named name. Failures are logged at a level that
// matches their kind; infrastructure failures are errors, caller mistakes are warnings.
func Run[T any](
	ctx context.Context,
	t Telemetry,
	name string,
	attrs []attribute.KeyValue,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := t.Tracer.Start(ctx, name, trace.WithAttributes(
		append([]attribute.KeyValue{attribute.String("operation", name)}, attrs...)...,
	))
	defer span.End()

	t.Metrics.RecordOperationAttempt(ctx, name)
	start := time.Now()
	defer func() {
		t.Metrics.RecordOperationDuration(ctx, name, time.Since(start))
	}()

	logAttrs := make([]any, 0, len(attrs)+2)
	logAttrs = append(logAttrs, attr.String("operation", name), attr.ExtractCorrelationID(ctx))
	for _, kv := range attrs {
		logAttrs = append(logAttrs, attr.String(string(kv.Key), kv.Value.Emit()))
	}
	t.Logger.DebugContext(ctx, name+" triggered", logAttrs...)

	defer func() {
		if r := recover(); r != nil {
			err = &apperr.Error{Kind: apperr.KindTransaction, Op: name, Reason: fmt.Sprintf("panic: %v", r)}
			t.Logger.ErrorContext(ctx, "Critical panic recovered", append(logAttrs, attr.Error(err))...)
			t.Metrics.RecordOperationFailure(ctx, name, apperr.KindTransaction.String())
			span.RecordError(err)
			span.SetStatus(codes.Error, "panic")
			var zero T
			result = zero
		}
	}()

	result, err = op(ctx)
	if err != nil {
		kind := apperr.KindOf(err)
		t.Metrics.RecordOperationFailure(ctx, name, kind.String())
		span.RecordError(err)
		span.SetStatus(codes.Error, kind.String())
		failAttrs := append(logAttrs, attr.String("kind", kind.String()), attr.Error(err))
		if kind.Retryable() {
			t.Logger.ErrorContext(ctx, name+" failed", failAttrs...)
		} else {
			t.Logger.WarnContext(ctx, name+" rejected", failAttrs...)
		}
		return result, err
	}

	t.Metrics.RecordOperationSuccess(ctx, name)
	t.Logger.InfoContext(ctx, name+" completed successfully", logAttrs...)
	return result, nil
}
