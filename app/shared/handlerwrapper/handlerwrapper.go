// Package handlerwrapper adapts typed event handlers to watermill handler funcs.
package handlerwrapper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
)

// TopicMetadataKey carries the destination topic of a produced message. The
// event bus publisher routes on it when the router passes an empty topic.
const TopicMetadataKey = "topic"

// Result is one message a handler wants published.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// HandlerFunc is a typed event handler.
type HandlerFunc[T any] func(ctx context.Context, payload *T) ([]Result, error)

// DecodeFailureFunc reports a payload that could not be decoded. messageID
// identifies the rejected message.
type DecodeFailureFunc func(messageID string, err error) []Result

// WrapTransformingTyped decodes the incoming payload into T, runs handler, and
// encodes its results as outgoing messages. Payloads that cannot be decoded are
// acknowledged since redelivery cannot fix them; onDecodeFailure, when set,
// supplies the messages that report the rejection. Handler errors are returned
// to the router so its retry middleware can redeliver.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
	onDecodeFailure DecodeFailureFunc,
	handler HandlerFunc[T],
) message.HandlerFunc {
	if metrics == nil {
		metrics = observability.NoOpMetrics{}
	}
	return func(msg *message.Message) ([]*message.Message, error) {
		ctx, span := tracer.Start(msg.Context(), handlerName, trace.WithAttributes(
			attribute.String("message.uuid", msg.UUID),
			attribute.String("handler", handlerName),
		))
		defer span.End()

		correlationID := middleware.MessageCorrelationID(msg)
		ctx = attr.WithCorrelationID(ctx, correlationID)

		metrics.RecordOperationAttempt(ctx, handlerName)
		start := time.Now()
		defer func() { metrics.RecordOperationDuration(ctx, handlerName, time.Since(start)) }()

		payload := new(T)
		dec := json.NewDecoder(bytes.NewReader(msg.Payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(payload); err != nil {
			logger.ErrorContext(ctx, "Dropping message with undecodable payload",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName, "decode")
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode")
			if onDecodeFailure == nil {
				return nil, nil
			}
			out, encErr := encodeResults(onDecodeFailure(msg.UUID, err), correlationID)
			if encErr != nil {
				return nil, fmt.Errorf("%s: %w", handlerName, encErr)
			}
			return out, nil
		}

		results, err := handler(ctx, payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			metrics.RecordOperationFailure(ctx, handlerName, "handler")
			span.RecordError(err)
			span.SetStatus(codes.Error, "handler")
			return nil, err
		}

		out, err := encodeResults(results, correlationID)
		if err != nil {
			metrics.RecordOperationFailure(ctx, handlerName, "encode")
			span.RecordError(err)
			return nil, fmt.Errorf("%s: %w", handlerName, err)
		}
		metrics.RecordOperationSuccess(ctx, handlerName)
		return out, nil
	}
}

func encodeResults(results []Result, correlationID string) ([]*message.Message, error) {
	out := make([]*message.Message, 0, len(results))
	for _, r := range results {
		m, err := newResultMessage(r, correlationID)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func newResultMessage(r Result, correlationID string) (*message.Message, error) {
	if r.Topic == "" {
		return nil, fmt.Errorf("result without topic")
	}
	body, err := json.Marshal(r.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", r.Topic, err)
	}
	m := message.NewMessage(watermill.NewUUID(), body)
	for k, v := range r.Metadata {
		m.Metadata.Set(k, v)
	}
	m.Metadata.Set(TopicMetadataKey, r.Topic)
	if correlationID != "" {
		middleware.SetCorrelationID(correlationID, m)
	}
	return m, nil
}

// NewMessage builds an outgoing message for payload addressed to topic. Used by
// publishers outside the router, such as the HTTP binding and the CLI.
func NewMessage(topic string, payload any, correlationID string) (*message.Message, error) {
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	return newResultMessage(Result{Topic: topic, Payload: payload}, correlationID)
}
