package events

import (
	"fmt"

	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// FailureResults turns a service error into handler output. Retryable failures
// are returned as errors so the router redelivers the message; every other kind
// is reported on topic and the message is acknowledged.
func FailureResults(topic, subject string, err error) ([]handlerwrapper.Result, error) {
	kind := apperr.KindOf(err)
	if kind.Retryable() {
		return nil, err
	}
	return []handlerwrapper.Result{{
		Topic: topic,
		Payload: OperationFailedPayloadV1{
			Subject: subject,
			Kind:    kind.String(),
			Reason:  apperr.Reason(err),
		},
	}}, nil
}

// DecodeFailure reports payloads that do not match the request schema as
// validation failures on topic. The subject is the rejected message id.
func DecodeFailure(topic string) handlerwrapper.DecodeFailureFunc {
	return func(messageID string, err error) []handlerwrapper.Result {
		return []handlerwrapper.Result{{
			Topic: topic,
			Payload: OperationFailedPayloadV1{
				Subject: messageID,
				Kind:    apperr.KindValidation.String(),
				Reason:  fmt.Sprintf("malformed payload: %v", err),
			},
		}}
	}
}
