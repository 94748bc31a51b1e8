package api

import (
	"errors"
	"fmt"

	"github.com/gravitational/trace"
	"github.com/tidwall/gjson"
)

// StatusError is returned when an HTTP call succeeded but the Withings
// response envelope carries a non-zero status.
type StatusError struct {
	// Status is the Withings status code from the response envelope.
	Status int64
	// Message is the vendor error message, when present.
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("withings status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("withings status %d", e.Status)
}

// IsStatusError reports whether err (possibly wrapped) is a StatusError.
func IsStatusError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

// UnwrapBody validates the Withings response envelope and returns the raw
// JSON of its `body` field. Status zero is the only success status.
func UnwrapBody(payload []byte) ([]byte, error) {
	if !gjson.ValidBytes(payload) {
		return nil, trace.BadParameter("malformed response payload")
	}

	status := gjson.GetBytes(payload, "status")
	if !status.Exists() {
		return nil, trace.BadParameter("response does not contain `status`")
	}
	if status.Int() != 0 {
		return nil, trace.Wrap(&StatusError{
			Status:  status.Int(),
			Message: gjson.GetBytes(payload, "error").String(),
		})
	}

	body := gjson.GetBytes(payload, "body")
	if !body.Exists() {
		return nil, trace.BadParameter("response does not contain `body`")
	}

	return []byte(body.Raw), nil
}
