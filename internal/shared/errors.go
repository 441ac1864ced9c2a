package shared

import (
	"errors"
	"fmt"
)

// RequestError is used when we want a specific error message and StatusCode.
// Sane defaults are listed below. For routes that need custom error messages,
// a request error can be generated and the router returns the exact message
// inside the request error msg.
//
// Error codes should be bubbled where the RequestError msg is expected to be
// returned to the user. If the user should see a generic error message but
// the error chain should include more detail for logging purposes, then a
// generic error should be added that provides context.
type RequestError struct {
	StatusCode int
	Err        error
}

func (r *RequestError) Error() string {
	return fmt.Sprintf("status %d: err %v", r.StatusCode, r.Err)
}

var (
	ErrInvalidRequest = &RequestError{Err: errors.New("invalid request body"), StatusCode: 400}
	ErrEmptyPrompt    = &RequestError{Err: errors.New("prompt is required and must not be empty"), StatusCode: 400}
	ErrBadMaxTokens   = &RequestError{Err: errors.New("max_tokens must be a positive integer"), StatusCode: 400}
	ErrBadTemperature = &RequestError{Err: errors.New("temperature must be between 0 and 2"), StatusCode: 400}

	ErrInternalServerError = &RequestError{Err: errors.New("internal server error"), StatusCode: 500}

	ErrBackendTimeout     = &MetricsError{Msg: "backend request timed out", Code: "backend_timeout"}
	ErrFailedBackendReq   = &MetricsError{Msg: "failed to send http request to backend", Code: "backend_conn_err"}
	ErrBackendStatus      = &MetricsError{Msg: "backend responded with non-2xx", Code: "backend_status_err"}
	ErrBackendBadResponse = &MetricsError{Msg: "failed to read backend response", Code: "backend_response_err"}
)

type MetricsError struct {
	Msg  string
	Code string
}

func (m *MetricsError) Error() string {
	return m.String()
}

func (m *MetricsError) String() string {
	return m.Msg
}
