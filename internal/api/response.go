package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"kidofood-web/internal/model"
)

// UnknownError is the detail synthesized when the backend gave nothing
// structured back.
const UnknownError = "Unknown error"

// Response is the backend's success envelope. Data may be null.
type Response[T any] struct {
	Data     *T              `json:"data"`
	Error    string          `json:"error"`
	Code     int             `json:"code"`
	PageInfo *model.PageInfo `json:"page_info,omitempty"`
}

// ErrorResponse is the backend's failure envelope.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Result holds exactly one of Response or Failure.
type Result[T any] struct {
	Response *Response[T]
	Failure  *ErrorResponse

	// Status is the HTTP status of the backend reply, 0 on transport failure.
	Status int
	// Cookies are the backend's Set-Cookie headers, relayed by handlers
	// that change the backend session.
	Cookies []*http.Cookie
}

func (r Result[T]) IsError() bool {
	return r.Failure != nil
}

// Data returns the payload; ok is false for failures and null payloads.
func (r Result[T]) Data() (*T, bool) {
	if r.IsError() || r.Response == nil || r.Response.Data == nil {
		return nil, false
	}
	return r.Response.Data, true
}

// Message returns whatever human readable text the envelope carries.
func (r Result[T]) Message() string {
	if r.Failure != nil {
		return r.Failure.Detail
	}
	if r.Response != nil {
		return r.Response.Error
	}
	return ""
}

func failure[T any](detail string, status int) Result[T] {
	return Result[T]{Failure: &ErrorResponse{Detail: detail}, Status: status}
}

// normalize turns a raw body into the envelope union. Anything that is not
// a JSON object becomes the unknown error.
func normalize[T any](body []byte, status int) Result[T] {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return failure[T](UnknownError, status)
	}

	if raw, ok := fields["detail"]; ok {
		return failure[T](detailText(raw), status)
	}

	var resp Response[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return failure[T](UnknownError, status)
	}
	return Result[T]{Response: &resp, Status: status}
}

// detailText keeps string details as-is; validation errors arrive as
// arrays and are passed on as compact JSON.
func detailText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
