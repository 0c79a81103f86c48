package net

import (
	"net/http"

	perr "tdsdesk/internal/platform/errors"
)

// Wire is the JSON envelope every enveloped endpoint answers with
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Reply wraps data with status
func Reply(status int, data any, reqID string) (int, Wire) {
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// OK wraps data in a 200 envelope
func OK(data any, reqID string) (int, Wire) { return Reply(http.StatusOK, data, reqID) }

// Error maps err to its status and error envelope; nil is a bare 200
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status, w := Reply(perr.HTTPStatus(err), nil, reqID)
	e := perr.WireFrom(err)
	w.Code, w.Error, w.Field = e.Code, e.Message, e.Field
	return status, w
}
