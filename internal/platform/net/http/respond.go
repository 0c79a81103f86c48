// Package http is the server side of the API: routing, replies and the listener
package http

import (
	"encoding/json"
	"net/http"

	pnet "tdsdesk/internal/platform/net"
	"tdsdesk/internal/platform/net/http/bind"
)

// Envelope is the body of every enveloped reply
type Envelope = pnet.Wire

// Response is what return style handlers produce
type Response struct {
	Status int
	Body   any
	// Raw skips the envelope
	Raw bool
}

// OK is a 200 with data
func OK(data any) Response { return Response{Status: http.StatusOK, Body: data} }

// Created is a 201 with data
func Created(data any) Response { return Response{Status: http.StatusCreated, Body: data} }

// NoContent is an empty 204
func NoContent() Response { return Response{Status: http.StatusNoContent} }

// Raw writes body as is
func Raw(status int, body any) Response { return Response{Status: status, Body: body, Raw: true} }

// Error maps err to its status and error envelope
func Error(err error) Response { return Response{Body: err} }

// Handle adapts a return style handler
func Handle(fn func(*http.Request) Response) Handler {
	return func(w http.ResponseWriter, r *http.Request) { fn(r).write(w, r) }
}

// Call adapts a handler without a body; a returned Response is written as is
func Call(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response { return result(fn(r)) })
}

// JSON binds and validates the body into T before calling fn
func JSON[T any](fn func(*http.Request, T) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r)
		if err != nil {
			return Error(err)
		}
		return result(fn(r, in))
	})
}

func result(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return OK(out)
}

func (resp Response) write(w http.ResponseWriter, r *http.Request) {
	reqID := pnet.RequestID(r.Context())
	if err, ok := resp.Body.(error); ok {
		status, body := pnet.Error(err, reqID)
		writeJSON(w, status, body)
		return
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	switch {
	case status == http.StatusNoContent:
		w.WriteHeader(status)
	case resp.Raw:
		writeJSON(w, status, resp.Body)
	default:
		_, body := pnet.Reply(status, resp.Body, reqID)
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
