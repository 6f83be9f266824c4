// Package envelope provides the uniform success and error wire wrappers
// returned by every handler and by the identity middleware.
//
// A Success carries an optional correlation id and a result payload:
//
//	{"id": null, "result": {...}, "http_code": 200}
//
// An Error carries an optional correlation id and an error object:
//
//	{"id": null, "error": {"message": "Forbidden", "code": 403, "data": null}, "http_code": 403}
//
// Both are immutable values. Builder methods return modified copies. Write
// always uses the embedded http_code as the transport status.
package envelope

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

const (
	// MarkerHeader names the header identifying the envelope convention.
	MarkerHeader = "X-Content-Type"

	// MarkerValue is the value of MarkerHeader on every envelope response.
	MarkerValue = "application/json-rpc"
)

// Envelope is implemented by Success and Error.
type Envelope interface {
	StatusCode() int
	Write(w http.ResponseWriter) error
}

// Success is the success-side envelope.
type Success[T any] struct {
	id       *uuid.UUID
	result   T
	httpCode int
}

type successWire[T any] struct {
	ID       *uuid.UUID `json:"id"`
	Result   T          `json:"result"`
	HTTPCode int        `json:"http_code"`
}

// OK builds a 200 envelope for retrieval or update style results.
func OK[T any](result T) Success[T] {
	return Success[T]{result: result, httpCode: http.StatusOK}
}

// Created builds a 201 envelope for newly created resources.
func Created[T any](result T) Success[T] {
	return Success[T]{result: result, httpCode: http.StatusCreated}
}

// WithID attaches a correlation id.
func (s Success[T]) WithID(id uuid.UUID) Success[T] {
	s.id = &id
	return s
}

// WithResult replaces the result payload.
func (s Success[T]) WithResult(result T) Success[T] {
	s.result = result
	return s
}

// ID returns the correlation id, if any.
func (s Success[T]) ID() (uuid.UUID, bool) {
	if s.id == nil {
		return uuid.Nil, false
	}
	return *s.id, true
}

// Result returns the payload.
func (s Success[T]) Result() T {
	return s.result
}

// StatusCode returns the embedded http_code.
func (s Success[T]) StatusCode() int {
	return s.httpCode
}

// MarshalJSON implements json.Marshaler.
func (s Success[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(successWire[T]{ID: s.id, Result: s.result, HTTPCode: s.httpCode})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Success[T]) UnmarshalJSON(data []byte) error {
	var wire successWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	s.id = wire.ID
	s.result = wire.Result
	s.httpCode = wire.HTTPCode
	return nil
}

// Write renders the envelope with its embedded status code.
func (s Success[T]) Write(w http.ResponseWriter) error {
	body, err := json.Marshal(s)
	if err != nil {
		_ = Internal[any](nil).Write(w)
		return err
	}
	writeBody(w, s.httpCode, body)
	return nil
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(MarkerHeader, MarkerValue)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
