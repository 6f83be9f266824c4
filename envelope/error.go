package envelope

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrorObject is the "error" member of an Error envelope.
type ErrorObject[D any] struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
	Data    D      `json:"data"`
}

// Error is the error-side envelope. It also satisfies the error interface so
// handlers can return it up their own call chain.
type Error[D any] struct {
	id       *uuid.UUID
	object   ErrorObject[D]
	httpCode int
}

type errorWire[D any] struct {
	ID       *uuid.UUID     `json:"id"`
	Error    ErrorObject[D] `json:"error"`
	HTTPCode int            `json:"http_code"`
}

// NewError builds an envelope for any status. The message defaults to the
// status text.
func NewError[D any](status int, data D) Error[D] {
	return Error[D]{
		object: ErrorObject[D]{
			Message: http.StatusText(status),
			Code:    status,
			Data:    data,
		},
		httpCode: status,
	}
}

// BadRequest builds a 400 envelope.
func BadRequest[D any](data D) Error[D] { return NewError(http.StatusBadRequest, data) }

// Unauthorized builds a 401 envelope.
func Unauthorized[D any](data D) Error[D] { return NewError(http.StatusUnauthorized, data) }

// Forbidden builds a 403 envelope.
func Forbidden[D any](data D) Error[D] { return NewError(http.StatusForbidden, data) }

// NotFound builds a 404 envelope.
func NotFound[D any](data D) Error[D] { return NewError(http.StatusNotFound, data) }

// Conflict builds a 409 envelope.
func Conflict[D any](data D) Error[D] { return NewError(http.StatusConflict, data) }

// Internal builds a 500 envelope.
func Internal[D any](data D) Error[D] { return NewError(http.StatusInternalServerError, data) }

// WithID attaches a correlation id.
func (e Error[D]) WithID(id uuid.UUID) Error[D] {
	e.id = &id
	return e
}

// WithCode overrides the application error code. The transport status is
// unaffected.
func (e Error[D]) WithCode(code int) Error[D] {
	e.object.Code = code
	return e
}

// WithMessage overrides the canonical reason phrase.
func (e Error[D]) WithMessage(message string) Error[D] {
	e.object.Message = message
	return e
}

// WithData replaces the error data payload.
func (e Error[D]) WithData(data D) Error[D] {
	e.object.Data = data
	return e
}

// ID returns the correlation id, if any.
func (e Error[D]) ID() (uuid.UUID, bool) {
	if e.id == nil {
		return uuid.Nil, false
	}
	return *e.id, true
}

// Object returns the error member.
func (e Error[D]) Object() ErrorObject[D] {
	return e.object
}

// StatusCode returns the embedded http_code.
func (e Error[D]) StatusCode() int {
	return e.httpCode
}

// Error implements the error interface.
func (e Error[D]) Error() string {
	return fmt.Sprintf("%d %s", e.object.Code, e.object.Message)
}

// MarshalJSON implements json.Marshaler.
func (e Error[D]) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorWire[D]{ID: e.id, Error: e.object, HTTPCode: e.httpCode})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Error[D]) UnmarshalJSON(data []byte) error {
	var wire errorWire[D]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	e.id = wire.ID
	e.object = wire.Error
	e.httpCode = wire.HTTPCode
	return nil
}

// Write renders the envelope with its embedded status code. If the data
// payload cannot be encoded a bare 500 envelope is written instead.
func (e Error[D]) Write(w http.ResponseWriter) error {
	body, err := json.Marshal(e)
	if err != nil {
		fallback, _ := json.Marshal(Internal[any](nil))
		writeBody(w, http.StatusInternalServerError, fallback)
		return err
	}
	writeBody(w, e.httpCode, body)
	return nil
}
