package api

import "fmt"

// Every backend service answers with the same envelope, success or failure.

type ErrorDetail struct {
	AppCode string `json:"appCode"`
	Message string `json:"message"`
}

type Meta struct {
	RequestID  string `json:"requestId"`
	Timestamp  string `json:"timestamp"`
	Service    string `json:"service"`
	Version    string `json:"version"`
	DurationMs int64  `json:"durationMs"`
}

type Envelope[T any] struct {
	Success    bool          `json:"success"`
	HTTPStatus int           `json:"httpStatus"`
	AppCode    string        `json:"appCode"`
	Message    string        `json:"message"`
	Data       T             `json:"data"`
	Errors     []ErrorDetail `json:"errors"`
	Meta       Meta          `json:"meta"`
}

func (e *Envelope[T]) Ok() bool {
	return e.Success && e.HTTPStatus >= 200 && e.HTTPStatus < 300
}

// ErrorMessage prefers the first error detail, then the envelope message.
func (e *Envelope[T]) ErrorMessage() string {
	if len(e.Errors) > 0 && e.Errors[0].Message != "" {
		return e.Errors[0].Message
	}
	if e.Message != "" {
		return e.Message
	}
	return genericErrorMessage
}

const genericErrorMessage = "Error desconocido"

// Error carries the server-provided message for a failed call. It is shown
// to the user as-is.
type Error struct {
	Message string
	Status  int
	AppCode string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}
