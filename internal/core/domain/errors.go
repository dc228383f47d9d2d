package domain

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNetwork           = errors.New("data source unreachable")
	ErrUnauthorized      = errors.New("not authenticated")
	ErrForbidden         = errors.New("access forbidden")
	ErrMalformedSnapshot = errors.New("malformed dashboard snapshot")
	ErrSessionNotFound   = errors.New("dashboard session not found")
	ErrSessionRevoked    = errors.New("dashboard session revoked")
	ErrNoRole            = errors.New("no role available for dashboard")
)

// ErrorKind is the failure taxonomy used by the retry policy.
type ErrorKind string

const (
	KindNetwork    ErrorKind = "network"
	KindAuth       ErrorKind = "auth"
	KindPermission ErrorKind = "permission"
	KindData       ErrorKind = "data"
	KindUnknown    ErrorKind = "unknown"
)

// Retryable reports whether failures of this kind may succeed on another attempt.
func (k ErrorKind) Retryable() bool {
	return k != KindAuth && k != KindPermission
}

var kindMessages = map[ErrorKind]string{
	KindNetwork:    "Unable to reach the server. Check your connection and try again.",
	KindAuth:       "Your session has expired. Please sign in again.",
	KindPermission: "You do not have permission to view this dashboard.",
	KindData:       "The dashboard data could not be read.",
	KindUnknown:    "Something went wrong while loading the dashboard.",
}

// ClassifiedError is the single error surfaced to the rendering layer per fetch cycle.
type ClassifiedError struct {
	Kind      ErrorKind `json:"kind"`
	Message   string    `json:"message"`
	Retryable bool      `json:"retryable"`
	Attempts  int       `json:"attempts"`
	Err       error     `json:"-"`
}

func (e *ClassifiedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// Final returns a copy marked non-retryable, recording how many attempts were spent.
func (e *ClassifiedError) Final(attempts int) *ClassifiedError {
	out := *e
	out.Retryable = false
	out.Attempts = attempts
	return &out
}

// NewClassifiedError builds a ClassifiedError of the given kind around err.
func NewClassifiedError(kind ErrorKind, err error) *ClassifiedError {
	return &ClassifiedError{
		Kind:      kind,
		Message:   kindMessages[kind],
		Retryable: kind.Retryable(),
		Err:       err,
	}
}

// Classify maps any fetch error onto the taxonomy. Nil stays nil.
func Classify(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce
	}

	var ve validator.ValidationErrors
	var ne net.Error
	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewClassifiedError(KindAuth, err)
	case errors.Is(err, ErrForbidden):
		return NewClassifiedError(KindPermission, err)
	case errors.Is(err, ErrMalformedSnapshot), errors.As(err, &ve):
		return NewClassifiedError(KindData, err)
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded), errors.As(err, &ne):
		return NewClassifiedError(KindNetwork, err)
	}
	return NewClassifiedError(KindUnknown, err)
}
