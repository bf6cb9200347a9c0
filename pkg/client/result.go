package client

import (
	"fmt"

	"github.com/turtacn/lawsuit-monitor/pkg/errors"
)

// FetchStatus is the outcome class of a fetch boundary.
type FetchStatus int

const (
	StatusFound FetchStatus = iota
	StatusNotFound
	StatusFailed
)

func (s FetchStatus) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("FetchStatus(%d)", int(s))
	}
}

// FetchResult distinguishes a legitimately empty answer from a failed call,
// leaving the caller to decide whether to skip or abort.
type FetchResult[T any] struct {
	Value  T
	Status FetchStatus
	Err    error
}

// Found wraps a successful value.
func Found[T any](v T) FetchResult[T] {
	return FetchResult[T]{Value: v, Status: StatusFound}
}

// NotFound reports that the resource does not exist or is not visible.
func NotFound[T any](err error) FetchResult[T] {
	return FetchResult[T]{Status: StatusNotFound, Err: err}
}

// Failed reports a call that could not complete.
func Failed[T any](err error) FetchResult[T] {
	return FetchResult[T]{Status: StatusFailed, Err: err}
}

// OK reports whether a value was obtained.
func (r FetchResult[T]) OK() bool { return r.Status == StatusFound }

// ValueOr returns the value, or fallback when nothing was found.
func (r FetchResult[T]) ValueOr(fallback T) T {
	if r.OK() {
		return r.Value
	}
	return fallback
}

// Classify turns a value/error pair into a FetchResult.  401, 403 and 404
// mean "not found"; every other error is a failure.
func Classify[T any](v T, err error) FetchResult[T] {
	if err == nil {
		return Found(v)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && (apiErr.IsNotFound() || apiErr.IsUnauthorized()) {
		return NotFound[T](err)
	}
	return Failed[T](err)
}

//Personal.AI order the ending
