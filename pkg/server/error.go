package server

import (
	"errors"
	"fmt"
)

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.orig)
	}

	return e.msg
}

// Message returns the user facing message without the wrapped cause.
func (e *Error) Message() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is lets errors.Is match against the code as well as the wrapped cause.
func (e *Error) Is(target error) bool {
	return e.code == target
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("your requested Item is not found")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
)

// routing outcomes
var (
	// ErrNoRouteFound the end node is not reachable from the start node (or the graph is empty)
	ErrNoRouteFound = errors.New("no route found")
	// ErrPlaceNotFound the geocoder returned no result for a place name
	ErrPlaceNotFound = errors.New("place not found")
	// ErrInvalidInput the query coordinates or place names are malformed
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyGraph the build produced zero usable nodes
	ErrEmptyGraph = errors.New("road graph is empty")
)

var MessageInternalServerError string = "internal server error"
