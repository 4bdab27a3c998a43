package cache

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrClosed is returned by operations on an engine after Close.
	ErrClosed = errors.New("cache is closed")

	// ErrInvalidTarget is returned by GetInto when dst is not a non-nil pointer.
	ErrInvalidTarget = errors.New("target must be a non-nil pointer")
)

// SerializationError is returned by Put when the value has no JSON representation,
// e.g. channels, functions, NaN or cyclic structures. Nothing is written in that case.
type SerializationError struct {
	Key   string
	Cause error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize value for key %q: %v", e.Key, e.Cause)
}

func (e *SerializationError) Unwrap() error { return e.Cause }

func (e *SerializationError) Is(target error) bool {
	return reflect.TypeOf(e) == reflect.TypeOf(target)
}

// DeserializationError describes a stored row that could not be decoded. Get never
// returns it; it is logged and the lookup is reported as a miss.
type DeserializationError struct {
	Key   string
	Cause error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to deserialize value for key %q: %v", e.Key, e.Cause)
}

func (e *DeserializationError) Unwrap() error { return e.Cause }

func (e *DeserializationError) Is(target error) bool {
	return reflect.TypeOf(e) == reflect.TypeOf(target)
}
