package calculator

import (
	"errors"
	"fmt"
)

// Kind classifies why a split could not be computed.
type Kind string

const (
	KindUnassignedItem    Kind = "UNASSIGNED_ITEM"
	KindDegenerateWeights Kind = "DEGENERATE_WEIGHTS"
	KindMalformedInput    Kind = "MALFORMED_INPUT"
)

var (
	ErrUnassignedItem    = errors.New("item is not assigned to anyone")
	ErrDegenerateWeights = errors.New("cannot distribute a non-zero amount across zero total weight")
	ErrMalformedInput    = errors.New("malformed input")
)

// ValidationError is returned for any input the engine refuses to split.
// Item names the offending line item when there is one.
type ValidationError struct {
	Kind    Kind
	Item    string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Item != "" && e.Message != "":
		return fmt.Sprintf("%s: item %q: %s", e.Kind, e.Item, e.Message)
	case e.Item != "":
		return fmt.Sprintf("%s: item %q: %s", e.Kind, e.Item, e.sentinel())
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.sentinel())
	}
}

// Unwrap lets callers match on the sentinel errors with errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.sentinel()
}

func (e *ValidationError) sentinel() error {
	switch e.Kind {
	case KindUnassignedItem:
		return ErrUnassignedItem
	case KindDegenerateWeights:
		return ErrDegenerateWeights
	default:
		return ErrMalformedInput
	}
}

func unassigned(item string) error {
	return &ValidationError{Kind: KindUnassignedItem, Item: item}
}

func malformed(item, format string, args ...any) error {
	return &ValidationError{Kind: KindMalformedInput, Item: item, Message: fmt.Sprintf(format, args...)}
}

// KindOf reports the validation kind carried by err, or "" if err is not a
// *ValidationError.
func KindOf(err error) Kind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return ""
}
