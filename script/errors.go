package script

import (
	"errors"
	"fmt"
)

var (
	// ErrValueOutOfRange is recorded when an unsigned value does not fit a
	// script number.
	ErrValueOutOfRange = errors.New("value out of script number range")

	// ErrNilValue is recorded when a nil pointer or interface is pushed.
	ErrNilValue = errors.New("nil value pushed")

	// ErrDataTooLarge is recorded when a data push exceeds OP_PUSHDATA4.
	ErrDataTooLarge = errors.New("data push too large")
)

// UnsupportedValueError reports a pushed value whose type has no push
// implementation.
type UnsupportedValueError struct {
	Type string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("cannot push value of type %s: implement script.Pushable", e.Type)
}
