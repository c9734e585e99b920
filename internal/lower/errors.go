package lower

import (
	"errors"
	"fmt"
)

// ICE is the panic value raised when lowering meets a tree that earlier
// phases should have made impossible, or breaks one of its own invariants.
type ICE struct {
	Msg string
}

func (e ICE) Error() string { return "internal compiler error: " + e.Msg }

// InternalError is returned by Lower after an ICE was recovered. Every scope
// the pass had entered has already been restored when it is returned.
type InternalError struct {
	Cause error
	// Item is the name of the item being lowered, if any.
	Item string
}

func (e *InternalError) Error() string {
	if e.Item != "" {
		return fmt.Sprintf("lowering %q: %v", e.Item, e.Cause)
	}
	return fmt.Sprintf("lowering: %v", e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// IsInternal reports whether err comes from an internal fault.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

func ice(format string, args ...any) {
	panic(ICE{Msg: fmt.Sprintf(format, args...)})
}

func assert(cond bool, format string, args ...any) {
	if !cond {
		ice(format, args...)
	}
}
