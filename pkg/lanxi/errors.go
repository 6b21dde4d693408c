// ABOUTME: Error taxonomy for instrument operations
// ABOUTME: Sentinels for caller mistakes, typed errors for transport and protocol failures
package lanxi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks an out-of-range or unsupported
	// configuration value, detected before any network call.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotFound marks a recording id that does not exist on the device.
	ErrNotFound = errors.New("recording not found")
)

// CommError is a transport-level failure: unreachable host, timeout,
// connection reset.
type CommError struct {
	Op  string
	Err error
}

func (e *CommError) Error() string {
	return fmt.Sprintf("device communication failed during %s: %v", e.Op, e.Err)
}

func (e *CommError) Unwrap() error { return e.Err }

// ProtocolError means the device responded, but with an unexpected status
// or payload shape.
type ProtocolError struct {
	Op     string
	Status int
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("device protocol error during %s: HTTP %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("device protocol error during %s: %s", e.Op, e.Detail)
}

// StateError means an operation was attempted while the recorder state
// machine was in the wrong state for it.
type StateError struct {
	Op   string
	Want string
	Got  string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s requires recorder state %q, currently %q", e.Op, e.Want, e.Got)
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
