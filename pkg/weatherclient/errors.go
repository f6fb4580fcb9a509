package weatherclient

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when an operation requiring an established
// session runs before Connect or after Close.
var ErrNotConnected = errors.New("weatherclient: not connected")

// ConnectError reports a failure while establishing the transport, the
// protocol session, or the capability handshake. Any partially-acquired
// resources have already been released when it is returned.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("weatherclient: connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// InvokeError reports a remote tool call that failed, timed out, or returned
// no content.
type InvokeError struct {
	Tool string
	Err  error
}

func (e *InvokeError) Error() string {
	return fmt.Sprintf("weatherclient: call %s: %v", e.Tool, e.Err)
}

func (e *InvokeError) Unwrap() error { return e.Err }
