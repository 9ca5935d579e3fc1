package live

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a send is attempted while the session
// is not connected. Non-fatal; the caller may reconnect and retry.
var ErrNotConnected = errors.New("live: not connected")

// FrameError is an error frame reported by the remote service.
type FrameError struct {
	Message string `json:"message"`
	Code    int    `json:"code,omitempty"`
}

// Error implements the error interface.
func (e *FrameError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("live: server error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("live: server error: %s", e.Message)
}
