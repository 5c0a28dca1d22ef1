package voice

import (
	"errors"
	"fmt"
)

// ErrDeviceUnavailable indicates the capture or playback device could
// not be acquired (permission denied, no hardware). Fatal for the
// session; the caller must restart to retry.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// ErrHandshakeFailed indicates the remote session could not be
// established. Fatal for the session.
var ErrHandshakeFailed = errors.New("remote handshake failed")

// ErrTransportInterrupted indicates the event channel closed without an
// explicit Finish or Cancel. The session transitions to ERROR; there is
// no automatic reconnect.
var ErrTransportInterrupted = errors.New("transport interrupted")

// ErrSessionClosed is returned by operations on a finished or cancelled
// session.
var ErrSessionClosed = errors.New("session closed")

// DecodeError reports a malformed inbound audio chunk. It is recovered
// locally: the chunk is dropped and playback continues.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode audio chunk: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode audio chunk: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }
