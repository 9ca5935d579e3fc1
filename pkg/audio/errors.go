package audio

import "errors"

var (
	// ErrDeviceUnavailable indicates the hardware could not be sized or
	// opened. Fatal to the session; not retried automatically.
	ErrDeviceUnavailable = errors.New("audio: device unavailable")

	// ErrNotInitialized is returned when capture is started before
	// Initialize has probed the hardware.
	ErrNotInitialized = errors.New("audio: session not initialized")

	// ErrDeviceBusy indicates another session already owns the hardware.
	ErrDeviceBusy = errors.New("audio: hardware owned by another session")

	// ErrWriteRetryExhausted indicates a playback item was abandoned after
	// bounded write retries. The queue continues with the next item.
	ErrWriteRetryExhausted = errors.New("audio: playback write retries exhausted")
)
