package domain

import "errors"

// Error kinds shared across the display pipeline. Callers match them
// with errors.Is; packages wrap them with fmt.Errorf("...: %w", ...).
var (
	// ErrConfig indicates bad or missing configuration. Fatal, not retryable.
	ErrConfig = errors.New("invalid configuration")

	// ErrDecode indicates an unreadable or unsupported image. Fatal for the
	// call that loaded it; the controller stays usable.
	ErrDecode = errors.New("image decode failed")

	// ErrOutOfRange indicates a coordinate or index outside its valid range.
	// This is a logic error: callers are expected to pre-validate.
	ErrOutOfRange = errors.New("out of range")

	// ErrHardwareInit indicates the hardware could not be initialized
	// (unsupported pin, bad DMA channel). Requires operator intervention.
	ErrHardwareInit = errors.New("hardware initialization failed")

	// ErrResourceBusy indicates the GPIO pin or DMA channel is already
	// claimed by another handle.
	ErrResourceBusy = errors.New("resource busy")

	// ErrHardwareTimeout indicates a transmission exceeded its deadline.
	// The handle must be reinitialized before reuse.
	ErrHardwareTimeout = errors.New("hardware transmission timeout")

	// ErrDisplayUnavailable indicates no windowing surface is available
	// for the emulated display.
	ErrDisplayUnavailable = errors.New("display unavailable")
)
