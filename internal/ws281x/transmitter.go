package ws281x

import (
	"context"

	"matrixview/internal/domain"
)

// Transmitter pushes an encoded slot stream onto the wire. Transmit
// blocks until the whole stream has been emitted or ctx expires;
// aborting mid-stream corrupts the visible frame, so callers must not
// reuse a handle after a timeout without reinitializing it.
type Transmitter interface {
	Transmit(ctx context.Context, slots []byte) error
	Close() error
}

// Open creates the platform transmitter for a spec. On platforms
// without GPIO support it fails with domain.ErrHardwareInit.
func Open(spec domain.MatrixSpec) (Transmitter, error) {
	return openDevice(spec)
}
