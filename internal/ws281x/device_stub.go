//go:build !linux

package ws281x

import (
	"fmt"

	"matrixview/internal/domain"
)

func openDevice(spec domain.MatrixSpec) (Transmitter, error) {
	return nil, fmt.Errorf("%w: LED matrix output is only supported on linux", domain.ErrHardwareInit)
}
