//go:build linux

package ws281x

import (
	"context"
	"errors"
	"fmt"
	"syscall"

	"github.com/warthog618/go-gpiocdev"

	"matrixview/internal/domain"
)

// chipName is the GPIO character device of the SoC header.
const chipName = "gpiochip0"

// slotsPerDeadlineCheck bounds how often the transmit loop polls ctx.
const slotsPerDeadlineCheck = 1024

// device drives the data line through the GPIO character device. It
// emits the slot stream level by level; the slot clock is as tight as
// the cdev interface allows.
type device struct {
	line   *gpiocdev.Line
	pin    int
	invert bool
}

func openDevice(spec domain.MatrixSpec) (Transmitter, error) {
	line, err := gpiocdev.RequestLine(chipName, spec.GPIOPin, gpiocdev.AsOutput(idleValue(spec.Invert)))
	if err != nil {
		if errors.Is(err, syscall.EBUSY) {
			return nil, fmt.Errorf("%w: GPIO pin %d held by another process", domain.ErrResourceBusy, spec.GPIOPin)
		}
		return nil, fmt.Errorf("%w: requesting GPIO pin %d: %v", domain.ErrHardwareInit, spec.GPIOPin, err)
	}
	return &device{line: line, pin: spec.GPIOPin, invert: spec.Invert}, nil
}

func (d *device) Transmit(ctx context.Context, slots []byte) error {
	total := len(slots) * 8
	for slot := 0; slot < total; slot++ {
		if slot%slotsPerDeadlineCheck == 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: transmission aborted after %d of %d slots: %v", domain.ErrHardwareTimeout, slot, total, ctx.Err())
			default:
			}
		}
		v := 0
		if slots[slot>>3]&(1<<(7-slot&7)) != 0 {
			v = 1
		}
		if err := d.line.SetValue(v); err != nil {
			return fmt.Errorf("%w: writing slot %d on pin %d: %v", domain.ErrHardwareTimeout, slot, d.pin, err)
		}
	}
	return nil
}

func (d *device) Close() error {
	// Leave the line at its idle level so the strip latches off.
	_ = d.line.SetValue(idleValue(d.invert))
	return d.line.Close()
}

func idleValue(invert bool) int {
	if invert {
		return 1
	}
	return 0
}
