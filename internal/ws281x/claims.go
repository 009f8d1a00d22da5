package ws281x

import (
	"fmt"
	"sync"

	"matrixview/internal/domain"
)

// pwmPins are the BCM pins wired to a hardware PWM channel. Only these
// can generate the protocol's pulse timing.
var pwmPins = map[int]bool{
	12: true, 13: true, 18: true, 19: true,
	40: true, 41: true, 45: true,
}

// reservedDMAChannels are claimed by the VideoCore firmware and must
// not be used for LED transfers.
var reservedDMAChannels = map[int]bool{0: true, 2: true, 3: true}

const maxDMAChannel = 14

// ValidatePin checks that the pin can drive the PWM signal.
func ValidatePin(pin int) error {
	if !pwmPins[pin] {
		return fmt.Errorf("%w: GPIO pin %d has no PWM channel", domain.ErrHardwareInit, pin)
	}
	return nil
}

// ValidateDMAChannel checks that the DMA channel is usable.
func ValidateDMAChannel(channel int) error {
	if channel < 0 || channel > maxDMAChannel {
		return fmt.Errorf("%w: DMA channel %d outside [0, %d]", domain.ErrHardwareInit, channel, maxDMAChannel)
	}
	if reservedDMAChannels[channel] {
		return fmt.Errorf("%w: DMA channel %d is reserved by firmware", domain.ErrHardwareInit, channel)
	}
	return nil
}

// claimSet tracks which pins and DMA channels are held by a display
// handle. It is the single process-wide reservation table: the GPIO
// pin and DMA channel are process-exclusive resources, and exclusivity
// is enforced here rather than relying on driver-internal locking so
// it holds for fake transmitters in tests too. Initialized at package
// load, torn down only by Release calls.
type claimSet struct {
	mu       sync.Mutex
	pins     map[int]bool
	channels map[int]bool
}

var claims = &claimSet{
	pins:     map[int]bool{},
	channels: map[int]bool{},
}

// Claim reserves a pin and DMA channel pair. It reserves both or
// neither.
func Claim(pin, channel int) error {
	claims.mu.Lock()
	defer claims.mu.Unlock()

	if claims.pins[pin] {
		return fmt.Errorf("%w: GPIO pin %d already claimed", domain.ErrResourceBusy, pin)
	}
	if claims.channels[channel] {
		return fmt.Errorf("%w: DMA channel %d already claimed", domain.ErrResourceBusy, channel)
	}
	claims.pins[pin] = true
	claims.channels[channel] = true
	return nil
}

// Release frees a pin and DMA channel pair. Releasing an unclaimed
// pair is a no-op.
func Release(pin, channel int) {
	claims.mu.Lock()
	defer claims.mu.Unlock()
	delete(claims.pins, pin)
	delete(claims.channels, channel)
}
