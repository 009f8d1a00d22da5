// Package ws281x encodes pixel data into the single-wire PWM signal
// used by WS281x-family LED strips and transmits it over GPIO.
package ws281x

import (
	"fmt"
	"time"

	"matrixview/internal/domain"
)

// Timing holds the pulse widths of one protocol bit. A zero bit is
// high for T0H then low for T0L; a one bit is high for T1H then low
// for T1L. Reset is the low latch period after the last LED.
type Timing struct {
	T0H   time.Duration
	T0L   time.Duration
	T1H   time.Duration
	T1L   time.Duration
	Reset time.Duration
}

// Datasheet timings for the common LED families.
var (
	TimingWS2812B = Timing{
		T0H:   400 * time.Nanosecond,
		T0L:   850 * time.Nanosecond,
		T1H:   800 * time.Nanosecond,
		T1L:   450 * time.Nanosecond,
		Reset: 50 * time.Microsecond,
	}
	TimingWS2811 = Timing{
		T0H:   500 * time.Nanosecond,
		T0L:   2000 * time.Nanosecond,
		T1H:   1200 * time.Nanosecond,
		T1L:   1300 * time.Nanosecond,
		Reset: 50 * time.Microsecond,
	}
	TimingSK6812 = Timing{
		T0H:   300 * time.Nanosecond,
		T0L:   900 * time.Nanosecond,
		T1H:   600 * time.Nanosecond,
		T1L:   600 * time.Nanosecond,
		Reset: 80 * time.Microsecond,
	}
)

// TimingFor returns the timing preset for an LED family name.
func TimingFor(family string) (Timing, error) {
	switch family {
	case "ws2812b", "ws2812", "":
		return TimingWS2812B, nil
	case "ws2811":
		return TimingWS2811, nil
	case "sk6812":
		return TimingSK6812, nil
	default:
		return Timing{}, fmt.Errorf("%w: unknown LED family %q", domain.ErrConfig, family)
	}
}
