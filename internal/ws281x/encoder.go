package ws281x

import (
	"fmt"
	"math"
	"time"

	"matrixview/internal/domain"
)

// SlotsPerBit is the number of signal slots each protocol bit expands
// to. With three slots per bit the line runs at 3x the LED data rate
// and the two pulse widths become one and two high slots, which is the
// usual DMA encoding for this protocol family.
const SlotsPerBit = 3

// Encoder converts a physically ordered color sequence into the slot
// stream the transmitter emits. Encoding is pure: the same input
// always produces the same output.
type Encoder struct {
	spec   domain.MatrixSpec
	timing Timing
	order  ColorOrder

	slotDur    time.Duration
	highSlots0 int
	highSlots1 int
	resetSlots int
}

// NewEncoder creates an encoder for a matrix spec. The spec is
// re-validated here so a led_count/grid mismatch fails before any
// hardware is touched.
func NewEncoder(spec domain.MatrixSpec, timing Timing) (*Encoder, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	order, err := ParseColorOrder(spec.ColorOrder)
	if err != nil {
		return nil, err
	}

	slotDur := time.Second / time.Duration(spec.LEDFreqHz*SlotsPerBit)
	if slotDur <= 0 {
		return nil, fmt.Errorf("%w: led_freq_hz %d is too high to encode", domain.ErrConfig, spec.LEDFreqHz)
	}

	h0 := roundSlots(timing.T0H, slotDur)
	h1 := roundSlots(timing.T1H, slotDur)
	h0 = clampSlots(h0)
	h1 = clampSlots(h1)
	if h1 <= h0 {
		return nil, fmt.Errorf("%w: pulse widths %v/%v are indistinguishable at %d Hz", domain.ErrConfig, timing.T0H, timing.T1H, spec.LEDFreqHz)
	}

	resetSlots := int((timing.Reset + slotDur - 1) / slotDur)

	return &Encoder{
		spec:       spec,
		timing:     timing,
		order:      order,
		slotDur:    slotDur,
		highSlots0: h0,
		highSlots1: h1,
		resetSlots: resetSlots,
	}, nil
}

// Spec returns the matrix spec the encoder was built for.
func (e *Encoder) Spec() domain.MatrixSpec { return e.spec }

// SlotRate returns the slot frequency of the output stream in Hz.
func (e *Encoder) SlotRate() int { return e.spec.LEDFreqHz * SlotsPerBit }

// SlotCount returns the total number of slots in one encoded frame,
// including the reset tail.
func (e *Encoder) SlotCount() int {
	return e.spec.LEDCount*e.order.ChannelCount()*8*SlotsPerBit + e.resetSlots
}

// FrameDuration returns the wire time of one encoded frame.
func (e *Encoder) FrameDuration() time.Duration {
	return time.Duration(e.SlotCount()) * e.slotDur
}

// Encode converts colors, already in physical wiring order, into a
// packed slot stream (MSB first, one bit per slot). Brightness scaling
// happens before channel reordering so it is channel-agnostic; invert
// complements the final signal levels including the reset tail.
func (e *Encoder) Encode(colors []domain.Color) ([]byte, error) {
	if len(colors) != e.spec.LEDCount {
		return nil, fmt.Errorf("%w: got %d colors for %d LEDs", domain.ErrOutOfRange, len(colors), e.spec.LEDCount)
	}

	buf := make([]byte, (e.SlotCount()+7)/8)
	slot := 0
	channels := make([]uint8, 0, 4)

	for _, c := range colors {
		channels = e.order.channels(e.scale(c), channels[:0])
		for _, ch := range channels {
			for bit := 7; bit >= 0; bit-- {
				high := e.highSlots0
				if ch&(1<<bit) != 0 {
					high = e.highSlots1
				}
				for i := 0; i < SlotsPerBit; i++ {
					if i < high {
						buf[slot>>3] |= 1 << (7 - slot&7)
					}
					slot++
				}
			}
		}
	}
	// The reset tail and any padding in the last byte stay low.

	if e.spec.Invert {
		for i := range buf {
			buf[i] = ^buf[i]
		}
	}
	return buf, nil
}

// scale applies global brightness: linear multiply per channel,
// rounded to nearest, clamped to [0, 255].
func (e *Encoder) scale(c domain.Color) domain.Color {
	return domain.Color{
		R: scaleChannel(c.R, e.spec.Brightness),
		G: scaleChannel(c.G, e.spec.Brightness),
		B: scaleChannel(c.B, e.spec.Brightness),
		W: scaleChannel(c.W, e.spec.Brightness),
	}
}

func scaleChannel(v uint8, brightness float64) uint8 {
	scaled := math.Round(float64(v) * brightness)
	if scaled > 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return uint8(scaled)
}

func roundSlots(d, slotDur time.Duration) int {
	return int((d + slotDur/2) / slotDur)
}

func clampSlots(n int) int {
	if n < 1 {
		return 1
	}
	if n > SlotsPerBit-1 {
		return SlotsPerBit - 1
	}
	return n
}
