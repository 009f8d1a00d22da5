package domain

import "fmt"

// MatrixSpec describes a physical LED matrix: the signal parameters of
// the strip and the grid geometry. It is loaded once from
// configuration and immutable thereafter.
type MatrixSpec struct {
	GPIOPin     int
	LEDCount    int
	LEDFreqHz   int
	DMAChannel  int
	Invert      bool
	Brightness  float64
	WidthCount  int
	HeightCount int
	Topology    Topology
	ColorOrder  string
}

// Validate checks the spec invariants. It must pass before any
// hardware I/O is attempted.
func (s MatrixSpec) Validate() error {
	if s.WidthCount <= 0 || s.HeightCount <= 0 {
		return fmt.Errorf("%w: matrix dimensions must be positive, got %dx%d", ErrConfig, s.WidthCount, s.HeightCount)
	}
	if s.LEDCount != s.WidthCount*s.HeightCount {
		return fmt.Errorf("%w: led_count %d does not match %d x %d grid", ErrConfig, s.LEDCount, s.WidthCount, s.HeightCount)
	}
	if s.LEDFreqHz <= 0 {
		return fmt.Errorf("%w: led_freq_hz must be positive, got %d", ErrConfig, s.LEDFreqHz)
	}
	if s.Brightness < 0 || s.Brightness > 1 {
		return fmt.Errorf("%w: brightness must be in [0, 1], got %g", ErrConfig, s.Brightness)
	}
	if s.GPIOPin < 0 {
		return fmt.Errorf("%w: gpio_pin must be non-negative, got %d", ErrConfig, s.GPIOPin)
	}
	return nil
}
