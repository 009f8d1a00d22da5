// Package domain contains core domain types for the display pipeline.
package domain

import "fmt"

// Color is an immutable RGB color with an optional white channel. The
// white channel is only meaningful for RGBW strips; it is zero for
// colors originating from an image.
type Color struct {
	R, G, B, W uint8
}

// NewColor creates an RGB color with a zero white channel.
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// NewColorW creates an RGBW color.
func NewColorW(r, g, b, w uint8) Color {
	return Color{R: r, G: g, B: b, W: w}
}

// Black is the all-off color.
var Black = Color{}

// Equals checks if two colors are equal.
func (c Color) Equals(other Color) bool {
	return c == other
}

// String returns a string representation of the color.
func (c Color) String() string {
	if c.W != 0 {
		return fmt.Sprintf("RGBW(%d, %d, %d, %d)", c.R, c.G, c.B, c.W)
	}
	return fmt.Sprintf("RGB(%d, %d, %d)", c.R, c.G, c.B)
}
