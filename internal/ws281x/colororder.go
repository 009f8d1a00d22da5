package ws281x

import (
	"fmt"
	"strings"

	"matrixview/internal/domain"
)

// ColorOrder is the channel transmission order of a strip, e.g. "GRB"
// for WS2812B or "GRBW" for four-channel SK6812 variants.
type ColorOrder string

// Common strip channel orders.
const (
	OrderRGB  ColorOrder = "RGB"
	OrderGRB  ColorOrder = "GRB"
	OrderBGR  ColorOrder = "BGR"
	OrderBRG  ColorOrder = "BRG"
	OrderRBG  ColorOrder = "RBG"
	OrderGBR  ColorOrder = "GBR"
	OrderRGBW ColorOrder = "RGBW"
	OrderGRBW ColorOrder = "GRBW"
)

// ParseColorOrder validates a channel order string.
func ParseColorOrder(s string) (ColorOrder, error) {
	if s == "" {
		return OrderGRB, nil
	}
	up := strings.ToUpper(s)
	if len(up) != 3 && len(up) != 4 {
		return "", fmt.Errorf("%w: color order %q must name 3 or 4 channels", domain.ErrConfig, s)
	}
	seen := map[rune]bool{}
	for _, r := range up {
		switch r {
		case 'R', 'G', 'B', 'W':
		default:
			return "", fmt.Errorf("%w: color order %q contains unknown channel %q", domain.ErrConfig, s, r)
		}
		if seen[r] {
			return "", fmt.Errorf("%w: color order %q repeats channel %q", domain.ErrConfig, s, r)
		}
		seen[r] = true
	}
	return ColorOrder(up), nil
}

// ChannelCount returns the number of channels per LED.
func (o ColorOrder) ChannelCount() int { return len(o) }

// channels appends the color's channel values in wire order.
func (o ColorOrder) channels(c domain.Color, dst []uint8) []uint8 {
	for _, r := range o {
		switch r {
		case 'R':
			dst = append(dst, c.R)
		case 'G':
			dst = append(dst, c.G)
		case 'B':
			dst = append(dst, c.B)
		case 'W':
			dst = append(dst, c.W)
		}
	}
	return dst
}
