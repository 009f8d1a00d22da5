// Package config loads LED matrix specifications from TOML files.
//
// The expected file shape:
//
//	[specs]
//	gpio_pin       = 18
//	led_count      = 64
//	led_freq_hz    = 800000
//	led_dma        = 10
//	led_invert     = false
//	led_brightness = 0.5
//	width_count    = 8
//	height_count   = 8
//	topology       = "serpentine-row"  # optional
//	color_order    = "GRB"             # optional
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"matrixview/internal/domain"
)

// DefaultPath is the matrix spec file used when none is given.
const DefaultPath = "settings/led_matrix.toml"

type fileSpec struct {
	GPIOPin       int     `toml:"gpio_pin"`
	LEDCount      int     `toml:"led_count"`
	LEDFreqHz     int     `toml:"led_freq_hz"`
	LEDDMA        int     `toml:"led_dma"`
	LEDInvert     bool    `toml:"led_invert"`
	LEDBrightness float64 `toml:"led_brightness"`
	WidthCount    int     `toml:"width_count"`
	HeightCount   int     `toml:"height_count"`
	Topology      string  `toml:"topology"`
	ColorOrder    string  `toml:"color_order"`
}

type file struct {
	Specs fileSpec `toml:"specs"`
}

// LoadMatrixSpec reads and validates a matrix spec from a TOML file.
func LoadMatrixSpec(path string) (domain.MatrixSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.MatrixSpec{}, fmt.Errorf("%w: reading %s: %v", domain.ErrConfig, path, err)
	}
	return ParseMatrixSpec(data)
}

// ParseMatrixSpec parses and validates a matrix spec from TOML bytes.
func ParseMatrixSpec(data []byte) (domain.MatrixSpec, error) {
	var f file
	if err := toml.Unmarshal(data, &f); err != nil {
		return domain.MatrixSpec{}, fmt.Errorf("%w: parsing TOML: %v", domain.ErrConfig, err)
	}

	topology, err := domain.ParseTopology(f.Specs.Topology)
	if err != nil {
		return domain.MatrixSpec{}, err
	}

	order := f.Specs.ColorOrder
	if order == "" {
		order = "GRB"
	}

	spec := domain.MatrixSpec{
		GPIOPin:     f.Specs.GPIOPin,
		LEDCount:    f.Specs.LEDCount,
		LEDFreqHz:   f.Specs.LEDFreqHz,
		DMAChannel:  f.Specs.LEDDMA,
		Invert:      f.Specs.LEDInvert,
		Brightness:  f.Specs.LEDBrightness,
		WidthCount:  f.Specs.WidthCount,
		HeightCount: f.Specs.HeightCount,
		Topology:    topology,
		ColorOrder:  order,
	}
	if err := spec.Validate(); err != nil {
		return domain.MatrixSpec{}, err
	}
	return spec, nil
}
