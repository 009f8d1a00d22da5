package ws281x

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matrixview/internal/domain"
)

func testSpec() domain.MatrixSpec {
	return domain.MatrixSpec{
		GPIOPin:     18,
		LEDCount:    4,
		LEDFreqHz:   800000,
		DMAChannel:  10,
		Brightness:  1.0,
		WidthCount:  2,
		HeightCount: 2,
		Topology:    domain.SerpentineRow,
		ColorOrder:  "GRB",
	}
}

func newTestEncoder(t *testing.T, spec domain.MatrixSpec) *Encoder {
	t.Helper()
	enc, err := NewEncoder(spec, TimingWS2812B)
	require.NoError(t, err)
	return enc
}

func blackFrame(n int) []domain.Color {
	return make([]domain.Color, n)
}

func TestNewEncoderRevalidatesLEDCount(t *testing.T) {
	spec := testSpec()
	spec.LEDCount = 5

	_, err := NewEncoder(spec, TimingWS2812B)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestNewEncoderBadColorOrder(t *testing.T) {
	spec := testSpec()
	spec.ColorOrder = "GRX"

	_, err := NewEncoder(spec, TimingWS2812B)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestEncodeWrongColorCount(t *testing.T) {
	enc := newTestEncoder(t, testSpec())

	_, err := enc.Encode(blackFrame(3))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestEncodeFirstLEDBitPattern(t *testing.T) {
	spec := testSpec()
	enc := newTestEncoder(t, spec)

	colors := blackFrame(4)
	colors[0] = domain.NewColor(255, 0, 0)

	slots, err := enc.Encode(colors)
	require.NoError(t, err)

	// At 800 kHz each bit is three slots: a zero bit is 100, a one bit
	// is 110. GRB order sends green first: 8 zero bits, then red: 8 one
	// bits.
	assert.Equal(t, byte(0b10010010), slots[0])
	assert.Equal(t, byte(0b01001001), slots[1])
	assert.Equal(t, byte(0b00100100), slots[2])
	assert.Equal(t, byte(0b11011011), slots[3])
	assert.Equal(t, byte(0b01101101), slots[4])
	assert.Equal(t, byte(0b10110110), slots[5])
}

func TestEncodeSlotCount(t *testing.T) {
	enc := newTestEncoder(t, testSpec())

	// 4 LEDs x 3 channels x 8 bits x 3 slots, plus the 50 us reset tail.
	dataSlots := 4 * 3 * 8 * SlotsPerBit
	assert.Greater(t, enc.SlotCount(), dataSlots, "reset tail must be present")

	slots, err := enc.Encode(blackFrame(4))
	require.NoError(t, err)
	assert.Equal(t, (enc.SlotCount()+7)/8, len(slots))
}

func TestEncodeDeterministic(t *testing.T) {
	enc := newTestEncoder(t, testSpec())
	colors := []domain.Color{
		domain.NewColor(1, 2, 3),
		domain.NewColor(200, 100, 50),
		domain.NewColor(0, 0, 0),
		domain.NewColor(255, 255, 255),
	}

	first, err := enc.Encode(colors)
	require.NoError(t, err)
	second, err := enc.Encode(colors)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncodeInvertRoundTrip(t *testing.T) {
	plainSpec := testSpec()
	invSpec := testSpec()
	invSpec.Invert = true

	plain := newTestEncoder(t, plainSpec)
	inverted := newTestEncoder(t, invSpec)

	colors := blackFrame(4)
	colors[2] = domain.NewColor(10, 220, 130)

	plainSlots, err := plain.Encode(colors)
	require.NoError(t, err)
	invSlots, err := inverted.Encode(colors)
	require.NoError(t, err)

	require.Equal(t, len(plainSlots), len(invSlots))
	for i := range invSlots {
		invSlots[i] = ^invSlots[i]
	}
	assert.Equal(t, plainSlots, invSlots, "complementing the inverted signal restores the original")
}

func TestEncodeInvertCoversResetTail(t *testing.T) {
	spec := testSpec()
	spec.Invert = true
	enc := newTestEncoder(t, spec)

	slots, err := enc.Encode(blackFrame(4))
	require.NoError(t, err)

	// The reset tail is low in the plain signal, so it must be high here.
	assert.Equal(t, byte(0xFF), slots[len(slots)-1])
}

func TestBrightnessScalingMonotonic(t *testing.T) {
	brightness := []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1.0}

	for v := 0; v <= 255; v += 5 {
		prev := uint8(0)
		for i, b := range brightness {
			got := scaleChannel(uint8(v), b)
			if i > 0 {
				assert.GreaterOrEqual(t, got, prev, "value %d at brightness %g", v, b)
			}
			prev = got
		}
	}
}

func TestBrightnessScalingRoundsToNearest(t *testing.T) {
	// 100 * 0.5 = 50 exactly; 101 * 0.5 = 50.5 rounds up.
	assert.Equal(t, uint8(50), scaleChannel(100, 0.5))
	assert.Equal(t, uint8(51), scaleChannel(101, 0.5))
	assert.Equal(t, uint8(255), scaleChannel(255, 1.0))
	assert.Equal(t, uint8(0), scaleChannel(255, 0))
}

func TestBrightnessAppliedBeforeColorOrder(t *testing.T) {
	// With half brightness, swapping the channel order must only swap
	// the encoded channel positions, not change their values.
	grbSpec := testSpec()
	grbSpec.Brightness = 0.5
	rgbSpec := testSpec()
	rgbSpec.Brightness = 0.5
	rgbSpec.ColorOrder = "RGB"

	grb := newTestEncoder(t, grbSpec)
	rgb := newTestEncoder(t, rgbSpec)

	colors := blackFrame(4)
	colors[0] = domain.NewColor(101, 101, 101) // all channels equal

	grbSlots, err := grb.Encode(colors)
	require.NoError(t, err)
	rgbSlots, err := rgb.Encode(colors)
	require.NoError(t, err)

	assert.Equal(t, grbSlots, rgbSlots)
}

func TestEncodeRGBWOrder(t *testing.T) {
	spec := testSpec()
	spec.ColorOrder = "GRBW"
	enc := newTestEncoder(t, spec)

	grbSpec := testSpec()
	grbEnc := newTestEncoder(t, grbSpec)

	// Four channels per LED means a third more data slots.
	assert.Equal(t, 4, ParseMust(t, "GRBW").ChannelCount())
	assert.Greater(t, enc.SlotCount(), grbEnc.SlotCount())
}

// ParseMust parses a color order or fails the test.
func ParseMust(t *testing.T, s string) ColorOrder {
	t.Helper()
	order, err := ParseColorOrder(s)
	require.NoError(t, err)
	return order
}

func TestParseColorOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    ColorOrder
		wantErr bool
	}{
		{"", OrderGRB, false},
		{"grb", OrderGRB, false},
		{"RGB", OrderRGB, false},
		{"GRBW", OrderGRBW, false},
		{"GG", "", true},
		{"RGBX", "", true},
		{"RR", "", true},
		{"RGGB", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorOrder(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimingFor(t *testing.T) {
	timing, err := TimingFor("")
	require.NoError(t, err)
	assert.Equal(t, TimingWS2812B, timing)

	timing, err = TimingFor("sk6812")
	require.NoError(t, err)
	assert.Equal(t, TimingSK6812, timing)

	_, err = TimingFor("apa102")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestFrameDurationScalesWithLEDCount(t *testing.T) {
	small := newTestEncoder(t, testSpec())

	bigSpec := testSpec()
	bigSpec.LEDCount = 64
	bigSpec.WidthCount = 8
	bigSpec.HeightCount = 8
	big := newTestEncoder(t, bigSpec)

	assert.Greater(t, big.FrameDuration(), small.FrameDuration())
}
