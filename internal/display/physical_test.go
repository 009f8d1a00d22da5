package display

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matrixview/internal/domain"
	"matrixview/internal/ws281x"
)

// fakeTransmitter records transmissions instead of driving hardware.
type fakeTransmitter struct {
	transmits   int
	closed      bool
	transmitErr error
	lastSlots   []byte
}

func (f *fakeTransmitter) Transmit(ctx context.Context, slots []byte) error {
	f.transmits++
	if f.transmitErr != nil {
		return f.transmitErr
	}
	f.lastSlots = append([]byte(nil), slots...)
	return nil
}

func (f *fakeTransmitter) Close() error {
	f.closed = true
	return nil
}

func matrixSpec(pin, dma int) domain.MatrixSpec {
	return domain.MatrixSpec{
		GPIOPin:     pin,
		LEDCount:    4,
		LEDFreqHz:   800000,
		DMAChannel:  dma,
		Brightness:  1.0,
		WidthCount:  2,
		HeightCount: 2,
		Topology:    domain.SerpentineRow,
		ColorOrder:  "GRB",
	}
}

func newTestMatrix(t *testing.T, spec domain.MatrixSpec) (*PhysicalMatrix, *fakeTransmitter) {
	t.Helper()
	tx := &fakeTransmitter{}
	p, err := NewPhysicalMatrix(spec, ws281x.TimingWS2812B,
		WithTransmitterOpener(func(domain.MatrixSpec) (ws281x.Transmitter, error) {
			return tx, nil
		}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p, tx
}

func TestNewPhysicalMatrixSpecMismatchBeforeHardware(t *testing.T) {
	spec := matrixSpec(18, 10)
	spec.LEDCount = 5

	opened := false
	_, err := NewPhysicalMatrix(spec, ws281x.TimingWS2812B,
		WithTransmitterOpener(func(domain.MatrixSpec) (ws281x.Transmitter, error) {
			opened = true
			return &fakeTransmitter{}, nil
		}))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfig)
	assert.False(t, opened, "hardware must not be touched for an invalid spec")
}

func TestInitializeRejectsNonPWMPin(t *testing.T) {
	p, _ := newTestMatrix(t, matrixSpec(17, 10))

	err := p.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHardwareInit)
}

func TestInitializeRejectsReservedDMAChannel(t *testing.T) {
	p, _ := newTestMatrix(t, matrixSpec(18, 2))

	err := p.Initialize(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHardwareInit)
}

func TestSecondInitializeOnSamePinIsBusy(t *testing.T) {
	ctx := context.Background()

	first, _ := newTestMatrix(t, matrixSpec(18, 10))
	require.NoError(t, first.Initialize(ctx))

	second, _ := newTestMatrix(t, matrixSpec(18, 11))
	err := second.Initialize(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrResourceBusy)
}

func TestShutdownReleasesClaims(t *testing.T) {
	ctx := context.Background()

	first, tx := newTestMatrix(t, matrixSpec(19, 10))
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.Shutdown(ctx))
	assert.True(t, tx.closed)

	second, _ := newTestMatrix(t, matrixSpec(19, 10))
	require.NoError(t, second.Initialize(ctx))
}

func TestShutdownTransmitsAllOff(t *testing.T) {
	ctx := context.Background()
	p, tx := newTestMatrix(t, matrixSpec(12, 8))
	require.NoError(t, p.Initialize(ctx))

	fb, err := domain.NewFrameBuffer(2, 2)
	require.NoError(t, err)
	fb.Fill(domain.NewColor(255, 255, 255))
	require.NoError(t, p.Render(ctx, fb))
	lit := append([]byte(nil), tx.lastSlots...)

	require.NoError(t, p.Shutdown(ctx))
	assert.Equal(t, 2, tx.transmits, "shutdown must write an all-off frame")
	assert.NotEqual(t, lit, tx.lastSlots)
}

func TestRenderBeforeInitializeFails(t *testing.T) {
	p, _ := newTestMatrix(t, matrixSpec(13, 7))

	fb, err := domain.NewFrameBuffer(2, 2)
	require.NoError(t, err)

	err = p.Render(context.Background(), fb)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHardwareInit)
}

func TestRenderRejectsWrongFrameSize(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestMatrix(t, matrixSpec(40, 9))
	require.NoError(t, p.Initialize(ctx))

	fb, err := domain.NewFrameBuffer(3, 3)
	require.NoError(t, err)

	err = p.Render(ctx, fb)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestRenderAppliesSerpentineOrder(t *testing.T) {
	ctx := context.Background()
	spec := matrixSpec(41, 12)
	p, tx := newTestMatrix(t, spec)
	require.NoError(t, p.Initialize(ctx))

	// Only logical pixel (0, 1) is lit. Serpentine wiring puts it at
	// physical index 3, the last LED on the strip.
	fb, err := domain.NewFrameBuffer(2, 2)
	require.NoError(t, err)
	require.NoError(t, fb.Set(0, 1, domain.NewColor(255, 255, 255)))
	require.NoError(t, p.Render(ctx, fb))

	enc, err := ws281x.NewEncoder(spec, ws281x.TimingWS2812B)
	require.NoError(t, err)
	want := make([]domain.Color, 4)
	want[3] = domain.NewColor(255, 255, 255)
	wantSlots, err := enc.Encode(want)
	require.NoError(t, err)

	assert.Equal(t, wantSlots, tx.lastSlots)
}

func TestTimeoutMarksHandleUnusable(t *testing.T) {
	ctx := context.Background()
	p, tx := newTestMatrix(t, matrixSpec(45, 13))
	require.NoError(t, p.Initialize(ctx))

	fb, err := domain.NewFrameBuffer(2, 2)
	require.NoError(t, err)

	tx.transmitErr = fmt.Errorf("%w: wire stalled", domain.ErrHardwareTimeout)
	err = p.Render(ctx, fb)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHardwareTimeout)

	// The handle stays unusable without touching the wire again.
	tx.transmitErr = nil
	err = p.Render(ctx, fb)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrHardwareTimeout)

	// Reinitializing after shutdown restores it.
	require.NoError(t, p.Shutdown(ctx))
	require.NoError(t, p.Initialize(ctx))
	require.NoError(t, p.Render(ctx, fb))
}

func TestRenderIsRepeatable(t *testing.T) {
	ctx := context.Background()
	p, tx := newTestMatrix(t, matrixSpec(18, 14))
	require.NoError(t, p.Initialize(ctx))

	fb, err := domain.NewFrameBuffer(2, 2)
	require.NoError(t, err)
	require.NoError(t, fb.Set(1, 1, domain.NewColor(10, 20, 30)))

	require.NoError(t, p.Render(ctx, fb))
	first := append([]byte(nil), tx.lastSlots...)
	require.NoError(t, p.Render(ctx, fb))

	assert.Equal(t, first, tx.lastSlots, "identical frames must produce identical signals")
}
