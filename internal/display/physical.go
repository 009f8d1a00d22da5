package display

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"matrixview/internal/domain"
	"matrixview/internal/ws281x"
)

// transmitTimeoutFactor bounds a transmission at this multiple of the
// frame's nominal wire time.
const transmitTimeoutFactor = 10

// minTransmitTimeout keeps the deadline sane for tiny matrices.
const minTransmitTimeout = 100 * time.Millisecond

// TransmitterOpener creates the wire transmitter for a spec. Tests
// substitute a fake; the default opens the GPIO device.
type TransmitterOpener func(domain.MatrixSpec) (ws281x.Transmitter, error)

// PhysicalMatrix drives an addressable LED matrix: frame pixels are
// reordered by the wiring topology, encoded into the PWM slot stream
// and pushed onto the GPIO data line.
type PhysicalMatrix struct {
	spec   domain.MatrixSpec
	mapper domain.Mapper
	table  []int
	enc    *ws281x.Encoder
	openTx TransmitterOpener

	mu          sync.Mutex // serializes renders: at most one in flight per handle
	tx          ws281x.Transmitter
	claimed     bool
	initialized bool
	broken      bool
}

// PhysicalOption configures a PhysicalMatrix.
type PhysicalOption func(*PhysicalMatrix)

// WithTransmitterOpener substitutes the transmitter factory.
func WithTransmitterOpener(open TransmitterOpener) PhysicalOption {
	return func(p *PhysicalMatrix) { p.openTx = open }
}

// NewPhysicalMatrix validates the spec and prepares the geometry table
// and encoder. No hardware is touched until Initialize.
func NewPhysicalMatrix(spec domain.MatrixSpec, timing ws281x.Timing, opts ...PhysicalOption) (*PhysicalMatrix, error) {
	mapper, err := domain.NewMapper(spec.WidthCount, spec.HeightCount, spec.Topology)
	if err != nil {
		return nil, err
	}
	enc, err := ws281x.NewEncoder(spec, timing)
	if err != nil {
		return nil, err
	}

	p := &PhysicalMatrix{
		spec:   spec,
		mapper: mapper,
		table:  mapper.IndexTable(),
		enc:    enc,
		openTx: ws281x.Open,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Size returns the matrix dimensions.
func (p *PhysicalMatrix) Size() (int, int) {
	return p.spec.WidthCount, p.spec.HeightCount
}

// Initialize validates the pin and DMA channel, claims both and opens
// the transmitter. A pin or channel already held by another handle
// fails with domain.ErrResourceBusy.
func (p *PhysicalMatrix) Initialize(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := ws281x.ValidatePin(p.spec.GPIOPin); err != nil {
		return err
	}
	if err := ws281x.ValidateDMAChannel(p.spec.DMAChannel); err != nil {
		return err
	}
	if err := ws281x.Claim(p.spec.GPIOPin, p.spec.DMAChannel); err != nil {
		return err
	}
	p.claimed = true

	tx, err := p.openTx(p.spec)
	if err != nil {
		ws281x.Release(p.spec.GPIOPin, p.spec.DMAChannel)
		p.claimed = false
		return err
	}
	p.tx = tx
	p.initialized = true
	p.broken = false
	return nil
}

// Render encodes and transmits the frame. It blocks until the full
// signal is on the wire. After a timeout the handle is unusable until
// reinitialized.
func (p *PhysicalMatrix) Render(ctx context.Context, fb *domain.FrameBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return fmt.Errorf("%w: render before initialize", domain.ErrHardwareInit)
	}
	if p.broken {
		return fmt.Errorf("%w: handle unusable after timeout, reinitialize it", domain.ErrHardwareTimeout)
	}
	if fb.Width() != p.spec.WidthCount || fb.Height() != p.spec.HeightCount {
		return fmt.Errorf("%w: frame is %dx%d, matrix is %dx%d",
			domain.ErrOutOfRange, fb.Width(), fb.Height(), p.spec.WidthCount, p.spec.HeightCount)
	}

	return p.transmit(ctx, p.orderColors(fb))
}

// Shutdown turns the matrix off, closes the transmitter and releases
// the pin and DMA claims. The all-off write is best-effort: claims are
// released even if it fails.
func (p *PhysicalMatrix) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.claimed {
		return nil
	}

	var err error
	if p.tx != nil {
		// Never leave LEDs lit after teardown.
		off := make([]domain.Color, p.spec.LEDCount)
		if txErr := p.transmit(ctx, off); txErr != nil && !p.broken {
			err = txErr
		}
		if closeErr := p.tx.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		p.tx = nil
	}

	ws281x.Release(p.spec.GPIOPin, p.spec.DMAChannel)
	p.claimed = false
	p.initialized = false
	return err
}

// orderColors reads the frame in scan order and places each pixel at
// its physical strip position.
func (p *PhysicalMatrix) orderColors(fb *domain.FrameBuffer) []domain.Color {
	colors := make([]domain.Color, p.spec.LEDCount)
	pixels := fb.Pixels()
	for i := range p.table {
		offset := i * domain.BytesPerPixel
		colors[p.table[i]] = domain.Color{
			R: pixels[offset],
			G: pixels[offset+1],
			B: pixels[offset+2],
		}
	}
	return colors
}

// transmit encodes and sends one frame under a deadline proportional
// to the frame's wire time. Callers hold p.mu.
func (p *PhysicalMatrix) transmit(ctx context.Context, colors []domain.Color) error {
	slots, err := p.enc.Encode(colors)
	if err != nil {
		return err
	}

	timeout := p.enc.FrameDuration() * transmitTimeoutFactor
	if timeout < minTransmitTimeout {
		timeout = minTransmitTimeout
	}
	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.tx.Transmit(txCtx, slots); err != nil {
		if errors.Is(err, domain.ErrHardwareTimeout) {
			p.broken = true
		}
		return err
	}
	return nil
}
