package display

import (
	"context"
	"fmt"
	"image"
	"os"
	"runtime"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"matrixview/internal/domain"
)

// DefaultScale is the window pixels drawn per logical pixel.
const DefaultScale = 8

// ZoomFunc is called when the user presses the zoom keys in the
// emulated window. zoomOut is true for the minus key.
type ZoomFunc func(zoomOut bool)

// Emulated renders frames to a desktop window, one logical pixel per
// scaled window block, identity geometry, no signal encoding.
type Emulated struct {
	width  int
	height int
	scale  int
	title  string

	mu     sync.Mutex
	frame  *image.RGBA
	onZoom ZoomFunc

	initialized bool
	done        chan struct{}
	closeOnce   sync.Once
}

// NewEmulated creates a window backend for a width x height frame,
// drawn at an integer scale factor.
func NewEmulated(width, height, scale int, title string) (*Emulated, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: window dimensions must be positive, got %dx%d", domain.ErrConfig, width, height)
	}
	if scale <= 0 {
		scale = DefaultScale
	}
	if title == "" {
		title = "matrixview"
	}
	return &Emulated{
		width:  width,
		height: height,
		scale:  scale,
		title:  title,
		done:   make(chan struct{}),
	}, nil
}

// Size returns the logical frame dimensions.
func (e *Emulated) Size() (int, int) {
	return e.width, e.height
}

// SetZoomHandler registers the callback for the +/- keys. It must be
// set before Run.
func (e *Emulated) SetZoomHandler(f ZoomFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onZoom = f
}

// Initialize verifies a windowing surface is available. The window
// itself opens when Run is called on the main goroutine.
func (e *Emulated) Initialize(ctx context.Context) error {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return fmt.Errorf("%w: no X11 or Wayland display", domain.ErrDisplayUnavailable)
	}
	e.initialized = true
	return nil
}

// Render publishes the frame to the window. The blit is a snapshot;
// later frame buffer writes do not show until the next Render.
func (e *Emulated) Render(ctx context.Context, fb *domain.FrameBuffer) error {
	if !e.initialized {
		return fmt.Errorf("%w: render before initialize", domain.ErrDisplayUnavailable)
	}
	if fb.Width() != e.width || fb.Height() != e.height {
		return fmt.Errorf("%w: frame is %dx%d, window is %dx%d",
			domain.ErrOutOfRange, fb.Width(), fb.Height(), e.width, e.height)
	}

	img := fb.RGBA()
	e.mu.Lock()
	e.frame = img
	e.mu.Unlock()
	return nil
}

// Shutdown closes the window. Safe to call more than once.
func (e *Emulated) Shutdown(ctx context.Context) error {
	e.closeOnce.Do(func() { close(e.done) })
	return nil
}

// Run opens the window and blocks until it is closed or Shutdown is
// called. Ebiten requires this to run on the main goroutine.
func (e *Emulated) Run() error {
	ebiten.SetWindowTitle(e.title)
	ebiten.SetWindowSize(e.width*e.scale, e.height*e.scale)
	err := ebiten.RunGame(&emulatedGame{display: e})
	if err == ebiten.Termination {
		return nil
	}
	return err
}

type emulatedGame struct {
	display *Emulated
	img     *ebiten.Image
}

func (g *emulatedGame) Update() error {
	e := g.display
	select {
	case <-e.done:
		return ebiten.Termination
	default:
	}

	e.mu.Lock()
	onZoom := e.onZoom
	e.mu.Unlock()
	if onZoom != nil {
		if inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) || inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
			onZoom(false)
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) || inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
			onZoom(true)
		}
	}
	return nil
}

func (g *emulatedGame) Draw(screen *ebiten.Image) {
	e := g.display
	e.mu.Lock()
	frame := e.frame
	e.mu.Unlock()
	if frame == nil {
		return
	}

	if g.img == nil {
		g.img = ebiten.NewImage(e.width, e.height)
	}
	g.img.WritePixels(frame.Pix)
	screen.DrawImage(g.img, nil)
}

func (g *emulatedGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.display.width, g.display.height
}
