package display

import (
	"context"
	"fmt"

	"matrixview/internal/domain"
	"matrixview/internal/graphics"
	"matrixview/internal/ws281x"
)

// DefaultWindowSize is used for the emulated backend when no explicit
// dimensions are given, e.g. for Clear before the first Show.
const DefaultWindowSize = 64

// zoomStep is the zoom factor applied per key press.
const zoomStep = 2.0

// Options configures a Controller.
type Options struct {
	// Spec is required for the external backend.
	Spec domain.MatrixSpec
	// Timing overrides the LED family timing; zero value means WS2812B.
	Timing ws281x.Timing
	// Width, Height size the emulated window. Zero means
	// DefaultWindowSize until the first shown image decides.
	Width, Height int
	// Scale is the emulated window scale factor.
	Scale int
	// Title is the emulated window title.
	Title string
	// Backend overrides backend construction. Used by tests and by the
	// CLI when it builds the emulated window itself.
	Backend Backend
}

// Controller owns the frame buffer and exactly one backend. It loads
// images, resizes them to the backend's native dimensions and drives
// renders. Not safe for concurrent use.
type Controller struct {
	backend Backend
	fb      *domain.FrameBuffer
	gfx     *graphics.Graphics
	started bool
	closed  bool
}

// NewController selects a backend variant. Kind must be one of
// "external", "internal" or "emulated"; anything else fails with
// domain.ErrConfig. The backend session itself is acquired lazily on
// the first Show or Clear.
func NewController(kind string, opts Options) (*Controller, error) {
	if opts.Backend != nil {
		switch kind {
		case KindExternal, KindInternal, KindEmulated:
			return &Controller{backend: opts.Backend}, nil
		default:
			return nil, fmt.Errorf("%w: unknown backend kind %q", domain.ErrConfig, kind)
		}
	}

	switch kind {
	case KindExternal:
		timing := opts.Timing
		if timing == (ws281x.Timing{}) {
			timing = ws281x.TimingWS2812B
		}
		backend, err := NewPhysicalMatrix(opts.Spec, timing)
		if err != nil {
			return nil, err
		}
		return &Controller{backend: backend}, nil
	case KindInternal, KindEmulated:
		width := opts.Width
		height := opts.Height
		if width <= 0 {
			width = DefaultWindowSize
		}
		if height <= 0 {
			height = DefaultWindowSize
		}
		backend, err := NewEmulated(width, height, opts.Scale, opts.Title)
		if err != nil {
			return nil, err
		}
		return &Controller{backend: backend}, nil
	default:
		return nil, fmt.Errorf("%w: unknown backend kind %q", domain.ErrConfig, kind)
	}
}

// Backend returns the controller's backend.
func (c *Controller) Backend() Backend { return c.backend }

// Show loads the image, resizes it to the backend's native dimensions
// if they differ (center-crop to aspect, then nearest-neighbor so hard
// edges survive on an LED grid) and renders it. A decode failure
// leaves the controller usable for subsequent calls.
func (c *Controller) Show(ctx context.Context, imagePath string) error {
	if c.closed {
		return fmt.Errorf("%w: controller is closed", domain.ErrConfig)
	}

	g, err := graphics.Load(imagePath)
	if err != nil {
		return err
	}
	if err := c.ensureStarted(ctx); err != nil {
		return err
	}

	width, height := c.backend.Size()
	if w, h := g.Size(); w != width || h != height {
		if err := g.Resize(width, height, true); err != nil {
			return err
		}
	}

	fb, err := domain.FromImage(g.View())
	if err != nil {
		return err
	}
	c.fb = fb
	c.gfx = g
	return c.backend.Render(ctx, c.fb)
}

// Clear renders an all-off frame.
func (c *Controller) Clear(ctx context.Context) error {
	if c.closed {
		return fmt.Errorf("%w: controller is closed", domain.ErrConfig)
	}
	if err := c.ensureStarted(ctx); err != nil {
		return err
	}

	if c.fb == nil {
		width, height := c.backend.Size()
		fb, err := domain.NewFrameBuffer(width, height)
		if err != nil {
			return err
		}
		c.fb = fb
	}
	c.fb.Fill(domain.Black)
	return c.backend.Render(ctx, c.fb)
}

// AddZoom zooms the shown image in or out by a factor of two and
// re-renders. It is a no-op when nothing has been shown yet; hitting
// the zoom floor leaves the view unchanged.
func (c *Controller) AddZoom(ctx context.Context, zoomOut bool) error {
	if c.closed {
		return fmt.Errorf("%w: controller is closed", domain.ErrConfig)
	}
	if c.gfx == nil || c.fb == nil {
		return nil
	}

	factor := zoomStep
	if zoomOut {
		factor = 1 / zoomStep
	}
	if err := c.gfx.Zoom(factor); err != nil {
		return err
	}
	c.fb.LoadImage(c.gfx.View())
	return c.backend.Render(ctx, c.fb)
}

// Close shuts the backend down. It runs the shutdown exactly once;
// further calls are no-ops.
func (c *Controller) Close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	c.closed = true
	if !c.started {
		return nil
	}
	return c.backend.Shutdown(ctx)
}

func (c *Controller) ensureStarted(ctx context.Context) error {
	if c.started {
		return nil
	}
	if err := c.backend.Initialize(ctx); err != nil {
		return err
	}
	c.started = true
	return nil
}
