// Package graphics loads raster images and prepares them for display:
// decoding, aspect-preserving resize, zoom and PPM export.
//
// All resampling uses nearest-neighbor. Pixel art shown on small LED
// grids must keep hard edges; an interpolating filter would smear
// single-pixel features across neighboring LEDs.
package graphics

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"io"
	"math"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"matrixview/internal/domain"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// minZoom is the smallest allowed accumulated zoom factor.
const minZoom = 0.125

// Graphics holds a decoded source image and the current view derived
// from it. The source is never modified; every transformation rebuilds
// the view from the source so repeated zooming does not accumulate
// resampling loss.
type Graphics struct {
	path string
	src  *image.RGBA
	view *image.RGBA
	zoom float64
}

// Load decodes the image at path. PNG, JPEG and GIF are supported.
func Load(path string) (*Graphics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", domain.ErrDecode, path, err)
	}

	src := toRGBA(img)
	return &Graphics{
		path: path,
		src:  src,
		view: cloneRGBA(src),
		zoom: 1,
	}, nil
}

// New wraps an already decoded image.
func New(img image.Image) *Graphics {
	src := toRGBA(img)
	return &Graphics{src: src, view: cloneRGBA(src), zoom: 1}
}

// Filename returns the base name of the loaded file, or "" if the
// graphics was built from an in-memory image.
func (g *Graphics) Filename() string {
	if g.path == "" {
		return ""
	}
	return filepath.Base(g.path)
}

// View returns the current view.
func (g *Graphics) View() image.Image { return g.view }

// Size returns the dimensions of the current view.
func (g *Graphics) Size() (width, height int) {
	return g.view.Bounds().Dx(), g.view.Bounds().Dy()
}

// Resize resamples the view to width x height. With keepAspect the
// source is first center-cropped to the target aspect ratio so the
// result is not distorted.
func (g *Graphics) Resize(width, height int, keepAspect bool) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: resize dimensions must be positive, got %dx%d", domain.ErrOutOfRange, width, height)
	}

	src := g.view
	if keepAspect {
		src = centerCropToAspect(src, width, height)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	g.view = dst
	return nil
}

// CropCenter crops the view to a width x height window centered on
// (cx, cy). The window is clamped to the view bounds.
func (g *Graphics) CropCenter(cx, cy, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: crop dimensions must be positive, got %dx%d", domain.ErrOutOfRange, width, height)
	}

	b := g.view.Bounds()
	r := image.Rect(cx-width/2, cy-height/2, cx-width/2+width, cy-height/2+height)
	r = clampRect(r, b)

	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), g.view, r.Min, draw.Src)
	g.view = dst
	return nil
}

// Zoom multiplies the accumulated zoom factor and rebuilds the view
// from the pristine source at the view's current dimensions. Factors
// above 1 magnify the center of the image; factors below 1 shrink it
// onto a black background. Zooming out past the minimum factor is
// refused and leaves the view unchanged.
func (g *Graphics) Zoom(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("%w: zoom factor must be positive, got %g", domain.ErrOutOfRange, factor)
	}
	next := g.zoom * factor
	if next < minZoom {
		return fmt.Errorf("%w: minimum zoom reached", domain.ErrOutOfRange)
	}
	g.zoom = next
	g.rebuildView()
	return nil
}

// ResetZoom restores the unzoomed view at the source dimensions.
func (g *Graphics) ResetZoom() {
	g.zoom = 1
	g.view = cloneRGBA(g.src)
}

func (g *Graphics) rebuildView() {
	w, h := g.view.Bounds().Dx(), g.view.Bounds().Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if g.zoom >= 1 {
		// Magnify: scale the center 1/zoom region of the source up to
		// the full view.
		sb := g.src.Bounds()
		cw := int(math.Round(float64(sb.Dx()) / g.zoom))
		ch := int(math.Round(float64(sb.Dy()) / g.zoom))
		cw = max(cw, 1)
		ch = max(ch, 1)
		r := image.Rect(0, 0, cw, ch).Add(image.Point{
			X: sb.Min.X + (sb.Dx()-cw)/2,
			Y: sb.Min.Y + (sb.Dy()-ch)/2,
		})
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), g.src, r, xdraw.Src, nil)
	} else {
		// Shrink: scale the whole source down and center it.
		sw := int(math.Round(float64(w) * g.zoom))
		sh := int(math.Round(float64(h) * g.zoom))
		sw = max(sw, 1)
		sh = max(sh, 1)
		r := image.Rect(0, 0, sw, sh).Add(image.Point{X: (w - sw) / 2, Y: (h - sh) / 2})
		xdraw.NearestNeighbor.Scale(dst, r, g.src, g.src.Bounds(), xdraw.Src, nil)
	}
	g.view = dst
}

// WritePPM writes the current view as a plain-text PPM (P3, max value
// 255). Fully transparent pixels are written as black.
func (g *Graphics) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	b := g.view.Bounds()

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			offset := g.view.PixOffset(x, y)
			r, gr, bl, a := g.view.Pix[offset], g.view.Pix[offset+1], g.view.Pix[offset+2], g.view.Pix[offset+3]
			if a == 0 {
				r, gr, bl = 0, 0, 0
			}
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, gr, bl); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// centerCropToAspect crops src to the largest centered window matching
// the width:height aspect ratio.
func centerCropToAspect(src *image.RGBA, width, height int) *image.RGBA {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()

	cw, ch := sw, sh
	if sw*height > sh*width {
		cw = sh * width / height
	} else {
		ch = sw * height / width
	}
	cw = max(cw, 1)
	ch = max(ch, 1)

	r := image.Rect(0, 0, cw, ch).Add(image.Point{
		X: b.Min.X + (sw-cw)/2,
		Y: b.Min.Y + (sh-ch)/2,
	})
	dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return dst
}

func clampRect(r, bounds image.Rectangle) image.Rectangle {
	r = r.Intersect(bounds)
	if r.Empty() {
		return bounds
	}
	return r
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return cloneRGBA(rgba)
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
