package domain

import (
	"fmt"
	"image"
)

// BytesPerPixel is the number of bytes per pixel (RGB).
const BytesPerPixel = 3

// FrameBuffer is a fixed-size 2D grid of colors. Width and height are
// set at construction and never change; pixel values are mutated
// through Set, Fill and LoadImage. All coordinate access is
// bounds-checked.
type FrameBuffer struct {
	width  int
	height int
	// pixels is a flat array of RGB values: [r0,g0,b0, r1,g1,b1, ...]
	pixels []byte
}

// NewFrameBuffer creates a frame buffer filled with black.
func NewFrameBuffer(width, height int) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: frame buffer dimensions must be positive, got %dx%d", ErrConfig, width, height)
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		pixels: make([]byte, width*height*BytesPerPixel),
	}, nil
}

// FromImage creates a frame buffer sized to the image and copies every
// pixel. Fully transparent pixels become black, matching the PPM
// export convention.
func FromImage(img image.Image) (*FrameBuffer, error) {
	bounds := img.Bounds()
	fb, err := NewFrameBuffer(bounds.Dx(), bounds.Dy())
	if err != nil {
		return nil, err
	}
	fb.LoadImage(img)
	return fb, nil
}

// Width returns the frame buffer width in pixels.
func (f *FrameBuffer) Width() int { return f.width }

// Height returns the frame buffer height in pixels.
func (f *FrameBuffer) Height() int { return f.height }

// Get returns the color at the specified coordinates.
func (f *FrameBuffer) Get(x, y int) (Color, error) {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return Color{}, fmt.Errorf("%w: pixel (%d, %d) outside %dx%d frame", ErrOutOfRange, x, y, f.width, f.height)
	}
	offset := (y*f.width + x) * BytesPerPixel
	return Color{
		R: f.pixels[offset],
		G: f.pixels[offset+1],
		B: f.pixels[offset+2],
	}, nil
}

// Set sets the color at the specified coordinates.
func (f *FrameBuffer) Set(x, y int, c Color) error {
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return fmt.Errorf("%w: pixel (%d, %d) outside %dx%d frame", ErrOutOfRange, x, y, f.width, f.height)
	}
	offset := (y*f.width + x) * BytesPerPixel
	f.pixels[offset] = c.R
	f.pixels[offset+1] = c.G
	f.pixels[offset+2] = c.B
	return nil
}

// Fill fills the entire frame buffer with the specified color.
func (f *FrameBuffer) Fill(c Color) {
	for i := 0; i < f.width*f.height; i++ {
		offset := i * BytesPerPixel
		f.pixels[offset] = c.R
		f.pixels[offset+1] = c.G
		f.pixels[offset+2] = c.B
	}
}

// Clear fills the frame buffer with black.
func (f *FrameBuffer) Clear() {
	for i := range f.pixels {
		f.pixels[i] = 0
	}
}

// LoadImage copies the image into the frame buffer. Pixels outside the
// frame are dropped; if the image is smaller than the frame the
// remaining pixels keep their previous values.
func (f *FrameBuffer) LoadImage(img image.Image) {
	bounds := img.Bounds()
	w := min(bounds.Dx(), f.width)
	h := min(bounds.Dy(), f.height)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			offset := (y*f.width + x) * BytesPerPixel
			if a == 0 {
				f.pixels[offset] = 0
				f.pixels[offset+1] = 0
				f.pixels[offset+2] = 0
				continue
			}
			f.pixels[offset] = uint8(r >> 8)
			f.pixels[offset+1] = uint8(g >> 8)
			f.pixels[offset+2] = uint8(b >> 8)
		}
	}
}

// Clone creates a deep copy of the frame buffer.
func (f *FrameBuffer) Clone() *FrameBuffer {
	clone := &FrameBuffer{
		width:  f.width,
		height: f.height,
		pixels: make([]byte, len(f.pixels)),
	}
	copy(clone.pixels, f.pixels)
	return clone
}

// Pixels returns the raw RGB pixel data in row-major order. The slice
// aliases the frame buffer's storage; callers must not resize it.
func (f *FrameBuffer) Pixels() []byte { return f.pixels }

// RGBA renders the frame buffer into a new fully opaque image.RGBA.
func (f *FrameBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for i := 0; i < f.width*f.height; i++ {
		src := i * BytesPerPixel
		dst := i * 4
		img.Pix[dst] = f.pixels[src]
		img.Pix[dst+1] = f.pixels[src+1]
		img.Pix[dst+2] = f.pixels[src+2]
		img.Pix[dst+3] = 0xFF
	}
	return img
}
