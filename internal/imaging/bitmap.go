package imaging

import (
	"fmt"
	"image"
	"image/color"

	"mxbridge/internal/status"
)

// PixelByteSize is the stride of one bitmap pixel: blue, green, red and an unused byte.
const PixelByteSize = 4

// BitmapHeader describes a 32bpp device-independent bitmap. A negative Height marks top-down
// row order; a positive one bottom-up.
type BitmapHeader struct {
	Width    int32
	Height   int32
	BitCount uint16
}

// NewTopDownHeader returns the header the converter expects for a width x height image.
func NewTopDownHeader(width, height int) BitmapHeader {
	return BitmapHeader{
		Width:    int32(width),
		Height:   -int32(height),
		BitCount: PixelByteSize * 8,
	}
}

func (h BitmapHeader) TopDown() bool {
	return h.Height < 0
}

// Rows returns the absolute row count.
func (h BitmapHeader) Rows() int {
	if h.Height < 0 {
		return int(-h.Height)
	}
	return int(h.Height)
}

// Bitmap pairs a caller-owned header with pixel bits filled by the converter.
type Bitmap struct {
	Header BitmapHeader
	Bits   []byte
}

// Image renders the bitmap as RGBA in top-down order. The unused byte becomes opaque alpha.
// Bits shorter than the header describes are a DimensionMismatch.
func (b *Bitmap) Image() (*image.RGBA, error) {
	if b == nil {
		return nil, status.Wrap("render bitmap", status.ErrNullArgument)
	}

	width := int(b.Header.Width)
	height := b.Header.Rows()
	if width < 0 {
		return nil, status.Wrap("render bitmap", fmt.Errorf("header %+v: %w", b.Header, status.ErrShapeMismatch))
	}
	if len(b.Bits) < width*height*PixelByteSize {
		return nil, status.Wrap("render bitmap", fmt.Errorf("%d bytes for %dx%d pixels: %w",
			len(b.Bits), width, height, status.ErrDimensionMismatch))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for row := 0; row < height; row++ {
		y := row
		if !b.Header.TopDown() {
			y = height - 1 - row
		}
		for x := 0; x < width; x++ {
			p := b.Bits[(x+row*width)*PixelByteSize:]
			img.SetRGBA(x, y, color.RGBA{R: p[2], G: p[1], B: p[0], A: 255})
		}
	}

	return img, nil
}
