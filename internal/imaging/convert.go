package imaging

import (
	"fmt"

	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

// bitmapChannels maps each bitmap byte of a pixel to the engine colour plane it comes from.
// The engine stores planes R, G, B; the bitmap wants B, G, R.
var bitmapChannels = [3]int{2, 1, 0}

// MaxBitmapBytes bounds the bitmap buffer the converter will allocate.
var MaxBitmapBytes = mxarray.DefaultMaxAllocation

// planeOffset locates channel c of pixel (x, y) in a column-major, plane-separated array.
func planeOffset(x, y, c, width, height int) int {
	return y + x*height + c*width*height
}

// pixelOffset locates pixel (x, y) in a row-major 4 byte per pixel bitmap.
func pixelOffset(x, y, width int) int {
	return (x + y*width) * PixelByteSize
}

// ToBitmap converts an engine RGB image into a freshly allocated top-down bitmap. The header in
// dst must already describe the image: Width equal to the image width and Height equal to the
// negated image height. On success dst.Bits belongs to the caller.
func ToBitmap(img *mxarray.Array, dst *Bitmap) error {
	if err := ValidateRGBImage(img); err != nil {
		return err
	}
	if dst == nil {
		return status.Wrap("convert to bitmap", status.ErrNullArgument)
	}

	dims := img.Dimensions()
	height, width := dims[0], dims[1]

	if height != -int(dst.Header.Height) || width != int(dst.Header.Width) {
		return status.Wrap("convert to bitmap", fmt.Errorf("image %dx%d, header %dx%d: %w",
			width, height, dst.Header.Width, dst.Header.Height, status.ErrDimensionMismatch))
	}

	bits, err := allocBits(int64(height) * int64(width) * PixelByteSize)
	if err != nil {
		return status.Wrap("convert to bitmap", err)
	}

	src := img.Data()
	if src == nil {
		return status.Wrap("convert to bitmap", fmt.Errorf("image owns no buffer: %w", status.ErrNullArgument))
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pixel := bits[pixelOffset(x, y, width):]
			for i, c := range bitmapChannels {
				pixel[i] = src[planeOffset(x, y, c, width, height)]
			}
			pixel[3] = 0
		}
	}

	dst.Bits = bits
	return nil
}

// FromBitmap converts a 32bpp bitmap into an engine RGB image allocated from alloc.
// Both top-down and bottom-up headers are accepted; the unused byte is ignored.
func FromBitmap(bmp *Bitmap, alloc mxarray.Allocator, tag string) (*mxarray.Array, error) {
	if bmp == nil {
		return nil, status.Wrap("convert from bitmap", status.ErrNullArgument)
	}

	hdr := bmp.Header
	width, height := int(hdr.Width), hdr.Rows()
	if hdr.BitCount != PixelByteSize*8 || width <= 0 || height <= 0 {
		return nil, status.Wrap("convert from bitmap", fmt.Errorf("header %+v: %w", hdr, status.ErrShapeMismatch))
	}
	if len(bmp.Bits) < width*height*PixelByteSize {
		return nil, status.Wrap("convert from bitmap", fmt.Errorf("%d bytes for %dx%d pixels: %w",
			len(bmp.Bits), width, height, status.ErrDimensionMismatch))
	}

	img, err := mxarray.New(mxarray.Uint8Class, []int{height, width, RGBDimensions}, alloc, tag)
	if err != nil {
		return nil, status.Wrap("convert from bitmap", err)
	}

	data := img.Data()
	for row := 0; row < height; row++ {
		y := row
		if !hdr.TopDown() {
			y = height - 1 - row
		}
		for x := 0; x < width; x++ {
			pixel := bmp.Bits[pixelOffset(x, row, width):]
			for i, c := range bitmapChannels {
				data[planeOffset(x, y, c, width, height)] = pixel[i]
			}
		}
	}

	return img, nil
}

func allocBits(size int64) ([]byte, error) {
	if size < 0 || size > MaxBitmapBytes {
		return nil, fmt.Errorf("bitmap of %d bytes: %w", size, status.ErrOutOfMemory)
	}
	return make([]byte, size), nil
}
