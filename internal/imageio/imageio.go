// Package imageio moves host image files in and out of the engine's RGB array layout using
// OpenCV for decoding and encoding.
package imageio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"mxbridge/internal/imaging"
	"mxbridge/internal/mxarray"
)

// Load reads and decodes an image file into an engine RGB array.
func Load(path string, alloc mxarray.Allocator) (*mxarray.Array, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return Decode(data, alloc, filepath.Base(path))
}

// Decode turns encoded image bytes into an engine RGB array. Colour images are read as
// 8-bit BGR and routed through a top-down bitmap.
func Decode(data []byte, alloc mxarray.Allocator, tag string) (*mxarray.Array, error) {
	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("failed to decode image with OpenCV: empty result")
	}

	bmp, err := matToBitmap(mat)
	if err != nil {
		return nil, err
	}
	return imaging.FromBitmap(bmp, alloc, tag)
}

func matToBitmap(mat gocv.Mat) (*imaging.Bitmap, error) {
	bgra := gocv.NewMat()
	defer bgra.Close()

	gocv.CvtColor(mat, &bgra, gocv.ColorBGRToBGRA)
	if bgra.Empty() {
		return nil, fmt.Errorf("BGR to BGRA conversion failed")
	}

	return &imaging.Bitmap{
		Header: imaging.NewTopDownHeader(bgra.Cols(), bgra.Rows()),
		Bits:   bgra.ToBytes(),
	}, nil
}

// Save encodes bmp into the format implied by the path's extension.
func Save(path string, bmp *imaging.Bitmap) error {
	var buf bytes.Buffer
	if err := Encode(&buf, bmp, FormatFor(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	return nil
}

// Encode writes bmp to w as png, jpeg or bmp.
func Encode(w io.Writer, bmp *imaging.Bitmap, format string) error {
	if bmp == nil || len(bmp.Bits) == 0 {
		return fmt.Errorf("no image data to save")
	}

	rows, cols := bmp.Header.Rows(), int(bmp.Header.Width)
	mat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC4, bmp.Bits)
	if err != nil {
		return fmt.Errorf("bitmap to Mat conversion failed: %w", err)
	}
	defer mat.Close()

	if !bmp.Header.TopDown() {
		flipped := gocv.NewMat()
		defer flipped.Close()
		gocv.Flip(mat, &flipped, 0)
		if flipped.Empty() {
			return fmt.Errorf("row order flip failed")
		}
		mat, flipped = flipped, mat
	}

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(mat, &bgr, gocv.ColorBGRAToBGR)
	if bgr.Empty() {
		return fmt.Errorf("BGRA to BGR conversion failed")
	}

	encoded, err := gocv.IMEncode(fileExt(format), bgr)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	defer encoded.Close()

	_, err = w.Write(encoded.GetBytes())
	return err
}

// FormatFor derives an output format from a file name, defaulting to png.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".bmp":
		return "bmp"
	default:
		return "png"
	}
}

func fileExt(format string) gocv.FileExt {
	switch format {
	case "jpeg":
		return gocv.JPEGFileExt
	case "bmp":
		return gocv.FileExt(".bmp")
	default:
		return gocv.PNGFileExt
	}
}
