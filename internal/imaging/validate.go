package imaging

import (
	"fmt"

	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

// RGBDimensions is the dimension count of an engine RGB image: height x width x channel.
const RGBDimensions = 3

// ValidateRGBImage checks that img is a non-empty uint8 array with exactly three dimensions.
// A nil array is reported as ErrNullArgument; any shape violation as ErrShapeMismatch.
func ValidateRGBImage(img *mxarray.Array) error {
	if img == nil {
		return status.Wrap("validate rgb image", status.ErrNullArgument)
	}

	if img.IsEmpty() || !img.IsUint8() || img.NumberOfDimensions() != RGBDimensions {
		return status.Wrap("validate rgb image",
			fmt.Errorf("got %s: %w", img, status.ErrShapeMismatch))
	}

	return nil
}
