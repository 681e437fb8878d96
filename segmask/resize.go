package segmask

import (
	"image"

	"github.com/disintegration/imaging"
)

// ResizeMaskImage scales an ID-encoded mask image to the model input size.
// Nearest neighbor is the only valid filter here: any interpolating filter
// would blend class IDs into values that belong to no class.
func ResizeMaskImage(img image.Image, width, height int) image.Image {
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return img
	}

	return imaging.Resize(img, width, height, imaging.NearestNeighbor)
}
