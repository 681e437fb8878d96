package segmask

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// LabeledPixelToID converts the label-encoded pixel (e.g., #010101) which is
// alpha-premultiplied into an ID in the range of 0-255
func LabeledPixelToID(c color.Color) (uint8, error) {

	// Find the color channel values for this pixel
	pr, pg, pb, a := c.RGBA()

	// Confirm that we're mapping ID 1 => #010101, etc
	if pr != pg || pg != pb || pr != pb {
		return 0, fmt.Errorf("Encoding expected to have equal values for R, G, and B. Instead, found %d, %d, %d", pr, pg, pb)
	}

	// Create the hex string representation. Since each color channel is
	// "alpha-premultiplied" (https://golang.org/pkg/image/color/#RGBA),
	// we need to divide by alpha (scaling 0-1), then multiplying by
	// 255, to get what we're actually looking for
	pixelID := uint8(math.Round(255 * float64(pr) / float64(a)))

	return pixelID, nil
}

// DecodeMask converts an ID-encoded mask image into a flat row-major class
// mask, validating every class ID against the label map.
func (l LabelMap) DecodeMask(img image.Image) ([]uint8, int, int, error) {
	known := make(map[uint8]bool)
	for _, v := range l {
		known[uint8(v.ID)] = true
	}

	bounds := img.Bounds()
	w, h := bounds.Max.X, bounds.Max.Y
	mask := make([]uint8, 0, w*h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id, err := LabeledPixelToID(img.At(x, y))
			if err != nil {
				return nil, 0, 0, err
			}

			if !known[id] {
				return nil, 0, 0, fmt.Errorf("pixel (%d, %d) holds class ID %d, which is not in the label map", x, y, id)
			}

			mask = append(mask, id)
		}
	}

	return mask, w, h, nil
}

// EncodeMask renders a flat class mask as an ID-encoded image where each
// pixel has the same R, G, and B value mapped to its class ID (#010101 for
// class 1, and so on).
func EncodeMask(mask []uint8, w, h int) (*image.RGBA, error) {
	if len(mask) != w*h {
		return nil, fmt.Errorf("mask holds %d pixels but dimensions (%d, %d) require %d", len(mask), w, h, w*h)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			id := mask[y*w+x]
			out.Set(x, y, color.RGBA{R: id, G: id, B: id, A: 255})
		}
	}

	return out, nil
}
