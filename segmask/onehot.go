package segmask

import (
	"fmt"

	"github.com/carbocation/segeval/tensor"
)

// Explode expands a flat class mask into a one-hot (h, w, numClasses)
// tensor: channel c is 1 wherever the mask holds class c, else 0.
func Explode(mask []uint8, w, h, numClasses int) (*tensor.Dense, error) {
	if len(mask) != w*h {
		return nil, fmt.Errorf("mask holds %d pixels but dimensions (%d, %d) require %d", len(mask), w, h, w*h)
	}

	out := tensor.NewDense(h, w, numClasses)
	for i, id := range mask {
		if int(id) >= numClasses {
			return nil, fmt.Errorf("pixel %d holds class ID %d, beyond the %d known classes", i, id, numClasses)
		}

		out.Data[i*numClasses+int(id)] = 1
	}

	return out, nil
}

// Collapse is the inverse of Explode: it reduces a one-hot tensor back to a
// flat class mask. Exactly one channel must be active per pixel.
func Collapse(oneHot *tensor.Dense) ([]uint8, error) {
	mask := make([]uint8, oneHot.Pixels())

	for i := range mask {
		active := -1
		for c := 0; c < oneHot.C; c++ {
			if oneHot.Data[i*oneHot.C+c] == 0 {
				continue
			}

			if active >= 0 {
				return nil, fmt.Errorf("pixel %d has multiple active channels (%d and %d)", i, active, c)
			}
			active = c
		}

		if active < 0 {
			return nil, fmt.Errorf("pixel %d has no active channel", i)
		}

		mask[i] = uint8(active)
	}

	return mask, nil
}
