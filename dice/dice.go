// Package dice implements the multi-class Dice evaluation used to score
// segmentation output. The arithmetic here intentionally mirrors the
// evaluation that runs against the FPGA deployment target, where the training
// framework's built-in metrics are unavailable: float-model and
// quantized-model scores are only comparable if both sides compute the same
// numbers.
package dice

import (
	"fmt"

	"github.com/carbocation/segeval/tensor"
)

// Class indices are fixed by the training pipeline and may not be reordered.
const (
	Background = iota
	Liver
	Bladder
	Lungs
	Kidneys
	Bones

	NumClasses = 6

	// NumOrgans excludes the background class.
	NumOrgans = NumClasses - 1
)

// Smooth is the Laplace smoothing term added to both numerator and
// denominator of every Dice ratio. It turns the 0/0 case (class absent from
// both masks) into 1/1, so "both absent" scores a perfect 1. That is the
// agreed convention, not an accident.
const Smooth = 1.0

// ClassNames indexes class ID to display name.
var ClassNames = [NumClasses]string{"Background", "Liver", "Bladder", "Lungs", "Kidneys", "Bones"}

// OrganName returns the display name for a 0-based organ index (0=Liver).
func OrganName(organ int) string {
	return ClassNames[organ+1]
}

// PreparePrediction converts a per-pixel class-probability tensor into a flat
// row-major class mask by taking the argmax over channels. Ties resolve to
// the lowest class index.
func PreparePrediction(pred *tensor.Dense) ([]uint8, error) {
	if pred.C != NumClasses {
		return nil, fmt.Errorf("prediction has %d channels, want %d", pred.C, NumClasses)
	}

	mask := make([]uint8, pred.Pixels())
	for i := range mask {
		best := pred.Data[i*pred.C]
		for c := 1; c < pred.C; c++ {
			if v := pred.Data[i*pred.C+c]; v > best {
				best = v
				mask[i] = uint8(c)
			}
		}
	}

	return mask, nil
}

// DiceSingle computes the smoothed Dice coefficient between two parallel
// binary masks: (2*intersection + 1) / (union + 1), where union is the sum of
// both mask areas. Two empty masks therefore score exactly 1.
func DiceSingle(pred, truth []uint8) (float64, error) {
	if len(pred) != len(truth) {
		return 0, fmt.Errorf("mask lengths differ: %d vs %d", len(pred), len(truth))
	}

	var intersection, union int64
	for i := range pred {
		intersection += int64(pred[i]) * int64(truth[i])
		union += int64(pred[i]) + int64(truth[i])
	}

	return (2*float64(intersection) + Smooth) / (float64(union) + Smooth), nil
}

// classMask extracts the binary mask for one class from a flat class mask.
func classMask(mask []uint8, class uint8) []uint8 {
	out := make([]uint8, len(mask))
	for i, v := range mask {
		if v == class {
			out[i] = 1
		}
	}
	return out
}

// channelMask extracts one channel of a one-hot tensor as a binary mask,
// along with that channel's pixel count.
func channelMask(oneHot *tensor.Dense, c int) ([]uint8, float64) {
	out := make([]uint8, oneHot.Pixels())
	var weight float64
	for i := range out {
		if oneHot.Data[i*oneHot.C+c] != 0 {
			out[i] = 1
			weight++
		}
	}
	return out, weight
}
