// Package scores implements the metric and loss family the float model was
// trained with: per-class smoothed Dice metrics, the organ-weighted Tversky
// index, and the focal Tversky loss. Reloading a trained model elsewhere
// requires recomputing these exactly to confirm the weights survived the
// round trip.
package scores

import (
	"math"

	"github.com/carbocation/segeval/dice"
	"github.com/carbocation/segeval/tensor"
)

const (
	// Smooth matches the +1 Laplace smoothing used at training time.
	Smooth = 1.0

	// Alpha weights false negatives against false positives in the Tversky
	// index; above 0.5 it penalizes missed organ pixels harder.
	Alpha = 0.7

	// Gamma is the focusing exponent of the focal Tversky loss.
	Gamma = 4.0 / 3.0
)

// tverskyWeights are per-organ difficulty weights used by the training loss,
// indexed by class ID. Background is excluded.
var tverskyWeights = [dice.NumClasses]float64{
	dice.Background: 0,
	dice.Liver:      1.15,
	dice.Bladder:    1.95,
	dice.Lungs:      1,
	dice.Kidneys:    1.55,
	dice.Bones:      1,
}

// TverskyClass computes the smoothed Tversky index of one class channel:
// (TP + s) / (TP + a*FN + (1-a)*FP + s), with probabilities taken as-is
// (no thresholding), exactly as during training.
func TverskyClass(yTrue, yPred *tensor.Dense, class int) float64 {
	var truePos, falseNeg, falsePos float64

	for i := class; i < len(yTrue.Data); i += yTrue.C {
		t := float64(yTrue.Data[i])
		p := float64(yPred.Data[i])

		truePos += t * p
		falseNeg += t * (1 - p)
		falsePos += (1 - t) * p
	}

	return (truePos + Smooth) / (truePos + Alpha*falseNeg + (1-Alpha)*falsePos + Smooth)
}

// TverskyIndex is the difficulty-weighted average of the five organ Tversky
// indices.
func TverskyIndex(yTrue, yPred *tensor.Dense) float64 {
	var sum, weightSum float64
	for class := dice.Liver; class < dice.NumClasses; class++ {
		w := tverskyWeights[class]
		sum += w * TverskyClass(yTrue, yPred, class)
		weightSum += w
	}

	return sum / weightSum
}

// FocalTverskyLoss is the training loss: (1 - TverskyIndex)^Gamma.
func FocalTverskyLoss(yTrue, yPred *tensor.Dense) float64 {
	return math.Pow(1-TverskyIndex(yTrue, yPred), Gamma)
}
