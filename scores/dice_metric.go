package scores

import (
	"github.com/carbocation/segeval/dice"
	"github.com/carbocation/segeval/tensor"
)

// diceWeights are per-organ pixel-frequency weights, indexed by class ID.
// They were extracted by counting how many pixels of each organ were present
// in the training dataset, and must not be regenerated: the trained model's
// metric history was recorded against these exact values.
var diceWeights = [dice.NumClasses]float64{
	dice.Background: 0,
	dice.Liver:      0.23212333520332026,
	dice.Bladder:    0.04549370195613813,
	dice.Lungs:      0.37348887454707363,
	dice.Kidneys:    0.05246318852416101,
	dice.Bones:      0.2964308997693069,
}

// DiceClass computes the smoothed soft Dice of one class channel:
// (2*intersection + s) / (sum of areas + s), with probabilities taken as-is.
func DiceClass(yTrue, yPred *tensor.Dense, class int) float64 {
	var intersection, union float64

	for i := class; i < len(yTrue.Data); i += yTrue.C {
		t := float64(yTrue.Data[i])
		p := float64(yPred.Data[i])

		intersection += t * p
		union += t + p
	}

	return (2*intersection + Smooth) / (union + Smooth)
}

// WeightedDice is the pixel-frequency-weighted average of the five organ
// Dice metrics, the headline metric reported during training.
func WeightedDice(yTrue, yPred *tensor.Dense) float64 {
	var sum, weightSum float64
	for class := dice.Liver; class < dice.NumClasses; class++ {
		w := diceWeights[class]
		sum += w * DiceClass(yTrue, yPred, class)
		weightSum += w
	}

	return sum / weightSum
}

// DiceLoss is 1 - WeightedDice.
func DiceLoss(yTrue, yPred *tensor.Dense) float64 {
	return 1 - WeightedDice(yTrue, yPred)
}
