package dice

import (
	"fmt"

	"github.com/carbocation/segeval/tensor"
)

// SliceResult carries the evaluation of a single slice.
type SliceResult struct {
	// WeightedDice is the truth-pixel-count-weighted average of the five
	// organ Dice scores, smoothed by +1 in numerator and denominator.
	WeightedDice float64

	// Dice, Weight, and Contrib are indexed by 0-based organ (0=Liver).
	// Contrib[i] is Dice[i]*Weight[i], the term this slice adds to the
	// dataset-wide weighted organ statistics.
	Dice    [NumOrgans]float64
	Weight  [NumOrgans]float64
	Contrib [NumOrgans]float64
}

// Accumulator collects per-slice results across one evaluation run. It
// replaces what used to be process-global counters: create one per run, and
// cross-run contamination is impossible.
type Accumulator struct {
	// SliceScores holds each slice's WeightedDice, in evaluation order.
	SliceScores []float64

	// Contribs holds each organ's weighted Dice contributions, one entry
	// per slice; Weights holds each organ's running truth-pixel total.
	Contribs [NumOrgans][]float64
	Weights  [NumOrgans]float64
}

// NewAccumulator returns an empty accumulator for one evaluation run.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// SliceDice scores one decoded class mask against its one-hot ground truth
// and folds the result into the accumulator.
func (a *Accumulator) SliceDice(mask []uint8, oneHot *tensor.Dense) (SliceResult, error) {
	var out SliceResult

	if oneHot.C != NumClasses {
		return out, fmt.Errorf("ground truth has %d channels, want %d", oneHot.C, NumClasses)
	}
	if oneHot.Pixels() != len(mask) {
		return out, fmt.Errorf("class mask has %d pixels but ground truth has %d", len(mask), oneHot.Pixels())
	}

	var weightedSum, weightSum float64
	for organ := 0; organ < NumOrgans; organ++ {
		class := uint8(organ + 1)

		truth, weight := channelMask(oneHot, int(class))
		d, err := DiceSingle(classMask(mask, class), truth)
		if err != nil {
			return out, err
		}

		out.Dice[organ] = d
		out.Weight[organ] = weight
		out.Contrib[organ] = d * weight

		weightedSum += d * weight
		weightSum += weight
	}

	out.WeightedDice = (weightedSum + Smooth) / (weightSum + Smooth)

	for organ := 0; organ < NumOrgans; organ++ {
		a.Weights[organ] += out.Weight[organ]
		a.Contribs[organ] = append(a.Contribs[organ], out.Contrib[organ])
	}
	a.SliceScores = append(a.SliceScores, out.WeightedDice)

	return out, nil
}

// Add argmax-decodes a prediction tensor and scores it against its one-hot
// ground truth.
func (a *Accumulator) Add(pred, oneHot *tensor.Dense) (SliceResult, error) {
	mask, err := PreparePrediction(pred)
	if err != nil {
		return SliceResult{}, err
	}

	return a.SliceDice(mask, oneHot)
}

// EvaluateAll scores parallel prediction and ground-truth sequences. A length
// mismatch is a fatal precondition violation and fails before any slice is
// evaluated.
func EvaluateAll(preds, truths []*tensor.Dense) (*Accumulator, error) {
	if len(preds) != len(truths) {
		return nil, fmt.Errorf("got %d predictions but %d ground truths", len(preds), len(truths))
	}

	acc := NewAccumulator()
	for i := range preds {
		if _, err := acc.Add(preds[i], truths[i]); err != nil {
			return nil, fmt.Errorf("slice %d: %w", i, err)
		}
	}

	return acc, nil
}
