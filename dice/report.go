package dice

import (
	"fmt"
	"io"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

const divider = "------------------------------"

// OrganStat is the normalized dataset-wide statistic for one organ: the sum
// of its weighted Dice contributions and the population standard deviation of
// those contributions, both divided by the organ's accumulated pixel weight.
type OrganStat struct {
	Mean float64
	Std  float64
}

// Report holds the aggregate statistics of one evaluation run, as fractions
// in [0,1] (rendered as percentages by Write).
//
// Standard deviations follow the deployment evaluation's convention
// throughout: the population form (divide by N), matching numpy's default.
// OrganWeightedStd is the sum of the per-organ population standard deviations
// of the weighted contributions divided by the total accumulated pixel
// weight. That is not a textbook pooled weighted standard deviation, but it
// is the formula all published float-vs-quantized comparisons were produced
// with, so it is preserved bit for bit.
type Report struct {
	Slices int

	SliceMean float64
	SliceStd  float64

	OrganWeightedMean float64
	OrganWeightedStd  float64

	Organs [NumOrgans]OrganStat
}

// Summarize reduces the accumulated per-slice results to a Report. An organ
// that never appears in the ground truth yields NaN or Inf in its statistics;
// that is a data problem and is deliberately left visible rather than masked.
func (a *Accumulator) Summarize() (Report, error) {
	out := Report{Slices: len(a.SliceScores)}

	var err error
	if out.SliceMean, err = stats.Mean(a.SliceScores); err != nil {
		return out, fmt.Errorf("summarizing slice scores: %w", err)
	}
	if out.SliceStd, err = stats.StandardDeviation(a.SliceScores); err != nil {
		return out, fmt.Errorf("summarizing slice scores: %w", err)
	}

	totalWeight := floats.Sum(a.Weights[:])

	var contribSum, contribStdSum float64
	for organ := 0; organ < NumOrgans; organ++ {
		sum := floats.Sum(a.Contribs[organ])

		sd, err := stats.StandardDeviation(a.Contribs[organ])
		if err != nil {
			return out, fmt.Errorf("summarizing %s contributions: %w", OrganName(organ), err)
		}

		contribSum += sum
		contribStdSum += sd

		out.Organs[organ] = OrganStat{
			Mean: sum / a.Weights[organ],
			Std:  sd / a.Weights[organ],
		}
	}

	out.OrganWeightedMean = contribSum / totalWeight
	out.OrganWeightedStd = contribStdSum / totalWeight

	return out, nil
}

// Write renders the report in the fixed format expected by downstream
// tooling; values are percentages with two decimals.
func (r Report) Write(w io.Writer) {
	fmt.Fprintln(w, divider)
	fmt.Fprintln(w, "Global Dice:")
	fmt.Fprintf(w, "Mean on slices: %.2f +- %.2f\n", r.SliceMean*100, r.SliceStd*100)
	fmt.Fprintf(w, "Weighted Mean on organs: %.2f +- %.2f\n", r.OrganWeightedMean*100, r.OrganWeightedStd*100)
	fmt.Fprintln(w, divider)

	fmt.Fprintln(w, "Organs Dices:")
	for organ := 0; organ < NumOrgans; organ++ {
		fmt.Fprintf(w, "%s: %.2f +- %.2f\n", OrganName(organ), r.Organs[organ].Mean*100, r.Organs[organ].Std*100)
	}
	fmt.Fprintln(w, divider)
}
