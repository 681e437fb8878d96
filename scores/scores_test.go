package scores

import (
	"math"
	"testing"

	"github.com/carbocation/segeval/dice"
	"github.com/carbocation/segeval/tensor"
)

const tolerance = 1e-9

func classTensor(classes []uint8, h, w int) *tensor.Dense {
	out := tensor.NewDense(h, w, dice.NumClasses)
	for i, class := range classes {
		out.Data[i*dice.NumClasses+int(class)] = 1
	}
	return out
}

func TestPerfectPrediction(t *testing.T) {
	truth := classTensor([]uint8{dice.Liver, dice.Liver, dice.Bladder, 0}, 2, 2)

	for class := dice.Liver; class < dice.NumClasses; class++ {
		if got := TverskyClass(truth, truth, class); math.Abs(got-1) > tolerance {
			t.Fatalf("tversky class %d: got %.12f, want 1", class, got)
		}
		if got := DiceClass(truth, truth, class); math.Abs(got-1) > tolerance {
			t.Fatalf("dice class %d: got %.12f, want 1", class, got)
		}
	}

	if got := TverskyIndex(truth, truth); math.Abs(got-1) > tolerance {
		t.Fatalf("tversky index: got %.12f, want 1", got)
	}
	if got := FocalTverskyLoss(truth, truth); math.Abs(got) > tolerance {
		t.Fatalf("focal tversky loss: got %.12f, want 0", got)
	}
	if got := WeightedDice(truth, truth); math.Abs(got-1) > tolerance {
		t.Fatalf("weighted dice: got %.12f, want 1", got)
	}
	if got := DiceLoss(truth, truth); math.Abs(got) > tolerance {
		t.Fatalf("dice loss: got %.12f, want 0", got)
	}
}

func TestDiceClassFixture(t *testing.T) {
	truth := classTensor([]uint8{dice.Liver, dice.Liver, 0, 0}, 2, 2)
	pred := classTensor([]uint8{dice.Liver, 0, 0, 0}, 2, 2)

	// Liver: intersection 1, areas 2+1, so (2*1+1)/(3+1)
	if got, want := DiceClass(truth, pred, dice.Liver), 0.75; math.Abs(got-want) > tolerance {
		t.Fatalf("liver dice: got %.12f, want %.12f", got, want)
	}
}

func TestTverskyAsymmetry(t *testing.T) {
	// Alpha above 0.5 penalizes a missed organ pixel (false negative)
	// harder than a spurious one (false positive)
	truthTwo := classTensor([]uint8{dice.Liver, dice.Liver}, 1, 2)
	truthOne := classTensor([]uint8{dice.Liver, 0}, 1, 2)
	predOne := classTensor([]uint8{dice.Liver, 0}, 1, 2)
	predTwo := classTensor([]uint8{dice.Liver, dice.Liver}, 1, 2)

	missed := TverskyClass(truthTwo, predOne, dice.Liver)
	spurious := TverskyClass(truthOne, predTwo, dice.Liver)

	if want := 2.0 / 2.7; math.Abs(missed-want) > tolerance {
		t.Fatalf("false negative case: got %.12f, want %.12f", missed, want)
	}
	if want := 2.0 / 2.3; math.Abs(spurious-want) > tolerance {
		t.Fatalf("false positive case: got %.12f, want %.12f", spurious, want)
	}
	if missed >= spurious {
		t.Fatalf("false negative (%.12f) should score below false positive (%.12f)", missed, spurious)
	}
}

func TestFocalTverskyLossFocusing(t *testing.T) {
	truth := classTensor([]uint8{dice.Liver, dice.Liver, dice.Liver, 0}, 2, 2)
	good := classTensor([]uint8{dice.Liver, dice.Liver, dice.Liver, 0}, 2, 2)
	bad := classTensor([]uint8{0, 0, 0, 0}, 2, 2)

	lossGood := FocalTverskyLoss(truth, good)
	lossBad := FocalTverskyLoss(truth, bad)

	if lossGood >= lossBad {
		t.Fatalf("loss did not increase with error: good %.12f, bad %.12f", lossGood, lossBad)
	}
	if lossBad <= 0 || lossBad > 1 {
		t.Fatalf("loss %.12f out of range", lossBad)
	}
}
