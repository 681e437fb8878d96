package segmask

import (
	"testing"

	"github.com/carbocation/segeval/dice"
)

func TestOrgansLabelMap(t *testing.T) {
	labels := Organs()

	if !labels.Valid() {
		t.Fatal("fixed organ label map should be bijective")
	}
	if got := labels.NumClasses(); got != dice.NumClasses {
		t.Fatalf("got %d classes, want %d", got, dice.NumClasses)
	}

	sorted := labels.Sorted()
	for i, label := range sorted {
		if int(label.ID) != i {
			t.Fatalf("sorted position %d holds class ID %d", i, label.ID)
		}
	}
	if sorted[0].Label != "Background" {
		t.Fatalf("first sorted label: got %s, want Background", sorted[0].Label)
	}
}

func TestLabelMapRejectsDuplicateIDs(t *testing.T) {
	labels := LabelMap{
		"A": {ID: 1, Color: "#ff0000"},
		"B": {ID: 1, Color: "#00ff00"},
	}

	if labels.Valid() {
		t.Fatal("duplicate class IDs should be invalid")
	}
}

func TestEncodeDecodeMaskRoundtrip(t *testing.T) {
	mask := []uint8{0, 1, 2, 3, 4, 5}

	img, err := EncodeMask(mask, 3, 2)
	if err != nil {
		t.Fatal(err)
	}

	got, w, h, err := Organs().DecodeMask(img)
	if err != nil {
		t.Fatal(err)
	}
	if w != 3 || h != 2 {
		t.Fatalf("got dimensions (%d, %d), want (3, 2)", w, h)
	}

	for i := range mask {
		if got[i] != mask[i] {
			t.Fatalf("pixel %d: got class %d, want %d", i, got[i], mask[i])
		}
	}
}

func TestDecodeMaskRejectsUnknownClass(t *testing.T) {
	img, err := EncodeMask([]uint8{0, 9}, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, _, err := Organs().DecodeMask(img); err == nil {
		t.Fatal("expected an error for a class ID outside the label map")
	}
}

func TestExplodeCollapseRoundtrip(t *testing.T) {
	mask := []uint8{0, 1, 5, 3}

	oneHot, err := Explode(mask, 2, 2, dice.NumClasses)
	if err != nil {
		t.Fatal(err)
	}

	// One-hot: exactly one active channel per pixel, at the mask's class
	for i, class := range mask {
		var active int
		for c := 0; c < dice.NumClasses; c++ {
			if oneHot.Data[i*dice.NumClasses+c] != 0 {
				active++
				if c != int(class) {
					t.Fatalf("pixel %d: channel %d active, want %d", i, c, class)
				}
			}
		}
		if active != 1 {
			t.Fatalf("pixel %d: %d active channels", i, active)
		}
	}

	got, err := Collapse(oneHot)
	if err != nil {
		t.Fatal(err)
	}
	for i := range mask {
		if got[i] != mask[i] {
			t.Fatalf("pixel %d: got class %d, want %d", i, got[i], mask[i])
		}
	}
}

func TestExplodeRejectsOutOfRangeClass(t *testing.T) {
	if _, err := Explode([]uint8{0, 6}, 2, 1, dice.NumClasses); err == nil {
		t.Fatal("expected an error for a class ID beyond the channel count")
	}
}

func TestRLERoundtrip(t *testing.T) {
	mask := []uint8{0, 0, 0, 1, 1, 2, 5, 5, 5, 5, 0}

	got, err := DecodeMaskFromRLE(EncodeMaskToRLE(mask), len(mask))
	if err != nil {
		t.Fatal(err)
	}

	for i := range mask {
		if got[i] != mask[i] {
			t.Fatalf("pixel %d: got class %d, want %d", i, got[i], mask[i])
		}
	}
}

func TestRLEWrongPixelCount(t *testing.T) {
	if _, err := DecodeMaskFromRLE(EncodeMaskToRLE([]uint8{1, 2, 3}), 4); err == nil {
		t.Fatal("expected an error for a pixel count mismatch")
	}
}

func TestResizeMaskImagePreservesClasses(t *testing.T) {
	img, err := EncodeMask([]uint8{1, 1, 3, 3}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	resized := ResizeMaskImage(img, 4, 4)
	if b := resized.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("got bounds %v, want 4x4", b)
	}

	// Nearest neighbor may only ever produce IDs present in the input
	mask, _, _, err := Organs().DecodeMask(resized)
	if err != nil {
		t.Fatal(err)
	}
	for i, id := range mask {
		if id != 1 && id != 3 {
			t.Fatalf("pixel %d: unexpected class %d after resize", i, id)
		}
	}
}
