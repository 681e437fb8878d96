// Package segmask handles ID-encoded segmentation mask images: label
// bookkeeping, mask decode/encode, one-hot explosion, RLE, and resizing to
// the model input size.
package segmask

import (
	"sort"

	"github.com/carbocation/segeval/dice"
)

// A Label ties a segmentation class ID (used for deep learning) to a
// human-identifiable name and a human-interpretable color (RGB hex, e.g.,
// #FF0000 for red).
type Label struct {
	Label     string
	ID        uint   `json:"id"`
	Color     string `json:"color"`
	SortOrder int    `json:"sort_order,omitempty"`
}

// LabelMap ([string label name]Label) keeps track of the relationship between
// human-visible colors and segmentation class IDs.
type LabelMap map[string]Label

// Organs is the fixed class assignment the models are trained against.
func Organs() LabelMap {
	return LabelMap{
		"Background": {ID: dice.Background, Color: "#000000"},
		"Liver":      {ID: dice.Liver, Color: "#ff0000"},
		"Bladder":    {ID: dice.Bladder, Color: "#ffff00"},
		"Lungs":      {ID: dice.Lungs, Color: "#0000ff"},
		"Kidneys":    {ID: dice.Kidneys, Color: "#00ff00"},
		"Bones":      {ID: dice.Bones, Color: "#ffffff"},
	}
}

// Valid ensures that the LabelMap is bijective: no two names may share a
// class ID.
func (l LabelMap) Valid() bool {
	inverse := make(map[uint]string)
	for k, v := range l {
		inverse[v.ID] = k
	}

	return len(l) == len(inverse)
}

// NumClasses is one more than the largest class ID in the map.
func (l LabelMap) NumClasses() int {
	max := -1
	for _, v := range l {
		if int(v.ID) > max {
			max = int(v.ID)
		}
	}

	return max + 1
}

// Sorted returns the labels ordered by SortOrder, then by ID.
func (l LabelMap) Sorted() []Label {
	out := make([]Label, 0, len(l))

	for k, v := range l {
		v.Label = k
		out = append(out, v)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}

		return out[i].ID < out[j].ID
	})

	return out
}
