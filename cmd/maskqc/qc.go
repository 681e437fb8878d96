package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/carbocation/segeval/dice"
	"github.com/carbocation/segeval/segmask"
	"github.com/gonum/stat"
)

// flagAreaOutliers flags slices whose organ area is beyond
// nStandardDeviations above or below the dataset mean for that organ. Slices
// where the organ is absent are excluded from the distribution: most organs
// appear in only a fraction of an axial stack, and a zero-inflated mean
// would flag every slice where the organ is actually present.
func flagAreaOutliers(entries map[string]entry, nStandardDeviations float64) {
	for organ := 0; organ < dice.NumOrgans; organ++ {

		value := make([]float64, 0, len(entries))

		// Pass 1: populate the slice
		for _, e := range entries {
			if e.Counts[organ] > 0 {
				value = append(value, e.Counts[organ])
			}
		}

		if len(value) < 2 {
			continue
		}

		m, s := stat.MeanStdDev(value, nil)

		// Pass 2: flag entries that exceed the bounds:
		for k, e := range entries {
			if e.Counts[organ] == 0 {
				continue
			}

			if e.Counts[organ] < m-nStandardDeviations*s || e.Counts[organ] > m+nStandardDeviations*s {
				e.BadWhy = append(e.BadWhy, "AreaOutlier"+dice.OrganName(organ))
				entries[k] = e
			}
		}
	}
}

func printEntries(entries map[string]entry, labels segmask.LabelMap) {
	header := []string{"slice"}
	for _, v := range labels.Sorted() {
		if v.ID == dice.Background {
			continue
		}
		header = append(header, fmt.Sprintf("ID%d_%s", v.ID, strings.ReplaceAll(v.Label, " ", "_")))
	}
	header = append(header, "flags")
	fmt.Println(strings.Join(header, "\t"))

	slices := make([]string, 0, len(entries))
	for k := range entries {
		slices = append(slices, k)
	}
	sort.Strings(slices)

	for _, slice := range slices {
		e := entries[slice]

		row := []string{slice}
		for organ := 0; organ < dice.NumOrgans; organ++ {
			row = append(row, strconv.FormatFloat(e.Counts[organ], 'f', 0, 64))
		}
		row = append(row, strings.Join(e.BadWhy, ","))

		fmt.Println(strings.Join(row, "\t"))
	}
}

// Via https://flaviocopes.com/go-list-files/
func scanFolder(dirname string) ([]os.FileInfo, error) {

	f, err := os.Open(dirname)
	if err != nil {
		return nil, err
	}

	files, err := f.Readdir(-1)
	f.Close()
	if err != nil {
		return nil, err
	}

	return files, nil
}
