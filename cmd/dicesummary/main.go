// dicesummary is a convenience tool to summarize the per-slice TSV output of
// maskdice by organ, optionally across concatenated runs
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"
)

func main() {
	var input string
	var linePrefix string

	// Parse the command line arguments
	flag.StringVar(&input, "input", "", "The input file")
	flag.StringVar(&linePrefix, "line_prefix", "", "Column to add to each line. If empty, no column will be added.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Open the input file
	f, err := os.Open(input)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	// Parse the input file
	if err := parseDiceTSV(f, linePrefix); err != nil {
		log.Fatalln(err)
	}
}

type StatCollection struct {
	Dice, Weight []string
}

func newStatCollection(N int) StatCollection {
	return StatCollection{
		Dice:   make([]string, 0, N),
		Weight: make([]string, 0, N),
	}
}

func parseDiceTSV(f io.Reader, linePrefix string) error {
	// Treat the reader f as a csv.Reader
	csvReader := csv.NewReader(f)
	csvReader.Comma = '\t'
	entries, err := csvReader.ReadAll()
	if err != nil {
		return err
	}

	// If entries is not empty, then its first row is the header
	var header = make(map[string]int)
	if len(entries) > 0 {
		for i, col := range entries[0] {
			header[col] = i
		}
	} else {
		return fmt.Errorf("No entries in the input file")
	}

	labelValues := make(map[string]StatCollection)

	output := []string{
		"Label",
	}

	if linePrefix != "" {
		output = append(output, "LinePrefix")
	}

	output = append(output, []string{
		"Filter",
		"N_Entries",
		"Dice",
		"DiceSD",
		"Weight",
		"WeightSD",
	}...)
	fmt.Println(strings.Join(output, "\t"))

	for i, row := range entries {
		if i == 0 {
			continue
		}

		labelValueSlice, ok := labelValues[row[header["Label"]]]
		if !ok {
			labelValueSlice = newStatCollection(len(entries))
			labelValues[row[header["Label"]]] = labelValueSlice
		}

		labelValueSlice.Dice = append(labelValueSlice.Dice, row[header["Dice"]])
		labelValueSlice.Weight = append(labelValueSlice.Weight, row[header["Weight"]])
		labelValues[row[header["Label"]]] = labelValueSlice
	}

	if err := printValues(labelValues, "raw", linePrefix); err != nil {
		return err
	}

	filteredValues, err := filterToPresentOrgans(labelValues)
	if err != nil {
		return err
	}

	if err := printValues(filteredValues, "nonzero", linePrefix); err != nil {
		return err
	}

	return nil
}

// filterToPresentOrgans drops slices where the organ has no ground-truth
// pixels at all, since their smoothed Dice of 1 says nothing about the model.
func filterToPresentOrgans(labelValues map[string]StatCollection) (map[string]StatCollection, error) {
	v2 := make(map[string]StatCollection)
	for k, v0 := range labelValues {

		entry := newStatCollection(len(v0.Dice))

		for i := range v0.Dice {
			weight, err := strconv.ParseFloat(v0.Weight[i], 64)
			if err != nil {
				return nil, err
			}

			if weight == 0 {
				continue
			}

			entry.Dice = append(entry.Dice, v0.Dice[i])
			entry.Weight = append(entry.Weight, v0.Weight[i])
		}

		v2[k] = entry
	}

	return v2, nil
}

func printValues(labelValues map[string]StatCollection, filterType, linePrefix string) error {
	for label, values := range labelValues {
		output := []string{label}

		if linePrefix != "" {
			output = append(output, linePrefix)
		}

		output = append(output, []string{filterType, fmt.Sprintf("%d", len(values.Dice))}...)

		entryV := reflect.ValueOf(values)
		entryK := reflect.VisibleFields(reflect.TypeOf(values))
		for i := range entryK {
			data := stats.LoadRawData(entryV.Field(i).Interface())

			if data.Len() < 1 {
				output = append(output, []string{"N/A", "N/A"}...)
				continue
			}

			fl, err := data.Mean()
			if err != nil {
				return err
			}
			output = append(output, fmt.Sprintf("%.3f", fl))

			fl, err = data.StandardDeviation()
			if err != nil {
				return err
			}
			output = append(output, fmt.Sprintf("%.3f", fl))
		}
		fmt.Println(strings.Join(output, "\t"))
	}

	return nil
}
