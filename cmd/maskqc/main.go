// maskqc tallies per-organ pixel areas over a folder of ID-encoded masks and
// flags slices whose organ area is an outlier, catching mislabeled or
// corrupted ground truth before it contaminates an evaluation run.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/carbocation/runningvariance"
	"github.com/carbocation/segeval/dice"
	"github.com/carbocation/segeval/segmask"
)

const LogEverySlices = 1000

// Stat streams mean/variance plus min/max over slice foreground areas.
type Stat struct {
	runningvariance.RunningStat
	Min float64
	Max float64
}

func NewStat() *Stat {
	return &Stat{
		*runningvariance.NewRunningStat(),
		math.MaxFloat64,
		math.SmallestNonzeroFloat64,
	}
}

func (s *Stat) Push(x float64) {
	s.RunningStat.Push(x)
	if x > s.Max {
		s.Max = x
	}
	if x < s.Min {
		s.Min = x
	}

	if s.N%LogEverySlices == 0 {
		log.Println("Slice #", s.N, ". Foreground min/max:", s.Min, s.Max, "Running mean:", s.Mean(), "Std:", s.StandardDeviation())
	}
}

type entry struct {
	Counts [dice.NumOrgans]float64
	BadWhy []string
}

func main() {
	start := time.Now()
	log.Println("maskqc start")
	defer func() {
		log.Printf("maskqc end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var maskPath, jsonConfig, suffix string
	var nStandardDeviations float64

	flag.StringVar(&maskPath, "masks", "", "Path to folder with ID-encoded mask images")
	flag.StringVar(&jsonConfig, "config", "", "(Optional) JSONConfig file with the label map. Defaults to the fixed organ classes.")
	flag.StringVar(&suffix, "suffix", ".mask.png", "(Optional) Mask filename suffix.")
	flag.Float64Var(&nStandardDeviations, "sd", 5.0, "(Optional) Number of standard deviations beyond which an organ area is flagged.")
	flag.Parse()

	if maskPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	labels := segmask.Organs()
	if jsonConfig != "" {
		config, err := segmask.ParseJSONConfigFromPath(jsonConfig)
		if err != nil {
			log.Fatalln(err)
		}
		labels = config.Labels
	}

	if err := run(maskPath, suffix, labels, nStandardDeviations); err != nil {
		log.Fatalln(err)
	}
}

func run(maskPath, suffix string, labels segmask.LabelMap, nStandardDeviations float64) error {

	files, err := scanFolder(maskPath)
	if err != nil {
		return err
	}

	foreground := NewStat()
	entries := make(map[string]entry)

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), suffix) {
			continue
		}

		slice := strings.TrimSuffix(file.Name(), suffix)

		e, err := tallyOneMask(maskPath+"/"+file.Name(), labels)
		if err != nil {
			return fmt.Errorf("%s: %w", slice, err)
		}
		entries[slice] = e

		var total float64
		for _, v := range e.Counts {
			total += v
		}
		foreground.Push(total)
	}

	flagZeroes(entries)
	log.Println("Flagged slices with 0 foreground pixels")

	flagAreaOutliers(entries, nStandardDeviations)
	log.Println("Flagged slices beyond", nStandardDeviations, "standard deviations above or below the mean organ area")

	printEntries(entries, labels)

	// Number of slices with each flag:
	flagCounts := make(map[string]int)
	flagged := 0
	for _, e := range entries {
		if len(e.BadWhy) > 0 {
			flagged++
		}
		for _, bad := range e.BadWhy {
			flagCounts[bad]++
		}
	}

	log.Println(flagged, "slices out of", len(entries), "have been flagged as potentially having invalid data")
	log.Printf("Number of slices with each flag: %+v\n", flagCounts)

	return nil
}

func tallyOneMask(filePath string, labels segmask.LabelMap) (entry, error) {
	var out entry

	img, err := segmask.OpenImageFromLocalFile(filePath)
	if err != nil {
		return out, err
	}

	mask, _, _, err := labels.DecodeMask(img)
	if err != nil {
		return out, err
	}

	for _, id := range mask {
		if id == dice.Background {
			continue
		}
		if int(id) > dice.NumOrgans {
			return out, fmt.Errorf("class ID %d is beyond the %d organ classes", id, dice.NumOrgans)
		}
		out.Counts[int(id)-1]++
	}

	return out, nil
}

func flagZeroes(entries map[string]entry) {
	for k, e := range entries {
		var total float64
		for _, v := range e.Counts {
			total += v
		}

		if total == 0 {
			e.BadWhy = append(e.BadWhy, "NoForeground")
			entries[k] = e
		}
	}
}
