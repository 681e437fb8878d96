// maskdice scores argmax-decoded segmentation predictions against ID-encoded
// ground-truth masks and prints the weighted multi-class Dice report. The
// metrics match the FPGA-side evaluation convention, so float-model and
// quantized-model runs are directly comparable.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/carbocation/segeval/dice"
	"github.com/carbocation/segeval/segmask"
	"github.com/carbocation/segeval/tensor"
)

func init() {
	flag.Usage = func() {
		flag.PrintDefaults()

		log.Println("Example JSONConfig file layout:")
		bts, err := json.MarshalIndent(segmask.JSONConfig{Labels: segmask.Organs(), MaskSuffix: ".mask.png", PredSuffix: ".f32", ImageSize: 256}, "", "  ")
		if err == nil {
			log.Println(string(bts))
		}
	}
}

// Safe for concurrent use by multiple goroutines
var client *storage.Client

func main() {
	start := time.Now()
	log.Println("maskdice start")
	defer func() {
		log.Printf("maskdice end. Took %.2f seconds\n", time.Since(start).Seconds())
	}()

	var jsonConfig, predPath, maskPath, manifest, tsvOut string
	var imgSize int

	flag.StringVar(&jsonConfig, "config", "", "JSONConfig file describing the dataset layout and label map")
	flag.StringVar(&predPath, "pred", "", "(Optional) Path to folder with raw float32 prediction tensors. Overrides the config's pred_path.")
	flag.StringVar(&maskPath, "truth", "", "(Optional) Path to folder with ID-encoded ground-truth mask images. Overrides the config's mask_path.")
	flag.StringVar(&manifest, "manifest", "", "(Optional) Path to manifest. If provided, will only look at slices in the manifest rather than listing the entire prediction folder's contents.")
	flag.IntVar(&imgSize, "imgsize", 0, "(Optional) Model input dimension (square). Overrides the config's image_size.")
	flag.StringVar(&tsvOut, "tsv", "", "(Optional) Path for a per-slice, per-organ TSV of Dice scores and truth pixel weights.")
	flag.Parse()

	if jsonConfig == "" {
		flag.Usage()
		os.Exit(1)
	}

	config, err := segmask.ParseJSONConfigFromPath(jsonConfig)
	if err != nil {
		flag.Usage()
		os.Exit(1)
	}

	if predPath != "" {
		config.PredPath = predPath
	}
	if maskPath != "" {
		config.MaskPath = maskPath
	}
	if manifest != "" {
		config.ManifestPath = manifest
	}
	if imgSize != 0 {
		config.ImageSize = imgSize
	}

	if config.PredPath == "" || config.MaskPath == "" || config.ImageSize == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if config.PredSuffix == "" {
		config.PredSuffix = ".f32"
	}
	if config.MaskSuffix == "" {
		config.MaskSuffix = ".mask.png"
	}
	if !config.Labels.Valid() {
		log.Fatalln("label map is not bijective:", config.Labels)
	}

	// Initialize the Google Storage client only if we're pointing to Google
	// Storage paths.
	if strings.HasPrefix(config.PredPath, "gs://") || strings.HasPrefix(config.MaskPath, "gs://") {
		var err error
		client, err = storage.NewClient(context.Background())
		if err != nil {
			log.Fatalln(err)
		}
	}

	if err := run(config, tsvOut); err != nil {
		log.Fatalln(err)
	}
}

func run(config segmask.JSONConfig, tsvOut string) error {

	slices, err := sliceList(config)
	if err != nil {
		return err
	}
	log.Println("Evaluating", len(slices), "slices")

	var tsv *bufio.Writer
	if tsvOut != "" {
		f, err := os.Create(tsvOut)
		if err != nil {
			return err
		}
		defer f.Close()

		tsv = bufio.NewWriter(f)
		defer tsv.Flush()

		fmt.Fprintln(tsv, strings.Join([]string{"slice", "LabelID", "Label", "Dice", "Weight"}, "\t"))
	}

	// Evaluation is strictly sequential: the accumulator is folded in slice
	// order, and partial results feed the running organ pixel weights.
	acc := dice.NewAccumulator()

	for i, slice := range slices {
		res, err := processOneSlice(config, slice, acc)
		if err != nil {
			return fmt.Errorf("%s: %w", slice, err)
		}

		if tsv != nil {
			for organ := 0; organ < dice.NumOrgans; organ++ {
				fmt.Fprintf(tsv, "%s\t%d\t%s\t%g\t%g\n", slice, organ+1, dice.OrganName(organ), res.Dice[organ], res.Weight[organ])
			}
		}

		if (i+1)%1000 == 0 {
			log.Printf("Processed %d slices\n", i+1)
		}
	}

	report, err := acc.Summarize()
	if err != nil {
		return err
	}
	report.Write(os.Stdout)

	return nil
}

func processOneSlice(config segmask.JSONConfig, slice string, acc *dice.Accumulator) (dice.SliceResult, error) {
	var out dice.SliceResult

	predFile, err := segmask.MaybeOpenFromGoogleStorage(config.PredPath+"/"+slice+config.PredSuffix, client)
	if err != nil {
		return out, err
	}
	defer predFile.Close()

	pred, err := tensor.ReadRaw(bufio.NewReader(predFile), config.ImageSize, config.ImageSize, dice.NumClasses)
	if err != nil {
		return out, err
	}

	maskImg, err := segmask.OpenImageFromLocalFileOrGoogleStorage(config.MaskPath+"/"+slice+config.MaskSuffix, client)
	if err != nil {
		return out, err
	}
	maskImg = segmask.ResizeMaskImage(maskImg, config.ImageSize, config.ImageSize)

	mask, w, h, err := config.Labels.DecodeMask(maskImg)
	if err != nil {
		return out, err
	}

	oneHot, err := segmask.Explode(mask, w, h, dice.NumClasses)
	if err != nil {
		return out, err
	}

	return acc.Add(pred, oneHot)
}

// sliceList returns the slice names to evaluate, either from the manifest or
// by listing the prediction folder.
func sliceList(config segmask.JSONConfig) ([]string, error) {
	if config.ManifestPath != "" {
		return manifestSlices(config.ManifestPath)
	}

	files, err := scanFolder(config.PredPath)
	if err != nil {
		return nil, err
	}

	slices := make([]string, 0, len(files))
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), config.PredSuffix) {
			continue
		}

		slices = append(slices, strings.TrimSuffix(file.Name(), config.PredSuffix))
	}

	// Folder listings come back unordered
	sort.Strings(slices)

	return slices, nil
}
