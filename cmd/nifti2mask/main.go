// nifti2mask converts a NIfTI label volume into per-slice ID-encoded PNG
// masks, the ground-truth format consumed by maskdice and maskqc.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image/png"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/carbocation/segeval/segmask"
	"github.com/henghuang/nifti"
)

func main() {
	var filename, output, jsonConfig string

	flag.StringVar(&filename, "file", "", "Name of .nii or .nii.gz label volume to convert to mask PNGs.")
	flag.StringVar(&output, "out", "", "Name of folder where the masks will be emitted. Filenames will be {orig_filename}.z{z depth}_t{time}.mask.png.")
	flag.StringVar(&jsonConfig, "config", "", "(Optional) JSONConfig file with the label map. Defaults to the fixed organ classes.")
	flag.Parse()

	if filename == "" || output == "" {
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

	prefix := filepath.Base(filename)
	prefix = strings.TrimSuffix(prefix, ".nii.gz")
	prefix = strings.TrimSuffix(prefix, ".nii")

	if stat, err := os.Stat(output); err == nil && stat.IsDir() {
		// path is a directory already
	} else {
		os.MkdirAll(output, os.ModePerm)
	}

	var niftiImage nifti.Nifti1Image
	niftiImage.LoadImage(filename, true)

	var niftiHeader nifti.Nifti1Header
	niftiHeader.LoadHeader(filename)

	if err := nifti2mask(niftiImage, niftiHeader, labels, prefix, output); err != nil {
		log.Fatalln(err)
	}
}

func nifti2mask(input nifti.Nifti1Image, niftiHeader nifti.Nifti1Header, labels segmask.LabelMap, prefix, output string) error {
	dims := input.GetDims()
	xm, ym, zm, tm := dims[0], dims[1], dims[2], dims[3]

	known := make(map[uint8]bool)
	for _, v := range labels {
		known[uint8(v.ID)] = true
	}

	mask := make([]uint8, xm*ym)

	// March forward in time
	for t := 0; t < tm; t++ {
		// And down the stack
		for z := 0; z < zm; z++ {
			for y := 0; y < ym; y++ {
				for x := 0; x < xm; x++ {
					voxel := float64(input.GetAt(x, y, z, t))
					id := uint8(math.Round(voxel))

					if float64(id) != voxel || !known[id] {
						return fmt.Errorf("voxel (%d, %d, %d, %d) holds %g, which is not a class ID in the label map", x, y, z, t, voxel)
					}

					mask[y*xm+x] = id
				}
			}

			img, err := segmask.EncodeMask(mask, xm, ym)
			if err != nil {
				return err
			}

			f, err := os.Create(filepath.Join(output, fmt.Sprintf("%s.z%06d_t%06d.mask.png", prefix, z, t)))
			if err != nil {
				return err
			}
			fw := bufio.NewWriter(f)

			if err := png.Encode(fw, img); err != nil {
				f.Close()
				return err
			}
			// Emit metadata about each mask
			fmt.Printf("%s\t%d\t%d\t%g\t%g\t%g\n", fmt.Sprintf("%s.z%06d_t%06d", prefix, z, t), z, t, niftiHeader.Pixdim[1], niftiHeader.Pixdim[2], niftiHeader.Pixdim[3])

			fw.Flush()
			f.Close()
		}
	}

	return nil
}
