package segmask

import (
	"fmt"

	"github.com/tj/go-rle"
)

// EncodeMaskToRLE run-length-encodes a flat class mask, a compact form for
// archiving large mask sets alongside the raw prediction tensors.
func EncodeMaskToRLE(mask []uint8) []byte {
	pixelLabels := make([]int64, len(mask))
	for i, id := range mask {
		pixelLabels[i] = int64(id)
	}

	return rle.EncodeInt64(pixelLabels)
}

// DecodeMaskFromRLE reverses EncodeMaskToRLE. The expected pixel count is
// validated, since the RLE stream does not carry dimensions.
func DecodeMaskFromRLE(rleBytes []byte, pixels int) ([]uint8, error) {
	slc, err := rle.DecodeInt64(rleBytes)
	if err != nil {
		return nil, err
	}

	if len(slc) != pixels {
		return nil, fmt.Errorf("RLE stream decoded to %d pixels, want %d", len(slc), pixels)
	}

	mask := make([]uint8, len(slc))
	for i, id := range slc {
		if id < 0 || id > 255 {
			return nil, fmt.Errorf("RLE stream holds class ID %d, outside the 8-bit class domain", id)
		}

		mask[i] = uint8(id)
	}

	return mask, nil
}
