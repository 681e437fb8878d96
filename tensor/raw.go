package tensor

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/carbocation/pfx"
)

// ReadRaw decodes a tensor from little-endian raw float32 bytes, the layout
// emitted by the inference pipeline (and consumed unchanged by the FPGA
// runtime). The dimensions are not stored in the stream and must be supplied.
func ReadRaw(r io.Reader, h, w, c int) (*Dense, error) {
	out := NewDense(h, w, c)

	if err := binary.Read(r, binary.LittleEndian, out.Data); err != nil {
		return nil, pfx.Err(fmt.Errorf("reading (%d, %d, %d) raw tensor: %w", h, w, c, err))
	}

	// A correctly sized stream is fully consumed at this point
	var extra [1]byte
	if n, _ := r.Read(extra[:]); n != 0 {
		return nil, fmt.Errorf("raw tensor stream holds more than the %d values implied by dimensions (%d, %d, %d)", h*w*c, h, w, c)
	}

	return out, nil
}

// ReadRawFile is ReadRaw against a local file.
func ReadRawFile(path string, h, w, c int) (*Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return ReadRaw(bufio.NewReader(f), h, w, c)
}

// WriteRaw encodes the tensor as little-endian raw float32 bytes.
func (d *Dense) WriteRaw(w io.Writer) error {
	if err := d.checkLen(); err != nil {
		return err
	}

	return binary.Write(w, binary.LittleEndian, d.Data)
}

// WriteRawFile writes the tensor to a local file via WriteRaw.
func (d *Dense) WriteRawFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}

	bw := bufio.NewWriter(f)
	if err := d.WriteRaw(bw); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return pfx.Err(err)
	}

	return f.Close()
}
