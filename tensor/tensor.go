// Package tensor provides a minimal dense (height, width, channel) float32
// tensor, used to carry class-probability maps from the inference step into
// the evaluation tools.
package tensor

import "fmt"

// Dense is a row-major, channel-minor (H, W, C) float32 tensor. The value at
// (x, y, c) lives at Data[(y*W+x)*C+c].
type Dense struct {
	H, W, C int
	Data    []float32
}

// NewDense allocates a zeroed tensor with the given dimensions.
func NewDense(h, w, c int) *Dense {
	return &Dense{
		H:    h,
		W:    w,
		C:    c,
		Data: make([]float32, h*w*c),
	}
}

// At returns the value at column x, row y, channel c.
func (d *Dense) At(x, y, c int) float32 {
	return d.Data[(y*d.W+x)*d.C+c]
}

// Set assigns the value at column x, row y, channel c.
func (d *Dense) Set(x, y, c int, v float32) {
	d.Data[(y*d.W+x)*d.C+c] = v
}

// Pixels is the number of spatial positions (H*W), irrespective of channels.
func (d *Dense) Pixels() int {
	return d.H * d.W
}

// SameShape reports whether two tensors have identical dimensions.
func (d *Dense) SameShape(other *Dense) bool {
	return d.H == other.H && d.W == other.W && d.C == other.C
}

// ChannelSum sums one channel over the full spatial extent.
func (d *Dense) ChannelSum(c int) float64 {
	var sum float64
	for i := c; i < len(d.Data); i += d.C {
		sum += float64(d.Data[i])
	}
	return sum
}

func (d *Dense) checkLen() error {
	if want := d.H * d.W * d.C; len(d.Data) != want {
		return fmt.Errorf("tensor data holds %d values but dimensions (%d, %d, %d) require %d", len(d.Data), d.H, d.W, d.C, want)
	}
	return nil
}
