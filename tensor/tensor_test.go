package tensor

import (
	"bytes"
	"testing"
)

func TestAtSetLayout(t *testing.T) {
	d := NewDense(2, 3, 4)

	d.Set(1, 0, 2, 0.5)
	d.Set(2, 1, 3, 0.25)

	if got := d.At(1, 0, 2); got != 0.5 {
		t.Fatalf("At(1, 0, 2): got %g, want 0.5", got)
	}
	if got := d.At(2, 1, 3); got != 0.25 {
		t.Fatalf("At(2, 1, 3): got %g, want 0.25", got)
	}

	// Channel-minor, row-major: (y*W+x)*C+c
	if got := d.Data[(0*3+1)*4+2]; got != 0.5 {
		t.Fatalf("flat layout: got %g at expected offset, want 0.5", got)
	}
}

func TestChannelSum(t *testing.T) {
	d := NewDense(2, 2, 3)
	d.Set(0, 0, 1, 1)
	d.Set(1, 1, 1, 2)
	d.Set(1, 0, 2, 7)

	if got := d.ChannelSum(1); got != 3 {
		t.Fatalf("channel 1 sum: got %g, want 3", got)
	}
	if got := d.ChannelSum(0); got != 0 {
		t.Fatalf("channel 0 sum: got %g, want 0", got)
	}
}

func TestRawRoundtrip(t *testing.T) {
	d := NewDense(2, 2, 6)
	for i := range d.Data {
		d.Data[i] = float32(i) / 3
	}

	var buf bytes.Buffer
	if err := d.WriteRaw(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := ReadRaw(&buf, 2, 2, 6)
	if err != nil {
		t.Fatal(err)
	}

	if !got.SameShape(d) {
		t.Fatalf("shape changed: got (%d, %d, %d)", got.H, got.W, got.C)
	}
	for i := range d.Data {
		if got.Data[i] != d.Data[i] {
			t.Fatalf("value %d: got %g, want %g", i, got.Data[i], d.Data[i])
		}
	}
}

func TestReadRawSizeMismatch(t *testing.T) {
	d := NewDense(2, 2, 6)

	var buf bytes.Buffer
	if err := d.WriteRaw(&buf); err != nil {
		t.Fatal(err)
	}

	// Too few bytes for the requested dimensions
	if _, err := ReadRaw(bytes.NewReader(buf.Bytes()), 4, 4, 6); err == nil {
		t.Fatal("expected an error for a short stream")
	}

	// Too many bytes for the requested dimensions
	if _, err := ReadRaw(bytes.NewReader(buf.Bytes()), 2, 1, 6); err == nil {
		t.Fatal("expected an error for an oversized stream")
	}
}
