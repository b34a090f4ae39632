package conv

import (
	"testing"

	"github.com/gostego/audiostego/pkg/dsp/fft"
	"github.com/stretchr/testify/require"
)

// reference computes the direct (O(n*m)) linear convolution of x and h.
func reference(x, h []float64) []float64 {
	out := make([]float64, len(x)+len(h)-1)
	for i, xv := range x {
		for j, hv := range h {
			out[i+j] += xv * hv
		}
	}
	return out
}

func TestConvolverMatchesDirectConvolutionAcrossFrames(t *testing.T) {
	const lx = 16
	const lh = 5

	signal := make([]float64, 3*lx)
	for i := range signal {
		signal[i] = float64(i%7) - 3
	}
	kernel := []float64{1, -0.5, 0.25, 0.1, 0.05}

	want := reference(signal, kernel)

	in := make([]float64, lx)
	k := make([]float64, lh)
	copy(k, kernel)
	p := fft.NextPow2(lx + lh - 1)
	out := make([]float64, p)
	c := New(lx, lh, in, k, out)

	var got []float64
	for frame := 0; frame < 3; frame++ {
		copy(in, signal[frame*lx:(frame+1)*lx])
		c.Exec()
		got = append(got, out[:lx]...)
	}

	for i := range got {
		require.InDelta(t, want[i], got[i], 1e-9)
	}
}
