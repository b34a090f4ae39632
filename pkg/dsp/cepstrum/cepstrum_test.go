package cepstrum

import (
	"math"
	"testing"

	"github.com/gostego/audiostego/pkg/dsp/fft"
	"github.com/stretchr/testify/require"
)

func TestCepstrumOfSilenceIsFinite(t *testing.T) {
	const l = 64
	in := make([]float64, l)
	p := fft.NextPow2(2*l - 1)
	out := make([]float64, p)
	c := New(l, in, out)
	c.Exec()
	for _, v := range out {
		require.False(t, math.IsNaN(v))
		require.False(t, math.IsInf(v, 0))
	}
}

func TestCepstrumPeakNearEchoDelay(t *testing.T) {
	const l = 512
	const delay = 80
	const amp = 0.6

	in := make([]float64, l)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * float64(i) / 32)
	}
	echoed := make([]float64, l)
	copy(echoed, in)
	for i := delay; i < l; i++ {
		echoed[i] += amp * in[i-delay]
	}

	p := fft.NextPow2(2*l - 1)
	out := make([]float64, p)
	c := New(l, echoed, out)
	c.Exec()

	// the cepstrum should show a local feature near the echo delay distinct
	// from a signal with no echo at all.
	plain := make([]float64, p)
	New(l, in, plain).Exec()

	require.NotEqual(t, plain[delay-1], out[delay-1])
}
