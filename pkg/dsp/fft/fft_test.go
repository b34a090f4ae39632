package fft

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestForwardInverseRoundTrip(t *testing.T) {
	const n = 64
	in := make([]float64, n)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * float64(i) / float64(n) * 3)
	}
	spec := make([]complex128, n/2+1)
	out := make([]float64, n)

	fwd := NewForward(n, in, spec)
	inv := NewInverse(n, spec, out)

	fwd.Exec()
	inv.Exec()

	for i := range in {
		require.InDelta(t, in[i], out[i], 1e-9)
	}
}

func TestForwardInverseRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		exp := rapid.IntRange(2, 8).Draw(t, "exp")
		n := 1 << exp
		in := make([]float64, n)
		for i := range in {
			in[i] = rapid.Float64Range(-1, 1).Draw(t, "sample")
		}
		spec := make([]complex128, n/2+1)
		out := make([]float64, n)

		fwd := NewForward(n, in, spec)
		inv := NewInverse(n, spec, out)
		fwd.Exec()
		inv.Exec()

		for i := range in {
			require.InDelta(t, in[i], out[i], 1e-6)
		}
	})
}

func TestForwardDCBin(t *testing.T) {
	const n = 16
	in := make([]float64, n)
	for i := range in {
		in[i] = 1
	}
	spec := make([]complex128, n/2+1)
	NewForward(n, in, spec).Exec()
	require.InDelta(t, float64(n), real(spec[0]), 1e-9)
	require.InDelta(t, 0, imag(spec[0]), 1e-9)
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 1023: 1024, 1024: 1024}
	for in, want := range cases {
		require.Equal(t, want, NextPow2(in))
	}
}
