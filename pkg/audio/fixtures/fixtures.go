// Package fixtures generates synthetic cover signals (sine tones, white
// noise) and quantises them to 16-bit samples, for building test covers.
package fixtures

import (
	"math"
	"math/rand"
)

// SineWave returns n samples of a sine tone at freq Hz sampled at fs Hz,
// scaled to the given peak amplitude in [0, 1].
func SineWave(n int, freq, fs, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		t := float64(i) / fs
		out[i] = amplitude * math.Sin(2*math.Pi*freq*t)
	}
	return out
}

// WhiteNoise returns n uniformly distributed samples in [-1, 1] from a
// deterministic PRNG seeded by seed, for reproducible test covers.
func WhiteNoise(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()*2 - 1
	}
	return out
}

// Int16 quantises normalised float64 samples in [-1, 1] to 16-bit signed
// integers, clamping any sample outside that range.
func Int16(samples []float64) []int64 {
	out := make([]int64, len(samples))
	for i, s := range samples {
		v := s * 32768
		switch {
		case v > 32767:
			v = 32767
		case v < -32768:
			v = -32768
		}
		out[i] = int64(v)
	}
	return out
}
