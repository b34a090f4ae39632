// Package diagnostics measures how much an embed operation perturbed a
// cover signal, computed from the signal energy and the perturbation energy
// via gonum.org/v1/gonum/floats, the way the pack's audio feature extractor
// computes RMS energy from raw PCM.
package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// SNRMeter accumulates squared signal energy and squared perturbation energy
// across successive blocks of (cover, stego) samples, so a caller streaming
// through a large file never needs both copies resident at once.
type SNRMeter struct {
	signalSq float64
	noiseSq  float64
	n        int64
}

// Add folds in one aligned block of cover and stego samples.
func (m *SNRMeter) Add(cover, stegoOut []float64) {
	n := len(cover)
	if len(stegoOut) < n {
		n = len(stegoOut)
	}
	diff := make([]float64, n)
	for i := 0; i < n; i++ {
		diff[i] = cover[i] - stegoOut[i]
	}
	m.signalSq += math.Pow(floats.Norm(cover[:n], 2), 2)
	m.noiseSq += math.Pow(floats.Norm(diff, 2), 2)
	m.n += int64(n)
}

// SNR returns the signal-to-noise ratio in decibels. Returns +Inf when the
// stego signal is bit-identical to the cover (no perturbation at all).
func (m *SNRMeter) SNR() float64 {
	if m.noiseSq == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(m.signalSq/m.noiseSq)
}

// Samples reports how many samples have been folded in.
func (m *SNRMeter) Samples() int64 { return m.n }
