package diagnostics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIdenticalSignalsYieldInfiniteSNR(t *testing.T) {
	var m SNRMeter
	sig := []float64{0.1, -0.2, 0.3, -0.4}
	m.Add(sig, sig)
	require.True(t, math.IsInf(m.SNR(), 1))
	require.Equal(t, int64(4), m.Samples())
}

func TestPerturbedSignalYieldsFiniteSNR(t *testing.T) {
	var m SNRMeter
	cover := []float64{1, 1, 1, 1}
	stego := []float64{1.01, 0.99, 1.01, 0.99}
	m.Add(cover, stego)
	snr := m.SNR()
	require.False(t, math.IsInf(snr, 1))
	require.Greater(t, snr, 20.0)
}

func TestAddAccumulatesAcrossBlocks(t *testing.T) {
	var m SNRMeter
	m.Add([]float64{1, 1}, []float64{1, 1})
	m.Add([]float64{1, 1}, []float64{1.1, 0.9})
	require.Equal(t, int64(4), m.Samples())
	require.False(t, math.IsInf(m.SNR(), 1))
}
