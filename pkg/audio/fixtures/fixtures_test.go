package fixtures

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSineWaveIsBoundedByAmplitude(t *testing.T) {
	s := SineWave(1000, 440, 44100, 0.5)
	for _, v := range s {
		require.LessOrEqual(t, v, 0.5+1e-9)
		require.GreaterOrEqual(t, v, -0.5-1e-9)
	}
}

func TestWhiteNoiseIsDeterministicPerSeed(t *testing.T) {
	a := WhiteNoise(100, 1)
	b := WhiteNoise(100, 1)
	require.Equal(t, a, b)
}

func TestInt16ClampsOutOfRangeSamples(t *testing.T) {
	out := Int16([]float64{2, -2})
	require.Equal(t, int64(32767), out[0])
	require.Equal(t, int64(-32768), out[1])
}
