package pcmfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cover.wav")

	w, err := Create(path, 44100, 1, 16)
	require.NoError(t, err)
	samples := []int64{100, -200, 32767, -32768}
	require.NoError(t, w.WriteInt(samples))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	require.Equal(t, 44100, r.SampleRate())
	require.Equal(t, 1, r.Channels())
	require.Equal(t, 16, r.BitDepth())

	buf := make([]int64, 4)
	n, err := r.ReadInt(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, samples, buf)
	require.NoError(t, r.Close())
}

func TestWriteClampsOutOfRangeSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	w, err := Create(path, 44100, 1, 16)
	require.NoError(t, err)
	require.NoError(t, w.WriteInt([]int64{40000, -40000}))
	require.Equal(t, int64(2), w.ClippedSamples())
	require.NoError(t, w.Close())
}

func TestReadFloatNormalisesToUnitRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "norm.wav")
	w, err := Create(path, 44100, 1, 16)
	require.NoError(t, err)
	require.NoError(t, w.WriteInt([]int64{16384}))
	require.NoError(t, w.Close())

	r, err := Open(path)
	require.NoError(t, err)
	buf := make([]float64, 1)
	n, err := r.ReadFloat(buf)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.InDelta(t, 0.5, buf[0], 1e-6)
}
