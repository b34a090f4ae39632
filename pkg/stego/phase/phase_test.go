package phase

import (
	"math"
	"testing"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/bitvec"
	"github.com/gostego/audiostego/pkg/stego"
	"github.com/stretchr/testify/require"
)

func newMethodT(t require.TestingT) stego.Method {
	p := stego.NewParams(nil)
	p.Set("samplerate", "44100")
	m, err := stego.Create("phase", p)
	require.NoError(t, err)
	return m
}

func sineCover(n, frames int, freq, fs float64) [][]float64 {
	out := make([][]float64, frames)
	for f := 0; f < frames; f++ {
		frame := make([]float64, n)
		for i := 0; i < n; i++ {
			t := float64(f*n+i) / fs
			frame[i] = 0.5 * math.Sin(2*math.Pi*freq*t)
		}
		out[f] = frame
	}
	return out
}

func TestRoundTripTwentyBits(t *testing.T) {
	m := newMethodT(t)
	n := m.FrameSize()
	const frames = 8

	payload := bitvec.New()
	bits := []int{1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 0, 1, 0, 0, 1, 1, 1, 0, 0, 1}
	for _, b := range bits {
		payload.PushBack(b)
	}

	cover := sineCover(n, frames, 2000, 44100)
	emb := m.MakeEmbedder(bitstream.NewVectorIn(payload)).Float
	stegoFrames := make([][]float64, frames)
	for f := 0; f < frames; f++ {
		copy(emb.InFrame(), cover[f])
		emb.Embed()
		stegoFrames[f] = append([]float64(nil), emb.OutFrame()...)
	}

	recovered := bitvec.New()
	ext := m.MakeExtractor().Float
	copy(ext.InFrame(), stegoFrames[0])
	ext.Extract(bitstream.NewVectorOut(recovered))

	for i, want := range bits {
		require.Equal(t, want, recovered.At(i), "bit %d", i)
	}
}

func TestCapacityEqualsBandWidth(t *testing.T) {
	m := newMethodT(t)
	require.Equal(t, m.Capacity(1), m.Capacity(1000000))
	require.Greater(t, m.Capacity(1), int64(0))
}

func TestQuantiseRespectsBitDirection(t *testing.T) {
	require.InDelta(t, (2*module-1)*step/2, quantise(0, 1), 1e-9)
	require.InDelta(t, step/2, quantise(0, 0), 1e-9)
}
