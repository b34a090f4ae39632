package echohc

import (
	"math/rand"
	"testing"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/bitvec"
	"github.com/gostego/audiostego/pkg/stego"
	"github.com/stretchr/testify/require"
)

func newMethodT(t require.TestingT) stego.Method {
	p := stego.NewParams(nil)
	p.Set("samplerate", "44100")
	m, err := stego.Create("echo-hc", p)
	require.NoError(t, err)
	return m
}

func whiteNoise(n int, seed int64) []float64 {
	r := rand.New(rand.NewSource(seed))
	frame := make([]float64, n)
	for i := range frame {
		frame[i] = r.Float64()*2 - 1
	}
	return frame
}

func TestRoundTripSixteenBits(t *testing.T) {
	m := newMethodT(t)
	n := m.FrameSize()
	frames := 65536 / n
	if 65536%n != 0 {
		frames++
	}

	payload := bitvec.New()
	payload.AppendBytes([]byte{0xC3, 0x5A})

	emb := m.MakeEmbedder(bitstream.NewVectorIn(payload)).Float
	x := m.MakeExtractor().Float
	recovered := bitvec.New()
	sink := bitstream.NewVectorOut(recovered)

	for f := 0; f < frames; f++ {
		cover := whiteNoise(n, int64(f)+1)
		copy(emb.InFrame(), cover)
		emb.Embed()

		copy(x.InFrame(), emb.OutFrame())
		x.Extract(sink)
	}

	got := recovered.Bytes(0)
	require.GreaterOrEqual(t, len(got), 2)
	require.Equal(t, byte(0xC3), got[0])
	require.Equal(t, byte(0x5A), got[1])
}

func TestFramesizeMustBeAtLeastTenIntervals(t *testing.T) {
	p := stego.NewParams(nil)
	p.Set("samplerate", "44100")
	p.Set("framesize", "256")
	p.Set("interval", "50")
	_, err := stego.Create("echo-hc", p)
	require.Error(t, err)
}

func TestCapacityIsFourBitsPerFrame(t *testing.T) {
	m := newMethodT(t)
	n := int64(m.FrameSize())
	require.Equal(t, int64(4), m.Capacity(1))
	require.Equal(t, int64(8), m.Capacity(n+1))
}
