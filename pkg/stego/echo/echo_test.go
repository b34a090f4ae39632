package echo

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
	m, err := stego.Create("echo", p)
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

func TestRoundTripSingleByte(t *testing.T) {
	m := newMethodT(t)
	n := m.FrameSize()
	frames := 88200 / n
	if 88200%n != 0 {
		frames++
	}

	payload := bitvec.New()
	payload.AppendBytes([]byte{0xA5})

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

	require.Equal(t, byte(0xA5), recovered.Bytes(0)[0])
}

func TestCapacityMonotonic(t *testing.T) {
	m := newMethodT(t)
	require.LessOrEqual(t, m.Capacity(100), m.Capacity(10000))
}
