package tone

import (
	"math/cmplx"
	"math/rand"
	"testing"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/bitvec"
	"github.com/gostego/audiostego/pkg/dsp/fft"
	"github.com/gostego/audiostego/pkg/stego"
	"github.com/stretchr/testify/require"
)

func newMethodT(t require.TestingT) stego.Method {
	p := stego.NewParams(nil)
	p.Set("samplerate", "44100")
	m, err := stego.Create("tone", p)
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

func TestEmbedOneBitAndExtract(t *testing.T) {
	m := newMethodT(t)
	n := m.FrameSize()
	cover := whiteNoise(n, 1)

	payload := bitvec.New()
	payload.PushBack(1)

	emb := m.MakeEmbedder(bitstream.NewVectorIn(payload)).Float
	copy(emb.InFrame(), cover)
	require.False(t, emb.Embed())

	x := m.MakeExtractor().Float
	copy(x.InFrame(), emb.OutFrame())
	recovered := bitvec.New()
	x.Extract(bitstream.NewVectorOut(recovered))
	require.Equal(t, 1, recovered.At(0))
}

func TestBin1PowerDominatesAfterEmbeddingOne(t *testing.T) {
	m := newMethodT(t).(*method)
	n := m.frameSize
	cover := whiteNoise(n, 1)

	payload := bitvec.New()
	payload.PushBack(1)

	emb := m.MakeEmbedder(bitstream.NewVectorIn(payload)).Float
	copy(emb.InFrame(), cover)
	emb.Embed()

	spectrum := make([]complex128, n/2+1)
	stegoFrame := append([]float64(nil), emb.OutFrame()...)
	fwd := fft.NewForward(n, stegoFrame, spectrum)
	fwd.Exec()

	p0 := cmplx.Abs(spectrum[m.bin0])
	p1 := cmplx.Abs(spectrum[m.bin1])
	require.Greater(t, p1*p1, 100*p0*p0)
}

func TestFrequenciesAboveNyquistRejected(t *testing.T) {
	p := stego.NewParams(nil)
	p.Set("samplerate", "8000")
	p.Set("freq1", "5000")
	_, err := stego.Create("tone", p)
	require.Error(t, err)
}
