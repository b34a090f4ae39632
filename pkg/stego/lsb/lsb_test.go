package lsb

import (
	"testing"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/bitvec"
	"github.com/gostego/audiostego/pkg/stego"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newMethodT(t require.TestingT, lsbs int, bitDepth int) stego.Method {
	p := stego.NewParams(nil)
	p.Set("lsbs", itoa(lsbs))
	p.Set("bit_depth", itoa(bitDepth))
	m, err := stego.Create("lsb", p)
	require.NoError(t, err)
	return m
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestRoundTripAcrossRandomSamplesAndPayload(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lsbs := rapid.IntRange(1, 4).Draw(t, "lsbs")
		samples := rapid.SliceOfN(rapid.IntRange(0, 65535), 1, 64).Draw(t, "samples")

		payload := bitvec.New()
		nbits := rapid.IntRange(0, len(samples)*lsbs).Draw(t, "nbits")
		for i := 0; i < nbits; i++ {
			payload.PushBack(rapid.IntRange(0, 1).Draw(t, "bit"))
		}

		m := newMethodT(t, lsbs, 16)
		emb := m.MakeEmbedder(bitstream.NewVectorIn(payload)).Int
		stegoSamples := make([]int64, len(samples))
		for i, s := range samples {
			emb.InFrame()[0] = int64(s)
			emb.Embed()
			stegoSamples[i] = emb.OutFrame()[0]
		}

		recovered := bitvec.New()
		ext := m.MakeExtractor().Int
		for _, s := range stegoSamples {
			ext.InFrame()[0] = s
			ext.Extract(bitstream.NewVectorOut(recovered))
		}

		for i := 0; i < nbits; i++ {
			require.Equal(t, payload.At(i), recovered.At(i))
		}
	})
}

func TestEmbedReturnsDoneOnPayloadExhaustion(t *testing.T) {
	payload := bitvec.New()
	payload.Append(0b1, 1)
	m := newMethodT(t, 1, 16)
	emb := m.MakeEmbedder(bitstream.NewVectorIn(payload)).Int
	emb.InFrame()[0] = 4
	require.False(t, emb.Embed())
	emb.InFrame()[0] = 4
	require.True(t, emb.Embed())
}

func TestFloatCoverRejected(t *testing.T) {
	p := stego.NewParams(nil)
	p.Set("bit_depth", "-1")
	_, err := stego.Create("lsb", p)
	require.Error(t, err)
}

func TestCapacityIsMonotonic(t *testing.T) {
	m := newMethodT(t, 2, 16)
	require.LessOrEqual(t, m.Capacity(10), m.Capacity(20))
}
