package pipeline

import (
	"context"
	"testing"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/bitvec"
	"github.com/gostego/audiostego/pkg/stego"
	_ "github.com/gostego/audiostego/pkg/stego/lsb"
	"github.com/stretchr/testify/require"
)

// memSource feeds pre-supplied interleaved int samples, frameSize*channels
// at a time, reporting a short final read with err == nil.
type memSource struct {
	samples    []int64
	channels   int
	sampleRate int
	bitDepth   int
	pos        int
}

func (s *memSource) SampleRate() int { return s.sampleRate }
func (s *memSource) Channels() int   { return s.channels }
func (s *memSource) BitDepth() int   { return s.bitDepth }

func (s *memSource) ReadInt(buf []int64) (int, error) {
	n := copy(buf, s.samples[s.pos:])
	s.pos += n
	return n, nil
}

func (s *memSource) ReadFloat(buf []float64) (int, error) { return 0, nil }

type memSink struct {
	samples []int64
}

func (s *memSink) WriteInt(buf []int64) error {
	s.samples = append(s.samples, buf...)
	return nil
}

func (s *memSink) WriteFloat(buf []float64) error { return nil }

func TestEmbedExtractRoundTripFirstOnly(t *testing.T) {
	const channels = 2
	const frames = 50
	cover := make([]int64, frames*channels)
	for i := range cover {
		cover[i] = int64(1000 + i)
	}

	m, err := stego.Create("lsb", withBitDepth(16))
	require.NoError(t, err)

	payload := bitvec.New()
	payload.AppendBytes([]byte("hi"))

	src := &memSource{samples: cover, channels: channels, sampleRate: 44100, bitDepth: 16}
	sink := &memSink{}
	err = Embed(context.Background(), src, sink, EmbedOptions{
		Method: m,
		In:     bitstream.NewVectorIn(payload),
		Policy: FirstOnly,
	})
	require.NoError(t, err)
	require.Equal(t, len(cover), len(sink.samples))

	m2, err := stego.Create("lsb", withBitDepth(16))
	require.NoError(t, err)
	src2 := &memSource{samples: sink.samples, channels: channels, sampleRate: 44100, bitDepth: 16}
	recovered := bitvec.New()
	err = Extract(context.Background(), src2, ExtractOptions{
		Method: m2,
		Out:    bitstream.NewVectorOut(recovered),
		Policy: FirstOnly,
	})
	require.NoError(t, err)

	got := recovered.Bytes(0)
	require.GreaterOrEqual(t, len(got), 2)
	require.Equal(t, "hi", string(got[:2]))
}

func TestOtherChannelsPassThroughUnchangedUnderFirstOnly(t *testing.T) {
	const channels = 2
	const frames = 10
	cover := make([]int64, frames*channels)
	for i := range cover {
		cover[i] = int64(2000 + i)
	}

	m, err := stego.Create("lsb", withBitDepth(16))
	require.NoError(t, err)

	payload := bitvec.New()
	payload.Append(0b1010, 4)

	src := &memSource{samples: cover, channels: channels, sampleRate: 44100, bitDepth: 16}
	sink := &memSink{}
	err = Embed(context.Background(), src, sink, EmbedOptions{
		Method: m,
		In:     bitstream.NewVectorIn(payload),
		Policy: FirstOnly,
	})
	require.NoError(t, err)

	for i := 0; i < frames; i++ {
		require.Equal(t, cover[i*channels+1], sink.samples[i*channels+1])
	}
}

// countingMethod is a 4-sample-per-frame int method that records how many
// times Embed is called on each embedder it hands out, so a test can assert
// that a short final read never reaches the per-channel embed step.
type countingMethod struct{ calls *int }

func (countingMethod) Name() string                 { return "counting" }
func (countingMethod) Kind() stego.SampleKind       { return stego.KindInt }
func (countingMethod) FrameSize() int               { return 4 }
func (countingMethod) Capacity(samples int64) int64 { return samples }

func (m countingMethod) MakeEmbedder(in bitstream.In) stego.Embedder {
	e := &countingEmbedder{calls: m.calls, inFrame: make([]int64, 4), outFrame: make([]int64, 4)}
	return stego.Embedder{Kind: stego.KindInt, Int: e}
}

func (m countingMethod) MakeExtractor() stego.Extractor { return stego.Extractor{} }

type countingEmbedder struct {
	calls             *int
	inFrame, outFrame []int64
}

func (e *countingEmbedder) InFrame() []int64  { return e.inFrame }
func (e *countingEmbedder) OutFrame() []int64 { return e.outFrame }
func (e *countingEmbedder) Embed() bool {
	*e.calls++
	copy(e.outFrame, e.inFrame)
	return false
}

func TestEmbedSkipsShortFinalFrame(t *testing.T) {
	const channels = 1
	// 2 full frames of 4 samples plus a short 3-sample tail.
	cover := make([]int64, 4*2+3)
	for i := range cover {
		cover[i] = int64(i)
	}

	calls := 0
	src := &memSource{samples: cover, channels: channels, sampleRate: 44100, bitDepth: 16}
	sink := &memSink{}
	err := Embed(context.Background(), src, sink, EmbedOptions{
		Method: countingMethod{calls: &calls},
		In:     bitstream.NewVectorIn(bitvec.New()),
		Policy: FirstOnly,
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls, "Embed must not be called for the short final frame")
	require.Equal(t, len(cover), len(sink.samples))
	require.Equal(t, cover[8:], sink.samples[8:], "the short tail must pass through unmodified")
}

func withBitDepth(bits int) *stego.Params {
	p := stego.NewParams(nil)
	p.Set("bit_depth", itoa(bits))
	return p
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
