// Package tone implements tone-insertion steganography: one payload bit per
// frame is encoded by setting one of two fixed DFT bins to a strong magnitude
// and the other to a weak one, the bit selecting which bin is strong.
package tone

import (
	"math"
	"math/cmplx"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/dsp/fft"
	"github.com/gostego/audiostego/pkg/stego"
)

const (
	embPct   = 0.25
	otherPct = 0.001
)

func init() {
	stego.Register("tone", newMethod)
}

type method struct {
	frameSize  int
	sampleRate int64
	bin0, bin1 int
}

func newMethod(params *stego.Params) (stego.Method, error) {
	frameSize, err := params.GetOrUint("framesize", 1024)
	if err != nil {
		return nil, err
	}
	if frameSize == 0 || frameSize&(frameSize-1) != 0 {
		return nil, stego.InvalidArgumentf("framesize must be a power of two, got %d", frameSize)
	}
	freq0, err := params.GetOrFloat("freq0", 1875)
	if err != nil {
		return nil, err
	}
	freq1, err := params.GetOrFloat("freq1", 2625)
	if err != nil {
		return nil, err
	}
	sampleRate, err := params.GetInt("samplerate")
	if err != nil {
		return nil, err
	}
	nyquist := float64(sampleRate) / 2
	if freq0 > nyquist || freq1 > nyquist {
		return nil, stego.InvalidArgumentf("freq0/freq1 must be <= fs/2 (%.1f)", nyquist)
	}
	n := int(frameSize)
	bin0 := int(math.Round(freq0 * float64(n) / float64(sampleRate)))
	bin1 := int(math.Round(freq1 * float64(n) / float64(sampleRate)))
	return &method{frameSize: n, sampleRate: sampleRate, bin0: bin0, bin1: bin1}, nil
}

func (m *method) Name() string           { return "tone" }
func (m *method) Kind() stego.SampleKind { return stego.KindFloat }
func (m *method) FrameSize() int         { return m.frameSize }

func (m *method) Capacity(samples int64) int64 {
	return samples / int64(m.frameSize)
}

func (m *method) MakeEmbedder(in bitstream.In) stego.Embedder {
	n := m.frameSize
	e := &embedder{
		bin0:     m.bin0,
		bin1:     m.bin1,
		in:       in,
		inFrame:  make([]float64, n),
		outFrame: make([]float64, n),
		spectrum: make([]complex128, n/2+1),
	}
	e.forward = fft.NewForward(n, e.inFrame, e.spectrum)
	e.inverse = fft.NewInverse(n, e.spectrum, e.outFrame)
	return stego.Embedder{Kind: stego.KindFloat, Float: e}
}

func (m *method) MakeExtractor() stego.Extractor {
	n := m.frameSize
	x := &extractor{
		bin0:     m.bin0,
		bin1:     m.bin1,
		inFrame:  make([]float64, n),
		spectrum: make([]complex128, n/2+1),
	}
	x.forward = fft.NewForward(n, x.inFrame, x.spectrum)
	return stego.Extractor{Kind: stego.KindFloat, Float: x}
}

type embedder struct {
	bin0, bin1 int
	in         bitstream.In
	inFrame    []float64
	outFrame   []float64
	spectrum   []complex128
	forward    *fft.Forward
	inverse    *fft.Inverse
}

func (e *embedder) InFrame() []float64  { return e.inFrame }
func (e *embedder) OutFrame() []float64 { return e.outFrame }

func (e *embedder) Embed() bool {
	var sum float64
	for _, s := range e.inFrame {
		sum += s * s
	}
	power := sum / float64(len(e.inFrame))

	b, ok := e.in.NextBit()
	if !ok {
		copy(e.outFrame, e.inFrame)
		return true
	}

	e.forward.Exec()
	bigA := math.Sqrt(power * embPct)
	smallA := math.Sqrt(power * embPct * otherPct)

	if b == 1 {
		e.spectrum[e.bin1] = cmplx.Rect(bigA, cmplx.Phase(e.spectrum[e.bin1]))
		e.spectrum[e.bin0] = cmplx.Rect(smallA, cmplx.Phase(e.spectrum[e.bin0]))
	} else {
		e.spectrum[e.bin0] = cmplx.Rect(bigA, cmplx.Phase(e.spectrum[e.bin0]))
		e.spectrum[e.bin1] = cmplx.Rect(smallA, cmplx.Phase(e.spectrum[e.bin1]))
	}
	e.inverse.Exec()
	return false
}

type extractor struct {
	bin0, bin1 int
	inFrame    []float64
	spectrum   []complex128
	forward    *fft.Forward
}

func (x *extractor) InFrame() []float64 { return x.inFrame }

func (x *extractor) Extract(out bitstream.Out) bool {
	x.forward.Exec()
	p0 := cmplx.Abs(x.spectrum[x.bin0])
	p0 *= p0
	p1 := cmplx.Abs(x.spectrum[x.bin1])
	p1 *= p1
	bit := 0
	if p1 > p0 {
		bit = 1
	}
	out.OutputBit(bit)
	return true
}
