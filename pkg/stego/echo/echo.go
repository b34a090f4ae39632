// Package echo implements single-bit-per-frame echo hiding: the cover is
// convolved with one of two short impulse kernels selected by the payload
// bit, crossfaded across frame boundaries, and decoded by locating the
// stronger autocepstrum peak.
package echo

import (
	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/dsp/cepstrum"
	"github.com/gostego/audiostego/pkg/dsp/conv"
	"github.com/gostego/audiostego/pkg/dsp/fft"
	"github.com/gostego/audiostego/pkg/stego"
)

const smooth = 0.95

func init() {
	stego.Register("echo", newMethod)
}

type method struct {
	frameSize      int
	delay0, delay1 int
	amp            float64
}

func newMethod(params *stego.Params) (stego.Method, error) {
	frameSize, err := params.GetOrUint("framesize", 4096)
	if err != nil {
		return nil, err
	}
	if frameSize == 0 || frameSize&(frameSize-1) != 0 {
		return nil, stego.InvalidArgumentf("framesize must be a power of two, got %d", frameSize)
	}
	delay0, err := params.GetOrUint("delay0", 250)
	if err != nil {
		return nil, err
	}
	delay1, err := params.GetOrUint("delay1", 300)
	if err != nil {
		return nil, err
	}
	amp, err := params.GetOrFloat("amp", 0.4)
	if err != nil {
		return nil, err
	}
	if amp <= 0 {
		return nil, stego.InvalidArgument("amp must be > 0")
	}
	if delay0 == 0 || delay0 > frameSize || delay1 == 0 || delay1 > frameSize {
		return nil, stego.InvalidArgumentf("delay0/delay1 must be in (0, framesize=%d]", frameSize)
	}
	return &method{frameSize: int(frameSize), delay0: int(delay0), delay1: int(delay1), amp: amp}, nil
}

func (m *method) Name() string           { return "echo" }
func (m *method) Kind() stego.SampleKind { return stego.KindFloat }
func (m *method) FrameSize() int         { return m.frameSize }

func (m *method) Capacity(samples int64) int64 {
	n := int64(m.frameSize)
	return (samples + n - 1) / n
}

func tapKernel(length, tap int, amp float64) []float64 {
	k := make([]float64, length)
	k[tap] = amp
	return k
}

func (m *method) MakeEmbedder(in bitstream.In) stego.Embedder {
	n := m.frameSize
	e := &embedder{frameSize: n, in: in, inFrame: make([]float64, n), outFrame: make([]float64, n)}

	kernel0 := tapKernel(m.delay0, m.delay0-1, m.amp)
	kernel1 := tapKernel(m.delay1, m.delay1-1, m.amp)
	buf0 := fft.NextPow2(n + m.delay0 - 1)
	buf1 := fft.NextPow2(n + m.delay1 - 1)
	e.echo0 = make([]float64, buf0)
	e.echo1 = make([]float64, buf1)
	e.conv0 = conv.New(n, m.delay0, e.inFrame, kernel0, e.echo0)
	e.conv1 = conv.New(n, m.delay1, e.inFrame, kernel1, e.echo1)

	e.mixer = make([]float64, 2*n)
	e.current, e.curOK = in.NextBit()
	if e.curOK {
		fillValue := 0.0
		if e.current != 0 {
			fillValue = 1.0
		}
		for i := range e.mixer {
			e.mixer[i] = fillValue
		}
	}
	return stego.Embedder{Kind: stego.KindFloat, Float: e}
}

func (m *method) MakeExtractor() stego.Extractor {
	n := m.frameSize
	p := fft.NextPow2(2*n - 1)
	x := &extractor{delay0: m.delay0, delay1: m.delay1, inFrame: make([]float64, n), cepOut: make([]float64, p)}
	x.ceps = cepstrum.New(n, x.inFrame, x.cepOut)
	return stego.Extractor{Kind: stego.KindFloat, Float: x}
}

type embedder struct {
	frameSize      int
	in             bitstream.In
	inFrame        []float64
	outFrame       []float64
	echo0, echo1   []float64
	conv0, conv1   *conv.Convolver
	mixer          []float64
	current        int
	curOK          bool
}

func (e *embedder) InFrame() []float64  { return e.inFrame }
func (e *embedder) OutFrame() []float64 { return e.outFrame }

func (e *embedder) updateMixer(bitFrom, bitTo int) {
	n := e.frameSize
	start := int(smooth * float64(n))
	end := 2*n - start
	from, to := float64(bitFrom), float64(bitTo)
	span := float64(end - start)
	for i := start; i < end; i++ {
		frac := float64(i-start) / span
		e.mixer[i] = from + (to-from)*frac
	}
	for i := end; i < 2*n; i++ {
		e.mixer[i] = to
	}
}

func (e *embedder) shiftMixer() {
	n := e.frameSize
	copy(e.mixer[:n], e.mixer[n:])
}

func (e *embedder) Embed() bool {
	if !e.curOK {
		copy(e.outFrame, e.inFrame)
		return true
	}

	next, nextOK := e.in.NextBit()
	nextBit := 0
	if nextOK {
		nextBit = next
	}

	e.conv0.Exec()
	e.conv1.Exec()
	e.updateMixer(e.current, nextBit)

	n := e.frameSize
	for i := 0; i < n; i++ {
		mix := e.mixer[i]
		e.outFrame[i] = e.inFrame[i] + e.echo1[i]*mix + e.echo0[i]*(1-mix)
	}
	e.shiftMixer()

	done := !nextOK
	e.current, e.curOK = nextBit, nextOK
	return done
}

type extractor struct {
	delay0, delay1 int
	inFrame        []float64
	cepOut         []float64
	ceps           *cepstrum.Cepstrum
}

func (x *extractor) InFrame() []float64 { return x.inFrame }

func (x *extractor) Extract(out bitstream.Out) bool {
	x.ceps.Exec()
	c0 := x.cepOut[x.delay0-1]
	c1 := x.cepOut[x.delay1-1]
	bit := 0
	if c0 < c1 {
		bit = 1
	}
	out.OutputBit(bit)
	return true
}
