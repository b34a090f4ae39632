// Package echohc implements the high-capacity echo-hiding variant: four
// payload bits per frame are encoded as one positive and one negative tap
// among four candidate delay positions each, smoothed across frames with a
// raised-cosine taper.
package echohc

import (
	"math"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/dsp/cepstrum"
	"github.com/gostego/audiostego/pkg/dsp/conv"
	"github.com/gostego/audiostego/pkg/dsp/fft"
	"github.com/gostego/audiostego/pkg/stego"
)

const smoothHC = 0.25

func init() {
	stego.Register("echo-hc", newMethod)
}

type method struct {
	frameSize int
	interval  int
	amp       float64
	kernelLen int
}

func newMethod(params *stego.Params) (stego.Method, error) {
	frameSize, err := params.GetOrUint("framesize", 4096)
	if err != nil {
		return nil, err
	}
	if frameSize == 0 || frameSize&(frameSize-1) != 0 {
		return nil, stego.InvalidArgumentf("framesize must be a power of two, got %d", frameSize)
	}
	interval, err := params.GetOrUint("interval", 50)
	if err != nil {
		return nil, err
	}
	if interval == 0 {
		return nil, stego.InvalidArgument("interval must be > 0")
	}
	if frameSize < 10*interval {
		return nil, stego.InvalidArgumentf("framesize must be >= 10*interval (interval=%d)", interval)
	}
	amp, err := params.GetOrFloat("amp", 0.4)
	if err != nil {
		return nil, err
	}
	if amp <= 0 {
		return nil, stego.InvalidArgument("amp must be > 0")
	}
	kernelLen := int(interval) * 9 / 2
	return &method{frameSize: int(frameSize), interval: int(interval), amp: amp, kernelLen: kernelLen}, nil
}

func (m *method) Name() string           { return "echo-hc" }
func (m *method) Kind() stego.SampleKind { return stego.KindFloat }
func (m *method) FrameSize() int         { return m.frameSize }

func (m *method) Capacity(samples int64) int64 {
	n := int64(m.frameSize)
	frames := (samples + n - 1) / n
	return frames * 4
}

// dm maps two bits to a 1-based tap slot in {1,2,3,4}.
func dm(x, y int) int {
	return ((x << 1) | y) + 1
}

func (m *method) kernelFor(posSlot, negSlot int, amp float64) []float64 {
	k := make([]float64, m.kernelLen)
	posPos := m.interval*posSlot - 1
	negPos := m.interval/2 + m.interval*negSlot - 1
	k[posPos] = amp
	k[negPos] = -amp
	return k
}

func (m *method) MakeEmbedder(in bitstream.In) stego.Embedder {
	n := m.frameSize
	e := &embedder{method: m, in: in, inFrame: make([]float64, n), outFrame: make([]float64, n)}

	bufLen := fft.NextPow2(n + m.kernelLen - 1)
	for i := range e.kernels {
		e.kernels[i] = make([]float64, m.kernelLen)
		e.echoes[i] = make([]float64, bufLen)
		e.convs[i] = conv.New(n, m.kernelLen, e.inFrame, e.kernels[i], e.echoes[i])
	}
	e.prevIdx, e.curIdx, e.nextIdx = 0, 1, 2

	e.kernels[e.prevIdx][2*m.interval] = m.amp
	e.kernels[e.prevIdx][m.interval/2+3*m.interval] = -m.amp

	firstBits := e.readFourBits()
	e.curBits = firstBits
	e.curOK = e.lastReadOK
	copy(e.kernels[e.curIdx], m.kernelFor(dm(firstBits[0], firstBits[1]), dm(firstBits[2], firstBits[3]), m.amp))

	e.mixer = make([]float64, n)
	e.buildMixer()

	return stego.Embedder{Kind: stego.KindFloat, Float: e}
}

func (m *method) MakeExtractor() stego.Extractor {
	n := m.frameSize
	p := fft.NextPow2(2*n - 1)
	x := &extractor{method: m, inFrame: make([]float64, n), cepOut: make([]float64, p)}
	x.ceps = cepstrum.New(n, x.inFrame, x.cepOut)
	return stego.Extractor{Kind: stego.KindFloat, Float: x}
}

type embedder struct {
	method   *method
	in       bitstream.In
	inFrame  []float64
	outFrame []float64

	// kernels/echoes/convs hold three fixed prev/cur/next slots, each bound
	// once to its own Convolver; prevIdx/curIdx/nextIdx rotate the role
	// assignment across frames instead of reallocating buffers.
	kernels                  [3][]float64
	echoes                   [3][]float64
	convs                    [3]*conv.Convolver
	prevIdx, curIdx, nextIdx int

	mixer []float64

	curBits    [4]int
	curOK      bool
	lastReadOK bool
}

func (e *embedder) InFrame() []float64  { return e.inFrame }
func (e *embedder) OutFrame() []float64 { return e.outFrame }

// readFourBits reads up to four payload bits, reporting in lastReadOK
// whether all four were available.
func (e *embedder) readFourBits() [4]int {
	var bits [4]int
	e.lastReadOK = true
	for i := 0; i < 4; i++ {
		b, ok := e.in.NextBit()
		if !ok {
			e.lastReadOK = false
			break
		}
		bits[i] = b
	}
	return bits
}

func (e *embedder) buildMixer() {
	n := len(e.mixer)
	start := int(smoothHC * float64(n))
	end := n - start
	for i := 0; i < start; i++ {
		x := math.Pi / 4 * float64(i) / float64(start)
		e.mixer[i] = (math.Sin(2*x) + 1) / 2
	}
	for i := start; i < end; i++ {
		e.mixer[i] = 1
	}
	for i := end; i < n; i++ {
		x := math.Pi/4 + math.Pi/4*float64(i-end)/float64(n-end)
		e.mixer[i] = (math.Sin(2*x) + 1) / 2
	}
}

func (e *embedder) Embed() bool {
	if !e.curOK {
		copy(e.outFrame, e.inFrame)
		return true
	}

	next := e.readFourBits()
	nextOK := e.lastReadOK
	posSlot := dm(next[0], next[1])
	negSlot := dm(next[2], next[3])
	m := e.method
	k := m.kernelFor(posSlot, negSlot, m.amp)
	copy(e.kernels[e.nextIdx], k)

	e.convs[e.prevIdx].Exec()
	e.convs[e.curIdx].Exec()
	e.convs[e.nextIdx].Exec()

	echoPrev := e.echoes[e.prevIdx]
	echoCur := e.echoes[e.curIdx]
	echoNext := e.echoes[e.nextIdx]

	n := m.frameSize
	half := n / 2
	for i := 0; i < n; i++ {
		mix := e.mixer[i]
		var tail float64
		if i < half {
			tail = echoPrev[i] * (1 - mix)
		} else {
			tail = echoNext[i] * (1 - mix)
		}
		e.outFrame[i] = e.inFrame[i] + echoCur[i]*mix + tail
	}

	// Rotate roles: the vacated prev slot becomes the next slot, to be
	// filled by the following call's lookahead bits.
	e.prevIdx, e.curIdx, e.nextIdx = e.curIdx, e.nextIdx, e.prevIdx

	e.curBits = next
	e.curOK = nextOK
	return !nextOK
}

type extractor struct {
	method  *method
	inFrame []float64
	cepOut  []float64
	ceps    *cepstrum.Cepstrum
}

func (x *extractor) InFrame() []float64 { return x.inFrame }

func (x *extractor) Extract(out bitstream.Out) bool {
	x.ceps.Exec()
	m := x.method
	var pos, neg [4]float64
	for i := 1; i <= 4; i++ {
		pos[i-1] = x.cepOut[i*m.interval-1]
		neg[i-1] = x.cepOut[m.interval/2+i*m.interval-1]
	}
	p := argmax(pos[:])
	n := argmin(neg[:])
	out.OutputBit((p >> 1) & 1)
	out.OutputBit(p & 1)
	out.OutputBit((n >> 1) & 1)
	out.OutputBit(n & 1)
	return true
}

func argmax(v []float64) int {
	best := 0
	for i, x := range v {
		if x > v[best] {
			best = i
		}
	}
	return best
}

func argmin(v []float64) int {
	best := 0
	for i, x := range v {
		if x < v[best] {
			best = i
		}
	}
	return best
}
