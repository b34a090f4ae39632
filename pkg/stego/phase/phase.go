// Package phase implements phase-coding steganography: a payload is encoded
// as quantised phase values in a fixed DFT band of the first frame, and
// later frames are phase-shifted to keep the signal consistent with the
// embedded phases.
package phase

import (
	"math"
	"math/cmplx"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/dsp/fft"
	"github.com/gostego/audiostego/pkg/stego"
)

const (
	module = 12
	step   = math.Pi / module
)

func init() {
	stego.Register("phase", newMethod)
}

type method struct {
	frameSize  int
	sampleRate int64
	binFrom    int
	binTo      int
}

func newMethod(params *stego.Params) (stego.Method, error) {
	frameSize, err := params.GetOrUint("framesize", 1024)
	if err != nil {
		return nil, err
	}
	if frameSize == 0 || frameSize&(frameSize-1) != 0 {
		return nil, stego.InvalidArgumentf("framesize must be a power of two, got %d", frameSize)
	}
	sampleRate, err := params.GetInt("samplerate")
	if err != nil {
		return nil, err
	}
	n := int(frameSize)
	binFrom := int(math.Round(1000 * float64(n) / float64(sampleRate)))
	binTo := int(math.Round(8000 * float64(n) / float64(sampleRate)))
	if binTo > n/2+1 {
		binTo = n/2 + 1
	}
	if binFrom >= binTo {
		return nil, stego.InvalidArgumentf("phase band is empty at framesize=%d, samplerate=%d", n, sampleRate)
	}
	return &method{frameSize: n, sampleRate: sampleRate, binFrom: binFrom, binTo: binTo}, nil
}

func (m *method) Name() string           { return "phase" }
func (m *method) Kind() stego.SampleKind { return stego.KindFloat }
func (m *method) FrameSize() int         { return m.frameSize }

func (m *method) Capacity(samples int64) int64 {
	if samples <= 0 {
		return 0
	}
	return int64(m.binTo - m.binFrom)
}

func (m *method) MakeEmbedder(in bitstream.In) stego.Embedder {
	n := m.frameSize
	e := &embedder{
		binFrom:    m.binFrom,
		binTo:      m.binTo,
		in:         in,
		inFrame:    make([]float64, n),
		outFrame:   make([]float64, n),
		spectrum:   make([]complex128, n/2+1),
		amp:        make([]float64, n/2+1),
		ph:         make([]float64, n/2+1),
		phasesPrev: make([]float64, n/2+1),
		backup:     make([]float64, n/2+1),
		delta:      make([]float64, n/2+1),
	}
	e.forward = fft.NewForward(n, e.inFrame, e.spectrum)
	e.inverse = fft.NewInverse(n, e.spectrum, e.outFrame)
	return stego.Embedder{Kind: stego.KindFloat, Float: e}
}

func (m *method) MakeExtractor() stego.Extractor {
	n := m.frameSize
	x := &extractor{
		binFrom:  m.binFrom,
		binTo:    m.binTo,
		inFrame:  make([]float64, n),
		spectrum: make([]complex128, n/2+1),
	}
	x.forward = fft.NewForward(n, x.inFrame, x.spectrum)
	return stego.Extractor{Kind: stego.KindFloat, Float: x}
}

type embedder struct {
	binFrom, binTo int
	in             bitstream.In
	inFrame        []float64
	outFrame       []float64
	spectrum       []complex128
	amp, ph        []float64
	phasesPrev     []float64
	backup         []float64
	delta          []float64
	forward        *fft.Forward
	inverse        *fft.Inverse
	frame          int
	encoded        int
}

func (e *embedder) InFrame() []float64  { return e.inFrame }
func (e *embedder) OutFrame() []float64 { return e.outFrame }

// quantise applies the embedder's phase-rounding rule for payload bit b.
func quantise(phase float64, b int) float64 {
	switch {
	case b == 1 && phase > 0:
		return math.Ceil(phase/step) * step
	case b == 1 && phase < 0:
		return math.Floor(phase/step) * step
	case b == 1:
		return (2*module - 1) * step / 2
	case phase > 0:
		return math.Floor(phase/step)*step + step/2
	case phase < 0:
		return math.Ceil(phase/step)*step - step/2
	default:
		return step / 2
	}
}

func (e *embedder) Embed() bool {
	e.forward.Exec()
	for k := range e.spectrum {
		e.amp[k] = cmplx.Abs(e.spectrum[k])
		e.ph[k] = cmplx.Phase(e.spectrum[k])
	}

	if e.frame == 0 {
		copy(e.backup, e.ph)
		e.encoded = 0
		for k := e.binFrom; k < e.binTo; k++ {
			b, ok := e.in.NextBit()
			if !ok {
				break
			}
			e.ph[k] = quantise(e.ph[k], b)
			e.encoded++
		}
		copy(e.phasesPrev, e.ph)
	} else {
		for k := range e.ph {
			e.delta[k] = e.ph[k] - e.backup[k]
		}
		copy(e.backup, e.ph)
		for k := e.binFrom; k < e.binFrom+e.encoded; k++ {
			e.ph[k] = e.phasesPrev[k] + e.delta[k]
		}
		copy(e.phasesPrev, e.ph)
	}
	e.frame++

	for k := range e.spectrum {
		e.spectrum[k] = cmplx.Rect(e.amp[k], e.ph[k])
	}
	e.inverse.Exec()
	return false
}

type extractor struct {
	binFrom, binTo int
	inFrame        []float64
	spectrum       []complex128
	forward        *fft.Forward
}

func (x *extractor) InFrame() []float64 { return x.inFrame }

func (x *extractor) Extract(out bitstream.Out) bool {
	x.forward.Exec()
	for k := x.binFrom; k < x.binTo; k++ {
		ph := cmplx.Phase(x.spectrum[k])
		m := int(math.Round(ph / (step / 2)))
		bit := 0
		if ((m%2)+2)%2 == 0 {
			bit = 1
		}
		out.OutputBit(bit)
	}
	return false
}
