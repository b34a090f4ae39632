// Package lsb implements the least-significant-bit substitution method: it
// hides payload bits in the low-order bits of integer cover samples.
package lsb

import (
	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/stego"
)

func init() {
	stego.Register("lsb", newMethod)
}

type method struct {
	lsbs      uint
	bitDepth  uint
	frameSize int
}

func newMethod(params *stego.Params) (stego.Method, error) {
	lsbs, err := params.GetOrUint("lsbs", 1)
	if err != nil {
		return nil, err
	}
	if lsbs == 0 {
		return nil, stego.InvalidArgument("lsbs must be > 0")
	}
	bitDepth, err := params.GetInt("bit_depth")
	if err != nil {
		return nil, err
	}
	if bitDepth <= 0 {
		return nil, stego.InvalidArgument("lsb requires an integer-sample cover")
	}
	if int64(lsbs) > bitDepth {
		return nil, stego.InvalidArgument("lsbs exceeds the cover's bit depth")
	}
	return &method{lsbs: uint(lsbs), bitDepth: uint(bitDepth), frameSize: 1}, nil
}

func (m *method) Name() string          { return "lsb" }
func (m *method) Kind() stego.SampleKind { return stego.KindInt }
func (m *method) FrameSize() int        { return m.frameSize }

func (m *method) Capacity(samples int64) int64 {
	return samples * int64(m.lsbs)
}

func (m *method) MakeEmbedder(in bitstream.In) stego.Embedder {
	return stego.Embedder{
		Kind: stego.KindInt,
		Int: &embedder{
			lsbs:     m.lsbs,
			in:       in,
			inFrame:  make([]int64, 1),
			outFrame: make([]int64, 1),
		},
	}
}

func (m *method) MakeExtractor() stego.Extractor {
	return stego.Extractor{
		Kind: stego.KindInt,
		Int:  &extractor{lsbs: m.lsbs, inFrame: make([]int64, 1)},
	}
}

type embedder struct {
	lsbs     uint
	in       bitstream.In
	inFrame  []int64
	outFrame []int64
	done     bool
}

func (e *embedder) InFrame() []int64  { return e.inFrame }
func (e *embedder) OutFrame() []int64 { return e.outFrame }

func (e *embedder) Embed() bool {
	s := uint64(e.inFrame[0])
	mask := (uint64(1) << e.lsbs) - 1
	s &^= mask
	for j := uint(0); j < e.lsbs; j++ {
		b, ok := e.in.NextBit()
		if !ok {
			e.done = true
			e.outFrame[0] = int64(s)
			return true
		}
		if b != 0 {
			s |= uint64(1) << j
		}
	}
	e.outFrame[0] = int64(s)
	return false
}

type extractor struct {
	lsbs    uint
	inFrame []int64
}

func (e *extractor) InFrame() []int64 { return e.inFrame }

func (e *extractor) Extract(out bitstream.Out) bool {
	s := uint64(e.inFrame[0])
	for j := uint(0); j < e.lsbs; j++ {
		out.OutputBit(int((s >> j) & 1))
	}
	return true
}
