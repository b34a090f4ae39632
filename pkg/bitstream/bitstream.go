// Package bitstream provides the uniform in/out bit-stream interfaces used
// throughout the hiding methods, plus byte-source, BitVector-backed, Limited,
// and Hamming(7,4) implementations.
package bitstream

import (
	"io"

	"github.com/gostego/audiostego/pkg/bitvec"
)

// In is a source of bits, read one at a time.
type In interface {
	// NextBit returns the next bit and ok=true, or ok=false at EOF.
	NextBit() (bit int, ok bool)
	// EOF reports whether the stream is exhausted.
	EOF() bool
}

// Out is a sink for bits, written one at a time.
type Out interface {
	// OutputBit writes a single bit. Writes after EOF are silently dropped.
	OutputBit(bit int)
	// EOF reports whether further writes would be dropped.
	EOF() bool
}

// ByteSourceIn reads an octet at a time from a byte source and emits its 8
// bits least-significant-bit first. EOF is reached once the source is
// exhausted and the internal octet is drained.
type ByteSourceIn struct {
	src    io.ByteReader
	cur    byte
	cursor uint // 0..8; 8 means the current octet is drained
	eof    bool
}

// NewByteSourceIn wraps a byte-at-a-time reader as a bit source.
func NewByteSourceIn(src io.ByteReader) *ByteSourceIn {
	return &ByteSourceIn{src: src, cursor: 8}
}

func (s *ByteSourceIn) refill() bool {
	if s.eof {
		return false
	}
	b, err := s.src.ReadByte()
	if err != nil {
		s.eof = true
		return false
	}
	s.cur = b
	s.cursor = 0
	return true
}

// NextBit implements In.
func (s *ByteSourceIn) NextBit() (int, bool) {
	if s.cursor >= 8 {
		if !s.refill() {
			return 0, false
		}
	}
	bit := int((s.cur >> s.cursor) & 1)
	s.cursor++
	return bit, true
}

// EOF implements In.
func (s *ByteSourceIn) EOF() bool {
	return s.eof && s.cursor >= 8
}

// ByteSinkOut accumulates bits LSB-first into a byte and emits it once full.
// Partial trailing bits are never flushed automatically. If the underlying
// byte sink reports an error, further writes are silently dropped.
type ByteSinkOut struct {
	dst    io.ByteWriter
	cur    byte
	cursor uint
	eof    bool
}

// NewByteSinkOut wraps a byte-at-a-time writer as a bit sink.
func NewByteSinkOut(dst io.ByteWriter) *ByteSinkOut {
	return &ByteSinkOut{dst: dst}
}

// OutputBit implements Out.
func (s *ByteSinkOut) OutputBit(bit int) {
	if s.eof {
		return
	}
	if bit&1 != 0 {
		s.cur |= 1 << s.cursor
	}
	s.cursor++
	if s.cursor == 8 {
		if err := s.dst.WriteByte(s.cur); err != nil {
			s.eof = true
		}
		s.cur = 0
		s.cursor = 0
	}
}

// EOF implements Out.
func (s *ByteSinkOut) EOF() bool {
	return s.eof
}

// VectorIn reads bits from a BitVector in index order.
type VectorIn struct {
	v   *bitvec.BitVector
	pos int
}

// NewVectorIn returns a bit source over v, starting at index 0.
func NewVectorIn(v *bitvec.BitVector) *VectorIn {
	return &VectorIn{v: v}
}

// NextBit implements In.
func (s *VectorIn) NextBit() (int, bool) {
	if s.pos >= s.v.Len() {
		return 0, false
	}
	b := s.v.At(s.pos)
	s.pos++
	return b, true
}

// EOF implements In.
func (s *VectorIn) EOF() bool {
	return s.pos >= s.v.Len()
}

// VectorOut appends written bits onto a BitVector. It never reports EOF.
type VectorOut struct {
	v *bitvec.BitVector
}

// NewVectorOut returns a bit sink that appends onto v.
func NewVectorOut(v *bitvec.BitVector) *VectorOut {
	return &VectorOut{v: v}
}

// OutputBit implements Out.
func (s *VectorOut) OutputBit(bit int) {
	s.v.PushBack(bit)
}

// EOF implements Out.
func (s *VectorOut) EOF() bool {
	return false
}
