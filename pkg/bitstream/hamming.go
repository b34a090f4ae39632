package bitstream

// HammingIn encodes 4 payload bits from an inner source as a 7-bit
// Hamming(7,4) block on every group of 4: data bits occupy positions
// 0, 1, 2, 4; parity bits occupy positions 3 (0^1^2), 5 (0^1^4), and
// 6 (0^2^4). It reports EOF once the inner source has no full 4-bit group
// left and the current block has been fully emitted.
type HammingIn struct {
	inner In
	block [7]int
	pos   int // 0..7; 7 means a new block must be filled
	done  bool
}

// NewHammingIn wraps inner as a Hamming(7,4) encoder.
func NewHammingIn(inner In) *HammingIn {
	return &HammingIn{inner: inner, pos: 7}
}

func (h *HammingIn) fillBlock() bool {
	var d [4]int
	for i := range d {
		b, ok := h.inner.NextBit()
		if !ok {
			h.done = true
			return false
		}
		d[i] = b
	}
	h.block[0], h.block[1], h.block[2], h.block[4] = d[0], d[1], d[2], d[3]
	h.block[3] = d[0] ^ d[1] ^ d[2]
	h.block[5] = d[0] ^ d[1] ^ d[3]
	h.block[6] = d[0] ^ d[2] ^ d[3]
	h.pos = 0
	return true
}

// NextBit implements In.
func (h *HammingIn) NextBit() (int, bool) {
	if h.pos >= 7 {
		if h.done {
			return 0, false
		}
		if !h.fillBlock() {
			return 0, false
		}
	}
	b := h.block[h.pos]
	h.pos++
	return b, true
}

// EOF implements In.
func (h *HammingIn) EOF() bool {
	return h.done && h.pos >= 7
}

// HammingOut decodes 7-bit Hamming(7,4) blocks written to it, correcting any
// single-bit error via the syndrome s=(s3,s2,s1) with
// s3=b3^b2^b1^b0, s2=b5^b4^b1^b0, s1=b6^b4^b2^b0 (flip bit 7-s if nonzero),
// then emits the data bits at positions 0, 1, 2, 4 to an inner sink.
type HammingOut struct {
	inner Out
	buf   [7]int
	pos   int
}

// NewHammingOut wraps inner as a Hamming(7,4) decoder.
func NewHammingOut(inner Out) *HammingOut {
	return &HammingOut{inner: inner}
}

// OutputBit implements Out.
func (h *HammingOut) OutputBit(bit int) {
	if h.pos >= 7 {
		h.pos = 0
	}
	h.buf[h.pos] = bit
	h.pos++
	if h.pos == 7 {
		h.decodeAndEmit()
		h.pos = 0
	}
}

func (h *HammingOut) decodeAndEmit() {
	b := h.buf
	s3 := b[3] ^ b[2] ^ b[1] ^ b[0]
	s2 := b[5] ^ b[4] ^ b[1] ^ b[0]
	s1 := b[6] ^ b[4] ^ b[2] ^ b[0]
	syndrome := s3<<2 | s2<<1 | s1
	if syndrome != 0 {
		idx := 7 - syndrome
		b[idx] ^= 1
	}
	h.inner.OutputBit(b[0])
	h.inner.OutputBit(b[1])
	h.inner.OutputBit(b[2])
	h.inner.OutputBit(b[4])
}

// EOF implements Out.
func (h *HammingOut) EOF() bool {
	return h.inner.EOF()
}
