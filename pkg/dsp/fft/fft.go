// Package fft implements real-to-complex FFT and complex-to-real IFFT
// primitives of a fixed transform length, each bound at construction to an
// input and output buffer it borrows for every Exec call.
package fft

import "math"

// Plan caches the twiddle factors and bit-reversal permutation for a fixed
// power-of-two transform length. Every Forward and Inverse builds and owns its
// own plan; plans are not shared between transform objects.
type Plan struct {
	n        int
	cosTable []float64
	sinTable []float64
	rev      []int
}

// NewPlan builds a plan for an n-point complex FFT. n must be a power of two.
func NewPlan(n int) *Plan {
	if n <= 0 || n&(n-1) != 0 {
		panic("fft: transform length must be a power of two")
	}
	bits := 0
	for m := n; m > 1; m >>= 1 {
		bits++
	}
	p := &Plan{n: n, rev: make([]int, n), cosTable: make([]float64, n/2), sinTable: make([]float64, n/2)}
	for i := 0; i < n; i++ {
		p.rev[i] = bitReverse(i, bits)
	}
	for i := 0; i < n/2; i++ {
		angle := -2 * math.Pi * float64(i) / float64(n)
		p.cosTable[i] = math.Cos(angle)
		p.sinTable[i] = math.Sin(angle)
	}
	return p
}

func bitReverse(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

// forward runs an unnormalised, in-place radix-2 Cooley-Tukey FFT over
// parallel real/imaginary slices.
func (p *Plan) forward(re, im []float64) {
	n := p.n
	for i, j := range p.rev {
		if j > i {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				tw := k * step
				cos, sin := p.cosTable[tw], p.sinTable[tw]
				i0 := start + k
				i1 := i0 + half
				tr := re[i1]*cos - im[i1]*sin
				ti := re[i1]*sin + im[i1]*cos
				re[i1] = re[i0] - tr
				im[i1] = im[i0] - ti
				re[i0] += tr
				im[i0] += ti
			}
		}
	}
}

// NextPow2 returns the smallest power of two that is >= n.
func NextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Forward is a real-to-complex forward transform of fixed length n, bound at
// construction to an input time-domain buffer and an output spectrum buffer
// of n/2+1 bins.
type Forward struct {
	plan   *Plan
	n      int
	in     []float64
	out    []complex128
	re, im []float64
}

// NewForward binds a forward transform of length n to in (length n) and out
// (length n/2+1). The plan is built on the first Exec and reused by every
// later one.
func NewForward(n int, in []float64, out []complex128) *Forward {
	if len(in) != n {
		panic("fft: input buffer length must equal n")
	}
	if len(out) != n/2+1 {
		panic("fft: output buffer length must equal n/2+1")
	}
	return &Forward{n: n, in: in, out: out, re: make([]float64, n), im: make([]float64, n)}
}

// Exec writes the first n/2+1 complex bins of the DFT of the bound input
// buffer into the bound output buffer.
func (f *Forward) Exec() {
	if f.plan == nil {
		f.plan = NewPlan(f.n)
	}
	copy(f.re, f.in)
	for i := range f.im {
		f.im[i] = 0
	}
	f.plan.forward(f.re, f.im)
	for k := 0; k <= f.n/2; k++ {
		f.out[k] = complex(f.re[k], f.im[k])
	}
}

// Inverse is a complex-to-real inverse transform of fixed length n, bound at
// construction to an input spectrum buffer of n/2+1 bins and an output
// time-domain buffer of length n.
type Inverse struct {
	plan   *Plan
	n      int
	in     []complex128
	out    []float64
	re, im []float64
}

// NewInverse binds an inverse transform of length n to in (length n/2+1) and
// out (length n). The plan is built on the first Exec and reused by every
// later one.
func NewInverse(n int, in []complex128, out []float64) *Inverse {
	if len(in) != n/2+1 {
		panic("fft: input buffer length must equal n/2+1")
	}
	if len(out) != n {
		panic("fft: output buffer length must equal n")
	}
	return &Inverse{n: n, in: in, out: out, re: make([]float64, n), im: make([]float64, n)}
}

// Exec reconstructs the full Hermitian-symmetric spectrum from the bound
// half-spectrum input, applies the inverse transform via conjugate-forward-
// conjugate, and normalises by dividing every sample by n.
func (inv *Inverse) Exec() {
	if inv.plan == nil {
		inv.plan = NewPlan(inv.n)
	}
	n := inv.n
	half := n / 2
	for k := 0; k <= half; k++ {
		c := inv.in[k]
		inv.re[k] = real(c)
		inv.im[k] = -imag(c)
	}
	for k := 1; k < half; k++ {
		c := inv.in[k]
		inv.re[n-k] = real(c)
		inv.im[n-k] = imag(c)
	}
	inv.plan.forward(inv.re, inv.im)
	for i := 0; i < n; i++ {
		inv.out[i] = inv.re[i] / float64(n)
	}
}
