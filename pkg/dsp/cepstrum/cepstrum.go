// Package cepstrum computes the real cepstrum of a signal's autocorrelation,
// used by the echo-hiding methods to detect echo delays.
package cepstrum

import (
	"math"

	"github.com/gostego/audiostego/pkg/dsp/fft"
)

// Cepstrum computes the real cepstrum of an input frame's autocorrelation
// into an output buffer, via two FFT/IFFT passes with a log-power bin
// replacement step in between.
type Cepstrum struct {
	l, p int
	in   []float64
	out  []float64

	pad  []float64
	spec []complex128
	fwd  *fft.Forward
	inv  *fft.Inverse
}

// New binds a cepstrum computation over an input frame of length l. out must
// have length next-pow2(2*l-1).
func New(l int, in, out []float64) *Cepstrum {
	if len(in) != l {
		panic("cepstrum: input buffer length must equal l")
	}
	p := fft.NextPow2(2*l - 1)
	if len(out) != p {
		panic("cepstrum: output buffer length must equal next-pow2(2*l-1)")
	}
	c := &Cepstrum{l: l, p: p, in: in, out: out}
	c.pad = make([]float64, p)
	c.spec = make([]complex128, p/2+1)
	c.fwd = fft.NewForward(p, c.pad, c.spec)
	c.inv = fft.NewInverse(p, c.spec, out)
	return c
}

// Exec zero-pads the bound input to p, takes its forward FFT, replaces every
// bin with log(|X|^2), and inverse-transforms into the bound output buffer.
func (c *Cepstrum) Exec() {
	copy(c.pad, c.in)
	for i := c.l; i < c.p; i++ {
		c.pad[i] = 0
	}
	c.fwd.Exec()
	for k, x := range c.spec {
		mag2 := real(x)*real(x) + imag(x)*imag(x)
		logv := 0.0
		if mag2 > 0 {
			logv = math.Log(mag2)
		}
		c.spec[k] = complex(logv, 0)
	}
	c.inv.Exec()
}
