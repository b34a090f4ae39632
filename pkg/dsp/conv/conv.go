// Package conv implements streaming overlap-add linear convolution via FFT.
package conv

import "github.com/gostego/audiostego/pkg/dsp/fft"

// Convolver computes a streaming linear convolution of a fixed-size signal
// frame against a FIR kernel, carrying the overlap-add history across Exec
// calls. The signal, kernel, and output buffers are borrowed references bound
// at construction; the kernel may be mutated by the caller between calls.
type Convolver struct {
	lx, lh, p int
	in        []float64
	kernel    []float64
	out       []float64

	history []float64

	padIn, padKernel, padOut   []float64
	inSpec, kernelSpec, outSpec []complex128
	fwdIn, fwdKernel           *fft.Forward
	inv                        *fft.Inverse
}

// New binds a convolver for a signal frame of length lx against a kernel of
// length lh. in must have length lx, kernel must have length lh, and out must
// have length at least next-pow2(lx+lh-1); only the first lx samples of out
// are defined after Exec.
func New(lx, lh int, in, kernel, out []float64) *Convolver {
	if len(in) != lx {
		panic("conv: input buffer length must equal lx")
	}
	if len(kernel) != lh {
		panic("conv: kernel buffer length must equal lh")
	}
	p := fft.NextPow2(lx + lh - 1)
	if len(out) < p {
		panic("conv: output buffer too small")
	}
	c := &Convolver{
		lx: lx, lh: lh, p: p,
		in: in, kernel: kernel, out: out,
		history: make([]float64, lh-1),
	}
	c.padIn = make([]float64, p)
	c.padKernel = make([]float64, p)
	c.padOut = make([]float64, p)
	c.inSpec = make([]complex128, p/2+1)
	c.kernelSpec = make([]complex128, p/2+1)
	c.outSpec = make([]complex128, p/2+1)
	c.fwdIn = fft.NewForward(p, c.padIn, c.inSpec)
	c.fwdKernel = fft.NewForward(p, c.padKernel, c.kernelSpec)
	c.inv = fft.NewInverse(p, c.outSpec, c.padOut)
	return c
}

// Exec convolves the current contents of the bound input and kernel buffers,
// adds in the overlap-add history from the previous call, and writes the
// first lx samples of the result into the bound output buffer.
func (c *Convolver) Exec() {
	copy(c.padIn, c.in)
	for i := c.lx; i < c.p; i++ {
		c.padIn[i] = 0
	}
	copy(c.padKernel, c.kernel)
	for i := c.lh; i < c.p; i++ {
		c.padKernel[i] = 0
	}

	c.fwdIn.Exec()
	c.fwdKernel.Exec()
	for k := range c.outSpec {
		c.outSpec[k] = c.inSpec[k] * c.kernelSpec[k]
	}
	c.inv.Exec()

	overlap := c.lh - 1
	for i := 0; i < c.lx; i++ {
		if i < overlap {
			c.out[i] = c.padOut[i] + c.history[i]
		} else {
			c.out[i] = c.padOut[i]
		}
	}

	for i := 0; i < overlap; i++ {
		idx := c.lx + i
		if idx < c.p {
			c.history[i] = c.padOut[idx]
		} else {
			c.history[i] = 0
		}
	}
}
