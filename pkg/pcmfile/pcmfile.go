// Package pcmfile adapts uncompressed PCM WAV files to the pipeline's
// Source/Sink interfaces via github.com/go-audio/wav and
// github.com/go-audio/audio. Integer samples are exposed as-is; float access
// normalises to [-1, 1] by the container's full-scale integer value, since
// every cover/stego file this tool handles is an integer-PCM WAV container.
package pcmfile

import (
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gostego/audiostego/pkg/stego"
)

// pcmFormatTag is the WAVE_FORMAT_PCM format tag (1) written into the fmt
// chunk by Create.
const pcmFormatTag = 1

// File is a PCM WAV reader or writer bound to one *os.File.
type File struct {
	f   *os.File
	dec *wav.Decoder
	enc *wav.Encoder

	sampleRate int
	channels   int
	bitDepth   int
	fullScale  float64

	intBuf   *audio.IntBuffer
	clipped  int64
}

// Open opens path for reading as a PCM WAV cover/stego file.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, stego.IOFailuref(err, "open %s", path)
	}
	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		f.Close()
		return nil, stego.IOFailuref(dec.Err(), "%s is not a valid PCM WAV file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		f.Close()
		return nil, stego.IOFailuref(err, "seek to PCM data in %s", path)
	}
	channels := int(dec.NumChans)
	bitDepth := int(dec.BitDepth)
	return &File{
		f:          f,
		dec:        dec,
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   bitDepth,
		fullScale:  fullScaleFor(bitDepth),
		intBuf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: int(dec.SampleRate)},
		},
	}, nil
}

// Create opens path for writing a PCM WAV file with the given format,
// mirroring a cover's container so the stego output preserves it.
func Create(path string, sampleRate, channels, bitDepth int) (*File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, stego.IOFailuref(err, "create %s", path)
	}
	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, pcmFormatTag)
	return &File{
		f:          f,
		enc:        enc,
		sampleRate: sampleRate,
		channels:   channels,
		bitDepth:   bitDepth,
		fullScale:  fullScaleFor(bitDepth),
	}, nil
}

func fullScaleFor(bitDepth int) float64 {
	if bitDepth <= 0 {
		return 1
	}
	return float64(int64(1) << (uint(bitDepth) - 1))
}

// SampleRate implements pipeline.Source.
func (p *File) SampleRate() int { return p.sampleRate }

// Channels implements pipeline.Source.
func (p *File) Channels() int { return p.channels }

// BitDepth implements pipeline.Source.
func (p *File) BitDepth() int { return p.bitDepth }

// ClippedSamples reports how many written samples were clamped to the
// container's representable range.
func (p *File) ClippedSamples() int64 { return p.clipped }

// NumFrames reports the total sample-frame count of a file opened for
// reading, derived from the PCM data chunk size. Returns 0 for a writer.
func (p *File) NumFrames() int64 {
	if p.dec == nil {
		return 0
	}
	bytesPerSample := int64(p.bitDepth) / 8
	if bytesPerSample <= 0 || p.channels <= 0 {
		return 0
	}
	return p.dec.PCMLen() / (bytesPerSample * int64(p.channels))
}

// ReadInt fills buf with up to len(buf) interleaved integer samples. A short
// final read returns n < len(buf) with err == nil.
func (p *File) ReadInt(buf []int64) (int, error) {
	if cap(p.intBuf.Data) < len(buf) {
		p.intBuf.Data = make([]int, len(buf))
	}
	p.intBuf.Data = p.intBuf.Data[:len(buf)]
	p.intBuf.SourceBitDepth = p.bitDepth
	n, err := p.dec.PCMBuffer(p.intBuf)
	if err != nil {
		return 0, stego.IOFailuref(err, "read PCM samples")
	}
	for i := 0; i < n; i++ {
		buf[i] = int64(p.intBuf.Data[i])
	}
	return n, nil
}

// ReadFloat is like ReadInt but normalises every sample to [-1, 1].
func (p *File) ReadFloat(buf []float64) (int, error) {
	ints := make([]int64, len(buf))
	n, err := p.ReadInt(ints)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		buf[i] = float64(ints[i]) / p.fullScale
	}
	return n, nil
}

// WriteInt writes len(buf) interleaved integer samples, clamping any sample
// outside the container's representable range and counting the clamps.
func (p *File) WriteInt(buf []int64) error {
	lo, hi := rangeFor(p.bitDepth)
	ints := make([]int, len(buf))
	for i, s := range buf {
		if s < lo {
			s = lo
			p.clipped++
		} else if s > hi {
			s = hi
			p.clipped++
		}
		ints[i] = int(s)
	}
	b := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: p.channels, SampleRate: p.sampleRate},
		Data:           ints,
		SourceBitDepth: p.bitDepth,
	}
	if err := p.enc.Write(b); err != nil {
		return stego.IOFailuref(err, "write PCM samples")
	}
	return nil
}

// WriteFloat denormalises each sample from [-1, 1] by the container's
// full-scale value and delegates to WriteInt.
func (p *File) WriteFloat(buf []float64) error {
	ints := make([]int64, len(buf))
	for i, s := range buf {
		ints[i] = int64(s * p.fullScale)
	}
	return p.WriteInt(ints)
}

func rangeFor(bitDepth int) (int64, int64) {
	if bitDepth <= 0 {
		return -1, 1
	}
	half := int64(1) << (uint(bitDepth) - 1)
	return -half, half - 1
}

// Close flushes and closes the underlying file. For a writer this finalises
// the WAV header via the encoder.
func (p *File) Close() error {
	var encErr error
	if p.enc != nil {
		encErr = p.enc.Close()
	}
	closeErr := p.f.Close()
	if encErr != nil {
		return stego.IOFailuref(encErr, "finalise WAV header")
	}
	if closeErr != nil {
		return stego.IOFailuref(closeErr, "close file")
	}
	return nil
}

var _ io.Closer = (*File)(nil)
