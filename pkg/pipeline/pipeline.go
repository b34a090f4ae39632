// Package pipeline drives the single-threaded, channel-sequential,
// frame-at-a-time embed and extract loops that sit between a PCM source/sink
// and a stego.Method.
package pipeline

import (
	"context"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/bitvec"
	"github.com/gostego/audiostego/pkg/stego"
)

// Source yields interleaved multi-channel sample frames at a known sample
// rate and bit depth (-1 for float samples). ReadInt/ReadFloat return the
// number of samples read, n < len(buf) with err == nil on a short final read; err is
// reserved for genuine I/O failure.
type Source interface {
	SampleRate() int
	Channels() int
	BitDepth() int
	ReadInt(buf []int64) (n int, err error)
	ReadFloat(buf []float64) (n int, err error)
}

// Sink accepts interleaved multi-channel sample frames.
type Sink interface {
	WriteInt(buf []int64) error
	WriteFloat(buf []float64) error
}

// ChannelPolicy resolves how the pipeline spreads work across channels.
type ChannelPolicy int

const (
	// FirstOnly embeds/extracts on channel 0 only; other channels pass
	// through unchanged on embed and are ignored on extract. This is the
	// default, matching the reference pipeline's behavior.
	FirstOnly ChannelPolicy = iota
	// EachIndependent gives every channel its own embedder/extractor, all
	// sharing one payload bit stream: frame by frame, each channel in index
	// order takes the next bits.
	EachIndependent
	// Mirror embeds the same payload independently into every channel; on
	// extract it reads channel 0, since every channel carries the same bits.
	Mirror
)

// EmbedOptions configures an Embed call.
type EmbedOptions struct {
	Method stego.Method
	In     bitstream.In
	Policy ChannelPolicy
}

// ExtractOptions configures an Extract call.
type ExtractOptions struct {
	Method stego.Method
	Out    bitstream.Out
	Policy ChannelPolicy
}

// Embed reads cover frames from src, embeds a payload per opts, and writes
// stego frames to sink until src is exhausted.
func Embed(ctx context.Context, src Source, sink Sink, opts EmbedOptions) error {
	switch opts.Method.Kind() {
	case stego.KindInt:
		return embedInt(ctx, src, sink, opts)
	default:
		return embedFloat(ctx, src, sink, opts)
	}
}

// Extract reads stego frames from src and recovers a payload per opts until
// src is exhausted or the output bit stream reports EOF.
func Extract(ctx context.Context, src Source, opts ExtractOptions) error {
	switch opts.Method.Kind() {
	case stego.KindInt:
		return extractInt(ctx, src, opts)
	default:
		return extractFloat(ctx, src, opts)
	}
}

func drainToVector(in bitstream.In) *bitvec.BitVector {
	v := bitvec.New()
	for {
		b, ok := in.NextBit()
		if !ok {
			break
		}
		v.PushBack(b)
	}
	return v
}

func activeChannels(policy ChannelPolicy, channels int) []int {
	if policy == FirstOnly || policy == Mirror {
		return []int{0}
	}
	out := make([]int, channels)
	for i := range out {
		out[i] = i
	}
	return out
}

func embedInt(ctx context.Context, src Source, sink Sink, opts EmbedOptions) error {
	channels := src.Channels()
	frameSize := opts.Method.FrameSize()

	embedders := make([]stego.IntEmbedder, channels)
	done := make([]bool, channels)

	switch opts.Policy {
	case Mirror:
		shared := drainToVector(opts.In)
		for c := 0; c < channels; c++ {
			embedders[c] = opts.Method.MakeEmbedder(bitstream.NewVectorIn(shared)).Int
		}
	case EachIndependent:
		for c := 0; c < channels; c++ {
			embedders[c] = opts.Method.MakeEmbedder(opts.In).Int
		}
	default:
		embedders[0] = opts.Method.MakeEmbedder(opts.In).Int
	}
	active := activeChannels(opts.Policy, channels)
	if opts.Policy == Mirror {
		active = activeChannels(EachIndependent, channels)
	}

	buf := make([]int64, frameSize*channels)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.ReadInt(buf)
		if err != nil {
			return err
		}
		frames := n / channels
		if frames < frameSize {
			if frames > 0 {
				if err := sink.WriteInt(buf[:n]); err != nil {
					return err
				}
			}
			return nil
		}

		for _, c := range active {
			emb := embedders[c]
			inFrame := emb.InFrame()
			for i := 0; i < frames; i++ {
				inFrame[i] = buf[i*channels+c]
			}
			if !done[c] {
				if emb.Embed() {
					done[c] = true
				}
				outFrame := emb.OutFrame()
				for i := 0; i < frames; i++ {
					buf[i*channels+c] = outFrame[i]
				}
			}
		}

		if err := sink.WriteInt(buf[:n]); err != nil {
			return err
		}
	}
}

func embedFloat(ctx context.Context, src Source, sink Sink, opts EmbedOptions) error {
	channels := src.Channels()
	frameSize := opts.Method.FrameSize()

	embedders := make([]stego.FloatEmbedder, channels)
	done := make([]bool, channels)

	switch opts.Policy {
	case Mirror:
		shared := drainToVector(opts.In)
		for c := 0; c < channels; c++ {
			embedders[c] = opts.Method.MakeEmbedder(bitstream.NewVectorIn(shared)).Float
		}
	case EachIndependent:
		for c := 0; c < channels; c++ {
			embedders[c] = opts.Method.MakeEmbedder(opts.In).Float
		}
	default:
		embedders[0] = opts.Method.MakeEmbedder(opts.In).Float
	}
	active := activeChannels(opts.Policy, channels)
	if opts.Policy == Mirror {
		active = activeChannels(EachIndependent, channels)
	}

	buf := make([]float64, frameSize*channels)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.ReadFloat(buf)
		if err != nil {
			return err
		}
		frames := n / channels
		if frames < frameSize {
			if frames > 0 {
				if err := sink.WriteFloat(buf[:n]); err != nil {
					return err
				}
			}
			return nil
		}

		for _, c := range active {
			emb := embedders[c]
			inFrame := emb.InFrame()
			for i := 0; i < frames; i++ {
				inFrame[i] = buf[i*channels+c]
			}
			if !done[c] {
				if emb.Embed() {
					done[c] = true
				}
				outFrame := emb.OutFrame()
				for i := 0; i < frames; i++ {
					buf[i*channels+c] = outFrame[i]
				}
			}
		}

		if err := sink.WriteFloat(buf[:n]); err != nil {
			return err
		}
	}
}

func extractInt(ctx context.Context, src Source, opts ExtractOptions) error {
	channels := src.Channels()
	frameSize := opts.Method.FrameSize()
	active := activeChannels(opts.Policy, channels)

	extractors := make([]stego.IntExtractor, channels)
	for _, c := range active {
		extractors[c] = opts.Method.MakeExtractor().Int
	}

	buf := make([]int64, frameSize*channels)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.ReadInt(buf)
		if err != nil {
			return err
		}
		frames := n / channels
		if frames < frameSize {
			return nil
		}

		for _, c := range active {
			ext := extractors[c]
			inFrame := ext.InFrame()
			for i := 0; i < frames; i++ {
				inFrame[i] = buf[i*channels+c]
			}
			if opts.Out.EOF() {
				return nil
			}
			if !ext.Extract(opts.Out) {
				return nil
			}
		}
	}
}

func extractFloat(ctx context.Context, src Source, opts ExtractOptions) error {
	channels := src.Channels()
	frameSize := opts.Method.FrameSize()
	active := activeChannels(opts.Policy, channels)

	extractors := make([]stego.FloatExtractor, channels)
	for _, c := range active {
		extractors[c] = opts.Method.MakeExtractor().Float
	}

	buf := make([]float64, frameSize*channels)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := src.ReadFloat(buf)
		if err != nil {
			return err
		}
		frames := n / channels
		if frames < frameSize {
			return nil
		}

		for _, c := range active {
			ext := extractors[c]
			inFrame := ext.InFrame()
			for i := 0; i < frames; i++ {
				inFrame[i] = buf[i*channels+c]
			}
			if opts.Out.EOF() {
				return nil
			}
			if !ext.Extract(opts.Out) {
				return nil
			}
		}
	}
}
