// Package stego defines the method-agnostic core: the parameter bag, error
// kinds, the Embedder/Extractor sample-type dispatch, and the process-wide
// method registry. Concrete hiding methods register themselves from their
// own package's init, the way database/sql drivers register with the sql
// package.
package stego

import (
	"sort"
	"sync"

	"github.com/gostego/audiostego/pkg/bitstream"
)

// SampleKind selects which of a Method's two monomorphic implementations
// (integer or float) a pipeline must drive.
type SampleKind int

const (
	KindInt SampleKind = iota
	KindFloat
)

// IntEmbedder drives one channel of an integer-sample cover. InFrame is
// filled by the caller before each Embed call; OutFrame holds the result.
type IntEmbedder interface {
	InFrame() []int64
	OutFrame() []int64
	// Embed consumes in_frame, fills out_frame, and reports done=true once
	// the payload bit stream has been exhausted.
	Embed() (done bool)
}

// FloatEmbedder is the floating-point analogue of IntEmbedder.
type FloatEmbedder interface {
	InFrame() []float64
	OutFrame() []float64
	Embed() (done bool)
}

// IntExtractor drives one channel of an integer-sample stego file.
type IntExtractor interface {
	InFrame() []int64
	// Extract consumes in_frame and writes recovered bits to out, reporting
	// shouldContinue=false once this channel has no more bits to offer.
	Extract(out bitstream.Out) (shouldContinue bool)
}

// FloatExtractor is the floating-point analogue of IntExtractor.
type FloatExtractor interface {
	InFrame() []float64
	Extract(out bitstream.Out) (shouldContinue bool)
}

// Embedder tags which of Int/Float is live, mirroring the source's
// statically-dispatched Embedder<Integer>/Embedder<Float> pair behind a
// single value the pipeline can unpack per call.
type Embedder struct {
	Kind  SampleKind
	Int   IntEmbedder
	Float FloatEmbedder
}

// Extractor is the Extractor-side counterpart of Embedder.
type Extractor struct {
	Kind  SampleKind
	Int   IntExtractor
	Float FloatExtractor
}

// Method is a named, parameterised hiding algorithm.
type Method interface {
	Name() string
	Kind() SampleKind
	FrameSize() int
	// Capacity reports the number of bits available in a cover of the given
	// sample count, per channel. Non-decreasing in samples.
	Capacity(samples int64) int64
	MakeEmbedder(in bitstream.In) Embedder
	MakeExtractor() Extractor
}

// Factory validates params eagerly and constructs a Method, or fails with
// KindInvalidArgument / KindMissingParameter.
type Factory func(params *Params) (Method, error)

var registry = struct {
	mu   sync.RWMutex
	byID map[string]Factory
}{byID: make(map[string]Factory)}

// Register installs a factory under name. Called from each method
// subpackage's init; panics on duplicate registration since that indicates
// a programming error, not a runtime condition.
func Register(name string, factory Factory) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.byID[name]; exists {
		panic("stego: method " + name + " already registered")
	}
	registry.byID[name] = factory
}

// Create looks up name and invokes its factory with params.
func Create(name string, params *Params) (Method, error) {
	registry.mu.RLock()
	factory, ok := registry.byID[name]
	registry.mu.RUnlock()
	if !ok {
		return nil, UnknownMethod(name)
	}
	return factory(params)
}

// ListMethods returns every registered method name, sorted.
func ListMethods() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	names := make([]string, 0, len(registry.byID))
	for name := range registry.byID {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
