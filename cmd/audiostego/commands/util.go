package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gostego/audiostego/pkg/bitstream"
	"github.com/gostego/audiostego/pkg/cli"
	"github.com/gostego/audiostego/pkg/stego"
)

// parseKeyParams parses a -k "k1=v1,k2=v2" string into a parameter map.
// An empty string yields an empty map.
func parseKeyParams(s string) (map[string]string, error) {
	out := map[string]string{}
	if s == "" {
		return out, nil
	}
	for _, pair := range strings.Split(s, ",") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 || kv[0] == "" {
			return nil, fmt.Errorf("invalid -k entry %q, expected key=value", pair)
		}
		out[kv[0]] = kv[1]
	}
	return out, nil
}

// parseLimit parses a -l value: bits if suffixed with "b", otherwise bytes
// multiplied by 8. Returns -1 for an empty string (no limit).
func parseLimit(s string) (int, error) {
	if s == "" {
		return -1, nil
	}
	bits := strings.HasSuffix(s, "b")
	digits := s
	if bits {
		digits = strings.TrimSuffix(s, "b")
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("invalid -l value %q: %w", s, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid -l value %q: must not be negative", s)
	}
	if !bits {
		n *= 8
	}
	return n, nil
}

// reportStoredDefaults prints, one line per key, the parameter keys in merged
// that were not present in cliParams, i.e. came from a stored config default
// rather than an explicit -k entry.
func reportStoredDefaults(method string, cliParams, merged map[string]string) {
	var fromConfig []string
	for k := range merged {
		if _, explicit := cliParams[k]; !explicit {
			fromConfig = append(fromConfig, k)
		}
	}
	if len(fromConfig) == 0 {
		return
	}
	sort.Strings(fromConfig)
	for _, k := range fromConfig {
		cli.PrintInfo("using stored default %s.%s=%s", method, k, merged[k])
	}
}

// openPayloadIn opens msgfile (or stdin if empty) as a bit source, applying
// -l and -e wrapping: the limit (in payload bits, before encoding) wraps the
// raw source, then Hamming encoding is applied on top.
func openPayloadIn(msgfile string, limitBits int, hamming bool) (bitstream.In, io.Closer, error) {
	var r io.Reader = os.Stdin
	var closer io.Closer
	if msgfile != "" {
		f, err := os.Open(msgfile)
		if err != nil {
			return nil, nil, stego.IOFailuref(err, "open message file %s", msgfile)
		}
		r = f
		closer = f
	}
	var in bitstream.In = bitstream.NewByteSourceIn(bufio.NewReader(r))
	if limitBits >= 0 {
		in = bitstream.NewLimitedIn(in, limitBits)
	}
	if hamming {
		in = bitstream.NewHammingIn(in)
	}
	return in, closer, nil
}

// openPayloadOut opens msgfile (or stdout if empty) as a bit sink, applying
// -e unwrapping before any recovered-bit limit.
func openPayloadOut(msgfile string, limitBits int, hamming bool) (bitstream.Out, io.Closer, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if msgfile != "" {
		f, err := os.Create(msgfile)
		if err != nil {
			return nil, nil, stego.IOFailuref(err, "create message file %s", msgfile)
		}
		w = f
		closer = f
	}
	bw := bufio.NewWriter(w)
	var out bitstream.Out = bitstream.NewByteSinkOut(bw)
	if limitBits >= 0 {
		out = bitstream.NewLimitedOut(out, limitBits)
	}
	if hamming {
		out = bitstream.NewHammingOut(out)
	}
	return out, flushCloser{bw, closer}, nil
}

// flushCloser flushes a buffered writer before delegating Close to the
// underlying file, so stdout output (which has no Close) is still flushed.
type flushCloser struct {
	buf    *bufio.Writer
	closer io.Closer
}

func (f flushCloser) Close() error {
	if err := f.buf.Flush(); err != nil {
		return err
	}
	if f.closer != nil {
		return f.closer.Close()
	}
	return nil
}
