package stego

import "strconv"

// Params is a string-to-string parameter bag populated from the CLI `-k`
// option and augmented by the CLI commands with implicit entries (samplerate,
// bit_depth). Values are parsed on demand.
type Params struct {
	values map[string]string
}

// NewParams returns a Params bag backed by a copy of values.
func NewParams(values map[string]string) *Params {
	p := &Params{values: make(map[string]string, len(values))}
	for k, v := range values {
		p.values[k] = v
	}
	return p
}

// Set installs or overwrites a single key, used by the CLI commands to inject
// samplerate / bit_depth before a method factory runs.
func (p *Params) Set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	p.values[key] = value
}

// GetOrInt returns the parsed signed integer at key, or def if absent.
func (p *Params) GetOrInt(key string, def int64) (int64, error) {
	raw, ok := p.values[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidArgf("parameter %q: %q is not an integer", key, raw)
	}
	return v, nil
}

// GetOrUint returns the parsed unsigned integer at key, or def if absent.
func (p *Params) GetOrUint(key string, def uint64) (uint64, error) {
	raw, ok := p.values[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, invalidArgf("parameter %q: %q is not an unsigned integer", key, raw)
	}
	return v, nil
}

// GetOrFloat returns the parsed float at key, or def if absent.
func (p *Params) GetOrFloat(key string, def float64) (float64, error) {
	raw, ok := p.values[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, invalidArgf("parameter %q: %q is not a number", key, raw)
	}
	return v, nil
}

// GetInt returns the parsed signed integer at key, failing with
// missing-parameter if absent.
func (p *Params) GetInt(key string) (int64, error) {
	raw, ok := p.values[key]
	if !ok {
		return 0, missingParam(key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidArgf("parameter %q: %q is not an integer", key, raw)
	}
	return v, nil
}
