package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Options is an optional JSON value. A missing field and an explicit null
// both decode to the absent state; any other value, including {} and [],
// is present.
type Options struct {
	raw json.RawMessage
	set bool
}

// NoOptions is the absent value.
var NoOptions = Options{}

// OptionsOf encodes v as a present value.
func OptionsOf(v any) (Options, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Options{}, fmt.Errorf("encode options: %w", err)
	}
	if bytes.Equal(raw, []byte("null")) {
		return NoOptions, nil
	}
	return Options{raw: raw, set: true}, nil
}

// Present reports whether a value was supplied.
func (o Options) Present() bool { return o.set }

// Raw returns the JSON as received. Nil when absent.
func (o Options) Raw() json.RawMessage { return o.raw }

func (o *Options) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = NoOptions
		return nil
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("options: invalid JSON")
	}
	o.raw = append(json.RawMessage(nil), trimmed...)
	o.set = true
	return nil
}

func (o Options) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return o.raw, nil
}

// String renders the value as compact JSON with sorted object keys and
// numbers kept exactly as written. The absent value renders as "null".
func (o Options) String() string {
	if !o.set {
		return "null"
	}
	s, err := canonicalJSON(o.raw)
	if err != nil {
		return string(o.raw)
	}
	return s
}

func canonicalJSON(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
