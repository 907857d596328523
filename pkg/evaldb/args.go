// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package evaldb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Arg is one named query argument. Value must be JSON-encodable.
type Arg struct {
	Name  string
	Value any
}

// A is shorthand for Arg{Name: name, Value: value}.
func A(name string, value any) Arg { return Arg{Name: name, Value: value} }

// Args is an ordered mapping from argument name to value.
// It encodes as a JSON object in insertion order. A repeated name keeps
// its first position and takes the last value.
type Args []Arg

// ArgsFromMap converts a map into Args sorted by name.
func ArgsFromMap(m map[string]any) Args {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make(Args, 0, len(names))
	for _, k := range names {
		out = append(out, Arg{Name: k, Value: m[k]})
	}
	return out
}

// Get returns the value for name and whether it is present.
func (a Args) Get(name string) (any, bool) {
	for i := len(a) - 1; i >= 0; i-- {
		if a[i].Name == name {
			return a[i].Value, true
		}
	}
	return nil, false
}

// Map returns the arguments as a plain map.
func (a Args) Map() map[string]any {
	m := make(map[string]any, len(a))
	for _, arg := range a {
		m[arg.Name] = arg.Value
	}
	return m
}

// compact folds repeated names into their first position.
func (a Args) compact() Args {
	index := make(map[string]int, len(a))
	out := make(Args, 0, len(a))
	for _, arg := range a {
		if i, ok := index[arg.Name]; ok {
			out[i].Value = arg.Value
			continue
		}
		index[arg.Name] = len(out)
		out = append(out, arg)
	}
	return out
}

// MarshalJSON encodes the arguments as an object; nil Args encode as {}.
func (a Args) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, arg := range a.compact() {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(arg.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(arg.Value)
		if err != nil {
			return nil, fmt.Errorf("arg %q: %w", arg.Name, err)
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object keeping key order. Values are kept as
// json.RawMessage so they re-encode byte for byte.
func (a *Args) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("args: expected object, got %v", tok)
	}
	out := Args{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("args: expected name, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("args: %q: %w", name, err)
		}
		out = append(out, Arg{Name: name, Value: raw})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out.compact()
	return nil
}
