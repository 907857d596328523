// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package evaldb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Type is the JSON type held by a Value.
type Type int

const (
	// TypeUndefined is the zero Value: no JSON was present at all.
	TypeUndefined Type = iota
	TypeNull
	TypeBool
	TypeNumber
	TypeString
	TypeArray
	TypeObject
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	}
	return "undefined"
}

// Value is a schema-less JSON value returned by a query.
//
// The JSON text as received is the source of truth. When protojson accepts
// it, a structpb.Value view is kept alongside (see Proto); documents it
// rejects, such as objects with duplicate keys, lone UTF-16 surrogates or
// numbers beyond float64 range, are still valid Values without one.
// Decode works on the original bytes and keeps full integer precision.
type Value struct {
	raw json.RawMessage
	pb  *structpb.Value
}

// ParseValue parses one JSON document into a Value.
func ParseValue(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return Value{}, fmt.Errorf("parse value: invalid JSON")
	}
	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)
	return newValue(raw), nil
}

// newValue wraps raw, which must be valid JSON.
func newValue(raw json.RawMessage) Value {
	v := Value{raw: raw}
	pb := &structpb.Value{}
	if err := protojson.Unmarshal(raw, pb); err == nil {
		v.pb = pb
	}
	return v
}

// MustValue builds a Value from a Go value, panicking if it cannot be encoded.
// It is meant for tests and constants.
func MustValue(v any) Value {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	val, err := ParseValue(data)
	if err != nil {
		panic(err)
	}
	return val
}

// Type reports the JSON type of v.
func (v Value) Type() Type {
	if len(v.raw) == 0 {
		return TypeUndefined
	}
	switch v.raw[0] {
	case 'n':
		return TypeNull
	case 't', 'f':
		return TypeBool
	case '"':
		return TypeString
	case '[':
		return TypeArray
	case '{':
		return TypeObject
	}
	return TypeNumber
}

// IsNull reports whether v is JSON null.
func (v Value) IsNull() bool { return v.Type() == TypeNull }

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	if v.Type() != TypeBool {
		return false, false
	}
	return v.raw[0] == 't', true
}

// Float64 returns the number held by v. Numbers beyond float64 range come
// back as ±Inf.
func (v Value) Float64() (float64, bool) {
	if v.Type() != TypeNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(v.raw), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// Str returns the string held by v. Invalid UTF-16 escapes decode to U+FFFD.
func (v Value) Str() (string, bool) {
	if v.Type() != TypeString {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Array returns the elements of an array value.
func (v Value) Array() ([]Value, bool) {
	if v.Type() != TypeArray {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(v.raw, &items); err != nil {
		return nil, false
	}
	out := make([]Value, 0, len(items))
	for _, item := range items {
		out = append(out, newValue(item))
	}
	return out, true
}

// Field returns the member name of an object value. With duplicate keys the
// last one wins.
func (v Value) Field(name string) (Value, bool) {
	if v.Type() != TypeObject {
		return Value{}, false
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(v.raw, &members); err != nil {
		return Value{}, false
	}
	raw, ok := members[name]
	if !ok {
		return Value{}, false
	}
	return newValue(raw), true
}

// Interface returns v as plain Go data (nil, bool, float64, string,
// []any, map[string]any). Numbers outside float64 range are json.Number.
func (v Value) Interface() any {
	if v.pb != nil {
		return v.pb.AsInterface()
	}
	if v.raw == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(v.raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return numbersToFloat(out)
}

// numbersToFloat converts json.Number leaves to float64 where they fit.
func numbersToFloat(x any) any {
	switch t := x.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t
	case []any:
		for i := range t {
			t[i] = numbersToFloat(t[i])
		}
	case map[string]any:
		for k := range t {
			t[k] = numbersToFloat(t[k])
		}
	}
	return x
}

// Proto returns the structpb view of v. It is nil for an undefined Value and
// for JSON that protojson does not accept.
func (v Value) Proto() *structpb.Value { return v.pb }

// Raw returns the JSON text of v as received.
func (v Value) Raw() json.RawMessage { return v.raw }

// Decode unmarshals the JSON text of v into out.
func (v Value) Decode(out any) error {
	if v.raw == nil {
		return fmt.Errorf("decode: value is undefined")
	}
	return json.Unmarshal(v.raw, out)
}

// String returns the JSON text of v.
func (v Value) String() string {
	if v.raw == nil {
		return "undefined"
	}
	return string(v.raw)
}

// MarshalJSON re-encodes v verbatim; an undefined Value encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw == nil {
		return []byte("null"), nil
	}
	return v.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := ParseValue(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
