// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package evaldb

import (
	"encoding/json"
	"fmt"
	"time"
)

// Request is the body posted to /eval/<key>.
type Request struct {
	Code     string `json:"code"`
	Readonly bool   `json:"readonly"`
	Args     Args   `json:"args"`
	// Gen pins the query to a database generation. Omitted when nil.
	Gen *int `json:"gen,omitempty"`
}

// Result is the decoded body of an /eval response, including the
// execution metadata the service reports alongside the object.
type Result struct {
	// Object is undefined (Type() == TypeUndefined) when the field was absent.
	Object Value
	// Error holds the raw JSON of the error field, nil only when the key
	// was absent. A JSON null error is kept as "null".
	Error    json.RawMessage
	Warm     bool
	WallTime time.Duration
	Gen      int
	Parent   int
}

type wireResult struct {
	Object   json.RawMessage `json:"object"`
	Error    json.RawMessage `json:"error,omitempty"`
	Warm     bool            `json:"warm"`
	WallTime int64           `json:"walltime"`
	Gen      int             `json:"gen"`
	Parent   int             `json:"parent"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Result) UnmarshalJSON(data []byte) error {
	var w wireResult
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	res := Result{
		Warm:     w.Warm,
		WallTime: time.Duration(w.WallTime),
		Gen:      w.Gen,
		Parent:   w.Parent,
	}
	if w.Object != nil {
		obj, err := ParseValue(w.Object)
		if err != nil {
			return fmt.Errorf("object: %w", err)
		}
		res.Object = obj
	}
	if w.Error != nil {
		res.Error = w.Error
	}
	*r = res
	return nil
}

// MarshalJSON implements json.Marshaler using the wire field names.
func (r Result) MarshalJSON() ([]byte, error) {
	w := wireResult{
		Error:    r.Error,
		Warm:     r.Warm,
		WallTime: int64(r.WallTime),
		Gen:      r.Gen,
		Parent:   r.Parent,
	}
	if r.Object.Type() != TypeUndefined {
		w.Object = r.Object.Raw()
	} else {
		w.Object = json.RawMessage("null")
	}
	return json.Marshal(w)
}

// Failed reports whether the response carried an error key, whatever its value.
func (r *Result) Failed() bool { return r.Error != nil }

// ErrorMessage returns the error field as text: the string itself when the
// service sent a JSON string, the raw JSON otherwise ("null" for null).
func (r *Result) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	if len(r.Error) > 0 && r.Error[0] == '"' {
		var s string
		if err := json.Unmarshal(r.Error, &s); err == nil {
			return s
		}
	}
	return string(r.Error)
}

// Unwrap returns the object, or the query error the service reported.
// A response with neither field is a KindProtocol error.
func (r *Result) Unwrap() (Value, error) {
	if r.Failed() {
		return Value{}, newError(KindQuery, r.ErrorMessage())
	}
	if r.Object.Type() == TypeUndefined {
		return Value{}, newError(KindProtocol, "response has neither error nor object")
	}
	return r.Object, nil
}

// Transaction is one query/result pair published on the tail stream.
type Transaction struct {
	Query  Request `json:"query"`
	Result Result  `json:"result"`
}
