// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package argparse builds query arguments from command-line input.
package argparse

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"evaldb/cli/pkg/evaldb"
)

// ParseFlag parses one --arg value of the form name=<json>.
func ParseFlag(s string) (evaldb.Arg, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return evaldb.Arg{}, fmt.Errorf("argument %q: expected name=<json>", s)
	}
	if !json.Valid([]byte(value)) {
		return evaldb.Arg{}, fmt.Errorf("argument %q: value is not valid JSON (quote strings: %s='\"text\"')", name, name)
	}
	return evaldb.A(name, json.RawMessage(value)), nil
}

// ParseFlags parses every --arg value in order.
func ParseFlags(values []string) (evaldb.Args, error) {
	out := make(evaldb.Args, 0, len(values))
	for _, v := range values {
		arg, err := ParseFlag(v)
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
	}
	return out, nil
}

// Decode reads a JSON object of arguments, keeping key order.
func Decode(r io.Reader) (evaldb.Args, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var args evaldb.Args
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	return args, nil
}

// ReadFile reads an arguments file; "-" means stdin.
func ReadFile(path string) (evaldb.Args, error) {
	if path == "-" {
		args, err := Decode(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("args from stdin: %w", err)
		}
		return args, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	args, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("args file %s: %w", path, err)
	}
	return args, nil
}

// Merge concatenates argument sets; a later name overrides an earlier one
// when the request is encoded.
func Merge(sets ...evaldb.Args) evaldb.Args {
	var out evaldb.Args
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
