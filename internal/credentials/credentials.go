// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package credentials decides which database key a command runs with.
//
// Precedence: the --key flag, then EVALDB_KEY, then the OS keychain.
package credentials

import (
	"errors"
	"os"
	"strings"

	"evaldb/cli/internal/keychain"

	"github.com/pterm/pterm"
)

// EnvKey is the environment variable consulted after the flag.
const EnvKey = "EVALDB_KEY"

// Source says where a key came from.
type Source string

const (
	SourceFlag     Source = "--key flag"
	SourceEnv      Source = EnvKey + " environment variable"
	SourceKeychain Source = "OS keychain"
)

// ErrNoKey is returned when no source provides a key.
var ErrNoKey = errors.New("no evaldb key configured: pass --key, set " + EnvKey + ", or run 'evaldb login'")

// KeyLoader reads a stored key.
type KeyLoader interface {
	LoadKey() (string, error)
}

// Resolver looks a key up in order. Zero fields fall back to the process
// environment and the global keychain manager.
type Resolver struct {
	LookupEnv func(string) (string, bool)
	Keychain  func() (KeyLoader, error)
}

// Resolve returns the key and its source.
func (r Resolver) Resolve(flagKey string) (string, Source, error) {
	if k := strings.TrimSpace(flagKey); k != "" {
		return k, SourceFlag, nil
	}

	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if env, ok := lookup(EnvKey); ok && strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env), SourceEnv, nil
	}

	open := r.Keychain
	if open == nil {
		open = defaultKeychain
	}
	kc, err := open()
	if err != nil {
		pterm.Debug.Printfln("credentials: keychain unavailable: %v", err)
		return "", "", ErrNoKey
	}
	key, err := kc.LoadKey()
	if err != nil {
		if !errors.Is(err, keychain.ErrNotFound) {
			pterm.Debug.Printfln("credentials: keychain read failed: %v", err)
		}
		return "", "", ErrNoKey
	}
	return key, SourceKeychain, nil
}

// Resolve uses the process environment and the OS keychain.
func Resolve(flagKey string) (string, Source, error) {
	return Resolver{}.Resolve(flagKey)
}

func defaultKeychain() (KeyLoader, error) {
	return keychain.GetManager()
}
