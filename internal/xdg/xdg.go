// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package xdg resolves XDG Base Directory paths for evaldb.
//
// Directories are created on first use with private permissions, falling
// back to ~/.config when XDG_CONFIG_HOME is unset.
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under each XDG base.
const AppName = "evaldb"

// ConfigDir returns $XDG_CONFIG_HOME/evaldb, creating it with 0700.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

func ensure(env, fallback string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
