// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dsn parses and normalizes PostgreSQL connection strings passed to
// --dsn, so passwords with unescaped special characters still connect.
package dsn

import "fmt"

// Info holds the parts of a PostgreSQL DSN.
type Info struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Params   map[string]string
}

// ParseError represents an error that occurred during DSN parsing.
// It never includes the DSN itself, which may carry a password.
type ParseError struct {
	Reason string
	Hint   string
}

func (e *ParseError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("invalid DSN: %s (%s)", e.Reason, e.Hint)
	}
	return fmt.Sprintf("invalid DSN: %s", e.Reason)
}

func parseError(reason, hint string) *ParseError {
	return &ParseError{Reason: reason, Hint: hint}
}
