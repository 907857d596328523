// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package evaldb

import "fmt"

// Kind is a machine-readable error category.
type Kind string

const (
	// KindInvalidKey indicates the credential passed to New is not a string.
	KindInvalidKey Kind = "invalid_key"
	// KindInvalidLanguage indicates Create was asked for a language the service does not run.
	KindInvalidLanguage Kind = "invalid_language"
	// KindQuery indicates the service answered with an error field.
	KindQuery Kind = "query_failed"
	// KindProtocol indicates a response that carries neither an error nor an object.
	KindProtocol Kind = "protocol_violation"
	// KindStatus indicates an HTTP status the endpoint never answers with on success.
	KindStatus Kind = "unexpected_status"
)

// Sentinels for errors.Is. Any *Error with the same Kind matches.
var (
	ErrInvalidKey      = &Error{Kind: KindInvalidKey}
	ErrInvalidLanguage = &Error{Kind: KindInvalidLanguage}
	ErrQuery           = &Error{Kind: KindQuery}
	ErrProtocol        = &Error{Kind: KindProtocol}
	ErrStatus          = &Error{Kind: KindStatus}
)

// Error wraps a failure with its kind and a human-friendly message.
// For KindQuery, Message is the server-provided text, verbatim.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, msg string) *Error            { return &Error{Kind: kind, Message: msg} }
func wrapError(kind Kind, msg string, err error) *Error { return &Error{Kind: kind, Message: msg, Err: err} }
