// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package lambdaproxy forwards AWS Lambda invocations to an evaldb database.
package lambdaproxy

import (
	"context"
	"errors"
	"net/http"

	"github.com/pterm/pterm"
	"github.com/spf13/viper"

	"evaldb/cli/internal/config"
	"evaldb/cli/internal/logging"
	"evaldb/cli/pkg/evaldb"
)

// Event is the invocation payload.
type Event struct {
	Code     string      `json:"code"`
	Readonly bool        `json:"readonly"`
	Args     evaldb.Args `json:"args"`
	Gen      *int        `json:"gen,omitempty"`
}

// Response is returned for a successful query.
type Response struct {
	Object   evaldb.Value `json:"object"`
	Warm     bool         `json:"warm"`
	WallTime int64        `json:"walltime"`
	Gen      int          `json:"gen"`
	Parent   int          `json:"parent"`
}

// Querier sends one request. *evaldb.Client implements it.
type Querier interface {
	Do(ctx context.Context, req evaldb.Request) (*evaldb.Result, error)
}

// Handler serves invocations against a single database.
type Handler struct {
	q Querier
}

// New returns a handler that sends queries through q.
func New(q Querier) *Handler { return &Handler{q: q} }

// FromEnv builds a handler from EVALDB_KEY, EVALDB_BASE_URL and EVALDB_TIMEOUT.
func FromEnv() (*Handler, error) {
	cfg, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, false)

	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	if err := v.BindEnv("key"); err != nil {
		return nil, err
	}
	key := v.GetString("key")
	if key == "" {
		return nil, errors.New("EVALDB_KEY is not set")
	}

	client, err := evaldb.New(key,
		evaldb.WithBaseURL(cfg.BaseURL),
		evaldb.WithHTTPClient(&http.Client{Timeout: cfg.Timeout, Transport: logging.NewTransport(nil)}),
		evaldb.WithUserAgent("evaldb-lambda/1.0"),
	)
	if err != nil {
		return nil, err
	}
	pterm.Debug.Printfln("lambda: forwarding to %s", logging.Mask(cfg.BaseURL))
	return New(client), nil
}

// Handle runs the event's query. An error reported by the database is
// returned as the invocation error.
func (h *Handler) Handle(ctx context.Context, ev Event) (*Response, error) {
	if ev.Code == "" {
		return nil, errors.New("code is required")
	}
	res, err := h.q.Do(ctx, evaldb.Request{
		Code:     ev.Code,
		Readonly: ev.Readonly,
		Args:     ev.Args,
		Gen:      ev.Gen,
	})
	if err != nil {
		pterm.Error.Println(logging.PresentError("lambda", err))
		return nil, err
	}
	obj, err := res.Unwrap()
	if err != nil {
		return nil, err
	}
	return &Response{
		Object:   obj,
		Warm:     res.Warm,
		WallTime: int64(res.WallTime),
		Gen:      res.Gen,
		Parent:   res.Parent,
	}, nil
}
