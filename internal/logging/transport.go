// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"net/http"
	"time"

	"github.com/pterm/pterm"
)

// Transport traces every HTTP exchange at debug level with the URL masked.
type Transport struct {
	base http.RoundTripper
}

// NewTransport wraps base; a nil base uses http.DefaultTransport.
func NewTransport(base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{base: base}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	url := Mask(req.URL.String())
	pterm.Debug.Printfln("http: %s %s id=%s", req.Method, url, req.Header.Get("X-Request-Id"))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		pterm.Debug.Printfln("http: %s %s failed after %s: %s", req.Method, url, time.Since(start).Round(time.Millisecond), Mask(err.Error()))
		return nil, err
	}
	pterm.Debug.Printfln("http: %s %s -> %d in %s", req.Method, url, resp.StatusCode, time.Since(start).Round(time.Millisecond))
	return resp, nil
}
