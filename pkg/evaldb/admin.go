// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package evaldb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Language selects the interpreter a new database runs queries with.
type Language string

const (
	// LanguageLua runs queries as Lua function bodies.
	LanguageLua Language = "luaval"
	// LanguageJS runs queries as JavaScript function bodies (duktape).
	LanguageJS Language = "duktape"
)

// Valid reports whether the service can create a database for l.
func (l Language) Valid() bool { return l == LanguageLua || l == LanguageJS }

// Create provisions a new database and returns a client bound to its key.
// The service answers a successful create with a redirect to /query/<key>.
func Create(ctx context.Context, lang Language, opts ...Option) (*Client, error) {
	if !lang.Valid() {
		return nil, newError(KindInvalidLanguage, fmt.Sprintf("unsupported language %q", lang))
	}
	c := newClient("", opts...)

	loc, err := c.postForm(ctx, "/create", url.Values{"lang": {string(lang)}})
	if err != nil {
		return nil, err
	}
	key := strings.TrimPrefix(loc.Path, "/query/")
	if key == "" || key == loc.Path {
		return nil, newError(KindProtocol, fmt.Sprintf("create redirected to unexpected location %q", loc.String()))
	}
	return newClient(key, opts...), nil
}

// Link serves the database's http.req handler on hostname.
func (c *Client) Link(ctx context.Context, hostname string) error {
	_, err := c.postForm(ctx, "/link", url.Values{"dbname": {c.key}, "hostname": {hostname}})
	return err
}

// postForm submits form to path and returns the redirect target. Any
// response other than a redirect is reported as KindStatus.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (*url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	c.setStandardHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	noFollow := *c.httpClient
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

	resp, err := noFollow.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound && resp.StatusCode != http.StatusSeeOther {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, newError(KindStatus, fmt.Sprintf("%s failed: %d %s", strings.TrimPrefix(path, "/"), resp.StatusCode, strings.TrimSpace(string(b))))
	}
	loc, err := resp.Location()
	if err != nil {
		return nil, wrapError(KindProtocol, "redirect without location", err)
	}
	return loc, nil
}
