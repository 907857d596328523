// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package evaldb

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const tailEvent = "transac"

// Tail follows the database's transaction log. The service first replays
// the stored log, then pushes each new transaction as it is committed.
// fn is called once per transaction in stream order; a non-nil return
// stops the tail and is returned as is.
//
// The request ignores the HTTP client's overall timeout; cancel ctx to stop.
func (c *Client) Tail(ctx context.Context, fn func(Transaction) error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/tail/"+c.key, nil)
	if err != nil {
		return err
	}
	c.setStandardHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	stream := *c.httpClient
	stream.Timeout = 0

	resp, err := stream.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return newError(KindStatus, fmt.Sprintf("tail failed: %d %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}

	err = readEvents(resp.Body, func(event, data string) error {
		if event != "" && event != tailEvent {
			return nil
		}
		var t Transaction
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return wrapError(KindProtocol, "bad transaction on tail stream", err)
		}
		return fn(t)
	})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// readEvents splits a text/event-stream body into events and calls emit
// for each one that carries data. Multi-line data is joined with "\n".
func readEvents(r io.Reader, emit func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var event string
	var data []string
	dispatch := func() error {
		defer func() {
			event = ""
			data = data[:0]
		}()
		if len(data) == 0 {
			return nil
		}
		return emit(event, strings.Join(data, "\n"))
	}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if err := dispatch(); err != nil {
				return err
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		switch field {
		case "event":
			event = value
		case "data":
			data = append(data, value)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading stream: %w", err)
	}
	return dispatch()
}
