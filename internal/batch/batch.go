// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package batch runs many evaldb requests with bounded concurrency.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"evaldb/cli/pkg/evaldb"
)

const defaultConcurrency = 4

// Querier sends one request. *evaldb.Client implements it.
type Querier interface {
	Do(ctx context.Context, req evaldb.Request) (*evaldb.Result, error)
}

// Options configures Run.
type Options struct {
	// Concurrency caps in-flight requests; <= 0 means 4.
	Concurrency int
	// RateLimit is requests per second; <= 0 disables limiting.
	RateLimit rate.Limit
	// Burst defaults to Concurrency.
	Burst int
}

// Outcome is the result of one request. Err is set for transport failures
// and for responses carrying an error.
type Outcome struct {
	Index    int
	Request  evaldb.Request
	Result   *evaldb.Result
	Value    evaldb.Value
	Err      error
	Duration time.Duration
}

// Run sends every request and returns one outcome per request in input
// order. A failed request does not stop the others; cancelling ctx does,
// in which case Run returns ctx's error along with the outcomes gathered so
// far (unstarted requests carry ctx's error too).
func Run(ctx context.Context, q Querier, reqs []evaldb.Request, opts Options) ([]Outcome, error) {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = concurrency
		}
		limiter = rate.NewLimiter(opts.RateLimit, burst)
	}

	outcomes := make([]Outcome, len(reqs))
	for i, req := range reqs {
		outcomes[i] = Outcome{Index: i, Request: req}
	}

	var g errgroup.Group
	g.SetLimit(concurrency)

	for i := range reqs {
		if ctx.Err() != nil {
			outcomes[i].Err = ctx.Err()
			continue
		}
		out := &outcomes[i]
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					out.Err = err
					return nil
				}
			}
			start := time.Now()
			res, err := q.Do(ctx, out.Request)
			out.Duration = time.Since(start)
			if err != nil {
				out.Err = err
				return nil
			}
			out.Result = res
			out.Value, out.Err = res.Unwrap()
			return nil
		})
	}

	_ = g.Wait()
	return outcomes, ctx.Err()
}

// Failed counts outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// ParseJSONL reads one Request per non-blank line.
func ParseJSONL(r io.Reader) ([]evaldb.Request, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var reqs []evaldb.Request
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var req evaldb.Request
		if err := json.Unmarshal(b, &req); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if req.Code == "" {
			return nil, fmt.Errorf("line %d: missing code", line)
		}
		reqs = append(reqs, req)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return reqs, nil
}
