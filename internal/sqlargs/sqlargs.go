// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package sqlargs turns rows from a PostgreSQL database into query
// arguments, so data can be copied into an evaldb script with --sql-arg.
package sqlargs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"evaldb/cli/internal/dsn"
	"evaldb/cli/pkg/evaldb"
)

// Spec names a query whose rows become the argument Name.
type Spec struct {
	Name  string
	Query string
}

// ParseSpec parses "name=SELECT ...".
func ParseSpec(s string) (Spec, error) {
	name, query, ok := strings.Cut(s, "=")
	name, query = strings.TrimSpace(name), strings.TrimSpace(query)
	if !ok || name == "" || query == "" {
		return Spec{}, fmt.Errorf("sql argument %q: expected name=<query>", s)
	}
	return Spec{Name: name, Query: query}, nil
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Source reads argument values from a PostgreSQL pool.
type Source struct {
	pool *pgxpool.Pool
	q    rowQuerier
}

// Open connects to the database at rawDSN and verifies the connection.
func Open(ctx context.Context, rawDSN string) (*Source, error) {
	normalized, err := dsn.Normalize(rawDSN)
	if err != nil {
		return nil, err
	}

	cfg, err := pgxpool.ParseConfig(normalized)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	cfg.MaxConns = 2

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(pingCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Source{pool: pool, q: pool}, nil
}

// Close releases the pool.
func (s *Source) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Rows runs query and returns each row as a column-name keyed map.
func (s *Source) Rows(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := s.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	out, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	for _, row := range out {
		for k, v := range row {
			row[k] = jsonValue(v)
		}
	}
	if out == nil {
		out = []map[string]any{}
	}
	return out, nil
}

// Resolve runs each query in order and returns its rows as an argument.
func (s *Source) Resolve(ctx context.Context, specs []Spec) (evaldb.Args, error) {
	args := make(evaldb.Args, 0, len(specs))
	for _, spec := range specs {
		rows, err := s.Rows(ctx, spec.Query)
		if err != nil {
			return nil, fmt.Errorf("sql argument %q: %w", spec.Name, err)
		}
		args = append(args, evaldb.A(spec.Name, rows))
	}
	return args, nil
}

// jsonValue converts pgx scan results that encoding/json renders poorly.
func jsonValue(v any) any {
	switch t := v.(type) {
	case [16]byte:
		return uuid.UUID(t).String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}
