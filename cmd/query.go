// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"evaldb/cli/internal/argparse"
	"evaldb/cli/internal/httperrors"
	"evaldb/cli/internal/sqlargs"
	"evaldb/cli/pkg/evaldb"

	"github.com/spf13/cobra"
)

// queryFlags holds the flags shared by read and write.
type queryFlags struct {
	args     []string
	argsFile string
	sqlArgs  []string
	dsn      string
	gen      int
	meta     bool
}

func newQueryCmd(use, short string, readonly bool) *cobra.Command {
	f := &queryFlags{}
	c := &cobra.Command{
		Use:   use + " <code|->",
		Short: short,
		Long: short + `.

The code is the body of a function run by the database's interpreter; use
"-" to read it from stdin. Arguments are available to the code as 'args':

  evaldb ` + use + ` 'return args.a + args.b' --arg a=1 --arg b=2

--arg values are JSON, so strings must be quoted: --arg name='"alice"'.
--sql-arg name='SELECT ...' passes the rows of a PostgreSQL query (--dsn)
as an array of objects.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args[0], readonly, f)
		},
	}

	fl := c.Flags()
	fl.StringArrayVar(&f.args, "arg", nil, "argument as name=<json> (repeatable)")
	fl.StringVar(&f.argsFile, "args-file", "", "JSON object of arguments (\"-\" for stdin)")
	fl.StringArrayVar(&f.sqlArgs, "sql-arg", nil, "argument from PostgreSQL rows as name=<query> (repeatable)")
	fl.StringVar(&f.dsn, "dsn", os.Getenv("EVALDB_DSN"), "PostgreSQL connection string for --sql-arg")
	fl.IntVar(&f.gen, "gen", 0, "run against this database generation")
	fl.BoolVar(&f.meta, "meta", false, "print execution metadata after the result")
	return c
}

var readCmd = newQueryCmd("read", "Run a read-only query", true)

var writeCmd = newQueryCmd("write", "Run a query that may modify the database", false)

func init() {
	rootCmd.AddCommand(readCmd, writeCmd)
}

func runQuery(cmd *cobra.Command, codeArg string, readonly bool, f *queryFlags) error {
	ctx := cmd.Context()

	code, err := readCode(codeArg, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if f.argsFile == "-" && codeArg == "-" {
		return errors.New("code and --args-file cannot both come from stdin")
	}

	args, err := collectArgs(ctx, f)
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}

	req := evaldb.Request{Code: code, Readonly: readonly, Args: args}
	if cmd.Flags().Changed("gen") {
		gen := f.gen
		req.Gen = &gen
	}

	stop := startSpinner("Running query")
	res, err := client.Do(ctx, req)
	stop()
	if err != nil {
		return httperrors.FormatNetworkError(err, "running query", httperrors.ExtractHostFromURL(client.BaseURL()))
	}

	obj, err := res.Unwrap()
	if err != nil {
		return err
	}
	if err := printValue(cmd.OutOrStdout(), obj); err != nil {
		return err
	}
	if f.meta {
		return printMeta(cmd.OutOrStdout(), res)
	}
	return nil
}

// readCode returns arg, or all of stdin when arg is "-".
func readCode(arg string, stdin io.Reader) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read code from stdin: %w", err)
	}
	code := strings.TrimSpace(string(b))
	if code == "" {
		return "", errors.New("no code on stdin")
	}
	return code, nil
}

// collectArgs merges the args file, --arg flags and --sql-arg rows, in that
// order of precedence from lowest to highest.
func collectArgs(ctx context.Context, f *queryFlags) (evaldb.Args, error) {
	var fromFile evaldb.Args
	if f.argsFile != "" {
		var err error
		if fromFile, err = argparse.ReadFile(f.argsFile); err != nil {
			return nil, err
		}
	}

	fromFlags, err := argparse.ParseFlags(f.args)
	if err != nil {
		return nil, err
	}

	fromSQL, err := sqlArguments(ctx, f)
	if err != nil {
		return nil, err
	}
	return argparse.Merge(fromFile, fromFlags, fromSQL), nil
}

func sqlArguments(ctx context.Context, f *queryFlags) (evaldb.Args, error) {
	if len(f.sqlArgs) == 0 {
		return nil, nil
	}
	if f.dsn == "" {
		return nil, errors.New("--sql-arg needs --dsn or EVALDB_DSN")
	}

	specs := make([]sqlargs.Spec, 0, len(f.sqlArgs))
	for _, s := range f.sqlArgs {
		spec, err := sqlargs.ParseSpec(s)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}

	stop := startSpinner("Reading rows from PostgreSQL")
	defer stop()

	src, err := sqlargs.Open(ctx, f.dsn)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return src.Resolve(ctx, specs)
}
