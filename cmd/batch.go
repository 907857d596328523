// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"evaldb/cli/internal/batch"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	batchConcurrency int
	batchRate        float64
)

// batchLine is one line of batch output.
type batchLine struct {
	Index    int             `json:"index"`
	Object   json.RawMessage `json:"object,omitempty"`
	Error    string          `json:"error,omitempty"`
	Gen      int             `json:"gen,omitempty"`
	WallTime int64           `json:"walltime,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <file.jsonl|->",
	Short: "Run queries from a JSON lines file",
	Long: `The batch command reads one request per line, each shaped like
{"code": "...", "readonly": true, "args": {...}, "gen": 3}, sends them with
bounded concurrency and prints one JSON result per line in input order.

A failing query does not stop the batch; the command exits non-zero if any
request failed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		reqs, err := batch.ParseJSONL(in)
		if err != nil {
			return err
		}

		client, _, err := newClient()
		if err != nil {
			return err
		}

		opts := batch.Options{Concurrency: settings.Concurrency, RateLimit: rate.Limit(settings.RateLimit)}
		if cmd.Flags().Changed("concurrency") {
			opts.Concurrency = batchConcurrency
		}
		if cmd.Flags().Changed("rate") {
			opts.RateLimit = rate.Limit(batchRate)
		}

		stop := startSpinner(fmt.Sprintf("Running %d queries", len(reqs)))
		outcomes, runErr := batch.Run(cmd.Context(), client, reqs, opts)
		stop()

		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, o := range outcomes {
			if err := enc.Encode(toBatchLine(o)); err != nil {
				return err
			}
		}
		if runErr != nil {
			return runErr
		}
		if n := batch.Failed(outcomes); n > 0 {
			return fmt.Errorf("%d of %d queries failed", n, len(outcomes))
		}
		pterm.Debug.Printfln("batch: %d queries succeeded", len(outcomes))
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "maximum requests in flight")
	batchCmd.Flags().Float64Var(&batchRate, "rate", 0, "maximum requests per second (0 for unlimited)")
	rootCmd.AddCommand(batchCmd)
}

func toBatchLine(o batch.Outcome) batchLine {
	line := batchLine{Index: o.Index}
	if o.Result != nil {
		line.Gen = o.Result.Gen
		line.WallTime = int64(o.Result.WallTime)
	}
	if o.Err != nil {
		line.Error = o.Err.Error()
		return line
	}
	line.Object = o.Value.Raw()
	return line
}
