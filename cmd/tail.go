// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"evaldb/cli/internal/httperrors"
	"evaldb/cli/pkg/evaldb"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tailJSON bool

var tailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Follow the database's transaction log",
	Long: `The tail command replays the database's transaction log and then prints
each new transaction as it is committed, until interrupted with Ctrl-C.

With --json every transaction is printed as one JSON object per line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, _, err := newClient()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		err = client.Tail(ctx, func(tx evaldb.Transaction) error {
			if tailJSON {
				return writeTransactionJSON(out, tx)
			}
			writeTransaction(out, tx)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return httperrors.FormatNetworkError(err, "following the transaction log", httperrors.ExtractHostFromURL(client.BaseURL()))
		}
		return nil
	},
}

func init() {
	tailCmd.Flags().BoolVar(&tailJSON, "json", false, "print transactions as JSON lines")
	rootCmd.AddCommand(tailCmd)
}

func writeTransactionJSON(w io.Writer, tx evaldb.Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writeTransaction(w io.Writer, tx evaldb.Transaction) {
	mode := "write"
	if tx.Query.Readonly {
		mode = "read"
	}
	header := fmt.Sprintf("gen %d  %s  %s", tx.Result.Gen, mode, tx.Result.WallTime)
	fmt.Fprintln(w, pterm.Bold.Sprint(header))
	for _, line := range strings.Split(strings.TrimSpace(tx.Query.Code), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if tx.Result.Failed() {
		fmt.Fprintf(w, "  %s %s\n", pterm.Red("error:"), tx.Result.ErrorMessage())
		return
	}
	fmt.Fprintf(w, "  %s %s\n", pterm.Green("=>"), tx.Result.Object.String())
}
