// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"evaldb/cli/internal/httperrors"
	"evaldb/cli/internal/keychain"
	"evaldb/cli/internal/logging"
	"evaldb/cli/internal/terminal"
	"evaldb/cli/pkg/evaldb"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const loginPrompt = "Database key: "

// loginCmd stores a database key in the OS keychain after checking that the
// service accepts it.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save a database key in the OS keychain",
	Long: `The login command prompts for a database key (input is hidden), checks it
by running a trivial read-only query, and stores it in the OS keychain so
later commands can run without --key or EVALDB_KEY.

A key passed with --key is used instead of prompting.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key := flagKey
		if key == "" {
			var err error
			if key, err = terminal.ReadSecret(loginPrompt); err != nil {
				return err
			}
		}

		client, err := evaldb.New(key, clientOptions()...)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		stop := startSpinner("Verifying key")
		err = verifyKey(ctx, client)
		stop()
		if err != nil {
			return err
		}

		km, err := keychain.GetManager()
		if err != nil {
			pterm.Error.Println("Secure storage is not available on this system.")
			return err
		}
		if err := km.SaveKey(key); err != nil {
			return fmt.Errorf("save key: %w", err)
		}
		pterm.Success.Printfln("Logged in with key %s", logging.MaskKey(key))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

// verifyKey runs a trivial read. An error reported by the interpreter still
// proves the key reached a database, so only transport and status failures
// reject the key.
func verifyKey(ctx context.Context, c *evaldb.Client) error {
	_, err := c.Read(ctx, "return 1")
	if err == nil || errors.Is(err, evaldb.ErrQuery) {
		return nil
	}
	return httperrors.FormatNetworkError(err, "verifying the key", httperrors.ExtractHostFromURL(c.BaseURL()))
}
