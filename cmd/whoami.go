// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"

	"evaldb/cli/internal/credentials"
	"evaldb/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd shows which key commands would run with and where it came from.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the database key in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, src, err := credentials.Resolve(flagKey)
		if errors.Is(err, credentials.ErrNoKey) {
			fmt.Fprintln(cmd.OutOrStdout(), "🔒 No database key configured.")
			fmt.Fprintln(cmd.OutOrStdout(), "   Run 'evaldb login' or 'evaldb create --save' to get started.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔑 Key %s from %s\n", logging.MaskKey(key), src)
		pterm.Debug.Printfln("service: %s", settings.BaseURL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
