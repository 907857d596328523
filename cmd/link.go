// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"evaldb/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var linkCmd = &cobra.Command{
	Use:   "link <hostname>",
	Short: "Serve the database's HTTP handler on a hostname",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient()
		if err != nil {
			return err
		}
		if err := client.Link(cmd.Context(), args[0]); err != nil {
			return httperrors.FormatNetworkError(err, "linking a hostname", httperrors.ExtractHostFromURL(client.BaseURL()))
		}
		pterm.Success.Printfln("Linked %s", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}
