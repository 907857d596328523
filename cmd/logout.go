// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"evaldb/cli/internal/keychain"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd removes the stored database key.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the database key from the OS keychain",
	Long: `The logout command deletes the key saved by 'evaldb login' or
'evaldb create --save'. EVALDB_KEY and --key are not affected.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.ClearKey(); err != nil {
			return err
		}
		pterm.Success.Println("The saved database key has been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
