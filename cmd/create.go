// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"evaldb/cli/internal/httperrors"
	"evaldb/cli/internal/keychain"
	"evaldb/cli/pkg/evaldb"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	createLang string
	createSave bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new database",
	Long: `The create command provisions a new database on the evaldb service and
prints its key. Queries run as Lua (--lang luaval, the default) or
JavaScript (--lang duktape). With --save the key is stored in the OS keychain
and used by later commands.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stop := startSpinner("Creating database")
		client, err := evaldb.Create(cmd.Context(), evaldb.Language(createLang), clientOptions()...)
		stop()
		if err != nil {
			return httperrors.FormatNetworkError(err, "creating a database", httperrors.ExtractHostFromURL(settings.BaseURL))
		}

		fmt.Fprintln(cmd.OutOrStdout(), client.Key())

		if createSave {
			km, err := keychain.GetManager()
			if err != nil {
				return fmt.Errorf("secure storage is not available: %w", err)
			}
			if err := km.SaveKey(client.Key()); err != nil {
				return err
			}
			pterm.Success.Println("Key saved to the OS keychain")
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createLang, "lang", string(evaldb.LanguageLua), "query language: luaval or duktape")
	createCmd.Flags().BoolVar(&createSave, "save", false, "store the new key in the OS keychain")
	rootCmd.AddCommand(createCmd)
}
