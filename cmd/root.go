// Copyright (c) 2025 evaldb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd implements the evaldb command-line client: running read and
// write queries, following a database's transaction log, creating and
// linking databases, and keeping the database key in the OS keychain.
package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"evaldb/cli/internal/config"
	"evaldb/cli/internal/credentials"
	"evaldb/cli/internal/logging"
	"evaldb/cli/pkg/evaldb"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showVersion bool
	flagKey     string
	flagBaseURL string
	flagTimeout time.Duration
	flagVerbose bool

	// settings is populated before any subcommand runs.
	settings = config.Default()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "evaldb",
	Short: "Command-line client for evaldb databases",
	Long: `evaldb runs Lua or JavaScript queries against an evaldb database.

The database key is taken from --key, the EVALDB_KEY environment variable,
or the OS keychain (see 'evaldb login'). Other settings are read from
$XDG_CONFIG_HOME/evaldb/config.yaml and EVALDB_* environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "evaldb %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application and exits non-zero on failure.
func Execute() {
	if c, err := rootCmd.ExecuteC(); err != nil {
		pterm.Error.Println(logging.PresentError(c.Name(), err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagKey, "key", "", "database key (overrides EVALDB_KEY and the keychain)")
	pf.StringVar(&flagBaseURL, "base-url", "", "evaldb service URL (default "+evaldb.DefaultBaseURL+")")
	pf.DurationVar(&flagTimeout, "timeout", 0, "HTTP timeout per request (default 30s)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "print debug output, including HTTP traces")
}

// loadSettings merges config file, environment and flags, then configures output.
func loadSettings(cmd *cobra.Command, _ []string) error {
	c, err := config.Load()
	if err != nil {
		pterm.Debug.Printfln("config: %v; using environment only", err)
		if c, err = config.LoadEnv(); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("base-url") {
		c.BaseURL = flagBaseURL
	}
	if cmd.Flags().Changed("timeout") {
		c.Timeout = flagTimeout
	}
	settings = c
	logging.Setup(c.LogLevel, flagVerbose)
	return nil
}

// clientOptions returns the options every command builds its client with.
func clientOptions() []evaldb.Option {
	return []evaldb.Option{
		evaldb.WithBaseURL(settings.BaseURL),
		evaldb.WithHTTPClient(&http.Client{
			Timeout:   settings.Timeout,
			Transport: logging.NewTransport(nil),
		}),
		evaldb.WithUserAgent("evaldb-cli/" + Version),
	}
}

// newClient resolves the database key and returns a client for it.
func newClient() (*evaldb.Client, credentials.Source, error) {
	key, src, err := credentials.Resolve(flagKey)
	if err != nil {
		return nil, "", err
	}
	pterm.Debug.Printfln("using key %s from %s", logging.MaskKey(key), src)
	c, err := evaldb.New(key, clientOptions()...)
	if err != nil {
		return nil, "", err
	}
	return c, src, nil
}
