// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for adtbridge.
// It implements subcommands to configure an SAP system, run free-style SQL
// through the ADT data preview service, describe tables, export results to
// PostgreSQL and serve the bridge over gRPC, using the Cobra CLI framework.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"adtbridge/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
	remoteAddr  string
	bridgeToken string
)

// errReported marks an error that was already presented to the user.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "adtbridge",
	Short: "Run SQL against SAP systems through the ADT data preview service",
	Long: `adtbridge sends free-style SQL to the ADT data preview service of an SAP system,
handling CSRF tokens, session cookies, pagination and result decoding.

Configure a system once with 'adtbridge connect', then run 'adtbridge query'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			os.Setenv(logging.VerboseEnv, "1")
		}
		if bridgeToken == "" {
			bridgeToken = os.Getenv(BridgeTokenEnv)
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("adtbridge %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(&remoteAddr, "remote", "", "Query through a bridge server at host:port instead of the SAP system")
	rootCmd.PersistentFlags().StringVar(&bridgeToken, "bridge-token", "", "Bearer token for the bridge server (or "+BridgeTokenEnv+")")
}
