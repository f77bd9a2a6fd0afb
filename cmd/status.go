// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adtbridge/cli/internal/config"
	"adtbridge/cli/internal/keychain"
	"adtbridge/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var statusCheck bool

// statusCmd shows the configured system and, with --check, verifies it.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured SAP system",
	Long: `The status command prints the configured profile with secrets masked. With
--check it also fetches a CSRF token to verify that the system is reachable
and the stored credentials are accepted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return report(err, "", "loading the configuration")
		}
		if cfg.Profile.URL == "" && remoteAddr == "" {
			pterm.Println("⚠️  No SAP system configured")
			pterm.Println("   Please run: adtbridge connect")
			return nil
		}

		path, _ := config.Path()
		lines := []string{}
		if remoteAddr != "" {
			lines = append(lines, "Bridge:  "+remoteAddr)
		} else {
			client := cfg.Profile.SapClient
			if client == "" {
				client = "(system default)"
			}
			password := "OS keychain"
			if _, err := keychain.ResolvePassword(cfg.Endpoint().Key(), cfg.Profile.User); err != nil {
				password = "missing"
			}
			lines = append(lines,
				"System:   "+logging.Mask(cfg.Profile.URL),
				"Service:  "+cfg.Endpoint().Root(),
				"User:     "+strings.ToUpper(cfg.Profile.User),
				"Client:   "+client,
				"Password: "+password,
			)
		}
		lines = append(lines, "Config:   "+path)

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("SAP System")).
			WithPadding(1).
			Println(strings.Join(lines, "\n"))

		if !statusCheck {
			return nil
		}
		s, err := openSession()
		if err != nil {
			return report(err, hostOf(cfg.Profile.URL), "loading the configuration")
		}
		defer s.close()
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		stop := startSpinner("verifying connection")
		started := time.Now()
		err = s.api.Ping(ctx)
		stop()
		if err != nil {
			return report(err, s.host, "fetching a CSRF token")
		}
		fmt.Printf("✅ %s is reachable (%s)\n", s.host, time.Since(started).Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusCheck, "check", false, "Verify the connection by fetching a CSRF token")
}
