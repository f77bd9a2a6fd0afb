// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"adtbridge/cli/internal/config"
	"adtbridge/cli/internal/keychain"

	"github.com/spf13/cobra"
)

var logoutKeepProfile bool

// logoutCmd removes the stored password and, unless asked otherwise, the profile.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored password and profile",
	Long: `The logout command deletes the password of the configured SAP system from the
OS keychain and clears the profile from the config file. Use --keep-profile to
keep the system settings and only forget the password.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.Profile.URL == "" {
			fmt.Println("Nothing to remove: no SAP system configured")
			return nil
		}
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearPassword(keychain.Account(cfg.Endpoint().Key(), cfg.Profile.User))
		}
		if !logoutKeepProfile {
			defaults := config.Defaults()
			cfg.Profile = defaults.Profile
			if err := config.Save(cfg); err != nil {
				return err
			}
		}
		fmt.Println("✅ Stored credentials have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolVar(&logoutKeepProfile, "keep-profile", false, "Keep the system settings, only remove the password")
}
