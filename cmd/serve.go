// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"adtbridge/cli/internal/bridge"
	"adtbridge/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
)

var serveListen string

// serveCmd exposes the configured system as a gRPC bridge.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the configured SAP system over gRPC",
	Long: `The serve command keeps one data preview session (CSRF token and cookie) and
lets other adtbridge processes query through it with --remote. Set a bearer
token with --bridge-token or ` + BridgeTokenEnv + ` to require it from clients.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if remoteAddr != "" {
			return errors.New("serve cannot be combined with --remote")
		}
		cfg, err := config.Load()
		if err != nil {
			return report(err, "", "loading the configuration")
		}
		s, err := openLocal(cfg, newLogger(cfg))
		if err != nil {
			return report(err, "", "loading the configuration")
		}
		if err := s.api.Ping(cmd.Context()); err != nil {
			return report(err, s.host, "fetching a CSRF token")
		}

		lis, err := bridge.Listen(serveListen)
		if err != nil {
			return err
		}
		if bridgeToken == "" {
			pterm.Warning.Println("No bridge token set; any client that reaches " + serveListen + " can run queries.")
		}
		srv := bridge.NewServer(s.api, bridge.ServerOptions{Token: bridgeToken, Logger: s.logger})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			srv.Stop()
		}()
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		pterm.Info.Println("Bridge stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveListen, "listen", "127.0.0.1:7443", "Address to listen on")
}
