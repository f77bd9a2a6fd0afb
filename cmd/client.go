// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"net/url"

	"adtbridge/cli/internal/adt"
	"adtbridge/cli/internal/bridge"
	"adtbridge/cli/internal/config"
	"adtbridge/cli/internal/httperrors"
	"adtbridge/cli/internal/keychain"
	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/transport"

	"github.com/pterm/pterm"
)

// BridgeTokenEnv supplies the bridge bearer token when --bridge-token is not given.
const BridgeTokenEnv = "ADTBRIDGE_BRIDGE_TOKEN"

// session is everything a command needs to talk to a system.
type session struct {
	api    adt.API
	cfg    config.Config
	host   string
	logger *pterm.Logger
	close  func()
}

// openSession loads the configuration and returns an API for the configured
// system, or for the bridge server given with --remote.
func openSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg)

	if remoteAddr != "" {
		c, err := bridge.Dial(remoteAddr, bridge.ClientOptions{Token: bridgeToken})
		if err != nil {
			return nil, err
		}
		logger.Debug("using bridge server", logger.Args("addr", remoteAddr))
		return &session{api: c, cfg: cfg, host: remoteAddr, logger: logger, close: func() { _ = c.Close() }}, nil
	}
	return openLocal(cfg, logger)
}

// openLocal builds a direct client for the configured profile.
func openLocal(cfg config.Config, logger *pterm.Logger) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ep := cfg.Endpoint()
	password, err := keychain.ResolvePassword(ep.Key(), cfg.Profile.User)
	if err != nil {
		return nil, err
	}
	api := newAPI(cfg, password, logger)
	return &session{api: api, cfg: cfg, host: hostOf(cfg.Profile.URL), logger: logger, close: func() {}}, nil
}

func newAPI(cfg config.Config, password string, logger *pterm.Logger) adt.API {
	sender := transport.NewHTTP(transport.Options{
		User:               cfg.Profile.User,
		Password:           password,
		Timeout:            cfg.Timeout(),
		InsecureSkipVerify: cfg.Profile.InsecureSkipVerify,
		UserAgent:          "adtbridge-cli/" + Version,
		Logger:             logger,
	})
	return adt.New(adt.Config{Endpoint: cfg.Endpoint(), Sender: sender, Logger: logger})
}

func newLogger(cfg config.Config) *pterm.Logger {
	return logging.New(cfg.LogLevel, cfg.LogFormat == "json")
}

func hostOf(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Host
	}
	return raw
}

// report presents err with troubleshooting hints and marks it as reported.
func report(err error, host, action string) error {
	if err == nil {
		return nil
	}
	httperrors.Present(err, host, action)
	return errReported
}
