// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/taibuivan/liftlog/internal/client/session"
	"github.com/taibuivan/liftlog/internal/platform/constants"
)

// clientEnv is the state shared by every command of one invocation.
type clientEnv struct {
	serverURL   string
	sessionFile string
	verbose     bool

	manager *session.Manager
	stdin   io.Reader
	stdout  io.Writer
}

func (env *clientEnv) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "server",
			Usage:       "Base URL of the LiftLog API",
			EnvVars:     []string{"LIFTLOG_SERVER"},
			Value:       "http://localhost:8080",
			Destination: &env.serverURL,
		},
		&cli.StringFlag{
			Name:        "session-file",
			Usage:       "Where the signed-in session is cached (default: user config dir)",
			EnvVars:     []string{"LIFTLOG_SESSION_FILE"},
			Destination: &env.sessionFile,
		},
		&cli.BoolFlag{
			Name:        "verbose",
			Aliases:     []string{"v"},
			Usage:       "Log session events to stderr",
			Destination: &env.verbose,
		},
	}
}

// open builds the session manager. It does not contact the server.
func (env *clientEnv) open(c *cli.Context) error {
	if env.sessionFile == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return fmt.Errorf("locate config dir (use --session-file): %w", err)
		}
		env.sessionFile = filepath.Join(configDir, constants.AppName, "session.json")
	}

	level := slog.LevelWarn
	if env.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	env.manager = session.NewManager(
		session.NewClient(env.serverURL, nil),
		session.NewFileCache(env.sessionFile),
		session.WithLogger(logger),
	)
	env.stdin = c.App.Reader
	env.stdout = c.App.Writer
	return nil
}

// requireSession restores the cached session and waits for the server's verdict.
func (env *clientEnv) requireSession(c *cli.Context) error {
	if state := <-env.manager.Restore(c.Context); state != session.Authenticated {
		return errors.New("not signed in; run 'liftlog login' first")
	}
	return nil
}

func (env *clientEnv) printJSON(value any) error {
	encoder := json.NewEncoder(env.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
