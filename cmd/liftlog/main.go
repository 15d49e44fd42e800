// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command liftlog is a terminal client for the LiftLog API.
//
// The session is cached under the user's config directory, so a login
// survives between invocations until the token expires or logout is run.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newApp(&clientEnv{}).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "liftlog:", err)
		os.Exit(1)
	}
}

// newApp wires every command to env. Input and output follow app.Reader and app.Writer.
func newApp(env *clientEnv) *cli.App {
	return &cli.App{
		Name:  "liftlog",
		Usage: "Sign in to LiftLog and manage your workout data",
		Flags: env.flags(),
		Before: func(c *cli.Context) error {
			return env.open(c)
		},
		Commands: []*cli.Command{
			signupCmd(env),
			loginCmd(env),
			logoutCmd(env),
			whoamiCmd(env),
			renameCmd(env),
			passwdCmd(env),
			getCmd(env),
			setCmd(env),
			deleteCmd(env),
			keysCmd(env),
			exportCmd(env),
			importCmd(env),
		},
	}
}
