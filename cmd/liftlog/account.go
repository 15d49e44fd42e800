// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"
)

func renameCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:      "rename",
		Usage:     "Change your display name",
		ArgsUsage: "NAME",
		Before:    env.requireSession,
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errors.New("missing NAME argument")
			}
			user, err := env.manager.Rename(c.Context, c.Args().First())
			if err != nil {
				return err
			}
			return env.printJSON(user)
		},
	}
}

// passwdCmd reads the current and new password, one per line when piped.
func passwdCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:   "passwd",
		Usage:  "Change your password",
		Before: env.requireSession,
		Action: func(c *cli.Context) error {
			passwords, err := env.promptPasswords("Current password: ", "New password: ")
			if err != nil {
				return err
			}
			if err := env.manager.ChangePassword(c.Context, passwords[0], passwords[1]); err != nil {
				return err
			}
			fmt.Fprintln(env.stdout, "Password changed")
			return nil
		},
	}
}
