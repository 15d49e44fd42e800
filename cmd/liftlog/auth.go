// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

func signupCmd(env *clientEnv) *cli.Command {
	var email, name string
	return &cli.Command{
		Name:  "signup",
		Usage: "Create an account (password is prompted, or read from piped stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Destination: &email},
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Destination: &name},
		},
		Action: func(c *cli.Context) error {
			password, err := env.promptPassword("Choose a password: ")
			if err != nil {
				return err
			}
			created, err := env.manager.Signup(c.Context, email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.stdout, "Signed up as %s\n", created.User.Email)
			return nil
		},
	}
}

func loginCmd(env *clientEnv) *cli.Command {
	var email string
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in (password is prompted, or read from piped stdin)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Required: true, Destination: &email},
		},
		Action: func(c *cli.Context) error {
			password, err := env.promptPassword("Password: ")
			if err != nil {
				return err
			}
			established, err := env.manager.Login(c.Context, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.stdout, "Signed in as %s\n", established.User.Email)
			return nil
		},
	}
}

func logoutCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Forget the cached session on this machine",
		Action: func(*cli.Context) error {
			return env.manager.Logout()
		},
	}
}

func whoamiCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Verify the cached session with the server and print the user",
		Action: func(c *cli.Context) error {
			if err := env.requireSession(c); err != nil {
				return err
			}
			return env.printJSON(env.manager.Current().User)
		},
	}
}
