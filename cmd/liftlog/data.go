// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func keyArgument(c *cli.Context) (string, error) {
	if c.NArg() < 1 {
		return "", errors.New("missing KEY argument")
	}
	return c.Args().First(), nil
}

func getCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print one record",
		ArgsUsage: "KEY",
		Before:    env.requireSession,
		Action: func(c *cli.Context) error {
			key, err := keyArgument(c)
			if err != nil {
				return err
			}
			value, found, err := env.manager.GetData(c.Context, key)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s: not found", key)
			}
			return env.printJSON(value)
		},
	}
}

func setCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Store a JSON value (use - to read it from stdin)",
		ArgsUsage: "KEY JSON",
		Before:    env.requireSession,
		Action: func(c *cli.Context) error {
			if c.NArg() < 2 {
				return errors.New("usage: liftlog set KEY JSON")
			}
			raw, err := env.readValue(c.Args().Get(1))
			if err != nil {
				return err
			}
			if !json.Valid(raw) {
				return errors.New("value is not valid JSON")
			}
			stored, err := env.manager.SetData(c.Context, c.Args().First(), raw)
			if err != nil {
				return err
			}
			return env.printJSON(stored)
		},
	}
}

func deleteCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Remove one record",
		ArgsUsage: "KEY",
		Before:    env.requireSession,
		Action: func(c *cli.Context) error {
			key, err := keyArgument(c)
			if err != nil {
				return err
			}
			return env.manager.DeleteData(c.Context, key)
		},
	}
}

func keysCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:   "keys",
		Usage:  "List your record keys",
		Before: env.requireSession,
		Action: func(c *cli.Context) error {
			keys, err := env.manager.ListKeys(c.Context)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(env.stdout, key)
			}
			return nil
		},
	}
}

func exportCmd(env *clientEnv) *cli.Command {
	var output string
	return &cli.Command{
		Name:   "export",
		Usage:  "Dump every record as one JSON object",
		Before: env.requireSession,
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "write to a file instead of stdout", Destination: &output},
		},
		Action: func(c *cli.Context) error {
			records, err := env.manager.Export(c.Context)
			if err != nil {
				return err
			}
			if output == "" {
				return env.printJSON(records)
			}
			payload, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}
			return os.WriteFile(output, payload, 0o600)
		},
	}
}

func importCmd(env *clientEnv) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Load records from a JSON object file (use - for stdin)",
		ArgsUsage: "FILE",
		Before:    env.requireSession,
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return errors.New("missing FILE argument")
			}

			var raw []byte
			var err error
			if source := c.Args().First(); source == "-" {
				raw, err = env.readValue(source)
			} else {
				raw, err = os.ReadFile(source)
			}
			if err != nil {
				return err
			}

			var records map[string]json.RawMessage
			if err := json.Unmarshal(raw, &records); err != nil || records == nil {
				return errors.New("import file must contain a JSON object")
			}

			imported, err := env.manager.Import(c.Context, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(env.stdout, "Imported %d records\n", imported)
			return nil
		},
	}
}
