// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptPassword reads a password without echo from a terminal, or one line
// from stdin when it is piped.
func (env *clientEnv) promptPassword(prompt string) (string, error) {
	passwords, err := env.promptPasswords(prompt)
	if err != nil {
		return "", err
	}
	return passwords[0], nil
}

// promptPasswords asks for each prompt in turn. Piped stdin supplies one line per prompt.
func (env *clientEnv) promptPasswords(prompts ...string) ([]string, error) {
	file, ok := env.stdin.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return readLines(env.stdin, len(prompts))
	}
	fd := int(file.Fd())

	secrets := make([]string, 0, len(prompts))
	for _, prompt := range prompts {
		fmt.Fprint(os.Stderr, prompt)
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, err
		}
		if len(secret) == 0 {
			return nil, errors.New("empty password")
		}
		secrets = append(secrets, string(secret))
	}
	return secrets, nil
}

func readLines(reader io.Reader, count int) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	lines := make([]string, 0, count)

	for len(lines) < count {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, errors.New("missing password on stdin")
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			return nil, errors.New("missing password on stdin")
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// readValue returns the literal argument, or stdin when it is "-".
func (env *clientEnv) readValue(argument string) ([]byte, error) {
	if argument != "-" {
		return []byte(argument), nil
	}
	return io.ReadAll(env.stdin)
}
