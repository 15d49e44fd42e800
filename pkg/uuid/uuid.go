// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides the identifiers used for LiftLog identities.

Identities get Version 7 values: time-ordered and always 36 characters.
Scoped storage keys are "owner-{id}-{key}", and the fixed width keeps one
owner's prefix from being a prefix of another's.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// # Validation

// Valid reports whether s is a UUID in canonical, lower-case 8-4-4-4-12 form.
func Valid(s string) bool {
	if len(s) != 36 {
		return false
	}
	parsed, err := uuid.Parse(s)
	return err == nil && parsed.String() == s
}
