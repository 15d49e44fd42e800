// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package kv

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/liftlog/pkg/uuid"
)

// MaxKeyLength caps a sanitized logical key, in runes.
const MaxKeyLength = 128

// ownerPrefix is the fixed head of every physical key.
const ownerPrefix = "owner-"

/*
SanitizeKey folds a caller-chosen logical key into the safe alphabet
[A-Za-z0-9_-].

Accents are decomposed and dropped ("Séance" becomes "Seance"); every other
rune outside the alphabet becomes '_'. The result can never contain a path
separator or a dot.

Returns:
  - string: the sanitized key
  - error: ErrInvalidKey for an empty or over-long key
*/
func SanitizeKey(key string) (string, error) {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn))), key)
	if err != nil {
		return "", ErrInvalidKey
	}

	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, folded)

	if sanitized == "" || utf8.RuneCountInString(sanitized) > MaxKeyLength {
		return "", ErrInvalidKey
	}
	return sanitized, nil
}

// ownerScope returns the physical prefix shared by every key of one owner.
// Owner ids are fixed-length UUIDs, so no owner's scope is a prefix of another's.
func ownerScope(ownerID string) (string, error) {
	if !uuid.Valid(ownerID) {
		return "", ErrInvalidOwner
	}
	return ownerPrefix + ownerID + "-", nil
}

// physicalKey resolves (owner, logical key) to the only name a backend ever sees.
func physicalKey(ownerID, key string) (string, error) {
	scope, err := ownerScope(ownerID)
	if err != nil {
		return "", err
	}
	sanitized, err := SanitizeKey(key)
	if err != nil {
		return "", err
	}
	return scope + sanitized, nil
}
