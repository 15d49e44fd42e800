// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Identity Constraints

const (
	// MaxNameLength caps display names.
	MaxNameLength = 100

	// MaxEmailLength is the RFC 5321 path limit.
	MaxEmailLength = 254

	// timingPassword is hashed once and compared against when a login names an
	// unknown email, so both failure paths pay for one bcrypt comparison.
	timingPassword = "liftlog-login-timing-equalizer"
)
