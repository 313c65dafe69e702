// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Errors shared by every content source.
var (
	// ErrNotFound is returned when an article, comment or author does not
	// exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadySubscribed is returned for a duplicate subscription email.
	ErrAlreadySubscribed = errors.New("already subscribed")
)
