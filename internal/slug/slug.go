// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds URL- and object-key-safe names from arbitrary text.
// Letters of any script are kept, so Korean titles survive.
package slug

import (
	"strings"
	"unicode"
)

// MaxLength caps the slug length in runes.
const MaxLength = 80

// Generate lowercases s, keeps letters and digits, and joins the words
// with single hyphens.
// Example: "Go 1.25 릴리스 노트!" → "go-125-릴리스-노트"
func Generate(s string) string {
	var b strings.Builder
	pendingHyphen := false
	n := 0

	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
				n++
			}
			pendingHyphen = false
			b.WriteRune(r)
			n++
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '/':
			pendingHyphen = true
		}
		if n >= MaxLength {
			break
		}
	}
	return strings.Trim(b.String(), "-")
}
