// Copyright (c) 2026 Mogcord. All rights reserved.

// Package normalize canonicalizes user-supplied identity strings.
//
// Usernames and emails are globally unique; uniqueness is only meaningful
// after Unicode normalization, otherwise visually identical names (composed
// vs decomposed forms, case variants) would count as distinct.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Username lowercases and NFKC-normalizes a username, trimming surrounding
// whitespace. The result is what the user store indexes on.
func Username(raw string) string {
	return strings.ToLower(norm.NFKC.String(strings.TrimSpace(raw)))
}

// Email canonicalizes an email address for uniqueness checks. The local part
// is left intact apart from NFKC normalization; the domain is lowercased.
func Email(raw string) string {
	cleaned := norm.NFKC.String(strings.TrimSpace(raw))

	at := strings.LastIndexByte(cleaned, '@')
	if at < 0 {
		return strings.ToLower(cleaned)
	}

	return cleaned[:at] + "@" + strings.ToLower(cleaned[at+1:])
}
