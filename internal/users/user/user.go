// Copyright (c) 2026 Mogcord. All rights reserved.

// Package user defines the account entity and its lifecycle rules.
//
// # Architecture
//
// Entities in this package represent the "Truth" of the system.
// They have no dependencies on outer layers (like databases, APIs, or libraries).
// This makes the core logic highly testable and resilient to technology changes.
package user

import (
	"strings"
	"time"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// UserFlagKind enumerates the account lifecycle states.
type UserFlagKind string

const (
	FlagNone     UserFlagKind = "none"     // Regular account in good standing.
	FlagDisabled UserFlagKind = "disabled" // Temporarily locked, cannot log in.
	FlagDeleted  UserFlagKind = "deleted"  // Removed by the user, carries the removal date.
	FlagBanned   UserFlagKind = "banned"   // Removed by moderation, carries the ban date.
	FlagAdmin    UserFlagKind = "admin"    // Elevated platform rights.
	FlagOwner    UserFlagKind = "owner"    // Full platform rights.
)

// flagSeparator splits the kind from its date payload in the wire form.
const flagSeparator = "|"

// UserFlag is the account state plus, for dated kinds, when it was applied.
//
// # Wire Form
//
// Flags persist as a single lowercase string: plain kinds serialize as-is
// ("none", "admin"), dated kinds as "kind|RFC3339" ("banned|2026-01-02T15:04:05Z").
type UserFlag struct {
	Kind UserFlagKind
	Date time.Time
}

// ParseUserFlag decodes the wire form of a flag.
//
// Parsing is case-insensitive on the kind and trims surrounding whitespace.
// Dated kinds require a valid RFC3339 date after the separator; plain kinds
// reject any payload.
func ParseUserFlag(raw string) (UserFlag, error) {
	cleaned := strings.TrimSpace(raw)
	kindPart, datePart, hasDate := strings.Cut(cleaned, flagSeparator)
	kind := UserFlagKind(strings.ToLower(strings.TrimSpace(kindPart)))

	switch kind {
	case FlagNone, FlagDisabled, FlagAdmin, FlagOwner:
		if hasDate {
			return UserFlag{}, apperr.New(apperr.KindParse, apperr.SubjectUser).
				AddDebug("flag", raw).
				AddDebug("reason", "kind does not carry a date")
		}
		return UserFlag{Kind: kind}, nil

	case FlagDeleted, FlagBanned:
		if !hasDate {
			return UserFlag{}, apperr.New(apperr.KindParse, apperr.SubjectUser).
				AddDebug("flag", raw).
				AddDebug("reason", "kind requires a date")
		}
		date, err := time.Parse(time.RFC3339, strings.TrimSpace(datePart))
		if err != nil {
			return UserFlag{}, apperr.NewFromChild(err, apperr.KindParse, apperr.SubjectUser).
				AddDebug("flag", raw)
		}
		return UserFlag{Kind: kind, Date: date.UTC()}, nil

	default:
		return UserFlag{}, apperr.New(apperr.KindParse, apperr.SubjectUser).
			AddDebug("flag", raw).
			AddDebug("reason", "unknown kind")
	}
}

// String encodes the flag in its wire form.
func (f UserFlag) String() string {
	switch f.Kind {
	case FlagDeleted, FlagBanned:
		return string(f.Kind) + flagSeparator + f.Date.UTC().Format(time.RFC3339)
	default:
		return string(f.Kind)
	}
}

// AllowedOnPlatform reports whether an account in this state may authenticate
// and act. Disabled, deleted, and banned accounts are shut out everywhere.
func (f UserFlag) AllowedOnPlatform() bool {
	switch f.Kind {
	case FlagNone, FlagAdmin, FlagOwner:
		return true
	default:
		return false
	}
}

// IsAdminOrOwner reports whether the account carries elevated platform rights.
func (f UserFlag) IsAdminOrOwner() bool {
	return f.Kind == FlagAdmin || f.Kind == FlagOwner
}

// MarshalJSON encodes the flag as its wire string.
func (f UserFlag) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// UnmarshalJSON decodes the flag from its wire string.
func (f *UserFlag) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := ParseUserFlag(raw)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// User represents a registered member of the Mogcord platform.
//
// # Rules
//   - Username is unique, lowercase, and Unicode-normalized.
//   - Email is unique with a lowercase domain.
//   - PasswordHash is produced exclusively by the hashing service.
//   - Flag gates every authenticated action via [UserFlag.AllowedOnPlatform].
type User struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	PasswordHash string   `json:"-"` // Explicitly omitted from JSON for security.
	Flag         UserFlag `json:"flag"`
}

// New builds a User with a fresh time-sortable ID and a clean flag.
func New(id, username, email, passwordHash string) *User {
	return &User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Flag:         UserFlag{Kind: FlagNone},
	}
}
