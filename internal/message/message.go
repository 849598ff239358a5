// Copyright (c) 2026 Mogcord. All rights reserved.

// Package message implements the message stream inside channels.
//
// # Buckets
//
// Messages group into per-channel, per-UTC-day buckets. A bucket tracks the
// ids of the messages that landed on its day, which keeps history queries
// and retention work bounded to day-sized slices.
package message

import (
	"strings"
	"time"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// FlagKind enumerates the message lifecycle states.
type FlagKind string

const (
	FlagNone    FlagKind = "none"    // Untouched since creation.
	FlagEdited  FlagKind = "edited"  // Edited, carries the last edit date.
	FlagDeleted FlagKind = "deleted" // Soft-deleted, carries the removal date.
)

// flagSeparator splits the kind from its date payload in the wire form.
const flagSeparator = "|"

// Flag is the message state plus, for dated kinds, when it was applied.
//
// # Wire Form
//
// "none" serializes bare; "edited" and "deleted" append "|RFC3339".
type Flag struct {
	Kind FlagKind
	Date time.Time
}

// ParseFlag decodes the wire form of a message flag.
//
// The kind is matched case-insensitively; surrounding whitespace, carriage
// returns, and newlines are tolerated. The date must be strict RFC3339.
func ParseFlag(raw string) (Flag, error) {
	cleaned := strings.Trim(raw, " \t\r\n")
	kindPart, datePart, hasDate := strings.Cut(cleaned, flagSeparator)
	kind := FlagKind(strings.ToLower(strings.Trim(kindPart, " \t\r\n")))

	switch kind {
	case FlagNone:
		if hasDate {
			return Flag{}, errFlagFormat(raw, "kind does not carry a date")
		}
		return Flag{Kind: kind}, nil

	case FlagEdited, FlagDeleted:
		if !hasDate {
			return Flag{}, errFlagFormat(raw, "kind requires a date")
		}
		date, err := time.Parse(time.RFC3339, strings.Trim(datePart, " \t\r\n"))
		if err != nil {
			return Flag{}, apperr.NewFromChild(err, apperr.KindParse, apperr.SubjectMessage).
				AddDebug("flag", raw).
				AddDebug("reason", "invalid date")
		}
		return Flag{Kind: kind, Date: date.UTC()}, nil

	default:
		return Flag{}, errFlagFormat(raw, "unknown kind")
	}
}

func errFlagFormat(raw, reason string) error {
	return apperr.New(apperr.KindParse, apperr.SubjectMessage).
		AddDebug("flag", raw).
		AddDebug("reason", reason)
}

// String encodes the flag in its wire form.
func (f Flag) String() string {
	switch f.Kind {
	case FlagEdited, FlagDeleted:
		return string(f.Kind) + flagSeparator + f.Date.UTC().Format(time.RFC3339)
	default:
		return string(f.Kind)
	}
}

// IsEditable reports whether the message may still be changed by its owner.
func (f Flag) IsEditable() bool {
	return f.Kind == FlagNone || f.Kind == FlagEdited
}

// IsVisible reports whether the message appears in channel history.
func (f Flag) IsVisible() bool {
	return f.Kind != FlagDeleted
}

// MarshalJSON encodes the flag as its wire string.
func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(`"` + f.String() + `"`), nil
}

// UnmarshalJSON decodes the flag from its wire string.
func (f *Flag) UnmarshalJSON(data []byte) error {
	parsed, err := ParseFlag(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Message is one entry in a channel's stream.
type Message struct {
	ID        string    `json:"id"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
	Owner     string    `json:"owner"`
	Channel   string    `json:"channel"`
	BucketID  string    `json:"bucket_id,omitempty"`
	Flag      Flag      `json:"flag"`
}

// Bucket is the per-channel, per-day container of message ids.
type Bucket struct {
	ID         string    `json:"id"`
	ChannelID  string    `json:"channel_id"`
	Date       time.Time `json:"date"`
	MessageIDs []string  `json:"message_ids"`
}

// DateKey floors a timestamp to its UTC day, the bucket granularity.
func DateKey(timestamp time.Time) time.Time {
	utc := timestamp.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}
