// Copyright (c) 2026 Mogcord. All rights reserved.

package user_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/users/user"
)

/*
TestParseUserFlag_RoundTrip ensures every flag kind survives encode/decode.
*/
func TestParseUserFlag_RoundTrip(t *testing.T) {
	banDate := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)

	tests := []struct {
		name string
		flag user.UserFlag
		wire string
	}{
		{"none", user.UserFlag{Kind: user.FlagNone}, "none"},
		{"disabled", user.UserFlag{Kind: user.FlagDisabled}, "disabled"},
		{"admin", user.UserFlag{Kind: user.FlagAdmin}, "admin"},
		{"owner", user.UserFlag{Kind: user.FlagOwner}, "owner"},
		{"deleted", user.UserFlag{Kind: user.FlagDeleted, Date: banDate}, "deleted|2026-01-02T15:04:05Z"},
		{"banned", user.UserFlag{Kind: user.FlagBanned, Date: banDate}, "banned|2026-01-02T15:04:05Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wire, tt.flag.String())

			parsed, err := user.ParseUserFlag(tt.wire)
			require.NoError(t, err)
			assert.Equal(t, tt.flag, parsed)
		})
	}
}

/*
TestParseUserFlag_CaseAndWhitespace checks lenient input handling.
*/
func TestParseUserFlag_CaseAndWhitespace(t *testing.T) {
	parsed, err := user.ParseUserFlag("  BANNED|2026-01-02T15:04:05Z ")
	require.NoError(t, err)
	assert.Equal(t, user.FlagBanned, parsed.Kind)

	parsed, err = user.ParseUserFlag("Admin")
	require.NoError(t, err)
	assert.Equal(t, user.FlagAdmin, parsed.Kind)
}

/*
TestParseUserFlag_Invalid covers malformed wire forms.
*/
func TestParseUserFlag_Invalid(t *testing.T) {
	tests := []struct {
		name string
		wire string
	}{
		{"unknown_kind", "vanished"},
		{"plain_kind_with_date", "admin|2026-01-02T15:04:05Z"},
		{"dated_kind_without_date", "banned"},
		{"dated_kind_with_bad_date", "banned|yesterday"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := user.ParseUserFlag(tt.wire)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.KindParse, appError.Kind)
			assert.Equal(t, apperr.SubjectUser, appError.On)
		})
	}
}

/*
TestUserFlag_AllowedOnPlatform checks the authentication gate per kind.
*/
func TestUserFlag_AllowedOnPlatform(t *testing.T) {
	allowed := []user.UserFlagKind{user.FlagNone, user.FlagAdmin, user.FlagOwner}
	for _, kind := range allowed {
		assert.True(t, user.UserFlag{Kind: kind}.AllowedOnPlatform(), string(kind))
	}

	blocked := []user.UserFlagKind{user.FlagDisabled, user.FlagDeleted, user.FlagBanned}
	for _, kind := range blocked {
		assert.False(t, user.UserFlag{Kind: kind}.AllowedOnPlatform(), string(kind))
	}
}

/*
TestUserFlag_IsAdminOrOwner checks the elevation predicate.
*/
func TestUserFlag_IsAdminOrOwner(t *testing.T) {
	assert.True(t, user.UserFlag{Kind: user.FlagAdmin}.IsAdminOrOwner())
	assert.True(t, user.UserFlag{Kind: user.FlagOwner}.IsAdminOrOwner())
	assert.False(t, user.UserFlag{Kind: user.FlagNone}.IsAdminOrOwner())
	assert.False(t, user.UserFlag{Kind: user.FlagBanned}.IsAdminOrOwner())
}
