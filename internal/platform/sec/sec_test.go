// Copyright (c) 2026 Mogcord. All rights reserved.

package sec_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/sec"
)

/*
TestHasher_RoundTrip verifies that a hashed password verifies and that the
encoded form embeds algorithm, parameters and salt.
*/
func TestHasher_RoundTrip(t *testing.T) {
	hasher := sec.NewHasher(2)
	ctx := context.Background()

	encoded, err := hasher.Hash(ctx, "correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v="))
	assert.Equal(t, 6, len(strings.Split(encoded, "$")))

	assert.NoError(t, hasher.Verify(ctx, "correct horse battery staple", encoded))
}

/*
TestHasher_SaltVaries ensures two hashes of the same cleartext differ.
*/
func TestHasher_SaltVaries(t *testing.T) {
	hasher := sec.NewHasher(2)
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "p")
	require.NoError(t, err)
	second, err := hasher.Hash(ctx, "p")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestHasher_Mismatch classifies a wrong password and a malformed hash as
Verifying/Hashing.
*/
func TestHasher_Mismatch(t *testing.T) {
	hasher := sec.NewHasher(1)
	ctx := context.Background()

	encoded, err := hasher.Hash(ctx, "right")
	require.NoError(t, err)

	tests := []struct {
		name      string
		cleartext string
		encoded   string
	}{
		{"wrong_password", "wrong", encoded},
		{"malformed_hash", "right", "$bcrypt$nope"},
		{"empty_hash", "right", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := hasher.Verify(ctx, tt.cleartext, tt.encoded)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.KindVerifying, appError.Kind)
			assert.Equal(t, apperr.SubjectHashing, appError.On)
		})
	}
}

/*
TestHasher_CancelledContext surfaces Unexpected/SpawnBlocking when the
caller's context is already done.
*/
func TestHasher_CancelledContext(t *testing.T) {
	hasher := sec.NewHasher(1)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := hasher.Hash(cancelled, "p")
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.KindUnexpected, appError.Kind)
	assert.Equal(t, apperr.SubjectSpawnBlocking, appError.On)
}

/*
TestTokenService_MintVerify checks the strict verification path.
*/
func TestTokenService_MintVerify(t *testing.T) {
	service, err := sec.NewTokenService("test-secret-key", "mogcord.test", time.Minute)
	require.NoError(t, err)

	token, err := service.Mint("user-1", true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := service.Verify(token, false)
	require.NoError(t, err)
	assert.Equal(t, "user-1", resolved.UserID)
	assert.True(t, resolved.IsAdminOrOwner)
}

/*
TestTokenService_Expired distinguishes the Expired kind from InValid, and
confirms the allow-expired mode still resolves the subject.
*/
func TestTokenService_Expired(t *testing.T) {
	service, err := sec.NewTokenService("test-secret-key", "mogcord.test", -time.Minute)
	require.NoError(t, err)

	token, err := service.Mint("user-2", false)
	require.NoError(t, err)

	_, err = service.Verify(token, false)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.KindExpired, appError.Kind)
	assert.Equal(t, apperr.SubjectAccesToken, appError.On)

	resolved, err := service.Verify(token, true)
	require.NoError(t, err)
	assert.Equal(t, "user-2", resolved.UserID)
	assert.False(t, resolved.IsAdminOrOwner)
}

/*
TestTokenService_WrongKey rejects a token signed under a different secret.
*/
func TestTokenService_WrongKey(t *testing.T) {
	minter, err := sec.NewTokenService("secret-a", "mogcord.test", time.Minute)
	require.NoError(t, err)
	verifier, err := sec.NewTokenService("secret-b", "mogcord.test", time.Minute)
	require.NoError(t, err)

	token, err := minter.Mint("user-3", false)
	require.NoError(t, err)

	_, err = verifier.Verify(token, false)
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.KindInValid, appError.Kind)
}

/*
TestTokenService_EmptySecret rejects construction without a signing key.
*/
func TestTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "mogcord.test", time.Minute)
	assert.Error(t, err)
}

/*
TestMintRefreshValue checks entropy length and URL-safety of the opaque value.
*/
func TestMintRefreshValue(t *testing.T) {
	first, err := sec.MintRefreshValue()
	require.NoError(t, err)
	second, err := sec.MintRefreshValue()
	require.NoError(t, err)

	// 64 bytes => 86 characters of unpadded base64url.
	assert.Len(t, first, 86)
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "=")
	assert.NotContains(t, first, "+")
	assert.NotContains(t, first, "/")
}
