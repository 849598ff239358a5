// Copyright (c) 2026 Mogcord. All rights reserved.

package auth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/sec"
	"github.com/mogcord/mogcord/internal/users/auth"
	"github.com/mogcord/mogcord/internal/users/user"
)

// fakeAccounts serves a fixed set of users.
type fakeAccounts struct {
	byEmail map[string]*user.User
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*user.User, error) {
	if account, found := f.byEmail[email]; found {
		return account, nil
	}
	return nil, apperr.New(apperr.KindNotFound, apperr.SubjectUser)
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*user.User, error) {
	for _, account := range f.byEmail {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, apperr.SubjectUser)
}

// fakeTokens stores refresh tokens keyed by owner+device.
type fakeTokens struct {
	byPair map[string]*auth.RefreshToken
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{byPair: make(map[string]*auth.RefreshToken)}
}

func pairKey(ownerID, deviceID string) string { return ownerID + "/" + deviceID }

func (f *fakeTokens) Create(_ context.Context, token *auth.RefreshToken) error {
	f.byPair[pairKey(token.OwnerID, token.DeviceID)] = token
	return nil
}

func (f *fakeTokens) GetValidByDevice(_ context.Context, ownerID, deviceID string) (*auth.RefreshToken, error) {
	token, found := f.byPair[pairKey(ownerID, deviceID)]
	if !found || token.Flag != auth.TokenFlagNone || time.Now().After(token.ExpiresAt) {
		return nil, apperr.New(apperr.KindNotFound, apperr.SubjectRefreshToken)
	}
	return token, nil
}

func (f *fakeTokens) Rotate(_ context.Context, ownerID, deviceID, newValue string, expiresAt time.Time) error {
	token, found := f.byPair[pairKey(ownerID, deviceID)]
	if !found || token.Flag != auth.TokenFlagNone {
		return apperr.New(apperr.KindNotFound, apperr.SubjectRefreshToken)
	}
	token.Value = newValue
	token.ExpiresAt = expiresAt
	return nil
}

func (f *fakeTokens) Revoke(_ context.Context, ownerID, deviceID string) error {
	if token, found := f.byPair[pairKey(ownerID, deviceID)]; found {
		token.Flag = auth.TokenFlagRevoked
	}
	return nil
}

func (f *fakeTokens) RevokeAll(_ context.Context, ownerID string) error {
	for _, token := range f.byPair {
		if token.OwnerID == ownerID {
			token.Flag = auth.TokenFlagRevoked
		}
	}
	return nil
}

// fakeVerifier accepts passwords matching "hashed:" + cleartext.
type fakeVerifier struct{}

func (fakeVerifier) Verify(_ context.Context, cleartext, encoded string) error {
	if encoded != "hashed:"+cleartext {
		return apperr.New(apperr.KindVerifying, apperr.SubjectHashing)
	}
	return nil
}

// fakeMinter issues readable tokens and trusts them blindly.
type fakeMinter struct{}

func (fakeMinter) Mint(userID string, isAdminOrOwner bool) (string, error) {
	return "jwt:" + userID, nil
}

func (fakeMinter) Verify(tokenString string, allowExpired bool) (*sec.Ctx, error) {
	if len(tokenString) <= 4 || tokenString[:4] != "jwt:" {
		return nil, apperr.New(apperr.KindInValid, apperr.SubjectAccesToken)
	}
	return &sec.Ctx{UserID: tokenString[4:]}, nil
}

func (fakeMinter) TimeToLive() time.Duration { return time.Minute }

func newService(accounts *fakeAccounts, tokens *fakeTokens) *auth.Service {
	return auth.NewService(accounts, tokens, fakeVerifier{}, fakeMinter{})
}

func activeUser() *user.User {
	return &user.User{
		ID:           "user-1",
		Username:     "mog",
		Email:        "mog@example.com",
		PasswordHash: "hashed:correct horse",
		Flag:         user.UserFlag{Kind: user.FlagNone},
	}
}

/*
TestService_Login covers the happy path: cookies material, device minting,
and refresh token persistence.
*/
func TestService_Login(t *testing.T) {
	accounts := &fakeAccounts{byEmail: map[string]*user.User{"mog@example.com": activeUser()}}
	tokens := newFakeTokens()
	service := newService(accounts, tokens)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "MOG@example.com",
		Password: "correct horse",
		IPAddr:   "198.51.100.7",
	})
	require.NoError(t, err)

	assert.Equal(t, "jwt:user-1", session.AccessToken)
	assert.NotEmpty(t, session.RefreshValue)
	assert.NotEmpty(t, session.DeviceID)

	stored, err := tokens.GetValidByDevice(context.Background(), "user-1", session.DeviceID)
	require.NoError(t, err)
	assert.Equal(t, session.RefreshValue, stored.Value)
	assert.Equal(t, "198.51.100.7", stored.IPAddr)
}

/*
TestService_Login_ReusesPresentedDevice checks a well-formed DEVICE_ID
cookie is kept across logins.
*/
func TestService_Login_ReusesPresentedDevice(t *testing.T) {
	accounts := &fakeAccounts{byEmail: map[string]*user.User{"mog@example.com": activeUser()}}
	service := newService(accounts, newFakeTokens())

	const deviceID = "018f6f4a-97c1-7cde-b2a3-222222222222"

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "mog@example.com",
		Password: "correct horse",
		DeviceID: deviceID,
	})
	require.NoError(t, err)
	assert.Equal(t, deviceID, session.DeviceID)

	// A garbage device value gets replaced, not trusted.
	session, err = service.Login(context.Background(), auth.LoginInput{
		Email:    "mog@example.com",
		Password: "correct horse",
		DeviceID: "not-a-device",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-device", session.DeviceID)
}

/*
TestService_Login_ReusesDeviceToken checks a second login from a device
that still holds a valid refresh token hands back that same token
instead of minting a new one.
*/
func TestService_Login_ReusesDeviceToken(t *testing.T) {
	accounts := &fakeAccounts{byEmail: map[string]*user.User{"mog@example.com": activeUser()}}
	tokens := newFakeTokens()
	service := newService(accounts, tokens)

	const deviceID = "018f6f4a-97c1-7cde-b2a3-333333333333"

	first, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "mog@example.com",
		Password: "correct horse",
		DeviceID: deviceID,
	})
	require.NoError(t, err)

	second, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "mog@example.com",
		Password: "correct horse",
		DeviceID: deviceID,
	})
	require.NoError(t, err)
	assert.Equal(t, first.RefreshValue, second.RefreshValue)

	// Once the device's token is revoked a login mints a fresh one.
	require.NoError(t, service.Revoke(context.Background(), "user-1", deviceID))

	third, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "mog@example.com",
		Password: "correct horse",
		DeviceID: deviceID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshValue, third.RefreshValue)
}

/*
TestService_Login_Failures proves unknown emails and wrong passwords
share the same public hint while keeping their own classifications, and
flagged accounts are shut out.
*/
func TestService_Login_Failures(t *testing.T) {
	banned := activeUser()
	banned.Flag = user.UserFlag{Kind: user.FlagBanned, Date: time.Now().UTC()}

	accounts := &fakeAccounts{byEmail: map[string]*user.User{
		"mog@example.com":    activeUser(),
		"banned@example.com": banned,
	}}
	service := newService(accounts, newFakeTokens())

	tests := []struct {
		name       string
		input      auth.LoginInput
		wantStatus int
		wantClient apperr.ClientTag
		wantPublic string
	}{
		{
			"unknown_email",
			auth.LoginInput{Email: "ghost@example.com", Password: "whatever"},
			http.StatusUnauthorized,
			apperr.ClientInvalidParams,
			"invalid email or password",
		},
		{
			// A failed digest check surfaces as a verification
			// failure, not an authentication one. Only the public
			// hint matches the unknown-email answer.
			"wrong_password",
			auth.LoginInput{Email: "mog@example.com", Password: "wrong"},
			http.StatusForbidden,
			apperr.ClientInvalidParams,
			"invalid email or password",
		},
		{
			"banned_account",
			auth.LoginInput{Email: "banned@example.com", Password: "correct horse"},
			http.StatusForbidden,
			apperr.ClientNotAllowedOnPlatform,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(context.Background(), tt.input)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, tt.wantStatus, appError.Status())
			assert.Equal(t, tt.wantClient, appError.Client)
			if tt.wantPublic != "" {
				assert.Equal(t, tt.wantPublic, appError.Public)
			}
		})
	}
}

/*
TestService_Refresh covers rotation: every refresh replaces the opaque
value, rolls the expiry forward and mints a fresh access token, and the
replaced value stops working.
*/
func TestService_Refresh(t *testing.T) {
	accounts := &fakeAccounts{byEmail: map[string]*user.User{"mog@example.com": activeUser()}}
	tokens := newFakeTokens()
	service := newService(accounts, tokens)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "mog@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	before := tokens.byPair[pairKey("user-1", session.DeviceID)].ExpiresAt

	rotated, err := service.Refresh(context.Background(), auth.RefreshInput{
		AccessToken:  session.AccessToken,
		RefreshValue: session.RefreshValue,
		DeviceID:     session.DeviceID,
	})
	require.NoError(t, err)

	assert.NotEqual(t, session.RefreshValue, rotated.RefreshValue)
	assert.Equal(t, session.DeviceID, rotated.DeviceID)

	stored := tokens.byPair[pairKey("user-1", session.DeviceID)]
	assert.Equal(t, rotated.RefreshValue, stored.Value)
	assert.False(t, stored.ExpiresAt.Before(before))

	// Replaying the pre-rotation value is rejected as a stolen session.
	_, err = service.Refresh(context.Background(), auth.RefreshInput{
		AccessToken:  rotated.AccessToken,
		RefreshValue: session.RefreshValue,
		DeviceID:     session.DeviceID,
	})
	requireKind(t, err, apperr.KindNoAuth)
}

/*
TestService_Refresh_Failures covers value mismatches, revoked sessions,
and accounts flagged after login.
*/
func TestService_Refresh_Failures(t *testing.T) {
	account := activeUser()
	accounts := &fakeAccounts{byEmail: map[string]*user.User{"mog@example.com": account}}
	tokens := newFakeTokens()
	service := newService(accounts, tokens)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Email:    "mog@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	t.Run("mismatched_value", func(t *testing.T) {
		_, err := service.Refresh(context.Background(), auth.RefreshInput{
			AccessToken:  session.AccessToken,
			RefreshValue: "stolen",
			DeviceID:     session.DeviceID,
		})
		requireKind(t, err, apperr.KindNoAuth)
	})

	t.Run("flagged_after_login", func(t *testing.T) {
		account.Flag = user.UserFlag{Kind: user.FlagDisabled}
		defer func() { account.Flag = user.UserFlag{Kind: user.FlagNone} }()

		_, err := service.Refresh(context.Background(), auth.RefreshInput{
			AccessToken:  session.AccessToken,
			RefreshValue: session.RefreshValue,
			DeviceID:     session.DeviceID,
		})
		requireKind(t, err, apperr.KindNotAllowed)
	})

	t.Run("revoked_session", func(t *testing.T) {
		require.NoError(t, service.Revoke(context.Background(), "user-1", session.DeviceID))

		_, err := service.Refresh(context.Background(), auth.RefreshInput{
			AccessToken:  session.AccessToken,
			RefreshValue: session.RefreshValue,
			DeviceID:     session.DeviceID,
		})
		requireKind(t, err, apperr.KindNoAuth)
	})
}

/*
TestService_RevokeAll verifies a global logout kills every device session.
*/
func TestService_RevokeAll(t *testing.T) {
	accounts := &fakeAccounts{byEmail: map[string]*user.User{"mog@example.com": activeUser()}}
	tokens := newFakeTokens()
	service := newService(accounts, tokens)

	first, err := service.Login(context.Background(), auth.LoginInput{Email: "mog@example.com", Password: "correct horse"})
	require.NoError(t, err)
	second, err := service.Login(context.Background(), auth.LoginInput{Email: "mog@example.com", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, service.RevokeAll(context.Background(), "user-1"))

	for _, session := range []*auth.SessionOutput{first, second} {
		_, err := tokens.GetValidByDevice(context.Background(), "user-1", session.DeviceID)
		require.Error(t, err)
	}
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, kind, appError.Kind)
}
