// Copyright (c) 2026 Mogcord. All rights reserved.

package auth

import (
	"context"
	"time"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/constants"
	"github.com/mogcord/mogcord/internal/platform/sec"
	"github.com/mogcord/mogcord/internal/users/user"
	"github.com/mogcord/mogcord/pkg/normalize"
	"github.com/mogcord/mogcord/pkg/uuid"
)

// AccountSource is the slice of the user store the session service needs.
type AccountSource interface {
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// PasswordVerifier checks a cleartext password against a stored digest.
type PasswordVerifier interface {
	Verify(ctx context.Context, cleartext, encoded string) error
}

// TokenMinter issues and inspects signed access tokens.
type TokenMinter interface {
	Mint(userID string, isAdminOrOwner bool) (string, error)
	Verify(tokenString string, allowExpired bool) (*sec.Ctx, error)
	TimeToLive() time.Duration
}

// Service implements the session lifecycle on top of [Repository].
type Service struct {
	accounts AccountSource
	tokens   Repository
	verifier PasswordVerifier
	minter   TokenMinter
}

// NewService wires the session service.
//
// # Parameters
//   - accounts: Read access to user accounts.
//   - tokens: The refresh-token persistence layer.
//   - verifier: The password digest checker.
//   - minter: The access-token signer.
func NewService(accounts AccountSource, tokens Repository, verifier PasswordVerifier, minter TokenMinter) *Service {
	return &Service{
		accounts: accounts,
		tokens:   tokens,
		verifier: verifier,
		minter:   minter,
	}
}

// LoginInput carries the credentials plus the caller's transport identity.
type LoginInput struct {
	Email    string
	Password string
	DeviceID string // Existing DEVICE_ID cookie value, empty on first login.
	IPAddr   string
}

// SessionOutput is the material the HTTP layer turns into cookies.
type SessionOutput struct {
	Account      *user.User
	AccessToken  string
	RefreshValue string
	DeviceID     string
}

// Login authenticates credentials and opens a device session.
//
// # Flow
//  1. Look up the account by normalized email.
//  2. Gate on the account flag; banned or deleted users never get in.
//  3. Verify the password against the stored digest.
//  4. Reuse the presented device ID if it is well-formed, else mint one.
//  5. Reuse the device's stored valid refresh token when one exists;
//     otherwise mint and store a fresh one.
//  6. Mint the signed access token with the elevation bit.
//
// Unknown emails and wrong passwords share one public hint so the
// endpoint cannot be used to enumerate accounts.
func (service *Service) Login(ctx context.Context, input LoginInput) (*SessionOutput, error) {
	account, err := service.accounts.GetByEmail(ctx, normalize.Email(input.Email))
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Kind == apperr.KindNotFound {
			return nil, apperr.NewFromChild(err, apperr.KindNoAuth, apperr.SubjectUser).
				AddPublic(hintBadCredentials).
				AddClient(apperr.ClientInvalidParams)
		}
		return nil, apperr.FromChild(err)
	}

	if !account.Flag.AllowedOnPlatform() {
		return nil, apperr.New(apperr.KindNotAllowed, apperr.SubjectUser).
			AddDebug("flag", account.Flag.String()).
			AddClient(apperr.ClientNotAllowedOnPlatform)
	}

	if err := service.verifier.Verify(ctx, input.Password, account.PasswordHash); err != nil {
		// A failed digest comparison keeps its Verifying/Hashing
		// classification; only the hint and tag are layered on.
		return nil, apperr.FromChild(err).
			AddPublic(hintBadCredentials).
			AddClient(apperr.ClientInvalidParams)
	}

	deviceID := input.DeviceID
	if !uuid.IsValid(deviceID) {
		deviceID = uuid.New()
	}

	refreshValue, err := service.sessionValueForDevice(ctx, account.ID, deviceID, input.IPAddr)
	if err != nil {
		return nil, err
	}

	accessToken, err := service.minter.Mint(account.ID, account.Flag.IsAdminOrOwner())
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	return &SessionOutput{
		Account:      account,
		AccessToken:  accessToken,
		RefreshValue: refreshValue,
		DeviceID:     deviceID,
	}, nil
}

// sessionValueForDevice returns the device's stored valid refresh value,
// minting and persisting a fresh token only when none survives.
func (service *Service) sessionValueForDevice(ctx context.Context, ownerID, deviceID, ipAddr string) (string, error) {
	stored, err := service.tokens.GetValidByDevice(ctx, ownerID, deviceID)
	if err == nil {
		return stored.Value, nil
	}
	if appError := apperr.As(err); appError == nil || appError.Kind != apperr.KindNotFound {
		return "", apperr.FromChild(err)
	}

	refreshValue, err := sec.MintRefreshValue()
	if err != nil {
		return "", apperr.FromChild(err)
	}

	token := &RefreshToken{
		Value:     refreshValue,
		DeviceID:  deviceID,
		IPAddr:    ipAddr,
		ExpiresAt: time.Now().Add(constants.RefreshTokenTTL).UTC(),
		Flag:      TokenFlagNone,
		OwnerID:   ownerID,
	}
	if err := service.tokens.Create(ctx, token); err != nil {
		return "", apperr.FromChild(err)
	}

	return refreshValue, nil
}

// RefreshInput carries the three cookie values presented for rotation.
type RefreshInput struct {
	AccessToken  string
	RefreshValue string
	DeviceID     string
}

// Refresh exchanges an expired access token for a fresh one.
//
// # Flow
//  1. Verify the old access token, accepting an expired one.
//  2. Load the device's active refresh token and compare values.
//  3. Re-check the account flag; revocations take effect here.
//  4. Rotate the refresh value, roll its expiry forward and mint a new
//     access token.
//
// Every successful refresh replaces the opaque refresh value, so a
// replayed old value fails the comparison on the next attempt. A
// mismatched value is treated as a stolen session.
func (service *Service) Refresh(ctx context.Context, input RefreshInput) (*SessionOutput, error) {
	authCtx, err := service.minter.Verify(input.AccessToken, true)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	stored, err := service.tokens.GetValidByDevice(ctx, authCtx.UserID, input.DeviceID)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Kind == apperr.KindNotFound {
			return nil, apperr.NewFromChild(err, apperr.KindNoAuth, apperr.SubjectRefreshToken).
				AddClient(apperr.ClientNoAuth)
		}
		return nil, apperr.FromChild(err)
	}

	if stored.Value != input.RefreshValue {
		return nil, apperr.New(apperr.KindNoAuth, apperr.SubjectRefreshToken).
			AddDebug("device_id", input.DeviceID).
			AddClient(apperr.ClientNoAuth)
	}

	account, err := service.accounts.GetByID(ctx, authCtx.UserID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	if !account.Flag.AllowedOnPlatform() {
		return nil, apperr.New(apperr.KindNotAllowed, apperr.SubjectUser).
			AddDebug("flag", account.Flag.String()).
			AddClient(apperr.ClientNotAllowedOnPlatform)
	}

	newValue, err := sec.MintRefreshValue()
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	newExpiry := time.Now().Add(constants.RefreshTokenTTL).UTC()
	if err := service.tokens.Rotate(ctx, account.ID, input.DeviceID, newValue, newExpiry); err != nil {
		return nil, apperr.FromChild(err)
	}

	accessToken, err := service.minter.Mint(account.ID, account.Flag.IsAdminOrOwner())
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	return &SessionOutput{
		Account:      account,
		AccessToken:  accessToken,
		RefreshValue: newValue,
		DeviceID:     input.DeviceID,
	}, nil
}

// Revoke ends the session on one device.
func (service *Service) Revoke(ctx context.Context, ownerID, deviceID string) error {
	if err := service.tokens.Revoke(ctx, ownerID, deviceID); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// RevokeAll ends every session of a user, on all devices.
func (service *Service) RevokeAll(ctx context.Context, ownerID string) error {
	if err := service.tokens.RevokeAll(ctx, ownerID); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// hintBadCredentials is the one public answer for every credential
// failure, whatever actually went wrong underneath.
const hintBadCredentials = "invalid email or password"
