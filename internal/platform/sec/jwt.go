// Copyright (c) 2026 Mogcord. All rights reserved.

/*
Package sec provides cryptographic primitives and token management.

It isolates security-sensitive code (password hashing, JWT signing, opaque
token minting) from the domain logic. Components are injected into the
application layer via constructors.

Contents:

  - TokenService: HS256 access-token mint/verify with an allow-expired mode.
  - Hasher: argon2id password hashing offloaded to a bounded worker pool.
  - MintRefreshValue: opaque refresh-token generation.
*/
package sec

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// Ctx is the per-request authorization context derived from a verified
// access token. Handlers read it; nothing else is trusted from the client.
type Ctx struct {
	UserID         string
	IsAdminOrOwner bool
}

// AccessClaims is the payload embedded inside an access token.
//
// The admin bit is carried in the token so that the context resolver never
// has to touch the user store on the hot path.
type AccessClaims struct {
	jwt.RegisteredClaims

	IsAdminOrOwner bool `json:"adm"`
}

// TokenService handles generation and verification of access tokens using
// HS256. The signing secret is read from configuration once per process.
type TokenService struct {
	key        []byte
	issuer     string
	timeToLive time.Duration
}

// NewTokenService creates a TokenService from the configured signing secret.
func NewTokenService(secret, issuer string, timeToLive time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, apperr.New(apperr.KindInValid, apperr.SubjectAccesToken).
			AddDebug("reason", "empty signing secret")
	}

	return &TokenService{
		key:        []byte(secret),
		issuer:     issuer,
		timeToLive: timeToLive,
	}, nil
}

// Mint creates a signed access token for the given user.
func (service *TokenService) Mint(userID string, isAdminOrOwner bool) (string, error) {
	currentTime := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.timeToLive)),
		},
		IsAdminOrOwner: isAdminOrOwner,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.key)
	if err != nil {
		return "", apperr.NewFromChild(err, apperr.KindCreate, apperr.SubjectAccesToken)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of an access token.
//
// With allowExpired set, an expired-but-otherwise-valid token still yields
// its context. Only the refresh endpoint is permitted to use that mode; all
// other call sites verify strictly.
func (service *TokenService) Verify(tokenString string, allowExpired bool) (*Ctx, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(service.issuer),
	}
	if allowExpired {
		options = append(options, jwt.WithoutClaimsValidation())
	}

	claims := &AccessClaims{}
	token, err := jwt.NewParser(options...).ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return service.key, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.NewFromChild(err, apperr.KindExpired, apperr.SubjectAccesToken)
		}
		return nil, apperr.NewFromChild(err, apperr.KindInValid, apperr.SubjectAccesToken)
	}

	if !token.Valid || claims.Subject == "" {
		return nil, apperr.New(apperr.KindInValid, apperr.SubjectAccesToken).
			AddDebug("reason", "missing subject claim")
	}

	return &Ctx{
		UserID:         claims.Subject,
		IsAdminOrOwner: claims.IsAdminOrOwner,
	}, nil
}

// TimeToLive exposes the configured access-token validity.
func (service *TokenService) TimeToLive() time.Duration {
	return service.timeToLive
}
