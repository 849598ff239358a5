// Copyright (c) 2026 Mogcord. All rights reserved.

// Package auth implements session issuance and rotation.
//
// # Security Concept
//
// Access tokens (JWT) are stateless and cannot be revoked before they expire.
// To mitigate this, Mogcord pairs them with device-bound refresh tokens stored
// in the database. When the JWT expires, the client presents the refresh token
// to mint a new one. Revoking the refresh token logs the device out; revoking
// all of a user's tokens logs them out globally.
package auth

import (
	"time"
)

// TokenFlag marks the lifecycle state of a refresh token.
type TokenFlag string

const (
	TokenFlagNone    TokenFlag = "none"    // Active, usable for refresh.
	TokenFlagRevoked TokenFlag = "revoked" // Dead, refresh attempts are rejected.
)

// RefreshToken is a device-bound, opaque credential for minting new access tokens.
//
// # Rules
//   - Value is a high-entropy random string, never derived from user data.
//   - A (OwnerID, DeviceID) pair has at most one active token at a time.
//   - Value is replaced and ExpiresAt rolls forward on every successful
//     refresh; a replayed old value is rejected.
type RefreshToken struct {
	Value     string    `json:"-"` // Omitted from JSON for security.
	DeviceID  string    `json:"device_id"`
	IPAddr    string    `json:"ip_addr"`
	ExpiresAt time.Time `json:"expires_at"`
	Flag      TokenFlag `json:"flag"`
	OwnerID   string    `json:"owner_id"`
}
