// Copyright (c) 2026 Mogcord. All rights reserved.

package auth

import (
	"context"
	"time"
)

// Repository defines the persistence contract for refresh tokens.
type Repository interface {
	// Create persists a new refresh token, revoking any previous active
	// token for the same (owner, device) pair.
	Create(ctx context.Context, token *RefreshToken) error

	// GetValidByDevice returns the newest active, unexpired token bound to
	// the (owner, device) pair, or NotFound.
	GetValidByDevice(ctx context.Context, ownerID, deviceID string) (*RefreshToken, error)

	// Rotate swaps the active token's opaque value and pushes its expiry
	// forward in one statement.
	Rotate(ctx context.Context, ownerID, deviceID, newValue string, expiresAt time.Time) error

	// Revoke marks the active token for one device as revoked.
	Revoke(ctx context.Context, ownerID, deviceID string) error

	// RevokeAll marks every active token of a user as revoked.
	RevokeAll(ctx context.Context, ownerID string) error
}
