// Copyright (c) 2026 Mogcord. All rights reserved.

package chat

import (
	"context"
)

// Repository defines the persistence contract for channel parents.
//
// Parents persist as a kind discriminant plus a JSONB payload, so the
// contract speaks [Parent] and never a concrete shape.
type Repository interface {
	// Create persists a new parent.
	Create(ctx context.Context, parent Parent) error

	// Update replaces the stored payload of an existing parent.
	Update(ctx context.Context, parent Parent) error

	// GetByID retrieves one parent, or NotFound.
	GetByID(ctx context.Context, id string) (Parent, error)

	// GetByChannelID retrieves the parent owning the given channel.
	GetByChannelID(ctx context.Context, channelID string) (Parent, error)

	// GetServerByChannelID retrieves the server owning the given channel,
	// or NotFound when the channel belongs to a private or group parent.
	GetServerByChannelID(ctx context.Context, channelID string) (*Server, error)

	// GetChatsByUser returns every parent the user belongs to.
	GetChatsByUser(ctx context.Context, userID string) ([]Parent, error)

	// DoesPrivateChatExist reports whether a private chat between the two
	// users already exists, in either owner order.
	DoesPrivateChatExist(ctx context.Context, userA, userB string) (bool, error)
}
