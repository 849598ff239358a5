// Copyright (c) 2026 Mogcord. All rights reserved.

package message

import (
	"context"

	"github.com/mogcord/mogcord/pkg/pagination"
)

// Repository defines the persistence contract for messages and buckets.
type Repository interface {
	// Create persists a message inside its channel/day bucket, creating
	// the bucket if the day is fresh. The whole write is transactional.
	Create(ctx context.Context, msg *Message) error

	// GetByID retrieves one message, or NotFound.
	GetByID(ctx context.Context, id string) (*Message, error)

	// GetVisibleByChannel pages through a channel's visible messages,
	// newest first, plus the total visible count.
	GetVisibleByChannel(ctx context.Context, channelID string, params pagination.Params) ([]*Message, int, error)

	// Update replaces the value and flag of an existing message.
	Update(ctx context.Context, msg *Message) error
}
