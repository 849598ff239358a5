// Copyright (c) 2026 Mogcord. All rights reserved.

package relation

import (
	"context"

	"github.com/mogcord/mogcord/pkg/pagination"
)

// Repository defines the persistence contract for the social graph.
type Repository interface {
	// HasEdge reports whether the directed edge exists.
	HasEdge(ctx context.Context, userID, otherID string, kind Kind) (bool, error)

	// CreateEdge inserts one directed edge.
	CreateEdge(ctx context.Context, userID, otherID string, kind Kind) error

	// DeleteEdge removes one directed edge; NotFound if it never existed.
	DeleteEdge(ctx context.Context, userID, otherID string, kind Kind) error

	// RemoveFriendship deletes the friend edges in both directions
	// inside one transaction. Idempotent: zero deleted rows is success.
	RemoveFriendship(ctx context.Context, userID, otherID string) error

	// Block inserts the directed block edge and purges any friendship
	// between the two users, all inside one transaction.
	Block(ctx context.Context, userID, otherID string) error

	// AreFriends reports whether both opposing friend edges exist.
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)

	// AllFriends reports whether the user is friends with EVERY given id.
	// An empty id list is vacuously true.
	AllFriends(ctx context.Context, userID string, otherIDs []string) (bool, error)

	// ListRelated pages through the ids the user has an outgoing edge of
	// the given kind to, plus the total count.
	ListRelated(ctx context.Context, userID string, kind Kind, params pagination.Params) ([]string, int, error)
}
