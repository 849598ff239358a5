// Copyright (c) 2026 Mogcord. All rights reserved.

// Package relation implements the social graph between users.
//
// # Model
//
// The graph is stored as directed edges. A pending friend request is a
// single friend edge from requester to target; a confirmed friendship is
// the pair of opposing friend edges. A block is a single directed edge
// and always purges any friendship between the two users.
package relation

// Kind discriminates the two edge types of the social graph.
type Kind string

const (
	KindFriend  Kind = "friend"
	KindBlocked Kind = "blocked"
)

// Edge is one directed link in the social graph.
type Edge struct {
	UserID  string `json:"user_id"`
	OtherID string `json:"other_id"`
	Kind    Kind   `json:"kind"`
}
