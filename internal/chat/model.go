// Copyright (c) 2026 Mogcord. All rights reserved.

// Package chat implements the conversation containers of the platform.
//
// # Model
//
// Every conversation lives under a channel parent, one of three shapes:
//
//   - Private: exactly two owners sharing a single channel.
//   - Group: one owner plus invited users sharing a single channel.
//   - Server: an owner, a member list, many channels, and ranked roles
//     that drive per-channel permissions.
//
// The three shapes share the [Parent] interface so stores, services, and
// the message domain never switch on the concrete type.
package chat

import (
	"sort"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// ParentKind discriminates the stored shape of a channel parent.
type ParentKind string

const (
	ParentPrivate ParentKind = "private"
	ParentGroup   ParentKind = "group"
	ParentServer  ParentKind = "server"
)

// RoleEverybody is the terminal role of every server. It always exists,
// always has the lowest priority, and treats unset rights as granted.
const RoleEverybody = "everybody"

// Rights is a three-valued permission set: true grants, false denies, and
// nil defers to the next role in the walk.
//
// ReadChannels scopes channel visibility: a member denied it does not see
// the channel in the server view at all, independent of message rights.
type Rights struct {
	ReadMessages  *bool `json:"read_messages,omitempty"`
	WriteMessages *bool `json:"write_messages,omitempty"`
	ReadChannels  *bool `json:"read_channels,omitempty"`
}

// Role is a named permission tier inside a server.
//
// Lower rank means higher priority: rank 0 is consulted first.
type Role struct {
	Name   string `json:"name"`
	Rank   int    `json:"rank"`
	Rights Rights `json:"rights"`
}

// Channel is a single message stream under a parent.
//
// Overrides re-scope a role's rights for this channel only, keyed by role
// name. An override value of nil falls through to the role's own rights.
type Channel struct {
	ID        string            `json:"id"`
	Name      string            `json:"name,omitempty"`
	Overrides map[string]Rights `json:"overrides,omitempty"`
}

// Parent is the polymorphic conversation container.
type Parent interface {
	// ParentID returns the container's unique id.
	ParentID() string

	// Kind returns the stored shape discriminant.
	Kind() ParentKind

	// IsMember reports whether the user belongs to the container.
	IsMember(userID string) bool

	// GetChannel resolves a channel id inside the container. Private and
	// group parents accept only their single channel's id.
	GetChannel(channelID string) (*Channel, error)

	// CanRead reports whether the user may read the given channel.
	CanRead(userID, channelID string) bool

	// CanWrite reports whether the user may write to the given channel.
	CanWrite(userID, channelID string) bool
}

// # Private

// Private is a two-person conversation.
type Private struct {
	ID      string   `json:"id"`
	Channel Channel  `json:"channel"`
	Owners  []string `json:"owners"`
}

// ParentID implements [Parent].
func (p *Private) ParentID() string { return p.ID }

// Kind implements [Parent].
func (p *Private) Kind() ParentKind { return ParentPrivate }

// IsMember implements [Parent].
func (p *Private) IsMember(userID string) bool {
	for _, owner := range p.Owners {
		if owner == userID {
			return true
		}
	}
	return false
}

// GetChannel implements [Parent].
func (p *Private) GetChannel(channelID string) (*Channel, error) {
	if channelID != p.Channel.ID {
		return nil, apperr.New(apperr.KindNotFound, apperr.SubjectChannel).
			AddDebug("channel_id", channelID)
	}
	return &p.Channel, nil
}

// CanRead implements [Parent]. Both owners have full access; nobody else
// has any.
func (p *Private) CanRead(userID, channelID string) bool {
	return channelID == p.Channel.ID && p.IsMember(userID)
}

// CanWrite implements [Parent].
func (p *Private) CanWrite(userID, channelID string) bool {
	return p.CanRead(userID, channelID)
}

// # Group

// Group is an owner-led conversation with an invited user list.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Channel Channel  `json:"channel"`
	Owner   string   `json:"owner"`
	Users   []string `json:"users"`
}

// ParentID implements [Parent].
func (g *Group) ParentID() string { return g.ID }

// Kind implements [Parent].
func (g *Group) Kind() ParentKind { return ParentGroup }

// IsMember implements [Parent].
func (g *Group) IsMember(userID string) bool {
	if userID == g.Owner {
		return true
	}
	for _, member := range g.Users {
		if member == userID {
			return true
		}
	}
	return false
}

// GetChannel implements [Parent].
func (g *Group) GetChannel(channelID string) (*Channel, error) {
	if channelID != g.Channel.ID {
		return nil, apperr.New(apperr.KindNotFound, apperr.SubjectChannel).
			AddDebug("channel_id", channelID)
	}
	return &g.Channel, nil
}

// CanRead implements [Parent]. Membership is the only gate.
func (g *Group) CanRead(userID, channelID string) bool {
	return channelID == g.Channel.ID && g.IsMember(userID)
}

// CanWrite implements [Parent].
func (g *Group) CanWrite(userID, channelID string) bool {
	return g.CanRead(userID, channelID)
}

// # Server

// Server is a many-channel community with ranked roles.
type Server struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Owner    string              `json:"owner"`
	Users    []string            `json:"users"`
	Channels map[string]Channel  `json:"channels"`
	Roles    map[string]Role     `json:"roles"`
	UserRole map[string][]string `json:"user_roles"` // user id -> role names
}

// ParentID implements [Parent].
func (s *Server) ParentID() string { return s.ID }

// Kind implements [Parent].
func (s *Server) Kind() ParentKind { return ParentServer }

// IsMember implements [Parent].
func (s *Server) IsMember(userID string) bool {
	if userID == s.Owner {
		return true
	}
	for _, member := range s.Users {
		if member == userID {
			return true
		}
	}
	return false
}

// GetChannel implements [Parent].
func (s *Server) GetChannel(channelID string) (*Channel, error) {
	channel, found := s.Channels[channelID]
	if !found {
		return nil, apperr.New(apperr.KindNotFound, apperr.SubjectChannel).
			AddDebug("channel_id", channelID)
	}
	return &channel, nil
}

// GetUserRoles resolves the user's roles ordered by rank, highest priority
// first, with [RoleEverybody] always appended as the terminal role.
func (s *Server) GetUserRoles(userID string) []Role {
	var roles []Role
	for _, name := range s.UserRole[userID] {
		if role, found := s.Roles[name]; found && name != RoleEverybody {
			roles = append(roles, role)
		}
	}

	sort.SliceStable(roles, func(i, j int) bool {
		return roles[i].Rank < roles[j].Rank
	})

	everybody, found := s.Roles[RoleEverybody]
	if !found {
		everybody = Role{Name: RoleEverybody}
	}
	return append(roles, everybody)
}

// CanRead implements [Parent].
func (s *Server) CanRead(userID, channelID string) bool {
	return s.resolve(userID, channelID, func(r Rights) *bool { return r.ReadMessages })
}

// CanWrite implements [Parent].
func (s *Server) CanWrite(userID, channelID string) bool {
	return s.resolve(userID, channelID, func(r Rights) *bool { return r.WriteMessages })
}

// CanSeeChannel reports whether the channel shows up in the user's view
// of the server.
func (s *Server) CanSeeChannel(userID, channelID string) bool {
	return s.resolve(userID, channelID, func(r Rights) *bool { return r.ReadChannels })
}

// resolve walks the user's roles in rank order against a channel.
//
// # Walk
//
// For each role, the channel's per-role override is consulted before the
// role's own rights; the first non-nil value decides. The terminal
// everybody role treats an unset value as granted, so a server with no
// configured roles is open to all members.
func (s *Server) resolve(userID, channelID string, pick func(Rights) *bool) bool {
	if userID == s.Owner {
		return true
	}
	if !s.IsMember(userID) {
		return false
	}

	channel, found := s.Channels[channelID]
	if !found {
		return false
	}

	roles := s.GetUserRoles(userID)
	for index, role := range roles {
		terminal := index == len(roles)-1

		if override, exists := channel.Overrides[role.Name]; exists {
			if value := pick(override); value != nil {
				return *value
			}
		}

		if value := pick(role.Rights); value != nil {
			return *value
		}

		if terminal {
			// Everybody grants by default.
			return true
		}
	}

	return true
}
