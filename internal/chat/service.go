// Copyright (c) 2026 Mogcord. All rights reserved.

package chat

import (
	"context"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/uuid"
)

// FriendChecker is the slice of the social graph the chat service needs.
type FriendChecker interface {
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
	AllFriends(ctx context.Context, userID string, otherIDs []string) (bool, error)
	IsBlocked(ctx context.Context, userID, otherID string) (bool, error)
}

// Service implements conversation-container business logic.
type Service struct {
	repo    Repository
	friends FriendChecker
}

// NewService wires the chat service.
func NewService(repo Repository, friends FriendChecker) *Service {
	return &Service{repo: repo, friends: friends}
}

// CreatePrivate opens a two-person conversation.
//
// # Flow
//  1. Reject self-conversation.
//  2. Both owners must be confirmed friends.
//  3. Reject a duplicate private chat in either owner order.
//  4. Persist with a fresh channel.
func (service *Service) CreatePrivate(ctx context.Context, callerID, otherID string) (*Private, error) {
	if callerID == otherID {
		return nil, apperr.New(apperr.KindInValid, apperr.SubjectUser).
			AddPublic("a private chat needs two distinct owners").
			AddClient(apperr.ClientInvalidParams)
	}

	friends, err := service.friends.AreFriends(ctx, callerID, otherID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	if !friends {
		return nil, errNonFriend(otherID)
	}

	exists, err := service.repo.DoesPrivateChatExist(ctx, callerID, otherID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	if exists {
		return nil, apperr.New(apperr.KindAlreadyExists, apperr.SubjectChatPrivate).
			AddDebug("other_id", otherID).
			AddClient(apperr.ClientChatAlreadyExists)
	}

	private := &Private{
		ID:      uuid.New(),
		Channel: Channel{ID: uuid.New()},
		Owners:  []string{callerID, otherID},
	}
	if err := service.repo.Create(ctx, private); err != nil {
		return nil, apperr.FromChild(err)
	}

	return private, nil
}

// CreateGroup opens an owner-led conversation.
//
// The invited user list needs at least two entries, must not contain the
// owner, and every invitee must be a confirmed friend of the owner.
func (service *Service) CreateGroup(ctx context.Context, ownerID, name string, userIDs []string) (*Group, error) {
	if len(userIDs) < 2 {
		return nil, apperr.New(apperr.KindInValid, apperr.SubjectUser).
			AddPublic("a group needs at least two invited users").
			AddClient(apperr.ClientInvalidParams)
	}
	for _, userID := range userIDs {
		if userID == ownerID {
			return nil, apperr.New(apperr.KindIsSelf, apperr.SubjectChatGroup).
				AddClient(apperr.ClientRelationSelfInteraction)
		}
	}

	allFriends, err := service.friends.AllFriends(ctx, ownerID, userIDs)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	if !allFriends {
		return nil, errNonFriend("")
	}

	group := &Group{
		ID:      uuid.New(),
		Name:    name,
		Channel: Channel{ID: uuid.New()},
		Owner:   ownerID,
		Users:   userIDs,
	}
	if err := service.repo.Create(ctx, group); err != nil {
		return nil, apperr.FromChild(err)
	}

	return group, nil
}

// AddUsersToGroup invites more users into an existing group.
//
// # Flow
//  1. The caller must be the group's owner.
//  2. Every new user must be a confirmed friend of the caller.
//  3. None of the new users may already be part of the group.
func (service *Service) AddUsersToGroup(ctx context.Context, callerID, groupID string, userIDs []string) (*Group, error) {
	parent, err := service.repo.GetByID(ctx, groupID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	group, ok := parent.(*Group)
	if !ok {
		return nil, apperr.New(apperr.KindIncorrectValue, apperr.SubjectChatGroup).
			AddDebug("kind", string(parent.Kind())).
			AddClient(apperr.ClientInvalidParams)
	}

	if group.Owner != callerID {
		return nil, apperr.New(apperr.KindIncorrectPermissions, apperr.SubjectChatGroup).
			AddClient(apperr.ClientPermissionDenied)
	}

	allFriends, err := service.friends.AllFriends(ctx, callerID, userIDs)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	if !allFriends {
		return nil, errNonFriend("")
	}

	for _, userID := range userIDs {
		if group.IsMember(userID) {
			return nil, apperr.New(apperr.KindAlreadyPartOf, apperr.SubjectChatGroup).
				AddDebug("user_id", userID).
				AddClient(apperr.ClientChatAlreadyPartOf)
		}
	}

	group.Users = append(group.Users, userIDs...)
	if err := service.repo.Update(ctx, group); err != nil {
		return nil, apperr.FromChild(err)
	}

	return group, nil
}

// CreateServer founds a community with a default channel and the
// terminal everybody role.
func (service *Service) CreateServer(ctx context.Context, ownerID, name string) (*Server, error) {
	generalID := uuid.New()

	server := &Server{
		ID:    uuid.New(),
		Name:  name,
		Owner: ownerID,
		Channels: map[string]Channel{
			generalID: {ID: generalID, Name: "general"},
		},
		Roles: map[string]Role{
			RoleEverybody: {Name: RoleEverybody, Rank: 100},
		},
		UserRole: map[string][]string{},
	}
	if err := service.repo.Create(ctx, server); err != nil {
		return nil, apperr.FromChild(err)
	}

	return server, nil
}

// JoinServer adds the caller to a server's member list.
//
// A user who is already a member, including the owner, is rejected with
// a conflict rather than silently re-added. A caller blocked by the
// server's owner may not join.
func (service *Service) JoinServer(ctx context.Context, userID, serverID string) (*Server, error) {
	parent, err := service.repo.GetByID(ctx, serverID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	server, ok := parent.(*Server)
	if !ok {
		return nil, apperr.New(apperr.KindCantGainUsers, apperr.SubjectChat).
			AddDebug("kind", string(parent.Kind())).
			AddClient(apperr.ClientInvalidParams)
	}

	blocked, err := service.friends.IsBlocked(ctx, server.Owner, userID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	if blocked {
		return nil, apperr.New(apperr.KindNotAllowed, apperr.SubjectServer).
			AddDebug("server_id", serverID).
			AddClient(apperr.ClientRelationUserBlockedYou)
	}

	if server.IsMember(userID) {
		return nil, apperr.New(apperr.KindAlreadyPartOf, apperr.SubjectServer).
			AddDebug("server_id", serverID).
			AddClient(apperr.ClientChatAlreadyPartOf)
	}

	server.Users = append(server.Users, userID)
	if err := service.repo.Update(ctx, server); err != nil {
		return nil, apperr.FromChild(err)
	}

	return server, nil
}

// AddChannel creates a channel inside a server. Owner only.
func (service *Service) AddChannel(ctx context.Context, callerID, serverID, name string) (*Server, error) {
	parent, err := service.repo.GetByID(ctx, serverID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	server, ok := parent.(*Server)
	if !ok {
		return nil, apperr.New(apperr.KindIncorrectValue, apperr.SubjectServer).
			AddClient(apperr.ClientInvalidParams)
	}
	if server.Owner != callerID {
		return nil, apperr.New(apperr.KindIncorrectPermissions, apperr.SubjectServer).
			AddClient(apperr.ClientPermissionDenied)
	}

	channelID := uuid.New()
	server.Channels[channelID] = Channel{ID: channelID, Name: name}

	if err := service.repo.Update(ctx, server); err != nil {
		return nil, apperr.FromChild(err)
	}

	return server, nil
}

// GetByID fetches a parent the caller belongs to.
func (service *Service) GetByID(ctx context.Context, callerID, id string) (Parent, error) {
	parent, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	if !parent.IsMember(callerID) {
		return nil, apperr.New(apperr.KindNotPartOf, apperr.SubjectChat).
			AddDebug("parent_id", id).
			AddClient(apperr.ClientPermissionDenied)
	}

	return parent, nil
}

// GetServerByID fetches a server for a member, with the channel map
// narrowed to the channels the caller may read.
func (service *Service) GetServerByID(ctx context.Context, callerID, serverID string) (*Server, error) {
	parent, err := service.repo.GetByID(ctx, serverID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	server, ok := parent.(*Server)
	if !ok {
		return nil, apperr.New(apperr.KindIncorrectValue, apperr.SubjectServer).
			AddDebug("kind", string(parent.Kind())).
			AddClient(apperr.ClientInvalidParams)
	}

	if !server.IsMember(callerID) {
		return nil, apperr.New(apperr.KindNotPartOf, apperr.SubjectServer).
			AddDebug("server_id", serverID).
			AddClient(apperr.ClientPermissionDenied)
	}

	visible := make(map[string]Channel, len(server.Channels))
	for channelID, channel := range server.Channels {
		if server.CanSeeChannel(callerID, channelID) {
			visible[channelID] = channel
		}
	}

	view := *server
	view.Channels = visible

	return &view, nil
}

// GetChatsByUser returns every conversation container the user belongs to.
func (service *Service) GetChatsByUser(ctx context.Context, userID string) ([]Parent, error) {
	parents, err := service.repo.GetChatsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	return parents, nil
}

// CanRead reports whether the user may read the channel. Used by the
// message domain before serving history.
func (service *Service) CanRead(ctx context.Context, userID, channelID string) (bool, error) {
	parent, err := service.repo.GetByChannelID(ctx, channelID)
	if err != nil {
		return false, apperr.FromChild(err)
	}
	return parent.CanRead(userID, channelID), nil
}

// CanWrite reports whether the user may write to the channel.
func (service *Service) CanWrite(ctx context.Context, userID, channelID string) (bool, error) {
	parent, err := service.repo.GetByChannelID(ctx, channelID)
	if err != nil {
		return false, apperr.FromChild(err)
	}
	return parent.CanWrite(userID, channelID), nil
}

func errNonFriend(otherID string) error {
	failure := apperr.New(apperr.KindNotFound, apperr.SubjectRelationFriend).
		AddClient(apperr.ClientChatAddNonFriend)
	if otherID != "" {
		failure = failure.AddDebug("other_id", otherID)
	}
	return failure
}
