// Copyright (c) 2026 Mogcord. All rights reserved.

package relation

import (
	"context"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/users/user"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// AccountSource is the slice of the user store the graph service needs.
type AccountSource interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
	GetManyByID(ctx context.Context, ids []string) ([]*user.User, error)
}

// Service implements the social graph rules on top of [Repository].
type Service struct {
	repo     Repository
	accounts AccountSource
}

// NewService wires the graph service.
func NewService(repo Repository, accounts AccountSource) *Service {
	return &Service{repo: repo, accounts: accounts}
}

// AddFriend sends a friend request: a single outgoing friend edge.
//
// # Flow
//  1. Reject self-interaction and unknown targets.
//  2. Reject if either side has blocked the other.
//  3. Reject a duplicate outgoing edge.
//  4. Insert the edge. If the target had already sent their own request,
//     the opposing edges now exist and the two are friends.
func (service *Service) AddFriend(ctx context.Context, userID, otherID string) error {
	if err := service.checkInteraction(ctx, userID, otherID); err != nil {
		return err
	}

	alreadySent, err := service.repo.HasEdge(ctx, userID, otherID, KindFriend)
	if err != nil {
		return apperr.FromChild(err)
	}
	if alreadySent {
		return apperr.New(apperr.KindAlreadyExists, apperr.SubjectRelationFriend).
			AddDebug("other_id", otherID).
			AddClient(apperr.ClientRelationUserAlreadyFriend)
	}

	if err := service.repo.CreateEdge(ctx, userID, otherID, KindFriend); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// ConfirmFriend accepts an incoming friend request.
//
// The target must already have an edge pointing at the caller; otherwise
// there is nothing to confirm. A requester confirming their own pending
// request therefore gets NotFound, not a duplicate conflict.
func (service *Service) ConfirmFriend(ctx context.Context, userID, otherID string) error {
	if err := service.checkInteraction(ctx, userID, otherID); err != nil {
		return err
	}

	incoming, err := service.repo.HasEdge(ctx, otherID, userID, KindFriend)
	if err != nil {
		return apperr.FromChild(err)
	}
	if !incoming {
		return apperr.New(apperr.KindNotFound, apperr.SubjectRelationFriend).
			AddDebug("other_id", otherID).
			AddClient(apperr.ClientRelationNoIncomingFriend)
	}

	friends, err := service.repo.AreFriends(ctx, userID, otherID)
	if err != nil {
		return apperr.FromChild(err)
	}
	if friends {
		return apperr.New(apperr.KindAlreadyExists, apperr.SubjectRelationFriend).
			AddDebug("other_id", otherID).
			AddClient(apperr.ClientRelationUserAlreadyFriend)
	}

	if err := service.repo.CreateEdge(ctx, userID, otherID, KindFriend); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// RemoveFriend deletes the friendship in both directions.
//
// Removing a pending request (only one edge exists) is also allowed; the
// single edge disappears.
func (service *Service) RemoveFriend(ctx context.Context, userID, otherID string) error {
	if userID == otherID {
		return errSelfInteraction(otherID)
	}

	if err := service.repo.RemoveFriendship(ctx, userID, otherID); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// Block inserts a directed block and purges any friendship.
func (service *Service) Block(ctx context.Context, userID, otherID string) error {
	if userID == otherID {
		return errSelfInteraction(otherID)
	}

	exists, err := service.accounts.ExistsByID(ctx, otherID)
	if err != nil {
		return apperr.FromChild(err)
	}
	if !exists {
		return apperr.New(apperr.KindNotFound, apperr.SubjectUser).
			AddDebug("other_id", otherID)
	}

	alreadyBlocked, err := service.repo.HasEdge(ctx, userID, otherID, KindBlocked)
	if err != nil {
		return apperr.FromChild(err)
	}
	if alreadyBlocked {
		return apperr.New(apperr.KindAlreadyExists, apperr.SubjectRelationBlock).
			AddDebug("other_id", otherID).
			AddClient(apperr.ClientRelationUserAlreadyBlocked)
	}

	if err := service.repo.Block(ctx, userID, otherID); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// Unblock removes a directed block.
func (service *Service) Unblock(ctx context.Context, userID, otherID string) error {
	if userID == otherID {
		return errSelfInteraction(otherID)
	}

	if err := service.repo.DeleteEdge(ctx, userID, otherID, KindBlocked); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// AreFriends reports whether a confirmed friendship exists.
func (service *Service) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	friends, err := service.repo.AreFriends(ctx, userID, otherID)
	if err != nil {
		return false, apperr.FromChild(err)
	}
	return friends, nil
}

// IsBlocked reports whether userID holds a block edge against otherID.
func (service *Service) IsBlocked(ctx context.Context, userID, otherID string) (bool, error) {
	blocked, err := service.repo.HasEdge(ctx, userID, otherID, KindBlocked)
	if err != nil {
		return false, apperr.FromChild(err)
	}
	return blocked, nil
}

// AllFriends reports whether the user is friends with every given id.
func (service *Service) AllFriends(ctx context.Context, userID string, otherIDs []string) (bool, error) {
	all, err := service.repo.AllFriends(ctx, userID, otherIDs)
	if err != nil {
		return false, apperr.FromChild(err)
	}
	return all, nil
}

// ListFriends pages through the accounts the user has sent friend edges to.
func (service *Service) ListFriends(ctx context.Context, userID string, params pagination.Params) ([]*user.User, pagination.Meta, error) {
	return service.listRelated(ctx, userID, KindFriend, params)
}

// ListBlocked pages through the accounts the user has blocked.
func (service *Service) ListBlocked(ctx context.Context, userID string, params pagination.Params) ([]*user.User, pagination.Meta, error) {
	return service.listRelated(ctx, userID, KindBlocked, params)
}

func (service *Service) listRelated(ctx context.Context, userID string, kind Kind, params pagination.Params) ([]*user.User, pagination.Meta, error) {
	ids, total, err := service.repo.ListRelated(ctx, userID, kind, params)
	if err != nil {
		return nil, pagination.Meta{}, apperr.FromChild(err)
	}

	accounts, err := service.accounts.GetManyByID(ctx, ids)
	if err != nil {
		return nil, pagination.Meta{}, apperr.FromChild(err)
	}

	return accounts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// checkInteraction runs the shared gate for friend mutations.
func (service *Service) checkInteraction(ctx context.Context, userID, otherID string) error {
	if userID == otherID {
		return errSelfInteraction(otherID)
	}

	exists, err := service.accounts.ExistsByID(ctx, otherID)
	if err != nil {
		return apperr.FromChild(err)
	}
	if !exists {
		return apperr.New(apperr.KindNotFound, apperr.SubjectUser).
			AddDebug("other_id", otherID)
	}

	blockedByMe, err := service.repo.HasEdge(ctx, userID, otherID, KindBlocked)
	if err != nil {
		return apperr.FromChild(err)
	}
	if blockedByMe {
		return apperr.New(apperr.KindNotAllowed, apperr.SubjectRelationBlock).
			AddDebug("other_id", otherID).
			AddClient(apperr.ClientRelationUserBlocked)
	}

	blockedByThem, err := service.repo.HasEdge(ctx, otherID, userID, KindBlocked)
	if err != nil {
		return apperr.FromChild(err)
	}
	if blockedByThem {
		return apperr.New(apperr.KindNotAllowed, apperr.SubjectRelationBlock).
			AddDebug("other_id", otherID).
			AddClient(apperr.ClientRelationUserBlockedYou)
	}

	return nil
}

func errSelfInteraction(otherID string) error {
	return apperr.New(apperr.KindIsSelf, apperr.SubjectUser).
		AddDebug("other_id", otherID).
		AddClient(apperr.ClientRelationSelfInteraction)
}
