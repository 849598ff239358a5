// Copyright (c) 2026 Mogcord. All rights reserved.

package message

import (
	"context"
	"time"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/pagination"
	"github.com/mogcord/mogcord/pkg/uuid"
)

// ChannelGate answers permission questions about channels.
//
// Implemented by the chat service; the message domain never inspects
// parents itself.
type ChannelGate interface {
	CanRead(ctx context.Context, userID, channelID string) (bool, error)
	CanWrite(ctx context.Context, userID, channelID string) (bool, error)
}

// Service implements message business logic on top of [Repository].
type Service struct {
	repo Repository
	gate ChannelGate
}

// NewService wires the message service.
func NewService(repo Repository, gate ChannelGate) *Service {
	return &Service{repo: repo, gate: gate}
}

// Create posts a message into a channel.
//
// # Flow
//  1. The caller must hold write rights on the channel.
//  2. Stamp the message and persist it into its day bucket.
func (service *Service) Create(ctx context.Context, userID, channelID, value string) (*Message, error) {
	if err := service.requireWrite(ctx, userID, channelID); err != nil {
		return nil, err
	}

	msg := &Message{
		ID:        uuid.New(),
		Value:     value,
		Timestamp: time.Now().UTC(),
		Owner:     userID,
		Channel:   channelID,
		Flag:      Flag{Kind: FlagNone},
	}
	if err := service.repo.Create(ctx, msg); err != nil {
		return nil, apperr.FromChild(err)
	}

	return msg, nil
}

// GetByChannel pages through a channel's visible history, newest first.
func (service *Service) GetByChannel(ctx context.Context, userID, channelID string, params pagination.Params) ([]*Message, pagination.Meta, error) {
	canRead, err := service.gate.CanRead(ctx, userID, channelID)
	if err != nil {
		return nil, pagination.Meta{}, apperr.FromChild(err)
	}
	if !canRead {
		return nil, pagination.Meta{}, apperr.New(apperr.KindIncorrectPermissions, apperr.SubjectChannel).
			AddDebug("channel_id", channelID).
			AddClient(apperr.ClientPermissionDenied)
	}

	messages, total, err := service.repo.GetVisibleByChannel(ctx, channelID, params)
	if err != nil {
		return nil, pagination.Meta{}, apperr.FromChild(err)
	}

	return messages, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// Update edits a message's text.
//
// # Flow
//  1. The message must live in the named channel.
//  2. Only the owner may edit, and only while the flag allows it.
//  3. An identical value is a NoChange, answered without a write.
//  4. The flag rolls to edited with the current time.
func (service *Service) Update(ctx context.Context, userID, channelID, messageID, value string) (*Message, error) {
	msg, err := service.repo.GetByID(ctx, messageID)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	if msg.Channel != channelID {
		return nil, apperr.New(apperr.KindIncorrectValue, apperr.SubjectChannel).
			AddDebug("channel_id", channelID).
			AddClient(apperr.ClientInvalidParams)
	}

	if msg.Owner != userID {
		return nil, apperr.New(apperr.KindNotAllowed, apperr.SubjectMessage).
			AddDebug("message_id", messageID).
			AddClient(apperr.ClientMessageNotOwned)
	}

	if !msg.Flag.IsEditable() {
		return nil, apperr.New(apperr.KindNotAllowed, apperr.SubjectMessage).
			AddDebug("flag", msg.Flag.String()).
			AddClient(apperr.ClientMessageNotEditable)
	}

	if msg.Value == value {
		return nil, apperr.New(apperr.KindNoChange, apperr.SubjectMessage).
			AddDebug("message_id", messageID)
	}

	msg.Value = value
	msg.Flag = Flag{Kind: FlagEdited, Date: time.Now().UTC()}

	if err := service.repo.Update(ctx, msg); err != nil {
		return nil, apperr.FromChild(err)
	}

	return msg, nil
}

// Delete soft-deletes a message. Only the owner may delete.
func (service *Service) Delete(ctx context.Context, userID, channelID, messageID string) error {
	msg, err := service.repo.GetByID(ctx, messageID)
	if err != nil {
		return apperr.FromChild(err)
	}

	if msg.Channel != channelID {
		return apperr.New(apperr.KindIncorrectValue, apperr.SubjectChannel).
			AddDebug("channel_id", channelID).
			AddClient(apperr.ClientInvalidParams)
	}

	if msg.Owner != userID {
		return apperr.New(apperr.KindNotAllowed, apperr.SubjectMessage).
			AddDebug("message_id", messageID).
			AddClient(apperr.ClientMessageNotOwned)
	}

	if !msg.Flag.IsVisible() {
		return apperr.New(apperr.KindNoChange, apperr.SubjectMessage).
			AddDebug("message_id", messageID)
	}

	msg.Flag = Flag{Kind: FlagDeleted, Date: time.Now().UTC()}
	if err := service.repo.Update(ctx, msg); err != nil {
		return apperr.FromChild(err)
	}

	return nil
}

func (service *Service) requireWrite(ctx context.Context, userID, channelID string) error {
	canWrite, err := service.gate.CanWrite(ctx, userID, channelID)
	if err != nil {
		return apperr.FromChild(err)
	}
	if !canWrite {
		return apperr.New(apperr.KindIncorrectPermissions, apperr.SubjectChannel).
			AddDebug("channel_id", channelID).
			AddClient(apperr.ClientPermissionDenied)
	}
	return nil
}
