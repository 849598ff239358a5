// Copyright (c) 2026 Mogcord. All rights reserved.

package message_test

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/message"
	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// fakeRepo keeps messages in memory and mimics bucket assignment.
type fakeRepo struct {
	byID    map[string]*message.Message
	buckets map[string]string // channel+day -> bucket id
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:    make(map[string]*message.Message),
		buckets: make(map[string]string),
	}
}

func (f *fakeRepo) Create(_ context.Context, msg *message.Message) error {
	key := msg.Channel + "/" + message.DateKey(msg.Timestamp).Format("2006-01-02")
	bucketID, found := f.buckets[key]
	if !found {
		bucketID = "bucket-" + key
		f.buckets[key] = bucketID
	}
	msg.BucketID = bucketID

	clone := *msg
	f.byID[msg.ID] = &clone
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*message.Message, error) {
	msg, found := f.byID[id]
	if !found {
		return nil, apperr.New(apperr.KindNotFound, apperr.SubjectMessage)
	}
	clone := *msg
	return &clone, nil
}

func (f *fakeRepo) GetVisibleByChannel(_ context.Context, channelID string, _ pagination.Params) ([]*message.Message, int, error) {
	var messages []*message.Message
	for _, msg := range f.byID {
		if msg.Channel == channelID && msg.Flag.IsVisible() {
			clone := *msg
			messages = append(messages, &clone)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Timestamp.After(messages[j].Timestamp)
	})
	return messages, len(messages), nil
}

func (f *fakeRepo) Update(_ context.Context, msg *message.Message) error {
	if _, found := f.byID[msg.ID]; !found {
		return apperr.New(apperr.KindNotFound, apperr.SubjectMessage)
	}
	clone := *msg
	f.byID[msg.ID] = &clone
	return nil
}

// fakeGate grants rights to a fixed user set.
type fakeGate struct {
	readers map[string]bool
	writers map[string]bool
}

func (f *fakeGate) CanRead(_ context.Context, userID, _ string) (bool, error) {
	return f.readers[userID], nil
}

func (f *fakeGate) CanWrite(_ context.Context, userID, _ string) (bool, error) {
	return f.writers[userID], nil
}

func newService() (*message.Service, *fakeRepo) {
	repo := newFakeRepo()
	gate := &fakeGate{
		readers: map[string]bool{"alice": true, "bob": true},
		writers: map[string]bool{"alice": true, "bob": true},
	}
	return message.NewService(repo, gate), repo
}

/*
TestService_Create verifies the write gate and bucket assignment.
*/
func TestService_Create(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	first, err := service.Create(ctx, "alice", "chan-1", "hello")
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.BucketID)
	assert.Equal(t, message.FlagNone, first.Flag.Kind)

	// Same channel, same day: same bucket.
	second, err := service.Create(ctx, "bob", "chan-1", "hi")
	require.NoError(t, err)
	assert.Equal(t, first.BucketID, second.BucketID)

	// Different channel: different bucket.
	third, err := service.Create(ctx, "alice", "chan-2", "elsewhere")
	require.NoError(t, err)
	assert.NotEqual(t, first.BucketID, third.BucketID)

	t.Run("write_denied", func(t *testing.T) {
		_, err := service.Create(ctx, "mallory", "chan-1", "sneaky")
		require.Error(t, err)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusForbidden, appError.Status())
		assert.Equal(t, apperr.ClientPermissionDenied, appError.Client)
	})
}

/*
TestService_Update covers the edit matrix: ownership, editability, channel
match, and the NoChange short-circuit.
*/
func TestService_Update(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	msg, err := service.Create(ctx, "alice", "chan-1", "original")
	require.NoError(t, err)

	t.Run("happy_path", func(t *testing.T) {
		updated, err := service.Update(ctx, "alice", "chan-1", msg.ID, "edited text")
		require.NoError(t, err)
		assert.Equal(t, "edited text", updated.Value)
		assert.Equal(t, message.FlagEdited, updated.Flag.Kind)
		assert.False(t, updated.Flag.Date.IsZero())
	})

	t.Run("second_edit_allowed", func(t *testing.T) {
		updated, err := service.Update(ctx, "alice", "chan-1", msg.ID, "edited again")
		require.NoError(t, err)
		assert.Equal(t, message.FlagEdited, updated.Flag.Kind)
	})

	t.Run("not_owner", func(t *testing.T) {
		_, err := service.Update(ctx, "bob", "chan-1", msg.ID, "hijack")
		requireClient(t, err, apperr.ClientMessageNotOwned)
	})

	t.Run("wrong_channel", func(t *testing.T) {
		_, err := service.Update(ctx, "alice", "chan-2", msg.ID, "misdirected")
		requireKind(t, err, apperr.KindIncorrectValue)
	})

	t.Run("no_change", func(t *testing.T) {
		_, err := service.Update(ctx, "alice", "chan-1", msg.ID, "edited again")
		requireKind(t, err, apperr.KindNoChange)

		appError := apperr.As(err)
		require.NotNil(t, appError)
		assert.Equal(t, http.StatusNoContent, appError.Status())
	})

	t.Run("deleted_not_editable", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, "alice", "chan-1", msg.ID))

		_, err := service.Update(ctx, "alice", "chan-1", msg.ID, "necromancy")
		requireClient(t, err, apperr.ClientMessageNotEditable)
	})
}

/*
TestService_DeleteHidesFromHistory proves soft-deleted messages vanish from
the channel's visible page.
*/
func TestService_DeleteHidesFromHistory(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	keep, err := service.Create(ctx, "alice", "chan-1", "keep me")
	require.NoError(t, err)
	gone, err := service.Create(ctx, "alice", "chan-1", "delete me")
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, "alice", "chan-1", gone.ID))

	messages, meta, err := service.GetByChannel(ctx, "bob", "chan-1", pagination.Params{Page: 1, Limit: 25})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, keep.ID, messages[0].ID)
	assert.Equal(t, 1, meta.Total)

	t.Run("read_denied", func(t *testing.T) {
		_, _, err := service.GetByChannel(ctx, "mallory", "chan-1", pagination.Params{Page: 1, Limit: 25})
		requireClient(t, err, apperr.ClientPermissionDenied)
	})

	t.Run("delete_not_owner", func(t *testing.T) {
		err := service.Delete(ctx, "bob", "chan-1", keep.ID)
		requireClient(t, err, apperr.ClientMessageNotOwned)
	})
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, kind, appError.Kind)
}

func requireClient(t *testing.T, err error, tag apperr.ClientTag) {
	t.Helper()
	require.Error(t, err)
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, tag, appError.Client)
}
