// Copyright (c) 2026 Mogcord. All rights reserved.

package reqlog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/respond"
	"github.com/mogcord/mogcord/internal/reqlog"
)

// captureRepo hands each saved line to the test over a channel, since the
// tap dispatches asynchronously.
type captureRepo struct {
	lines chan reqlog.Line
}

func newCaptureRepo() *captureRepo {
	return &captureRepo{lines: make(chan reqlog.Line, 1)}
}

func (r *captureRepo) Save(_ context.Context, line reqlog.Line) error {
	r.lines <- line
	return nil
}

func (r *captureRepo) await(t *testing.T) reqlog.Line {
	t.Helper()
	select {
	case line := <-r.lines:
		return line
	case <-time.After(2 * time.Second):
		t.Fatal("no log line dispatched")
		return reqlog.Line{}
	}
}

func serveThroughTap(repo *captureRepo, handler http.HandlerFunc) {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/users/friends", nil)
	reqlog.Tap(repo)(handler).ServeHTTP(recorder, request)
}

/*
TestTap_RecordsErrorChain proves every failed request lands with its full
error ancestry, with the stable client tag alongside when one is carried.
*/
func TestTap_RecordsErrorChain(t *testing.T) {
	t.Run("client_class_failure", func(t *testing.T) {
		repo := newCaptureRepo()

		serveThroughTap(repo, func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.New(apperr.KindNotFound, apperr.SubjectRelationFriend).
				AddClient(apperr.ClientRelationNoIncomingFriend))
		})

		line := repo.await(t)
		assert.Equal(t, apperr.ClientRelationNoIncomingFriend.Name(), line.ClientErrorType)
		require.NotEmpty(t, line.ServerErrorChain)
	})

	t.Run("server_class_failure", func(t *testing.T) {
		repo := newCaptureRepo()

		serveThroughTap(repo, func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.New(apperr.KindFetch, apperr.SubjectUser))
		})

		line := repo.await(t)
		require.NotEmpty(t, line.ServerErrorChain)
	})

	t.Run("clean_request", func(t *testing.T) {
		repo := newCaptureRepo()

		serveThroughTap(repo, func(writer http.ResponseWriter, request *http.Request) {
			respond.NoContent(writer)
		})

		line := repo.await(t)
		assert.Empty(t, line.ServerErrorChain)
		assert.Empty(t, line.ClientErrorType)
		assert.Equal(t, "/users/friends", line.ReqPath)
	})
}
