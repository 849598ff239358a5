// Copyright (c) 2026 Mogcord. All rights reserved.

package relation_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-chi/chi/v5"

	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/internal/platform/sec"
	"github.com/mogcord/mogcord/internal/relation"
	"github.com/mogcord/mogcord/pkg/uuid"
)

func send(t *testing.T, router chi.Router, method, path, callerID, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request = request.WithContext(ctxutil.WithCtx(request.Context(), &sec.Ctx{UserID: callerID}))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_FriendEndpoints walks the handshake over the HTTP surface:
the target user rides in the body and every mutation answers 204.
*/
func TestHandler_FriendEndpoints(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	service, _ := newService(alice, bob)
	router := relation.NewHandler(service).FriendRoutes()

	aboutBob := `{"user_id":"` + bob + `"}`
	aboutAlice := `{"user_id":"` + alice + `"}`

	recorder := send(t, router, http.MethodPost, "/", alice, aboutBob)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = send(t, router, http.MethodPost, "/confirm", bob, aboutAlice)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = send(t, router, http.MethodDelete, "/", alice, aboutBob)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	t.Run("malformed_target_rejected", func(t *testing.T) {
		recorder := send(t, router, http.MethodPost, "/", alice, `{"user_id":"not-a-uuid"}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestHandler_BlockedEndpoints covers block and unblock with body targets.
*/
func TestHandler_BlockedEndpoints(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	service, _ := newService(alice, bob)
	router := relation.NewHandler(service).BlockedRoutes()

	aboutBob := `{"user_id":"` + bob + `"}`

	recorder := send(t, router, http.MethodPost, "/", alice, aboutBob)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = send(t, router, http.MethodDelete, "/", alice, aboutBob)
	require.Equal(t, http.StatusNoContent, recorder.Code)
}
