// Copyright (c) 2026 Mogcord. All rights reserved.

package chat_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/chat"
	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/internal/platform/sec"
	"github.com/mogcord/mogcord/pkg/uuid"
)

func postChat(t *testing.T, handler *chat.Handler, callerID, body string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	request = request.WithContext(ctxutil.WithCtx(request.Context(), &sec.Ctx{UserID: callerID}))

	recorder := httptest.NewRecorder()
	handler.ChatRoutes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_CreateChat exercises the single conversation-create endpoint:
the body shape picks the branch, and ambiguous bodies are rejected.
*/
func TestHandler_CreateChat(t *testing.T) {
	caller := uuid.New()
	friendA := uuid.New()
	friendB := uuid.New()

	friends := newFakeFriends([2]string{caller, friendA}, [2]string{caller, friendB})
	handler := chat.NewHandler(chat.NewService(newFakeRepo(), friends))

	t.Run("bare_user_id_opens_private", func(t *testing.T) {
		recorder := postChat(t, handler, caller, `{"user_id":"`+friendA+`"}`)
		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), friendA)
	})

	t.Run("group_payload_opens_group", func(t *testing.T) {
		body := `{"group":{"name":"weekend plans","user_ids":["` + friendA + `","` + friendB + `"]}}`
		recorder := postChat(t, handler, caller, body)
		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "weekend plans")
	})

	t.Run("both_branches_rejected", func(t *testing.T) {
		body := `{"user_id":"` + friendA + `","group":{"name":"x","user_ids":[]}}`
		recorder := postChat(t, handler, caller, body)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("empty_body_rejected", func(t *testing.T) {
		recorder := postChat(t, handler, caller, `{}`)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}
