// Copyright (c) 2026 Mogcord. All rights reserved.

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/constants"
	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/internal/platform/middleware"
	"github.com/mogcord/mogcord/internal/platform/sec"
)

// stubVerifier implements middleware.TokenVerifier for testing.
type stubVerifier struct {
	ctx *sec.Ctx
	err error
}

func (s *stubVerifier) Verify(tokenString string, allowExpired bool) (*sec.Ctx, error) {
	return s.ctx, s.err
}

/*
TestResolveContext_AnonymousWithoutCookie proves a missing cookie keeps the
request anonymous rather than rejecting it.
*/
func TestResolveContext_AnonymousWithoutCookie(t *testing.T) {
	verifier := &stubVerifier{ctx: &sec.Ctx{UserID: "u1"}}

	var seen *sec.Ctx
	handler := middleware.ResolveContext(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, seen)
}

/*
TestResolveContext_AttachesVerifiedContext checks a valid access cookie
resolves into a downstream authorization context.
*/
func TestResolveContext_AttachesVerifiedContext(t *testing.T) {
	verifier := &stubVerifier{ctx: &sec.Ctx{UserID: "u1", IsAdminOrOwner: true}}

	var seen *sec.Ctx
	handler := middleware.ResolveContext(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetCtx(r.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.CookieAccesToken, Value: "token"})

	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.NotNil(t, seen)
	assert.Equal(t, "u1", seen.UserID)
	assert.True(t, seen.IsAdminOrOwner)
}

/*
TestResolveContext_ClearsCookieOnInvalidToken verifies a tampered token is
evicted from the browser while the request continues anonymously.
*/
func TestResolveContext_ClearsCookieOnInvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: apperr.New(apperr.KindInValid, apperr.SubjectAccesToken)}

	handler := middleware.ResolveContext(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.CookieAccesToken, Value: "garbage"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)

	cleared := false
	for _, setCookie := range recorder.Result().Cookies() {
		if setCookie.Name == constants.CookieAccesToken && setCookie.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

/*
TestResolveContext_KeepsCookieOnExpiredToken verifies an expired token is NOT
cleared so the client can still present it to the refresh route.
*/
func TestResolveContext_KeepsCookieOnExpiredToken(t *testing.T) {
	verifier := &stubVerifier{err: apperr.New(apperr.KindExpired, apperr.SubjectAccesToken)}

	handler := middleware.ResolveContext(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(&http.Cookie{Name: constants.CookieAccesToken, Value: "expired"})

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Empty(t, recorder.Result().Cookies())
}

/*
TestRequireAuth covers both the anonymous rejection and the authenticated pass.
*/
func TestRequireAuth(t *testing.T) {
	handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous_rejected", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_allowed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(ctxutil.WithCtx(request.Context(), &sec.Ctx{UserID: "u1"}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

/*
TestRequireAdmin checks the elevation gate rejects regular users with 403.
*/
func TestRequireAdmin(t *testing.T) {
	handler := middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("regular_user_forbidden", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(ctxutil.WithCtx(request.Context(), &sec.Ctx{UserID: "u1"}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request = request.WithContext(ctxutil.WithCtx(request.Context(), &sec.Ctx{UserID: "u1", IsAdminOrOwner: true}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
