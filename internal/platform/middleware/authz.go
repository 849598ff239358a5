// Copyright (c) 2026 Mogcord. All rights reserved.

package middleware

import (
	"net/http"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/cookie"
	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/internal/platform/respond"
	"github.com/mogcord/mogcord/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenString string, allowExpired bool) (*sec.Ctx, error)
}

// ResolveContext extracts and verifies the signed access token cookie.
//
// # Flow
//  1. Read the ACCES_TOKEN cookie.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, verify the signature and claims via [TokenVerifier].
//  4. Inject [*sec.Ctx] into the request context for downstream use.
//
// An expired token leaves the request anonymous so the client can hit the
// refresh route; any other verification failure also clears the cookie.
func ResolveContext(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			tokenString, err := cookie.Get(request, cookie.AccesToken)
			if err != nil {
				next.ServeHTTP(writer, request)
				return
			}

			authCtx, err := verifier.Verify(tokenString, false)
			if err != nil {
				appError := apperr.As(err)
				if appError == nil || appError.Kind != apperr.KindExpired {
					cookie.Clear(writer, cookie.AccesToken)
				}
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithCtx(request.Context(), authCtx)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [ResolveContext].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetCtx(request.Context()) == nil {
			respond.Error(writer, request, errNoAuth())
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin blocks requests from users without elevated platform rights.
//
// # Usage
//
// Must be registered in the router AFTER [ResolveContext]. It automatically
// implies [RequireAuth] so you don't need to mount both.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		authCtx := ctxutil.GetCtx(request.Context())

		if authCtx == nil {
			respond.Error(writer, request, errNoAuth())
			return
		}

		if !authCtx.IsAdminOrOwner {
			respond.Error(writer, request, apperr.New(apperr.KindIncorrectPermissions, apperr.SubjectUser).
				AddClient(apperr.ClientPermissionDenied))
			return
		}

		next.ServeHTTP(writer, request)
	})
}

func errNoAuth() error {
	return apperr.New(apperr.KindNoAuth, apperr.SubjectAccesToken).
		AddClient(apperr.ClientNoAuth)
}
