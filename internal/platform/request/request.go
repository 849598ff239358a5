// Copyright (c) 2026 Mogcord. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/internal/platform/sec"
)

// DecodeJSON reads the request body and decodes it into the target structure.
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return apperr.NewFromChild(err, apperr.KindParse, apperr.SubjectNone).
			AddClient(apperr.ClientInvalidParams).
			AddPublic("request body is not valid JSON")
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// Ctx extracts the authorization context from the request.
// Returns nil for anonymous requests.
func Ctx(request *http.Request) *sec.Ctx {
	return ctxutil.GetCtx(request.Context())
}

// RequiredCtx ensures the request is authenticated and returns its
// authorization context; otherwise NoAuth.
func RequiredCtx(request *http.Request) (*sec.Ctx, error) {
	authCtx := ctxutil.GetCtx(request.Context())
	if authCtx == nil {
		return nil, apperr.New(apperr.KindNoAuth, apperr.SubjectAccesToken).
			AddClient(apperr.ClientNoAuth)
	}
	return authCtx, nil
}
