// Copyright (c) 2026 Mogcord. All rights reserved.

package reqlog

import (
	"context"
	"net/http"
	"time"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/cookie"
	"github.com/mogcord/mogcord/internal/platform/ctxkey"
	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/internal/platform/respond"
)

// saveTimeout bounds the asynchronous dispatch so a stuck sink cannot pile
// up goroutines forever.
const saveTimeout = 5 * time.Second

// Tap produces exactly one [Line] per finished request and dispatches it to
// the repository.
//
// # Flow
//  1. Install an empty [respond.ErrorHolder] into the request context.
//  2. Run the handler; respond.Error parks any failure into the holder.
//  3. Build the line from the request, context, and holder.
//  4. Dispatch asynchronously so persistence never adds request latency.
//
// Must be mounted AFTER RequestID and the context resolver so both the
// correlation ID and the caller identity are available.
func Tap(repo Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			holder := &respond.ErrorHolder{}
			ctx := context.WithValue(request.Context(), ctxkey.KeyServerError, holder)
			request = request.WithContext(ctx)

			next.ServeHTTP(writer, request)

			line := buildLine(request, holder.Err)

			go func() {
				saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
				defer cancel()
				_ = repo.Save(saveCtx, line)
			}()
		})
	}
}

// buildLine assembles the log line for one finished request.
func buildLine(request *http.Request, failure error) Line {
	line := Line{
		ReqID:     ctxutil.GetRequestID(request.Context()),
		Timestamp: time.Now().UTC(),
		ReqPath:   request.URL.Path,
		ReqMethod: request.Method,
	}

	if authCtx := ctxutil.GetCtx(request.Context()); authCtx != nil {
		line.User.UserID = authCtx.UserID
	}
	if deviceID, err := cookie.Get(request, cookie.DeviceID); err == nil {
		line.User.DeviceID = deviceID
	}

	if failure == nil {
		return line
	}

	appError := apperr.As(failure)
	if appError == nil {
		appError = apperr.FromChild(failure)
	}

	// Every failure records its full ancestry; the stable client tag
	// rides alongside when one is carried.
	line.ServerErrorChain = apperr.Chain(appError)
	if appError.Client != apperr.ClientNone {
		line.ClientErrorType = appError.Client.Name()
	}

	return line
}
