// Copyright (c) 2026 Mogcord. All rights reserved.

// Package ctxkey defines the typed keys used to store request-scoped values
// in [context.Context]. Keeping them in one tiny package avoids import
// cycles between middleware and the packages that read the values.
package ctxkey

type contextKey string

const (
	// KeyRequestID stores the correlation ID of the current request.
	KeyRequestID contextKey = "request_id"

	// KeyLogger stores the request-scoped *slog.Logger.
	KeyLogger contextKey = "logger"

	// KeyCtx stores the resolved authorization context (*sec.Ctx).
	KeyCtx contextKey = "auth_ctx"

	// KeyServerError stores the per-request error holder used by the
	// response logging pipeline.
	KeyServerError contextKey = "server_error"
)
