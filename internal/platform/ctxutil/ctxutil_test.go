// Copyright (c) 2026 Mogcord. All rights reserved.

package ctxutil_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mogcord/mogcord/internal/platform/ctxutil"
	"github.com/mogcord/mogcord/internal/platform/sec"
)

func TestRequestID_RoundTrip(t *testing.T) {
	ctx := ctxutil.WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

func TestRequestID_Missing(t *testing.T) {
	assert.Empty(t, ctxutil.GetRequestID(context.Background()))
}

func TestLogger_FallbackToDefault(t *testing.T) {
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(context.Background()))
}

func TestCtx_RoundTrip(t *testing.T) {
	authCtx := &sec.Ctx{UserID: "user-1", IsAdminOrOwner: true}

	ctx := ctxutil.WithCtx(context.Background(), authCtx)

	resolved := ctxutil.GetCtx(ctx)
	assert.Equal(t, authCtx, resolved)
}

func TestCtx_Anonymous(t *testing.T) {
	assert.Nil(t, ctxutil.GetCtx(context.Background()))
}
