// Copyright (c) 2026 Mogcord. All rights reserved.

package reqlog_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/reqlog"
)

/*
TestFileStore_WritesDailyFiles proves lines land in a file named for their
UTC day and that rotation happens when the day changes.
*/
func TestFileStore_WritesDailyFiles(t *testing.T) {
	folder := t.TempDir()

	store, err := reqlog.NewFileStore(folder)
	require.NoError(t, err)
	defer store.Close()

	dayOne := time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC)
	dayTwo := time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC)

	require.NoError(t, store.Save(context.Background(), reqlog.Line{
		ReqID:     "req-1",
		Timestamp: dayOne,
		ReqPath:   "/users/current",
		ReqMethod: "GET",
	}))
	require.NoError(t, store.Save(context.Background(), reqlog.Line{
		ReqID:     "req-2",
		Timestamp: dayTwo,
		ReqPath:   "/auth/login",
		ReqMethod: "POST",
	}))

	firstFile, err := os.ReadFile(filepath.Join(folder, "2026-03-01.log"))
	require.NoError(t, err)
	secondFile, err := os.ReadFile(filepath.Join(folder, "2026-03-02.log"))
	require.NoError(t, err)

	assert.Contains(t, string(firstFile), "req-1")
	assert.NotContains(t, string(firstFile), "req-2")
	assert.Contains(t, string(secondFile), "req-2")
}

/*
TestFileStore_LinesAreValidJSON checks each written line parses back into a
Line and that empty optional fields are omitted.
*/
func TestFileStore_LinesAreValidJSON(t *testing.T) {
	folder := t.TempDir()

	store, err := reqlog.NewFileStore(folder)
	require.NoError(t, err)
	defer store.Close()

	timestamp := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(context.Background(), reqlog.Line{
		ReqID:            "req-3",
		Timestamp:        timestamp,
		User:             reqlog.UserInfo{UserID: "u1", DeviceID: "d1"},
		ReqPath:          "/channels/c1/messages",
		ReqMethod:        "POST",
		ServerErrorChain: []string{"Insert/Message at message/store_postgres.go:42"},
	}))
	require.NoError(t, store.Save(context.Background(), reqlog.Line{
		ReqID:     "req-4",
		Timestamp: timestamp,
		ReqPath:   "/health",
		ReqMethod: "GET",
	}))

	raw, err := os.ReadFile(filepath.Join(folder, "2026-03-01.log"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)

	var first reqlog.Line
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "req-3", first.ReqID)
	assert.Equal(t, "u1", first.User.UserID)
	assert.Len(t, first.ServerErrorChain, 1)

	// Optional fields must vanish from the clean line entirely.
	assert.NotContains(t, lines[1], "server_error_chain")
	assert.NotContains(t, lines[1], "client_error_type")
	assert.NotContains(t, lines[1], "user_id")
}
