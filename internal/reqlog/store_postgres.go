// Copyright (c) 2026 Mogcord. All rights reserved.

package reqlog

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

const sqlInsertLogLine = `
	INSERT INTO request_logs (
		req_id, logged_at, user_id, device_id,
		req_path, req_method, client_error_type, server_error_chain
	)
	VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8)
	ON CONFLICT (req_id) DO NOTHING
`

// PostgresStore persists request log lines into the request_logs table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save implements [Repository].
func (s *PostgresStore) Save(ctx context.Context, line Line) error {
	_, err := s.pool.Exec(ctx, sqlInsertLogLine,
		line.ReqID,
		line.Timestamp,
		line.User.UserID,
		line.User.DeviceID,
		line.ReqPath,
		line.ReqMethod,
		line.ClientErrorType,
		line.ServerErrorChain,
	)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectLog).
			AddDebug("req_id", line.ReqID)
	}
	return nil
}
