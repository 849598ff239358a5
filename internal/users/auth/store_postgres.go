// Copyright (c) 2026 Mogcord. All rights reserved.

package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of the token store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists a new refresh token inside one transaction that first
// revokes any previous active token for the same (owner, device) pair.
func (repository *PostgresRepository) Create(ctx context.Context, token *RefreshToken) error {
	const revokeQuery = `
		UPDATE refresh_tokens
		SET flag = 'revoked'
		WHERE owner_id = $1 AND device_id = $2 AND flag = 'none'`

	const insertQuery = `
		INSERT INTO refresh_tokens (value, device_id, ip_addr, expires_at, flag, owner_id)
		VALUES ($1, $2, $3, $4, $5, $6)`

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectRefreshToken)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	if _, err := transaction.Exec(ctx, revokeQuery, token.OwnerID, token.DeviceID); err != nil {
		return apperr.NewFromChild(err, apperr.KindRevoke, apperr.SubjectRefreshToken).
			AddDebug("device_id", token.DeviceID)
	}

	_, err = transaction.Exec(ctx, insertQuery,
		token.Value,
		token.DeviceID,
		token.IPAddr,
		token.ExpiresAt,
		string(token.Flag),
		token.OwnerID,
	)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectRefreshToken).
			AddDebug("device_id", token.DeviceID)
	}

	if err := transaction.Commit(ctx); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectRefreshToken)
	}

	return nil
}

// GetValidByDevice returns the newest active, unexpired token for the pair.
func (repository *PostgresRepository) GetValidByDevice(ctx context.Context, ownerID, deviceID string) (*RefreshToken, error) {
	const query = `
		SELECT value, device_id, ip_addr, expires_at, flag, owner_id
		FROM refresh_tokens
		WHERE owner_id = $1 AND device_id = $2 AND flag = 'none' AND expires_at > NOW()
		ORDER BY expires_at DESC
		LIMIT 1`

	token := &RefreshToken{}
	var rawFlag string

	err := repository.pool.QueryRow(ctx, query, ownerID, deviceID).Scan(
		&token.Value,
		&token.DeviceID,
		&token.IPAddr,
		&token.ExpiresAt,
		&rawFlag,
		&token.OwnerID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, apperr.SubjectRefreshToken).
				AddDebug("device_id", deviceID)
		}
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectRefreshToken)
	}

	token.Flag = TokenFlag(rawFlag)
	return token, nil
}

// Rotate swaps the active token's opaque value and pushes its expiry forward.
func (repository *PostgresRepository) Rotate(ctx context.Context, ownerID, deviceID, newValue string, expiresAt time.Time) error {
	const query = `
		UPDATE refresh_tokens
		SET value = $3, expires_at = $4
		WHERE owner_id = $1 AND device_id = $2 AND flag = 'none' AND expires_at > NOW()`

	tag, err := repository.pool.Exec(ctx, query, ownerID, deviceID, newValue, expiresAt)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindUpdate, apperr.SubjectRefreshToken).
			AddDebug("device_id", deviceID)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, apperr.SubjectRefreshToken).
			AddDebug("device_id", deviceID)
	}

	return nil
}

// Revoke marks the active token for one device as revoked.
func (repository *PostgresRepository) Revoke(ctx context.Context, ownerID, deviceID string) error {
	const query = `
		UPDATE refresh_tokens
		SET flag = 'revoked'
		WHERE owner_id = $1 AND device_id = $2 AND flag = 'none'`

	if _, err := repository.pool.Exec(ctx, query, ownerID, deviceID); err != nil {
		return apperr.NewFromChild(err, apperr.KindRevoke, apperr.SubjectRefreshToken).
			AddDebug("device_id", deviceID)
	}
	return nil
}

// RevokeAll marks every active token of a user as revoked.
func (repository *PostgresRepository) RevokeAll(ctx context.Context, ownerID string) error {
	const query = `
		UPDATE refresh_tokens
		SET flag = 'revoked'
		WHERE owner_id = $1 AND flag = 'none'`

	if _, err := repository.pool.Exec(ctx, query, ownerID); err != nil {
		return apperr.NewFromChild(err, apperr.KindRevoke, apperr.SubjectRefreshToken).
			AddDebug("owner_id", ownerID)
	}
	return nil
}
