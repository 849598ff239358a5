// Copyright (c) 2026 Mogcord. All rights reserved.

package chat

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// PostgresRepository implements [Repository] using pgx.
//
// # Layout
//
// All three parent shapes share the channel_parents table: a kind
// discriminant column plus the shape serialized as JSONB. Membership and
// channel-ownership lookups run as JSONB containment queries, so reading
// a user's chat list is a single statement across all shapes.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of the parent store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists a new parent.
func (repository *PostgresRepository) Create(ctx context.Context, parent Parent) error {
	const query = `
		INSERT INTO channel_parents (id, kind, payload)
		VALUES ($1, $2, $3)`

	payload, err := json.Marshal(parent)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindParse, apperr.SubjectChannelParent)
	}

	if _, err := repository.pool.Exec(ctx, query, parent.ParentID(), string(parent.Kind()), payload); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectChannelParent).
			AddDebug("parent_id", parent.ParentID())
	}

	return nil
}

// Update replaces the stored payload of an existing parent.
func (repository *PostgresRepository) Update(ctx context.Context, parent Parent) error {
	const query = `
		UPDATE channel_parents
		SET payload = $3
		WHERE id = $1 AND kind = $2`

	payload, err := json.Marshal(parent)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindParse, apperr.SubjectChannelParent)
	}

	tag, err := repository.pool.Exec(ctx, query, parent.ParentID(), string(parent.Kind()), payload)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindUpdate, apperr.SubjectChannelParent).
			AddDebug("parent_id", parent.ParentID())
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, apperr.SubjectChannelParent).
			AddDebug("parent_id", parent.ParentID())
	}

	return nil
}

// GetByID retrieves one parent, or NotFound.
func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (Parent, error) {
	const query = `
		SELECT kind, payload FROM channel_parents
		WHERE id = $1`

	return repository.getOne(ctx, query, id)
}

// GetByChannelID retrieves the parent owning the given channel.
//
// Private and group parents store their single channel under the
// 'channel' key; servers key their channel map by channel id.
func (repository *PostgresRepository) GetByChannelID(ctx context.Context, channelID string) (Parent, error) {
	const query = `
		SELECT kind, payload FROM channel_parents
		WHERE payload->'channel'->>'id' = $1
		   OR payload->'channels' ? $1`

	return repository.getOne(ctx, query, channelID)
}

// GetServerByChannelID retrieves the server owning the given channel.
func (repository *PostgresRepository) GetServerByChannelID(ctx context.Context, channelID string) (*Server, error) {
	const query = `
		SELECT kind, payload FROM channel_parents
		WHERE kind = 'server' AND payload->'channels' ? $1`

	parent, err := repository.getOne(ctx, query, channelID)
	if err != nil {
		return nil, err
	}

	server, ok := parent.(*Server)
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, apperr.SubjectServer).
			AddDebug("channel_id", channelID)
	}
	return server, nil
}

// GetChatsByUser returns every parent the user belongs to, newest first.
func (repository *PostgresRepository) GetChatsByUser(ctx context.Context, userID string) ([]Parent, error) {
	const query = `
		SELECT kind, payload FROM channel_parents
		WHERE payload->'owners' @> to_jsonb($1::text)
		   OR payload->>'owner' = $1
		   OR payload->'users' @> to_jsonb($1::text)
		ORDER BY id DESC`

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectChat)
	}
	defer rows.Close()

	var parents []Parent
	for rows.Next() {
		var kind string
		var payload []byte
		if err := rows.Scan(&kind, &payload); err != nil {
			return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectChat)
		}

		parent, err := decodeParent(ParentKind(kind), payload)
		if err != nil {
			return nil, err
		}
		parents = append(parents, parent)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectChat)
	}

	return parents, nil
}

// DoesPrivateChatExist reports whether the two users already share a
// private chat, regardless of owner order.
func (repository *PostgresRepository) DoesPrivateChatExist(ctx context.Context, userA, userB string) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM channel_parents
			WHERE kind = 'private'
			  AND payload->'owners' @> to_jsonb($1::text)
			  AND payload->'owners' @> to_jsonb($2::text)
		)`

	var found bool
	if err := repository.pool.QueryRow(ctx, query, userA, userB).Scan(&found); err != nil {
		return false, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectChatPrivate)
	}
	return found, nil
}

func (repository *PostgresRepository) getOne(ctx context.Context, query, argument string) (Parent, error) {
	var kind string
	var payload []byte

	err := repository.pool.QueryRow(ctx, query, argument).Scan(&kind, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, apperr.SubjectChannelParent)
		}
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectChannelParent)
	}

	return decodeParent(ParentKind(kind), payload)
}

// decodeParent hydrates the concrete shape behind a kind discriminant.
func decodeParent(kind ParentKind, payload []byte) (Parent, error) {
	var parent Parent
	switch kind {
	case ParentPrivate:
		parent = &Private{}
	case ParentGroup:
		parent = &Group{}
	case ParentServer:
		parent = &Server{}
	default:
		return nil, apperr.New(apperr.KindParse, apperr.SubjectChannelParent).
			AddDebug("kind", string(kind))
	}

	if err := json.Unmarshal(payload, parent); err != nil {
		return nil, apperr.NewFromChild(err, apperr.KindParse, apperr.SubjectChannelParent).
			AddDebug("kind", string(kind))
	}

	return parent, nil
}
