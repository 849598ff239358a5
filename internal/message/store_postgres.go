// Copyright (c) 2026 Mogcord. All rights reserved.

package message

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/pagination"
	"github.com/mogcord/mogcord/pkg/uuid"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of the message store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists a message inside its channel/day bucket.
//
// # Flow
//  1. Look up the bucket for (channel, UTC day of the timestamp).
//  2. Append the message id to it, or insert a fresh bucket.
//  3. Insert the message row carrying the bucket id.
//
// All three steps share one transaction so a crash can never leave a
// message outside a bucket.
func (repository *PostgresRepository) Create(ctx context.Context, msg *Message) error {
	const findBucketQuery = `
		SELECT id FROM buckets
		WHERE channel_id = $1 AND date = $2
		FOR UPDATE`

	const appendQuery = `
		UPDATE buckets
		SET message_ids = array_append(message_ids, $2)
		WHERE id = $1`

	const insertBucketQuery = `
		INSERT INTO buckets (id, channel_id, date, message_ids)
		VALUES ($1, $2, $3, $4)`

	const insertMessageQuery = `
		INSERT INTO messages (id, value, timestamp, owner_id, channel_id, bucket_id, flag)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectMessage)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	day := DateKey(msg.Timestamp)

	var bucketID string
	err = transaction.QueryRow(ctx, findBucketQuery, msg.Channel, day).Scan(&bucketID)
	switch {
	case err == nil:
		if _, err := transaction.Exec(ctx, appendQuery, bucketID, msg.ID); err != nil {
			return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectBucket).
				AddDebug("bucket_id", bucketID)
		}

	case errors.Is(err, pgx.ErrNoRows):
		bucketID = uuid.New()
		if _, err := transaction.Exec(ctx, insertBucketQuery, bucketID, msg.Channel, day, []string{msg.ID}); err != nil {
			return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectBucket).
				AddDebug("channel_id", msg.Channel)
		}

	default:
		return apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectBucket)
	}

	msg.BucketID = bucketID

	_, err = transaction.Exec(ctx, insertMessageQuery,
		msg.ID,
		msg.Value,
		msg.Timestamp,
		msg.Owner,
		msg.Channel,
		msg.BucketID,
		msg.Flag.String(),
	)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectMessage).
			AddDebug("message_id", msg.ID)
	}

	if err := transaction.Commit(ctx); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectMessage)
	}

	return nil
}

// GetByID retrieves one message, or NotFound.
func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*Message, error) {
	const query = `
		SELECT id, value, timestamp, owner_id, channel_id, bucket_id, flag
		FROM messages
		WHERE id = $1`

	msg, err := scanMessage(repository.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, apperr.SubjectMessage).
				AddDebug("message_id", id)
		}
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectMessage)
	}

	return msg, nil
}

// GetVisibleByChannel pages through a channel's visible messages, newest first.
//
// Soft-deleted messages stay in storage but never leave this query.
func (repository *PostgresRepository) GetVisibleByChannel(ctx context.Context, channelID string, params pagination.Params) ([]*Message, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM messages
		WHERE channel_id = $1 AND flag NOT LIKE 'deleted%'`

	const pageQuery = `
		SELECT id, value, timestamp, owner_id, channel_id, bucket_id, flag
		FROM messages
		WHERE channel_id = $1 AND flag NOT LIKE 'deleted%'
		ORDER BY timestamp DESC
		LIMIT $2 OFFSET $3`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, channelID).Scan(&total); err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectMessage)
	}

	rows, err := repository.pool.Query(ctx, pageQuery, channelID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectMessage)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectMessage)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectMessage)
	}

	return messages, total, nil
}

// Update replaces the value and flag of an existing message.
func (repository *PostgresRepository) Update(ctx context.Context, msg *Message) error {
	const query = `
		UPDATE messages
		SET value = $2, flag = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, msg.ID, msg.Value, msg.Flag.String())
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindUpdate, apperr.SubjectMessage).
			AddDebug("message_id", msg.ID)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, apperr.SubjectMessage).
			AddDebug("message_id", msg.ID)
	}

	return nil
}

// scanMessage hydrates one message row, decoding the flag wire form.
func scanMessage(row pgx.Row) (*Message, error) {
	msg := &Message{}
	var rawFlag string

	if err := row.Scan(
		&msg.ID,
		&msg.Value,
		&msg.Timestamp,
		&msg.Owner,
		&msg.Channel,
		&msg.BucketID,
		&rawFlag,
	); err != nil {
		return nil, err
	}

	flag, err := ParseFlag(rawFlag)
	if err != nil {
		return nil, err
	}
	msg.Flag = flag

	return msg, nil
}
