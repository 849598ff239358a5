// Copyright (c) 2026 Mogcord. All rights reserved.

package relation

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// subjectFor maps an edge kind to its error subject.
func subjectFor(kind Kind) apperr.Subject {
	if kind == KindBlocked {
		return apperr.SubjectRelationBlock
	}
	return apperr.SubjectRelationFriend
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of the graph store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// HasEdge reports whether the directed edge exists.
func (repository *PostgresRepository) HasEdge(ctx context.Context, userID, otherID string, kind Kind) (bool, error) {
	const query = `
		SELECT EXISTS(
			SELECT 1 FROM relation_links
			WHERE user_id = $1 AND other_id = $2 AND kind = $3
		)`

	var found bool
	if err := repository.pool.QueryRow(ctx, query, userID, otherID, string(kind)).Scan(&found); err != nil {
		return false, apperr.NewFromChild(err, apperr.KindFetch, subjectFor(kind))
	}
	return found, nil
}

// CreateEdge inserts one directed edge.
func (repository *PostgresRepository) CreateEdge(ctx context.Context, userID, otherID string, kind Kind) error {
	const query = `
		INSERT INTO relation_links (user_id, other_id, kind)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, other_id, kind) DO NOTHING`

	if _, err := repository.pool.Exec(ctx, query, userID, otherID, string(kind)); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, subjectFor(kind)).
			AddDebug("other_id", otherID)
	}
	return nil
}

// DeleteEdge removes one directed edge; NotFound if it never existed.
func (repository *PostgresRepository) DeleteEdge(ctx context.Context, userID, otherID string, kind Kind) error {
	const query = `
		DELETE FROM relation_links
		WHERE user_id = $1 AND other_id = $2 AND kind = $3`

	tag, err := repository.pool.Exec(ctx, query, userID, otherID, string(kind))
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindDelete, subjectFor(kind)).
			AddDebug("other_id", otherID)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, subjectFor(kind)).
			AddDebug("other_id", otherID)
	}

	return nil
}

// RemoveFriendship deletes the friend edges in both directions atomically.
//
// Idempotent: removing an already-removed (or never-existing) friendship
// deletes zero rows and succeeds.
func (repository *PostgresRepository) RemoveFriendship(ctx context.Context, userID, otherID string) error {
	const query = `
		DELETE FROM relation_links
		WHERE kind = 'friend'
		  AND ((user_id = $1 AND other_id = $2) OR (user_id = $2 AND other_id = $1))`

	if _, err := repository.pool.Exec(ctx, query, userID, otherID); err != nil {
		return apperr.NewFromChild(err, apperr.KindDelete, apperr.SubjectRelationFriend).
			AddDebug("other_id", otherID)
	}

	return nil
}

// Block inserts the directed block edge and purges any friendship between
// the two users inside one transaction.
func (repository *PostgresRepository) Block(ctx context.Context, userID, otherID string) error {
	const purgeQuery = `
		DELETE FROM relation_links
		WHERE kind = 'friend'
		  AND ((user_id = $1 AND other_id = $2) OR (user_id = $2 AND other_id = $1))`

	const blockQuery = `
		INSERT INTO relation_links (user_id, other_id, kind)
		VALUES ($1, $2, 'blocked')
		ON CONFLICT (user_id, other_id, kind) DO NOTHING`

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectRelationBlock)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	if _, err := transaction.Exec(ctx, purgeQuery, userID, otherID); err != nil {
		return apperr.NewFromChild(err, apperr.KindDelete, apperr.SubjectRelationFriend).
			AddDebug("other_id", otherID)
	}

	if _, err := transaction.Exec(ctx, blockQuery, userID, otherID); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectRelationBlock).
			AddDebug("other_id", otherID)
	}

	if err := transaction.Commit(ctx); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectRelationBlock)
	}

	return nil
}

// AreFriends reports whether both opposing friend edges exist.
func (repository *PostgresRepository) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	const query = `
		SELECT COUNT(*) = 2
		FROM relation_links
		WHERE kind = 'friend'
		  AND ((user_id = $1 AND other_id = $2) OR (user_id = $2 AND other_id = $1))`

	var friends bool
	if err := repository.pool.QueryRow(ctx, query, userID, otherID).Scan(&friends); err != nil {
		return false, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectRelationFriend)
	}
	return friends, nil
}

// AllFriends reports whether the user is friends with EVERY given id.
func (repository *PostgresRepository) AllFriends(ctx context.Context, userID string, otherIDs []string) (bool, error) {
	if len(otherIDs) == 0 {
		return true, nil
	}

	// Each confirmed friendship contributes one outgoing and one incoming
	// edge, so a full match counts exactly twice the candidate set.
	const query = `
		SELECT COUNT(*) = 2 * cardinality($2::text[])
		FROM relation_links
		WHERE kind = 'friend'
		  AND ((user_id = $1 AND other_id = ANY($2)) OR (other_id = $1 AND user_id = ANY($2)))`

	var all bool
	if err := repository.pool.QueryRow(ctx, query, userID, otherIDs).Scan(&all); err != nil {
		return false, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectRelationFriend)
	}
	return all, nil
}

// ListRelated pages through outgoing edges of the given kind.
func (repository *PostgresRepository) ListRelated(ctx context.Context, userID string, kind Kind, params pagination.Params) ([]string, int, error) {
	const countQuery = `
		SELECT COUNT(*) FROM relation_links
		WHERE user_id = $1 AND kind = $2`

	const pageQuery = `
		SELECT other_id FROM relation_links
		WHERE user_id = $1 AND kind = $2
		ORDER BY other_id
		LIMIT $3 OFFSET $4`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, userID, string(kind)).Scan(&total); err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, subjectFor(kind))
	}

	rows, err := repository.pool.Query(ctx, pageQuery, userID, string(kind), params.Limit, params.Offset())
	if err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, subjectFor(kind))
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, subjectFor(kind))
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, subjectFor(kind))
	}

	return ids, total, nil
}
