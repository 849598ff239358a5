// Copyright (c) 2026 Mogcord. All rights reserved.

// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] values to avoid leaking storage implementation details.

package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the PostgreSQL implementation of the user store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ExistsByID reports whether an account with the given ID exists.
func (repository *PostgresRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return repository.exists(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)", id)
}

// ExistsByUsername reports whether the normalized username is taken.
func (repository *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return repository.exists(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username)
}

// ExistsByEmail reports whether the normalized email is taken.
func (repository *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return repository.exists(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email)
}

func (repository *PostgresRepository) exists(ctx context.Context, query, argument string) (bool, error) {
	var found bool
	if err := repository.pool.QueryRow(ctx, query, argument).Scan(&found); err != nil {
		return false, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectUser)
	}
	return found, nil
}

// Create persists a single new account.
func (repository *PostgresRepository) Create(ctx context.Context, account *User) error {
	const query = `
		INSERT INTO users (id, username, email, password_hash, flag)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := repository.pool.Exec(ctx, query,
		account.ID,
		account.Username,
		account.Email,
		account.PasswordHash,
		account.Flag.String(),
	)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectUser).
			AddDebug("user_id", account.ID)
	}

	return nil
}

// CreateMany persists a batch of new accounts in one transaction.
func (repository *PostgresRepository) CreateMany(ctx context.Context, accounts []*User) error {
	const query = `
		INSERT INTO users (id, username, email, password_hash, flag)
		VALUES ($1, $2, $3, $4, $5)`

	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectUser)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	for _, account := range accounts {
		_, err := transaction.Exec(ctx, query,
			account.ID,
			account.Username,
			account.Email,
			account.PasswordHash,
			account.Flag.String(),
		)
		if err != nil {
			return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectUser).
				AddDebug("user_id", account.ID)
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return apperr.NewFromChild(err, apperr.KindInsert, apperr.SubjectUser)
	}

	return nil
}

// GetByID retrieves an account by ID, or NotFound.
func (repository *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT id, username, email, password_hash, flag
		FROM users
		WHERE id = $1`

	return repository.getOne(ctx, query, id)
}

// GetByEmail retrieves an account by normalized email, or NotFound.
func (repository *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, username, email, password_hash, flag
		FROM users
		WHERE email = $1`

	return repository.getOne(ctx, query, email)
}

func (repository *PostgresRepository) getOne(ctx context.Context, query, argument string) (*User, error) {
	account, err := scanUser(repository.pool.QueryRow(ctx, query, argument))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.New(apperr.KindNotFound, apperr.SubjectUser)
		}
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectUser)
	}
	return account, nil
}

// GetManyByID retrieves all accounts matching the given IDs.
func (repository *PostgresRepository) GetManyByID(ctx context.Context, ids []string) ([]*User, error) {
	const query = `
		SELECT id, username, email, password_hash, flag
		FROM users
		WHERE id = ANY($1)
		ORDER BY id`

	rows, err := repository.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectUser)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// GetPaged retrieves a page of accounts ordered by ID, plus the total count.
func (repository *PostgresRepository) GetPaged(ctx context.Context, params pagination.Params) ([]*User, int, error) {
	const countQuery = "SELECT COUNT(*) FROM users"
	const pageQuery = `
		SELECT id, username, email, password_hash, flag
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectUser)
	}

	rows, err := repository.pool.Query(ctx, pageQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectUser)
	}
	defer rows.Close()

	accounts, err := collectUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// UpdateFlag replaces the lifecycle flag on one account.
func (repository *PostgresRepository) UpdateFlag(ctx context.Context, id string, flag UserFlag) error {
	const query = "UPDATE users SET flag = $2 WHERE id = $1"

	tag, err := repository.pool.Exec(ctx, query, id, flag.String())
	if err != nil {
		return apperr.NewFromChild(err, apperr.KindUpdate, apperr.SubjectUser).
			AddDebug("user_id", id)
	}
	if tag.RowsAffected() == 0 {
		return apperr.New(apperr.KindNotFound, apperr.SubjectUser).
			AddDebug("user_id", id)
	}

	return nil
}

// scanUser hydrates one account row, decoding the flag wire form.
func scanUser(row pgx.Row) (*User, error) {
	account := &User{}
	var rawFlag string

	if err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.PasswordHash,
		&rawFlag,
	); err != nil {
		return nil, err
	}

	flag, err := ParseUserFlag(rawFlag)
	if err != nil {
		return nil, err
	}
	account.Flag = flag

	return account, nil
}

// collectUsers drains a result set into hydrated accounts.
func collectUsers(rows pgx.Rows) ([]*User, error) {
	var accounts []*User
	for rows.Next() {
		account, err := scanUser(rows)
		if err != nil {
			return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectUser)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.NewFromChild(err, apperr.KindFetch, apperr.SubjectUser)
	}
	return accounts, nil
}
