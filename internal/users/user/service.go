// Copyright (c) 2026 Mogcord. All rights reserved.

package user

import (
	"context"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/pkg/normalize"
	"github.com/mogcord/mogcord/pkg/pagination"
	"github.com/mogcord/mogcord/pkg/uuid"
)

// PasswordHasher produces storable password digests.
//
// # Why an interface?
//
// The concrete hasher runs a memory-hard KDF in a bounded worker pool;
// tests inject a cheap fake instead.
type PasswordHasher interface {
	Hash(ctx context.Context, cleartext string) (string, error)
}

// Service implements account business logic on top of [Repository].
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

// NewService wires the account service.
//
// # Parameters
//   - repo: The account persistence layer.
//   - hasher: The password digest producer.
func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// CreateInput carries the raw signup fields before normalization.
type CreateInput struct {
	Username string
	Email    string
	Password string
}

// Create registers one new account.
//
// # Flow
//  1. Normalize the username and email.
//  2. Reject if either identity field is already taken.
//  3. Hash the password via the bounded hasher.
//  4. Persist with a fresh time-sortable ID and a clean flag.
func (service *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	username := normalize.Username(input.Username)
	email := normalize.Email(input.Email)

	if err := service.checkIdentityFree(ctx, username, email); err != nil {
		return nil, err
	}

	passwordHash, err := service.hasher.Hash(ctx, input.Password)
	if err != nil {
		return nil, apperr.FromChild(err)
	}

	account := New(uuid.New(), username, email, passwordHash)
	if err := service.repo.Create(ctx, account); err != nil {
		return nil, apperr.FromChild(err)
	}

	return account, nil
}

// CreateMany registers a batch of accounts atomically.
//
// Used by the admin surface for bulk provisioning. Every input is validated
// before any row is written.
func (service *Service) CreateMany(ctx context.Context, inputs []CreateInput) ([]*User, error) {
	accounts := make([]*User, 0, len(inputs))
	seenUsernames := make(map[string]bool, len(inputs))
	seenEmails := make(map[string]bool, len(inputs))

	for _, input := range inputs {
		username := normalize.Username(input.Username)
		email := normalize.Email(input.Email)

		// Duplicates inside the batch collide just like stored ones.
		if seenUsernames[username] || seenEmails[email] {
			return nil, apperr.New(apperr.KindAlreadyInUse, apperr.SubjectUser).
				AddDebug("username", username).
				AddClient(apperr.ClientUserAlreadyExists)
		}
		seenUsernames[username] = true
		seenEmails[email] = true

		if err := service.checkIdentityFree(ctx, username, email); err != nil {
			return nil, err
		}

		passwordHash, err := service.hasher.Hash(ctx, input.Password)
		if err != nil {
			return nil, apperr.FromChild(err)
		}

		accounts = append(accounts, New(uuid.New(), username, email, passwordHash))
	}

	if err := service.repo.CreateMany(ctx, accounts); err != nil {
		return nil, apperr.FromChild(err)
	}

	return accounts, nil
}

// GetByID fetches one account.
func (service *Service) GetByID(ctx context.Context, id string) (*User, error) {
	account, err := service.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	return account, nil
}

// GetManyByID fetches a batch of accounts; missing IDs are skipped.
func (service *Service) GetManyByID(ctx context.Context, ids []string) ([]*User, error) {
	accounts, err := service.repo.GetManyByID(ctx, ids)
	if err != nil {
		return nil, apperr.FromChild(err)
	}
	return accounts, nil
}

// GetPaged fetches one page of accounts plus pagination metadata.
func (service *Service) GetPaged(ctx context.Context, params pagination.Params) ([]*User, pagination.Meta, error) {
	accounts, total, err := service.repo.GetPaged(ctx, params)
	if err != nil {
		return nil, pagination.Meta{}, apperr.FromChild(err)
	}
	return accounts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// UpdateFlag replaces one account's lifecycle flag. Admin surface only.
func (service *Service) UpdateFlag(ctx context.Context, id string, flag UserFlag) error {
	if err := service.repo.UpdateFlag(ctx, id, flag); err != nil {
		return apperr.FromChild(err)
	}
	return nil
}

// checkIdentityFree rejects a signup whose username or email is taken.
func (service *Service) checkIdentityFree(ctx context.Context, username, email string) error {
	usernameTaken, err := service.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return apperr.FromChild(err)
	}
	if usernameTaken {
		return apperr.New(apperr.KindAlreadyInUse, apperr.SubjectUser).
			AddDebug("username", username).
			AddClient(apperr.ClientUserAlreadyExists)
	}

	emailTaken, err := service.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return apperr.FromChild(err)
	}
	if emailTaken {
		return apperr.New(apperr.KindAlreadyInUse, apperr.SubjectUser).
			AddDebug("email", email).
			AddClient(apperr.ClientUserAlreadyExists)
	}

	return nil
}
