// Copyright (c) 2026 Mogcord. All rights reserved.

package user_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/users/user"
	"github.com/mogcord/mogcord/pkg/pagination"
)

// fakeRepository is an in-memory implementation of user.Repository.
type fakeRepository struct {
	byID map[string]*user.User
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*user.User)}
}

func (f *fakeRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	_, found := f.byID[id]
	return found, nil
}

func (f *fakeRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, account := range f.byID {
		if account.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, account := range f.byID {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) Create(_ context.Context, account *user.User) error {
	f.byID[account.ID] = account
	return nil
}

func (f *fakeRepository) CreateMany(ctx context.Context, accounts []*user.User) error {
	for _, account := range accounts {
		_ = f.Create(ctx, account)
	}
	return nil
}

func (f *fakeRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	account, found := f.byID[id]
	if !found {
		return nil, apperr.New(apperr.KindNotFound, apperr.SubjectUser)
	}
	return account, nil
}

func (f *fakeRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, account := range f.byID {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, apperr.New(apperr.KindNotFound, apperr.SubjectUser)
}

func (f *fakeRepository) GetManyByID(_ context.Context, ids []string) ([]*user.User, error) {
	var accounts []*user.User
	for _, id := range ids {
		if account, found := f.byID[id]; found {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

func (f *fakeRepository) GetPaged(_ context.Context, params pagination.Params) ([]*user.User, int, error) {
	var accounts []*user.User
	for _, account := range f.byID {
		accounts = append(accounts, account)
	}
	return accounts, len(f.byID), nil
}

func (f *fakeRepository) UpdateFlag(_ context.Context, id string, flag user.UserFlag) error {
	account, found := f.byID[id]
	if !found {
		return apperr.New(apperr.KindNotFound, apperr.SubjectUser)
	}
	account.Flag = flag
	return nil
}

// fakeHasher avoids running the real KDF in unit tests.
type fakeHasher struct{}

func (fakeHasher) Hash(_ context.Context, cleartext string) (string, error) {
	return "hashed:" + cleartext, nil
}

/*
TestService_Create verifies the signup happy path normalizes identities
and never stores the cleartext password.
*/
func TestService_Create(t *testing.T) {
	repo := newFakeRepository()
	service := user.NewService(repo, fakeHasher{})

	account, err := service.Create(context.Background(), user.CreateInput{
		Username: "  MogUser  ",
		Email:    "Mog@Example.COM",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, "moguser", account.Username)
	assert.Equal(t, "Mog@example.com", account.Email)
	assert.Equal(t, "hashed:correct horse", account.PasswordHash)
	assert.Equal(t, user.FlagNone, account.Flag.Kind)
	assert.NotEmpty(t, account.ID)
}

/*
TestService_Create_DuplicateIdentity checks both uniqueness gates reject
with a conflict carrying the USER_ALREADY_EXISTS tag.
*/
func TestService_Create_DuplicateIdentity(t *testing.T) {
	repo := newFakeRepository()
	service := user.NewService(repo, fakeHasher{})

	_, err := service.Create(context.Background(), user.CreateInput{
		Username: "taken",
		Email:    "taken@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input user.CreateInput
	}{
		{"same_username", user.CreateInput{Username: "TAKEN", Email: "other@example.com", Password: "pw123456"}},
		{"same_email", user.CreateInput{Username: "other", Email: "taken@example.com", Password: "pw123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)
			require.Error(t, err)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			assert.Equal(t, apperr.KindAlreadyInUse, appError.Kind)
			assert.Equal(t, http.StatusConflict, appError.Status())
			assert.Equal(t, apperr.ClientUserAlreadyExists, appError.Client)
		})
	}
}

/*
TestService_CreateMany_AllOrNothing checks a duplicate inside the batch
aborts before any account is persisted.
*/
func TestService_CreateMany_AllOrNothing(t *testing.T) {
	repo := newFakeRepository()
	service := user.NewService(repo, fakeHasher{})

	_, err := service.CreateMany(context.Background(), []user.CreateInput{
		{Username: "alpha", Email: "alpha@example.com", Password: "pw123456"},
		{Username: "alpha", Email: "beta@example.com", Password: "pw123456"},
	})
	require.Error(t, err)
	assert.Empty(t, repo.byID)
}

/*
TestService_UpdateFlag verifies the admin flag replacement path.
*/
func TestService_UpdateFlag(t *testing.T) {
	repo := newFakeRepository()
	service := user.NewService(repo, fakeHasher{})

	account, err := service.Create(context.Background(), user.CreateInput{
		Username: "mog",
		Email:    "mog@example.com",
		Password: "pw123456",
	})
	require.NoError(t, err)

	err = service.UpdateFlag(context.Background(), account.ID, user.UserFlag{Kind: user.FlagDisabled})
	require.NoError(t, err)

	fetched, err := service.GetByID(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, user.FlagDisabled, fetched.Flag.Kind)
	assert.False(t, fetched.Flag.AllowedOnPlatform())
}
