// Copyright (c) 2026 Mogcord. All rights reserved.

package sec

import (
	"context"
	"runtime"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// Hasher runs password hashing and verification on a bounded pool of worker
// goroutines. Argon2id blocks for tens of milliseconds per call; running it
// on the request goroutine would starve the dispatch loop under load.
type Hasher struct {
	slots chan struct{}
}

// NewHasher creates a Hasher with the given concurrency. Zero or negative
// picks one worker per CPU.
func NewHasher(workers int) *Hasher {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Hasher{slots: make(chan struct{}, workers)}
}

// Hash derives an encoded argon2id hash for the cleartext off the calling
// goroutine. The call suspends until a worker slot is free or ctx is done.
func (hasher *Hasher) Hash(ctx context.Context, cleartext string) (string, error) {
	type result struct {
		encoded string
		err     error
	}

	if err := hasher.acquire(ctx); err != nil {
		return "", err
	}

	results := make(chan result, 1)
	go func() {
		defer hasher.release()
		encoded, err := hashPassword(cleartext)
		results <- result{encoded: encoded, err: err}
	}()

	select {
	case res := <-results:
		return res.encoded, res.err
	case <-ctx.Done():
		return "", apperr.NewFromChild(ctx.Err(), apperr.KindUnexpected, apperr.SubjectSpawnBlocking)
	}
}

// Verify checks the cleartext against a stored encoded hash off the calling
// goroutine. A mismatch or malformed hash yields Verifying/Hashing.
func (hasher *Hasher) Verify(ctx context.Context, cleartext, encoded string) error {
	if err := hasher.acquire(ctx); err != nil {
		return err
	}

	results := make(chan error, 1)
	go func() {
		defer hasher.release()
		results <- verifyPassword(cleartext, encoded)
	}()

	select {
	case err := <-results:
		return err
	case <-ctx.Done():
		return apperr.NewFromChild(ctx.Err(), apperr.KindUnexpected, apperr.SubjectSpawnBlocking)
	}
}

// acquire claims a worker slot, honoring cancellation while waiting.
func (hasher *Hasher) acquire(ctx context.Context) error {
	select {
	case hasher.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperr.NewFromChild(ctx.Err(), apperr.KindUnexpected, apperr.SubjectSpawnBlocking)
	}
}

func (hasher *Hasher) release() { <-hasher.slots }
