// Copyright (c) 2026 Mogcord. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/mogcord/mogcord/internal/platform/apperr"
)

// Argon2id parameters. The encoded hash embeds them, so they can be tuned
// without invalidating stored credentials.
const (
	argonMemoryKiB  = 64 * 1024
	argonIterations = 3
	argonThreads    = 2
	argonSaltLength = 16
	argonKeyLength  = 32
)

// hashPassword derives an argon2id hash with a fresh random salt and returns
// the reference encoded form:
//
//	$argon2id$v=19$m=<mem>,t=<iters>,p=<threads>$<b64 salt>$<b64 digest>
func hashPassword(cleartext string) (string, error) {
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", apperr.NewFromChild(err, apperr.KindCreate, apperr.SubjectHashing)
	}

	digest := argon2.IDKey([]byte(cleartext), salt, argonIterations, argonMemoryKiB, argonThreads, argonKeyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemoryKiB,
		argonIterations,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)

	return encoded, nil
}

// verifyPassword recomputes the digest using the parameters and salt embedded
// in the stored hash and compares in constant time.
func verifyPassword(cleartext, encoded string) error {
	memory, iterations, threads, salt, digest, err := decodeHash(encoded)
	if err != nil {
		return err
	}

	candidate := argon2.IDKey([]byte(cleartext), salt, iterations, memory, threads, uint32(len(digest)))

	if subtle.ConstantTimeCompare(candidate, digest) != 1 {
		return apperr.New(apperr.KindVerifying, apperr.SubjectHashing)
	}

	return nil
}

// decodeHash splits the encoded form back into parameters, salt and digest.
func decodeHash(encoded string) (memory uint32, iterations uint32, threads uint8, salt, digest []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		err = apperr.New(apperr.KindVerifying, apperr.SubjectHashing).
			AddDebug("reason", "malformed hash string")
		return
	}

	var version int
	if _, scanErr := fmt.Sscanf(parts[2], "v=%d", &version); scanErr != nil || version != argon2.Version {
		err = apperr.New(apperr.KindVerifying, apperr.SubjectHashing).
			AddDebug("reason", "unsupported argon2 version")
		return
	}

	if _, scanErr := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); scanErr != nil {
		err = apperr.New(apperr.KindVerifying, apperr.SubjectHashing).
			AddDebug("reason", "malformed parameter block")
		return
	}

	var decodeErr error
	salt, decodeErr = base64.RawStdEncoding.DecodeString(parts[4])
	if decodeErr != nil {
		err = apperr.NewFromChild(decodeErr, apperr.KindVerifying, apperr.SubjectHashing)
		return
	}

	digest, decodeErr = base64.RawStdEncoding.DecodeString(parts[5])
	if decodeErr != nil {
		err = apperr.NewFromChild(decodeErr, apperr.KindVerifying, apperr.SubjectHashing)
		return
	}

	return memory, iterations, threads, salt, digest, nil
}
