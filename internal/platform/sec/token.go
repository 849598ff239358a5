// Copyright (c) 2026 Mogcord. All rights reserved.

package sec

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/constants"
)

// MintRefreshValue produces an opaque refresh-token value: 64 bytes from a
// cryptographic source, encoded as unpadded URL-safe base64.
//
// Refresh tokens are server-side credentials. Clients echo them back via
// cookie and never parse them.
func MintRefreshValue() (string, error) {
	raw := make([]byte, constants.RefreshTokenByteLength)
	if _, err := rand.Read(raw); err != nil {
		return "", apperr.NewFromChild(err, apperr.KindCreate, apperr.SubjectRefreshToken)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}
