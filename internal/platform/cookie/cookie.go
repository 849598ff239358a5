// Copyright (c) 2026 Mogcord. All rights reserved.

/*
Package cookie is the scoped manager for the three authentication cookies.

The well-known names and their lifetimes live in one place so that every
write carries the same security flags: Path=/, HttpOnly, Secure,
SameSite=Lax, Expires=now+ttl. Removal is performed by writing an already
expired cookie under the same name and path.
*/
package cookie

import (
	"net/http"
	"time"

	"github.com/mogcord/mogcord/internal/platform/apperr"
	"github.com/mogcord/mogcord/internal/platform/constants"
)

// Name identifies one of the managed cookies.
type Name string

const (
	AccesToken   Name = constants.CookieAccesToken
	SessionToken Name = constants.CookieSessionToken
	DeviceID     Name = constants.CookieDeviceID
)

// ttlMinutes returns the per-name cookie lifetime.
func (n Name) ttlMinutes() int {
	switch n {
	case AccesToken:
		return constants.CookieAccesTokenTTLMins
	case SessionToken:
		return constants.CookieSessionTokenTTLMins
	default:
		return constants.CookieDeviceIDTTLMins
	}
}

// Set writes the named cookie with the uniform security flags.
func Set(writer http.ResponseWriter, name Name, value string) {
	http.SetCookie(writer, &http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(name.ttlMinutes()) * time.Minute),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get reads the named cookie from the request. A missing or empty cookie
// yields NotFound/Cookie so callers can branch on the kind.
func Get(request *http.Request, name Name) (string, error) {
	found, err := request.Cookie(string(name))
	if err != nil || found.Value == "" {
		return "", apperr.New(apperr.KindNotFound, apperr.SubjectCookie).
			AddDebug("cookie", string(name))
	}
	return found.Value, nil
}

// Clear removes the named cookie by overwriting it with an expired one.
func Clear(writer http.ResponseWriter, name Name) {
	http.SetCookie(writer, &http.Cookie{
		Name:     string(name),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
