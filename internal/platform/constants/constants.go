// Copyright (c) 2026 Mogcord. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, cookie names, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: the login window and the global per-IP guard.
  - Security: token lifetimes and cookie configuration.

Using this package ensures magic strings and magic numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "mogcord-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// LoginRateLimitAttempts is the number of login attempts allowed per window per ingress.
	LoginRateLimitAttempts = 5

	// LoginRateLimitWindow is the width of the login attempt window.
	LoginRateLimitWindow = 300 * time.Second

	// DefaultRateLimitRPS is the requests per second allowed per IP on the global guard.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the global guard.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in access tokens.
	AuthIssuer = "mogcord.app"

	// AccessTokenTTL is the signed validity of an access token.
	// Deliberately tunable: call sites and tests must read it from here.
	AccessTokenTTL = 10 * 10000 * time.Minute

	// RefreshTokenTTL is the validity of a device-bound refresh token.
	// Rolled forward on every successful refresh.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenByteLength is the entropy of the opaque refresh value.
	RefreshTokenByteLength = 64
)

// # Cookies

const (
	// CookieAccesToken carries the signed access token.
	CookieAccesToken = "ACCES_TOKEN"

	// CookieSessionToken carries the opaque refresh-token value.
	CookieSessionToken = "SESSION_TOKEN"

	// CookieDeviceID carries the device identifier issued on first login.
	CookieDeviceID = "DEVICE_ID"

	// CookieAccesTokenTTLMins is the browser lifetime of the access cookie.
	CookieAccesTokenTTLMins = 10 * 10000

	// CookieSessionTokenTTLMins is the browser lifetime of the refresh cookie.
	CookieSessionTokenTTLMins = 30 * 24 * 60

	// CookieDeviceIDTTLMins is the browser lifetime of the device cookie.
	CookieDeviceIDTTLMins = 365 * 24 * 60
)

// # Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # Redis Prefixes

const (
	RedisPrefixLoginRate = "ratelimit:login:"
)
