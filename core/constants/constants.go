package constants

import "time"

// Database pool settings.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Request handling.
const (
	DefaultRequestTimeout = 30 * time.Second
	DefaultTimeout        = 10 * time.Second
)

// Context keys.
const (
	ContextTokenData = "token_data"
)

// Token scopes.
const (
	ScopeTokenAccess  = "access"
	ScopeTokenRefresh = "refresh"
)

// Redis keys and limits for the public signup form.
const (
	RedisKeySignupAttempts = "signup:attempts:"
	RedisKeyTokenBlacklist = "token:blacklist:"
	SignupAttemptLimit     = 10
	BlockDuration          = 15 * time.Minute
)
