package domain

import "errors"

// Sentinel errors shared across the service and transport layers. The HTTP
// error handler maps each to a status code and a client-safe message.
var (
	// ErrInvalidCredentials covers every login failure cause: unknown
	// email, wrong password, deactivated account. Callers must not
	// distinguish between them (enumeration resistance).
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailTaken       = errors.New("email already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("current password is incorrect")
	ErrInvalidResetCode = errors.New("invalid or expired reset code")

	// ErrMissingRefreshToken is a bad request: the client did not send a
	// token at all, as opposed to sending one that fails verification.
	ErrMissingRefreshToken = errors.New("refresh token is required")

	// ErrInvalidRefreshToken collapses all refresh verification failures
	// (expired, tampered, unknown or deactivated user) into one response.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// Token verification variants. The middleware logs and counts them
	// individually but presents a single generic message to the client.
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
)
