package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/quizplatform/quiz-api/internal/core/domain"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// ErrMissingSecret aborts startup: running without both signing secrets is
// a process-level misconfiguration, not a per-request condition.
var ErrMissingSecret = errors.New("both access and refresh token secrets must be configured")

// authClaims is the claim set carried by both token kinds.
type authClaims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access/refresh token pairs. The two
// kinds use distinct secrets so possession of one token never implies
// forgeability of the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrMissingSecret
	}
	if accessTTL == 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL == 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// Issue signs a fresh pair bound to the user's id, email and role.
func (ti *TokenIssuer) Issue(user *domain.User) (accessToken, refreshToken string, err error) {
	accessToken, err = ti.sign(user, ti.accessSecret, ti.accessTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, err = ti.sign(user, ti.refreshSecret, ti.refreshTTL)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}
	return accessToken, refreshToken, nil
}

// VerifyAccess checks an access token and returns the principal it carries.
func (ti *TokenIssuer) VerifyAccess(token string) (*domain.Principal, error) {
	return ti.verify(token, ti.accessSecret)
}

// VerifyRefresh checks a refresh token against the refresh secret.
func (ti *TokenIssuer) VerifyRefresh(token string) (*domain.Principal, error) {
	return ti.verify(token, ti.refreshSecret)
}

func (ti *TokenIssuer) sign(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := authClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// verify parses and validates a token, translating jwt library failures
// into the domain's tagged variants so callers can pattern-match without
// importing the library.
func (ti *TokenIssuer) verify(token string, secret []byte) (*domain.Principal, error) {
	claims := &authClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, domain.ErrTokenMalformed
		default:
			return nil, domain.ErrTokenSignature
		}
	}
	if !parsed.Valid || claims.UserID == "" {
		return nil, domain.ErrTokenMalformed
	}

	return &domain.Principal{
		ID:    claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
