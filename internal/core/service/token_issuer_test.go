package service

import (
	"errors"
	"testing"
	"time"

	"github.com/quizplatform/quiz-api/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "64f0c1d2e3a4b5c6d7e8f901",
		Email:    "alice@example.com",
		Role:     domain.RoleUser,
		IsActive: true,
	}
}

func TestTokenIssuer_MissingSecrets(t *testing.T) {
	if _, err := NewTokenIssuer("", "refresh", time.Minute, time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
	if _, err := NewTokenIssuer("access", "", time.Minute, time.Hour); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("expected ErrMissingSecret, got %v", err)
	}
}

func TestTokenIssuer_Roundtrip(t *testing.T) {
	issuer, err := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	user := testUser()
	access, refresh, err := issuer.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("expected two distinct tokens")
	}

	principal, err := issuer.VerifyAccess(access)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if principal.ID != user.ID || principal.Email != user.Email || principal.Role != user.Role {
		t.Fatalf("unexpected principal: %+v", principal)
	}

	principal, err = issuer.VerifyRefresh(refresh)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if principal.ID != user.ID {
		t.Fatalf("unexpected refresh principal: %+v", principal)
	}
}

func TestTokenIssuer_SecretsAreIndependent(t *testing.T) {
	issuer, err := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	access, refresh, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.VerifyAccess(refresh); !errors.Is(err, domain.ErrTokenSignature) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}
	if _, err := issuer.VerifyRefresh(access); !errors.Is(err, domain.ErrTokenSignature) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestTokenIssuer_ExpiredClassification(t *testing.T) {
	issuer, err := NewTokenIssuer("access-secret", "refresh-secret", -time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	access, _, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.VerifyAccess(access); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_MalformedClassification(t *testing.T) {
	issuer, err := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	if _, err := issuer.VerifyAccess("not-a-token"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestTokenIssuer_TamperedSignature(t *testing.T) {
	issuer, err := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	other, err := NewTokenIssuer("other-secret", "other-refresh", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}

	access, _, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.VerifyAccess(access); !errors.Is(err, domain.ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}
