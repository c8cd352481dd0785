package ports

import (
	"context"

	"github.com/quizplatform/quiz-api/internal/core/domain"
)

// RegisterInput carries validated registration data into the service.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
	RemoteIP string
}

// TokenPair is a freshly signed access/refresh credential pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by register and login: the sanitized user plus
// both tokens.
type AuthResult struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password, remoteIP string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken, remoteIP string) (*TokenPair, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email, remoteIP string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	SetTwoFactor(ctx context.Context, userID string, enabled bool) (*domain.User, error)
}
