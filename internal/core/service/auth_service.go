package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/quizplatform/quiz-api/internal/core/domain"
	"github.com/quizplatform/quiz-api/internal/core/ports"
)

// hashCost is deliberately above bcrypt's default: hashing is supposed to
// be slow.
const hashCost = 12

const resetCodeTTL = 15 * time.Minute

// AuthService implements registration, login, token refresh and the
// authenticated account operations.
type AuthService struct {
	repo   ports.UserRepository
	tokens *TokenIssuer
	codes  ports.ResetCodeStore
	events ports.AuthEventRecorder
}

func NewAuthService(repo ports.UserRepository, tokens *TokenIssuer, codes ports.ResetCodeStore, events ports.AuthEventRecorder) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, codes: codes, events: events}
}

// Register creates a new user with role USER and returns it with a fresh
// token pair. The repository's unique index is the authoritative duplicate
// check; the FindByEmail pre-check only short-circuits the common case.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := NormalizeEmail(in.Email)

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Email:        email,
		Name:         strings.TrimSpace(in.Name),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	access, refresh, err := s.tokens.Issue(created)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{UserID: created.ID, Email: created.Email, Kind: domain.EventRegister, RemoteIP: in.RemoteIP})

	return &ports.AuthResult{User: created, AccessToken: access, RefreshToken: refresh}, nil
}

// Login verifies credentials and issues a fresh token pair. Unknown email,
// wrong password and deactivated account all collapse into
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password, remoteIP string) (*ports.AuthResult, error) {
	email = NormalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.loginFailed(email, remoteIP)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !checkPassword(user.PasswordHash, password) || !user.IsActive {
		s.loginFailed(email, remoteIP)
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	access, refresh, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{UserID: user.ID, Email: user.Email, Kind: domain.EventLoginOK, RemoteIP: remoteIP})

	return &ports.AuthResult{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a valid refresh token into a brand-new pair bound to the
// same claims. The old refresh token stays valid until its natural expiry:
// no revocation store exists.
func (s *AuthService) Refresh(ctx context.Context, refreshToken, remoteIP string) (*ports.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	principal, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrInvalidRefreshToken
	}

	user, err := s.repo.FindByID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidRefreshToken
	}

	access, refresh, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.record(domain.AuthEvent{UserID: user.ID, Email: user.Email, Kind: domain.EventRefresh, RemoteIP: remoteIP})

	return &ports.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Profile re-fetches the principal's user record for GET /auth/me.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return s.repo.FindByID(ctx, userID)
}

// UpdateProfile sets the display name.
func (s *AuthService) UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error) {
	return s.repo.UpdateName(ctx, userID, strings.TrimSpace(name))
}

// ChangePassword swaps the stored hash after verifying the current
// password. A wrong current password leaves the record untouched.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if !checkPassword(user.PasswordHash, currentPassword) {
		return domain.ErrWrongPassword
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	s.record(domain.AuthEvent{UserID: user.ID, Email: user.Email, Kind: domain.EventPasswordChanged})
	return nil
}

// ForgotPassword stores a short-lived reset code for the account. It
// returns nil for unknown or deactivated accounts so the endpoint's
// response never reveals whether the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email, remoteIP string) error {
	email = NormalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	code, err := generateResetCode()
	if err != nil {
		return err
	}
	if err := s.codes.Store(ctx, email, code, resetCodeTTL); err != nil {
		return err
	}

	s.record(domain.AuthEvent{UserID: user.ID, Email: user.Email, Kind: domain.EventResetRequested, RemoteIP: remoteIP})
	return nil
}

// ResetPassword redeems a reset code. The code is single-use: it is
// deleted as soon as a reset succeeds.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = NormalizeEmail(email)

	stored, err := s.codes.Get(ctx, email)
	if err != nil {
		return err
	}
	if stored == "" || stored != code {
		return domain.ErrInvalidResetCode
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidResetCode
		}
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	if err := s.codes.Delete(ctx, email); err != nil {
		return err
	}

	s.record(domain.AuthEvent{UserID: user.ID, Email: user.Email, Kind: domain.EventPasswordReset})
	return nil
}

// SetTwoFactor toggles the two-factor flag on the principal's record.
func (s *AuthService) SetTwoFactor(ctx context.Context, userID string, enabled bool) (*domain.User, error) {
	return s.repo.SetTwoFactor(ctx, userID, enabled)
}

func (s *AuthService) loginFailed(email, remoteIP string) {
	s.record(domain.AuthEvent{Email: email, Kind: domain.EventLoginFailed, RemoteIP: remoteIP})
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.events == nil {
		return
	}
	event.CreatedAt = time.Now().UTC()
	s.events.Record(event)
}

// NormalizeEmail lower-cases and trims an address. Every lookup and insert
// goes through this so the unique index sees one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// generateResetCode produces a 6-digit numeric code from crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate reset code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
