package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/quizplatform/quiz-api/internal/core/domain"
	"github.com/quizplatform/quiz-api/internal/core/ports"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by email
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[created.Email] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.users[email]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return r.mutate(id, func(u *domain.User) { u.LastLoginAt = &at })
}

func (r *stubUserRepo) UpdateName(ctx context.Context, id, name string) (*domain.User, error) {
	if err := r.mutate(id, func(u *domain.User) { u.Name = name }); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *stubUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.mutate(id, func(u *domain.User) { u.PasswordHash = passwordHash })
}

func (r *stubUserRepo) SetTwoFactor(ctx context.Context, id string, enabled bool) (*domain.User, error) {
	if err := r.mutate(id, func(u *domain.User) { u.TwoFactorEnabled = enabled }); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *stubUserRepo) mutate(id string, fn func(*domain.User)) error {
	for _, u := range r.users {
		if u.ID == id {
			fn(u)
			return nil
		}
	}
	return domain.ErrUserNotFound
}

type stubCodeStore struct {
	codes map[string]string
}

func newStubCodeStore() *stubCodeStore {
	return &stubCodeStore{codes: make(map[string]string)}
}

func (s *stubCodeStore) Store(_ context.Context, email, code string, _ time.Duration) error {
	s.codes[email] = code
	return nil
}

func (s *stubCodeStore) Get(_ context.Context, email string) (string, error) {
	return s.codes[email], nil
}

func (s *stubCodeStore) Delete(_ context.Context, email string) error {
	delete(s.codes, email)
	return nil
}

type stubRecorder struct {
	events []domain.AuthEvent
}

func (r *stubRecorder) Record(event domain.AuthEvent) {
	r.events = append(r.events, event)
}

func newTestService(t *testing.T) (*AuthService, *stubUserRepo, *stubCodeStore, *stubRecorder) {
	t.Helper()
	issuer, err := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	repo := newStubUserRepo()
	codes := newStubCodeStore()
	recorder := &stubRecorder{}
	return NewAuthService(repo, issuer, codes, recorder), repo, codes, recorder
}

func register(t *testing.T, svc *AuthService, email, password string) *ports.AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), ports.RegisterInput{Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return result
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	registered := register(t, svc, "a@x.com", "password1")
	if registered.User.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", registered.User.Email)
	}
	if registered.User.Role != domain.RoleUser {
		t.Fatalf("expected default role USER, got %s", registered.User.Role)
	}
	if registered.User.PasswordHash == "password1" {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(registered.User.PasswordHash), []byte("password1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Fatalf("expected both tokens")
	}

	loggedIn, err := svc.Login(context.Background(), "a@x.com", "password1", "")
	if err != nil {
		t.Fatalf("login after register: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatalf("login returned different user id: %s vs %s", loggedIn.User.ID, registered.User.ID)
	}
	if loggedIn.User.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp to be set")
	}
}

func TestAuthService_RegisterNormalizesEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	registered := register(t, svc, "  Alice@Example.COM ", "password1")
	if registered.User.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", registered.User.Email)
	}

	if _, err := svc.Login(context.Background(), "ALICE@example.com", "password1", ""); err != nil {
		t.Fatalf("login with different casing: %v", err)
	}
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	register(t, svc, "a@x.com", "password1")
	_, err := svc.Register(context.Background(), ports.RegisterInput{Email: "a@x.com", Password: "password2", Name: "Other"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestAuthService_LoginEnumerationResistance(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	register(t, svc, "known@x.com", "password1")
	register(t, svc, "inactive@x.com", "password1")
	repo.users["inactive@x.com"].IsActive = false

	cases := []struct {
		name            string
		email, password string
	}{
		{"wrong password", "known@x.com", "wrong-password"},
		{"unknown email", "nobody@x.com", "whatever12"},
		{"deactivated account", "inactive@x.com", "password1"},
	}
	for _, tc := range cases {
		_, err := svc.Login(context.Background(), tc.email, tc.password, "")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestAuthService_RefreshRotation(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	registered := register(t, svc, "a@x.com", "password1")

	pair, err := svc.Refresh(context.Background(), registered.RefreshToken, "")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected a full new pair")
	}

	issuer, _ := NewTokenIssuer("access-secret", "refresh-secret", time.Minute, time.Hour)
	principal, err := issuer.VerifyAccess(pair.AccessToken)
	if err != nil {
		t.Fatalf("verify refreshed access token: %v", err)
	}
	if principal.ID != registered.User.ID || principal.Email != "a@x.com" || principal.Role != domain.RoleUser {
		t.Fatalf("refreshed claims do not match original: %+v", principal)
	}
}

func TestAuthService_RefreshMissingToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.Refresh(context.Background(), "", ""); !errors.Is(err, domain.ErrMissingRefreshToken) {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
}

func TestAuthService_RefreshRejectsTamperedToken(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	register(t, svc, "a@x.com", "password1")

	other, _ := NewTokenIssuer("forged-access", "forged-refresh", time.Minute, time.Hour)
	_, forged, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("issue forged: %v", err)
	}

	if _, err := svc.Refresh(context.Background(), forged, ""); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_RefreshRejectsDeactivatedUser(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	registered := register(t, svc, "a@x.com", "password1")
	repo.users["a@x.com"].IsActive = false

	if _, err := svc.Refresh(context.Background(), registered.RefreshToken, ""); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestAuthService_ChangePasswordWrongCurrent(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	registered := register(t, svc, "a@x.com", "password1")

	err := svc.ChangePassword(context.Background(), registered.User.ID, "not-the-password", "newpassword1")
	if !errors.Is(err, domain.ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	// The stored hash must be untouched: the old password still works.
	if _, err := svc.Login(context.Background(), "a@x.com", "password1", ""); err != nil {
		t.Fatalf("old password no longer works after failed change: %v", err)
	}
}

func TestAuthService_ChangePasswordSuccess(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	registered := register(t, svc, "a@x.com", "password1")

	if err := svc.ChangePassword(context.Background(), registered.User.ID, "password1", "newpassword1"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(context.Background(), "a@x.com", "password1", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password still accepted: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", "newpassword1", ""); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	svc, _, codes, _ := newTestService(t)

	// Unknown accounts produce the same outward result as known ones.
	if err := svc.ForgotPassword(context.Background(), "nobody@x.com", ""); err != nil {
		t.Fatalf("forgot password for unknown email: %v", err)
	}
	if len(codes.codes) != 0 {
		t.Fatalf("no code should be stored for unknown email")
	}
}

func TestAuthService_ResetPasswordFlow(t *testing.T) {
	svc, _, codes, _ := newTestService(t)

	register(t, svc, "a@x.com", "password1")
	if err := svc.ForgotPassword(context.Background(), "a@x.com", ""); err != nil {
		t.Fatalf("forgot password: %v", err)
	}

	code := codes.codes["a@x.com"]
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	// Wrong code leaves the hash untouched.
	if err := svc.ResetPassword(context.Background(), "a@x.com", "000000", "newpassword1"); !errors.Is(err, domain.ErrInvalidResetCode) {
		t.Fatalf("expected ErrInvalidResetCode, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", "password1", ""); err != nil {
		t.Fatalf("old password broken after rejected reset: %v", err)
	}

	if err := svc.ResetPassword(context.Background(), "a@x.com", code, "newpassword1"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, err := svc.Login(context.Background(), "a@x.com", "newpassword1", ""); err != nil {
		t.Fatalf("new password rejected after reset: %v", err)
	}

	// The code is single-use.
	if err := svc.ResetPassword(context.Background(), "a@x.com", code, "anotherpass1"); !errors.Is(err, domain.ErrInvalidResetCode) {
		t.Fatalf("expected spent code to be rejected, got %v", err)
	}
}

func TestAuthService_SetTwoFactor(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	registered := register(t, svc, "a@x.com", "password1")

	user, err := svc.SetTwoFactor(context.Background(), registered.User.ID, true)
	if err != nil {
		t.Fatalf("enable 2fa: %v", err)
	}
	if !user.TwoFactorEnabled {
		t.Fatalf("expected 2fa enabled")
	}

	user, err = svc.SetTwoFactor(context.Background(), registered.User.ID, false)
	if err != nil {
		t.Fatalf("disable 2fa: %v", err)
	}
	if user.TwoFactorEnabled {
		t.Fatalf("expected 2fa disabled")
	}
}

func TestAuthService_AuditEventsRecorded(t *testing.T) {
	svc, _, _, recorder := newTestService(t)

	register(t, svc, "a@x.com", "password1")
	_, _ = svc.Login(context.Background(), "a@x.com", "wrong-password", "203.0.113.9")

	kinds := make(map[string]int)
	for _, e := range recorder.events {
		kinds[e.Kind]++
	}
	if kinds[domain.EventRegister] != 1 {
		t.Fatalf("expected one register event, got %d", kinds[domain.EventRegister])
	}
	if kinds[domain.EventLoginFailed] != 1 {
		t.Fatalf("expected one failed-login event, got %d", kinds[domain.EventLoginFailed])
	}
}
