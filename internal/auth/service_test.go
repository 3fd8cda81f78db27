package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/lucasbarrena/shoplane-backend/pkg/auth"
	"github.com/lucasbarrena/shoplane-backend/pkg/auth/session"
	"github.com/lucasbarrena/shoplane-backend/pkg/config"
	"github.com/lucasbarrena/shoplane-backend/pkg/db/models"
	"github.com/lucasbarrena/shoplane-backend/pkg/enums"
	pkgerrors "github.com/lucasbarrena/shoplane-backend/pkg/errors"
	"github.com/lucasbarrena/shoplane-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "shoplane-test",
	ExpirationMinutes: 15,
}

// Low-cost Argon2 params keep the suite fast.
var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     8,
	ArgonKeyLen:      16,
}

type stubUserRepo struct {
	users     map[string]*models.User
	createErr error
	lastLogin map[uuid.UUID]time.Time
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:     map[string]*models.User{},
		lastLogin: map[uuid.UUID]time.Time{},
	}
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if user, ok := s.users[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	for _, user := range s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if _, exists := s.users[user.Email]; exists {
		return nil, errors.New("UNIQUE constraint failed: users.email")
	}
	user.ID = uuid.New()
	s.users[user.Email] = user
	return user, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	s.lastLogin[id] = at
	return nil
}

type stubSessions struct {
	generated []string
	revoked   []string
	rotateErr error
}

func (s *stubSessions) Generate(ctx context.Context, accessID string) (string, error) {
	s.generated = append(s.generated, accessID)
	return "refresh-" + accessID, nil
}

func (s *stubSessions) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.rotateErr != nil {
		return "", "", s.rotateErr
	}
	if provided != "refresh-"+oldAccessID {
		return "", "", session.ErrInvalidRefreshToken
	}
	next := session.NewAccessID()
	return next, "refresh-" + next, nil
}

func (s *stubSessions) Revoke(ctx context.Context, accessID string) error {
	s.revoked = append(s.revoked, accessID)
	return nil
}

func newAuthTestService(t *testing.T, users *stubUserRepo, sessions *stubSessions) Service {
	t.Helper()
	svc, err := NewService(users, sessions, testJWTConfig, testPasswordConfig)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, repo *stubUserRepo, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         enums.UserRoleCustomer,
		IsActive:     active,
	}
	repo.users[email] = user
	return user
}

func TestRegisterIssuesTokens(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	sessions := &stubSessions{}
	svc := newAuthTestService(t, repo, sessions)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     "  Ada@Example.com ",
		Password:  "correct-horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.User.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", result.User.Email)
	}
	if result.User.Role != enums.UserRoleCustomer {
		t.Fatalf("expected customer role, got %q", result.User.Role)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", result.Tokens)
	}
	if len(sessions.generated) != 1 {
		t.Fatalf("expected one session, got %d", len(sessions.generated))
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected claims role: %v", claims.Role)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo, &stubSessions{})
	seedUser(t, repo, "ada@example.com", "correct-horse", true)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ada@example.com", Password: "correct-horse"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthTestService(t, newStubUserRepo(), &stubSessions{})

	_, err := svc.Register(context.Background(), RegisterInput{Email: "ada@example.com", Password: "short"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo, &stubSessions{})
	seedUser(t, repo, "ada@example.com", "correct-horse", true)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "wrong-horse"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if typed := pkgerrors.As(err); typed.Message() != "invalid credentials" {
		t.Fatalf("unexpected message: %q", typed.Message())
	}
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	t.Parallel()

	svc := newAuthTestService(t, newStubUserRepo(), &stubSessions{})

	_, err := svc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "whatever1"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized || typed.Message() != "invalid credentials" {
		t.Fatalf("expected indistinguishable unauthorized, got %v", err)
	}
}

func TestLoginInactiveUser(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo, &stubSessions{})
	seedUser(t, repo, "ada@example.com", "correct-horse", false)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginStampsLastLogin(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo, &stubSessions{})
	user := seedUser(t, repo, "ada@example.com", "correct-horse", true)

	result, err := svc.Login(context.Background(), LoginInput{Email: "Ada@Example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Tokens.ExpiresIn != testJWTConfig.ExpirationMinutes*60 {
		t.Fatalf("unexpected expiry: %d", result.Tokens.ExpiresIn)
	}
	if _, ok := repo.lastLogin[user.ID]; !ok {
		t.Fatal("expected last login to be stamped")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	sessions := &stubSessions{}
	svc := newAuthTestService(t, repo, sessions)
	seedUser(t, repo, "ada@example.com", "correct-horse", true)

	login, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	pair, err := svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  login.Tokens.AccessToken,
		RefreshToken: login.Tokens.RefreshToken,
	})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if pair.RefreshToken == login.Tokens.RefreshToken {
		t.Fatal("expected refresh token to rotate")
	}
	if _, err := pkgauth.ParseAccessToken(testJWTConfig, pair.AccessToken); err != nil {
		t.Fatalf("parse rotated access token: %v", err)
	}
}

func TestRefreshRejectsMismatchedRefreshToken(t *testing.T) {
	t.Parallel()

	repo := newStubUserRepo()
	svc := newAuthTestService(t, repo, &stubSessions{})
	seedUser(t, repo, "ada@example.com", "correct-horse", true)

	login, err := svc.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, err = svc.Refresh(context.Background(), RefreshInput{
		AccessToken:  login.Tokens.AccessToken,
		RefreshToken: "stolen-or-stale",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRejectsGarbageAccessToken(t *testing.T) {
	t.Parallel()

	svc := newAuthTestService(t, newStubUserRepo(), &stubSessions{})

	_, err := svc.Refresh(context.Background(), RefreshInput{AccessToken: "not-a-jwt", RefreshToken: "whatever"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	sessions := &stubSessions{}
	svc := newAuthTestService(t, newStubUserRepo(), sessions)

	if err := svc.Logout(context.Background(), "access-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions.revoked) != 1 || sessions.revoked[0] != "access-123" {
		t.Fatalf("expected revoke call, got %+v", sessions.revoked)
	}

	err := svc.Logout(context.Background(), "  ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
