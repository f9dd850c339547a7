package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ybolat/filevault/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		BcryptCost:         4,
	}
}

func TestRegisterSuccess(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if result.User.PasswordHash != "" {
		t.Fatalf("expected password hash to be stripped from response")
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected tokens to be issued")
	}
	if len(store.users) != 1 {
		t.Fatalf("expected user stored; got %d", len(store.users))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	input := RegisterInput{Email: "dup@example.com", Password: "StrongPass1!"}
	if _, err := service.Register(context.Background(), input); err != nil {
		t.Fatalf("first register returned error: %v", err)
	}
	if _, err := service.Register(context.Background(), input); err != ErrEmailAlreadyExists {
		t.Fatalf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginAndValidateAccessToken(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	if _, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	result, err := service.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("login returned error: %v", err)
	}

	claims, err := service.ValidateAccessToken(result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("validate returned error: %v", err)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("unexpected claims email: %s", claims.Email)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	if _, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if _, err := service.Login(context.Background(), LoginInput{
		Email:    "user@example.com",
		Password: "WrongPass1!",
	}); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	registered, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	refreshed, err := service.Refresh(context.Background(), registered.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	if refreshed.Tokens.RefreshToken == registered.Tokens.RefreshToken {
		t.Fatalf("expected refresh token rotation")
	}

	// The presented token is revoked by rotation.
	if _, err := service.Refresh(context.Background(), registered.Tokens.RefreshToken); err != ErrUnauthorized {
		t.Fatalf("expected rotated token to be rejected, got %v", err)
	}
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	service := NewService(newMemoryStore(), testAuthConfig())

	if _, err := service.Refresh(context.Background(), "never-issued"); err != ErrUnauthorized {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store, testAuthConfig())

	registered, err := service.Register(context.Background(), RegisterInput{
		Email:    "user@example.com",
		Password: "StrongPass1!",
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}

	if err := service.Logout(context.Background(), registered.Tokens.RefreshToken); err != nil {
		t.Fatalf("logout returned error: %v", err)
	}
	if _, err := service.Refresh(context.Background(), registered.Tokens.RefreshToken); err != ErrUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}

	// Logging out twice is a no-op.
	if err := service.Logout(context.Background(), registered.Tokens.RefreshToken); err != nil {
		t.Fatalf("second logout returned error: %v", err)
	}
}

// --- fakes ---

type memoryStore struct {
	users  map[uuid.UUID]User
	tokens map[string]RefreshToken
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:  make(map[uuid.UUID]User),
		tokens: make(map[string]RefreshToken),
	}
}

func (m *memoryStore) CreateUser(ctx context.Context, email, passwordHash string, displayName *string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return User{}, ErrEmailAlreadyExists
		}
	}
	user := User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryStore) FindUserByEmail(ctx context.Context, email string) (User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

func (m *memoryStore) FindUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

func (m *memoryStore) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	m.tokens[tokenHash] = RefreshToken{UserID: userID, TokenHash: tokenHash, ExpiresAt: expiresAt}
	return nil
}

func (m *memoryStore) FindRefreshToken(ctx context.Context, tokenHash string) (RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok {
		return RefreshToken{}, ErrUnauthorized
	}
	return token, nil
}

func (m *memoryStore) RevokeToken(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	token, ok := m.tokens[tokenHash]
	if !ok {
		return nil
	}
	now := time.Now()
	token.RevokedAt = &now
	m.tokens[tokenHash] = token
	return nil
}
