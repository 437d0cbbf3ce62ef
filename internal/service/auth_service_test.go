package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/offset122/PubInventoryTracker/internal/config"
	"github.com/offset122/PubInventoryTracker/internal/dto"
	"github.com/offset122/PubInventoryTracker/internal/model"
	"github.com/offset122/PubInventoryTracker/internal/repository"
	"github.com/offset122/PubInventoryTracker/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Upsert(ctx context.Context, u *model.User) error {
	if existing, err := r.FindByEmail(ctx, u.Email); err == nil {
		u.ID = existing.ID
	}
	return r.Create(ctx, u)
}

type memSessions struct {
	revoked map[string]time.Duration
}

func (m *memSessions) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = ttl
	return nil
}

func (m *memSessions) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test-secret-with-enough-entropy"

func newAuthFixture(t *testing.T) (service.AuthService, *model.User, *memSessions) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("tusker123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubUserRepo{users: map[uuid.UUID]*model.User{}}
	u := &model.User{Email: "owner@pub.test", PasswordHash: string(hash), FirstName: "Wanjiku"}
	require.NoError(t, repo.Create(context.Background(), u))

	sessions := &memSessions{revoked: map[string]time.Duration{}}
	cfg := &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8}
	return service.NewAuthService(repo, sessions, cfg), u, sessions
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAuth_Login_IssuesSignedToken(t *testing.T) {
	svc, u, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "OWNER@pub.test", Password: "tusker123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, u.ID.String(), resp.User.ID)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims["user_id"])
	assert.Equal(t, "owner@pub.test", claims["email"])
	assert.NotEmpty(t, claims["jti"])
}

func TestAuth_Login_WrongPasswordOrUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "owner@pub.test", Password: "wrong"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@pub.test", Password: "tusker123"})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAuth_Logout_RevokesUntilExpiry(t *testing.T) {
	svc, _, sessions := newAuthFixture(t)

	require.NoError(t, svc.Logout(context.Background(), "jti-1", time.Now().Add(time.Hour)))
	ttl, ok := sessions.revoked["jti-1"]
	require.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	// already expired tokens need no entry
	require.NoError(t, svc.Logout(context.Background(), "jti-2", time.Now().Add(-time.Minute)))
	assert.NotContains(t, sessions.revoked, "jti-2")
}

func TestAuth_Logout_WithoutStoreIsNoop(t *testing.T) {
	svc := service.NewAuthService(&stubUserRepo{users: map[uuid.UUID]*model.User{}}, nil, &config.Config{})
	assert.NoError(t, svc.Logout(context.Background(), "jti", time.Now().Add(time.Hour)))
}

func TestAuth_CurrentUser(t *testing.T) {
	svc, u, _ := newAuthFixture(t)

	got, err := svc.CurrentUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wanjiku", got.FirstName)

	_, err = svc.CurrentUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}
