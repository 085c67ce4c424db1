package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-blog-api/internal/repository/repotest"
)

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
	testDigestKey     = "test-digest-key"
)

func testTokenConfig() TokenConfig {
	return TokenConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type authFixture struct {
	svc   *AuthService
	users *repotest.Users
	clock *fakeClock
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()

	users := repotest.NewUsers()
	clock := newFakeClock()
	hasher := NewPasswordHasher(bcrypt.MinCost)
	signer := NewTokenSigner(WithClock(clock.Now))
	store := NewRefreshTokenStore(users, hasher, testDigestKey)
	verifier := NewCredentialVerifier(users, hasher)

	svc, err := NewAuthService(testTokenConfig(), users, hasher, signer, store, verifier)
	require.NoError(t, err)

	return authFixture{svc: svc, users: users, clock: clock}
}
