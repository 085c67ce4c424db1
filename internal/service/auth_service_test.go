package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-blog-api/internal/model"
	"go-blog-api/internal/repository/repotest"
	"go-blog-api/internal/service/mocks"
	"go-blog-api/pkg/apierror"
)

func TestNewAuthServiceValidatesConfig(t *testing.T) {
	t.Parallel()

	cfg := testTokenConfig()
	cfg.RefreshSecret = cfg.AccessSecret
	_, err := NewAuthService(cfg, nil, nil, nil, nil, nil)
	require.ErrorContains(t, err, "must differ")

	cfg = testTokenConfig()
	cfg.AccessTTL = 0
	_, err = NewAuthService(cfg, nil, nil, nil, nil, nil)
	require.Error(t, err)
}

func TestRegisterThenLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	for i, email := range []string{"a@b.com", "Mixed.Case@Example.org", "x+tag@y.io"} {
		id, err := f.svc.Register(ctx, email, "password123", "Name")
		require.NoError(t, err)
		require.Equal(t, int64(i+1), id)

		pair, err := f.svc.Login(ctx, email, "password123")
		require.NoError(t, err)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)
		require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

		identity, err := f.svc.Authenticate(ctx, pair.AccessToken)
		require.NoError(t, err)
		require.Equal(t, model.Identity{UserID: id, Email: email}, identity)
	}
}

func TestRegisterStoresHashNotPlaintext(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	id, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)

	user, err := f.users.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotEqual(t, "password123", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	require.Nil(t, user.HashedRefreshToken, "fresh users hold no refresh token")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, "a@b.com", "different-pass", "B")
	require.True(t, apierror.HasCode(err, apierror.CodeDuplicateEmail))
	require.Contains(t, err.Error(), "a@b.com")
	require.Equal(t, []string{"a@b.com"}, f.users.Emails())

	_, err = f.svc.Register(ctx, "A@b.com", "password123", "Upper")
	require.NoError(t, err, "emails are case-sensitive as stored")
}

func TestRegisterUniqueViolationRace(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	hasher := NewPasswordHasher(bcrypt.MinCost)

	users.EXPECT().FindByEmail(gomock.Any(), "a@b.com").Return(model.User{}, model.ErrUserNotFound)
	users.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, in model.NewUser) (model.User, error) {
			require.Equal(t, "a@b.com", in.Email)
			require.NotEqual(t, "password123", in.PasswordHash)
			return model.User{}, fmt.Errorf("create user: %w", model.ErrUserAlreadyExists)
		})

	svc, err := NewAuthService(testTokenConfig(), users, hasher, NewTokenSigner(), nil, NewCredentialVerifier(users, hasher))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@b.com", "password123", "A")
	require.True(t, apierror.HasCode(err, apierror.CodeDuplicateEmail))
	require.Contains(t, err.Error(), "a@b.com")
}

func TestRegisterStorageErrorPropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	dbDown := errors.New("db down")

	users.EXPECT().FindByEmail(gomock.Any(), "a@b.com").Return(model.User{}, dbDown)

	svc, err := NewAuthService(testTokenConfig(), users, hasher, NewTokenSigner(), nil, NewCredentialVerifier(users, hasher))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "a@b.com", "password123", "A")
	require.ErrorIs(t, err, dbDown)
}

func TestLoginFailuresLeaveNoState(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	tokens := mocks.NewMockRefreshDigestRepository(ctrl)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	users.EXPECT().FindByEmail(gomock.Any(), "nobody@x.com").Return(model.User{}, model.ErrUserNotFound)
	users.EXPECT().FindByEmail(gomock.Any(), "a@b.com").Return(model.User{ID: 1, Email: "a@b.com", PasswordHash: hash}, nil)
	// tokens has no expectations: any Store call fails the test.

	svc, err := NewAuthService(testTokenConfig(), users, hasher, NewTokenSigner(),
		NewRefreshTokenStore(tokens, hasher, testDigestKey), NewCredentialVerifier(users, hasher))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "nobody@x.com", "whatever")
	require.ErrorIs(t, err, ErrAuthenticationFailed)

	_, err = svc.Login(context.Background(), "a@b.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLoginRecordsIssuance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	id, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)

	first, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)
	digestAfterFirst := f.users.Digest(id)
	require.NotEmpty(t, digestAfterFirst)

	second, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)
	require.NotEqual(t, digestAfterFirst, f.users.Digest(id))

	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken, "a new login supersedes the previous refresh token")

	_, err = f.svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRotatesAndDetectsReplay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	id, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)
	original, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(ctx, original.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, original.RefreshToken, rotated.RefreshToken)

	identity, err := f.svc.Authenticate(ctx, rotated.AccessToken)
	require.NoError(t, err)
	require.Equal(t, model.Identity{UserID: id, Email: "a@b.com"}, identity)

	_, err = f.svc.Refresh(ctx, original.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	again, err := f.svc.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, rotated.RefreshToken, again.RefreshToken)
}

func TestRefreshFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	id, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	foreignSigner := NewTokenSigner(WithClock(f.clock.Now))
	forged, err := foreignSigner.Sign(model.TokenPayload{UserID: id, Email: "a@b.com", Class: model.TokenClassRefresh, Nonce: "x"},
		"attacker-secret", time.Hour)
	require.NoError(t, err)

	wrongClass, err := foreignSigner.Sign(model.TokenPayload{UserID: id, Email: "a@b.com", Class: model.TokenClassAccess},
		testRefreshSecret, time.Hour)
	require.NoError(t, err)

	ghost, err := foreignSigner.Sign(model.TokenPayload{UserID: 999, Email: "ghost@b.com", Class: model.TokenClassRefresh, Nonce: "g"},
		testRefreshSecret, time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"malformed":             "garbage",
		"bad signature":         forged,
		"access token":          pair.AccessToken,
		"wrong class":           wrongClass,
		"unknown user":          ghost,
		"never stored (forged)": mustSignRefresh(t, foreignSigner, id),
	}

	var messages []string
	for name, token := range cases {
		_, err := f.svc.Refresh(ctx, token)
		require.ErrorIs(t, err, ErrInvalidRefreshToken, name)
		messages = append(messages, err.Error())
	}

	for _, msg := range messages {
		require.Equal(t, messages[0], msg)
	}

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err, "rejected attempts must not disturb the valid token")
}

func mustSignRefresh(t *testing.T, signer *TokenSigner, userID int64) string {
	t.Helper()

	token, err := signer.Sign(model.TokenPayload{UserID: userID, Email: "a@b.com", Class: model.TokenClassRefresh, Nonce: "never-issued"},
		testRefreshSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func TestRefreshExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	f.clock.Advance(7*24*time.Hour + time.Second)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshWithoutStoredDigest(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	id, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, id))

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshDeletedUser(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	id, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	f.users.Delete(id)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestConcurrentRefreshHasSingleWinner(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	const callers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes []model.TokenPair
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			next, err := f.svc.Refresh(ctx, pair.RefreshToken)
			if err != nil {
				assert.ErrorIs(t, err, ErrInvalidRefreshToken)
				return
			}
			mu.Lock()
			successes = append(successes, next)
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, successes, 1)
	_, err = f.svc.Refresh(ctx, successes[0].RefreshToken)
	require.NoError(t, err, "the winner's token stays usable")
}

func TestRefreshStorageErrorPropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	signer := NewTokenSigner()
	dbDown := errors.New("db down")

	users.EXPECT().FindByID(gomock.Any(), int64(5)).Return(model.User{}, dbDown)

	svc, err := NewAuthService(testTokenConfig(), users, hasher, signer, nil, NewCredentialVerifier(users, hasher))
	require.NoError(t, err)

	token, err := signer.Sign(model.TokenPayload{UserID: 5, Email: "a@b.com", Class: model.TokenClassRefresh, Nonce: "n"},
		testRefreshSecret, time.Hour)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), token)
	require.ErrorIs(t, err, dbDown)
	require.NotErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)
	pair, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)

	_, err = f.svc.Authenticate(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidAccessToken)

	sameSecret, err := NewTokenSigner(WithClock(f.clock.Now)).Sign(
		model.TokenPayload{UserID: 1, Email: "a@b.com", Class: model.TokenClassRefresh, Nonce: "n"},
		testAccessSecret, time.Hour)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, sameSecret)
	require.ErrorIs(t, err, ErrInvalidAccessToken, "class is checked even when the signature verifies")

	f.clock.Advance(16 * time.Minute)
	_, err = f.svc.Authenticate(ctx, pair.AccessToken)
	require.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestMe(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)

	id, err := f.svc.Register(ctx, "a@b.com", "password123", "A")
	require.NoError(t, err)

	profile, err := f.svc.Me(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", profile.Email)
	require.Equal(t, "A", profile.Name)

	_, err = f.svc.Me(ctx, 404)
	require.True(t, apierror.HasCode(err, apierror.CodeNotFound))
}

func TestRecorderObservesOutcomes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newAuthFixture(t)
	ctrl := gomock.NewController(t)
	recorder := mocks.NewMockAuthRecorder(ctrl)
	f.svc.SetRecorder(recorder)

	gomock.InOrder(
		recorder.EXPECT().ObserveAuth("register", "success"),
		recorder.EXPECT().ObserveAuth("register", "duplicate"),
		recorder.EXPECT().ObserveAuth("login", "rejected"),
		recorder.EXPECT().ObserveAuth("login", "success"),
		recorder.EXPECT().ObserveAuth("refresh", "success"),
		recorder.EXPECT().ObserveAuth("refresh", "rejected"),
	)

	_, _ = f.svc.Register(ctx, "a@b.com", "password123", "A")
	_, _ = f.svc.Register(ctx, "a@b.com", "password123", "A")
	_, _ = f.svc.Login(ctx, "a@b.com", "nope-nope")
	pair, err := f.svc.Login(ctx, "a@b.com", "password123")
	require.NoError(t, err)
	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	_, _ = f.svc.Refresh(ctx, pair.RefreshToken)
}

func TestLoginDigestWriteForVanishedUserIsInternal(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserRepository(ctrl)
	hasher := NewPasswordHasher(bcrypt.MinCost)
	hash, err := hasher.Hash("password123")
	require.NoError(t, err)

	users.EXPECT().FindByEmail(gomock.Any(), "a@b.com").
		Return(model.User{ID: 42, Email: "a@b.com", PasswordHash: hash}, nil)

	// The digest store has no row for user 42.
	svc, err := NewAuthService(testTokenConfig(), users, hasher, NewTokenSigner(),
		NewRefreshTokenStore(repotest.NewUsers(), hasher, testDigestKey), NewCredentialVerifier(users, hasher))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "a@b.com", "password123")
	require.Error(t, err)
	require.NotErrorIs(t, err, model.ErrUserNotFound)

	var apiErr *apierror.APIError
	require.False(t, errors.As(err, &apiErr), "must surface as an internal error, got %v", err)
}
