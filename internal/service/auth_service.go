package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"go-blog-api/internal/logger"
	"go-blog-api/internal/model"
	"go-blog-api/pkg/apierror"
)

var (
	ErrAuthenticationFailed = apierror.Unauthorized("Invalid email or password")
	ErrInvalidRefreshToken  = apierror.Unauthorized("Invalid or expired refresh token")
	ErrInvalidAccessToken   = apierror.Unauthorized("invalid or expired token")
)

func duplicateEmailError(email string) *apierror.APIError {
	return apierror.Conflict(apierror.CodeDuplicateEmail,
		fmt.Sprintf("User with email '%s' already exists", email), email)
}

const (
	outcomeSuccess   = "success"
	outcomeRejected  = "rejected"
	outcomeDuplicate = "duplicate"
	outcomeError     = "error"
)

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

func (c TokenConfig) validate() error {
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return errors.New("access and refresh secrets are required")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return errors.New("token ttls must be positive")
	}
	return nil
}

// AuthService runs registration, login, refresh-token rotation and access
// token authentication.
type AuthService struct {
	cfg      TokenConfig
	users    UserRepository
	hasher   *PasswordHasher
	signer   *TokenSigner
	store    *RefreshTokenStore
	verifier *CredentialVerifier
	recorder AuthRecorder
	newNonce func() string
}

func NewAuthService(
	cfg TokenConfig,
	users UserRepository,
	hasher *PasswordHasher,
	signer *TokenSigner,
	store *RefreshTokenStore,
	verifier *CredentialVerifier,
) (*AuthService, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("auth service config: %w", err)
	}

	return &AuthService{
		cfg:      cfg,
		users:    users,
		hasher:   hasher,
		signer:   signer,
		store:    store,
		verifier: verifier,
		recorder: nopRecorder{},
		newNonce: uuid.NewString,
	}, nil
}

func (s *AuthService) SetRecorder(recorder AuthRecorder) {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	s.recorder = recorder
}

// Register creates a user and returns its id. The email pre-check is only a
// shortcut; the unique constraint is the real guard.
func (s *AuthService) Register(ctx context.Context, email string, password string, name string) (int64, error) {
	lg := logger.From(ctx).With("op", "register", "email", logger.RedactEmail(email))

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.recorder.ObserveAuth("register", outcomeDuplicate)
		return 0, duplicateEmailError(email)
	case !errors.Is(err, model.ErrUserNotFound):
		s.recorder.ObserveAuth("register", outcomeError)
		return 0, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.recorder.ObserveAuth("register", outcomeError)
		return 0, fmt.Errorf("register: %w", err)
	}

	user, err := s.users.Create(ctx, model.NewUser{Email: email, PasswordHash: hash, Name: name})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		lg.Info("registration lost unique race")
		s.recorder.ObserveAuth("register", outcomeDuplicate)
		return 0, duplicateEmailError(email)
	}
	if err != nil {
		s.recorder.ObserveAuth("register", outcomeError)
		return 0, fmt.Errorf("register: %w", err)
	}

	lg.Info("user registered", "user_id", user.ID)
	s.recorder.ObserveAuth("register", outcomeSuccess)
	return user.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	lg := logger.From(ctx).With("op", "login", "email", logger.RedactEmail(email))

	user, err := s.verifier.Verify(ctx, email, password)
	if errors.Is(err, ErrAuthenticationFailed) {
		lg.Info("login rejected")
		s.recorder.ObserveAuth("login", outcomeRejected)
		return model.TokenPair{}, err
	}
	if err != nil {
		s.recorder.ObserveAuth("login", outcomeError)
		return model.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		s.recorder.ObserveAuth("login", outcomeError)
		return model.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	if err := s.store.RecordIssuance(ctx, user.ID, pair.RefreshToken); err != nil {
		s.recorder.ObserveAuth("login", outcomeError)
		return model.TokenPair{}, fmt.Errorf("login: %w", err)
	}

	lg.Info("login succeeded", "user_id", user.ID)
	s.recorder.ObserveAuth("login", outcomeSuccess)
	return pair, nil
}

// Refresh exchanges a refresh token for a new pair and invalidates the
// presented one. All rejection reasons surface as ErrInvalidRefreshToken.
func (s *AuthService) Refresh(ctx context.Context, rawRefreshToken string) (model.TokenPair, error) {
	lg := logger.From(ctx).With("op", "refresh")

	payload, err := s.signer.Verify(rawRefreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return s.rejectRefresh(ctx, "verification failed", 0)
	}

	if payload.Class != model.TokenClassRefresh {
		return s.rejectRefresh(ctx, "wrong token class", payload.UserID)
	}

	user, err := s.users.FindByID(ctx, payload.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return s.rejectRefresh(ctx, "unknown user", payload.UserID)
	}
	if err != nil {
		s.recorder.ObserveAuth("refresh", outcomeError)
		return model.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}

	if !user.HasRefreshDigest() {
		return s.rejectRefresh(ctx, "no stored digest", user.ID)
	}

	if !s.store.Matches(user, rawRefreshToken) {
		return s.rejectRefresh(ctx, "digest mismatch", user.ID)
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		s.recorder.ObserveAuth("refresh", outcomeError)
		return model.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}

	err = s.store.Rotate(ctx, user.ID, *user.HashedRefreshToken, pair.RefreshToken)
	if errors.Is(err, model.ErrRefreshDigestChanged) {
		return s.rejectRefresh(ctx, "concurrent rotation", user.ID)
	}
	if err != nil {
		s.recorder.ObserveAuth("refresh", outcomeError)
		return model.TokenPair{}, fmt.Errorf("refresh: %w", err)
	}

	lg.Info("refresh token rotated", "user_id", user.ID)
	s.recorder.ObserveAuth("refresh", outcomeSuccess)
	return pair, nil
}

func (s *AuthService) rejectRefresh(ctx context.Context, reason string, userID int64) (model.TokenPair, error) {
	logger.From(ctx).Warn("refresh rejected", "op", "refresh", "reason", reason, "user_id", userID)
	s.recorder.ObserveAuth("refresh", outcomeRejected)
	return model.TokenPair{}, ErrInvalidRefreshToken
}

// Authenticate resolves an access token into the caller identity. Refresh
// tokens are rejected even though they are well-formed.
func (s *AuthService) Authenticate(_ context.Context, accessToken string) (model.Identity, error) {
	payload, err := s.signer.Verify(accessToken, s.cfg.AccessSecret)
	if err != nil || payload.Class != model.TokenClassAccess {
		return model.Identity{}, ErrInvalidAccessToken
	}

	return model.Identity{UserID: payload.UserID, Email: payload.Email}, nil
}

// Logout drops the stored refresh digest. The access token stays valid
// until it expires.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if err := s.store.Revoke(ctx, userID); err != nil {
		s.recorder.ObserveAuth("logout", outcomeError)
		return fmt.Errorf("logout: %w", err)
	}

	logger.From(ctx).Info("logged out", "op", "logout", "user_id", userID)
	s.recorder.ObserveAuth("logout", outcomeSuccess)
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID int64) (model.UserProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.UserProfile{}, apierror.New(apierror.CodeNotFound, "user not found", "", http.StatusNotFound)
	}
	if err != nil {
		return model.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}

	return user.Profile(), nil
}

func (s *AuthService) issueTokenPair(user model.User) (model.TokenPair, error) {
	accessToken, err := s.signer.Sign(model.TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Class:  model.TokenClassAccess,
	}, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.signer.Sign(model.TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Class:  model.TokenClassRefresh,
		Nonce:  s.newNonce(),
	}, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
