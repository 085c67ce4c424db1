package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-blog-api/internal/model"
)

// ErrInvalidToken covers every verification failure: bad signature,
// unexpected algorithm, expiry, malformed input.
var ErrInvalidToken = errors.New("invalid token")

type tokenClaims struct {
	Email string `json:"email"`
	Type  string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenSigner creates and verifies HS256 JWTs. It holds no key material;
// callers pass the secret for the token class they are handling.
type TokenSigner struct {
	now func() time.Time
}

type SignerOption func(*TokenSigner)

func WithClock(now func() time.Time) SignerOption {
	return func(s *TokenSigner) {
		s.now = now
	}
}

func NewTokenSigner(opts ...SignerOption) *TokenSigner {
	s := &TokenSigner{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenSigner) Sign(payload model.TokenPayload, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("sign token: empty secret")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("sign token: ttl must be positive")
	}

	now := s.now().UTC()
	claims := tokenClaims{
		Email: payload.Email,
		Type:  string(payload.Class),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(payload.UserID, 10),
			ID:        payload.Nonce,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenSigner) Verify(token string, secret string) (model.TokenPayload, error) {
	if token == "" || secret == "" {
		return model.TokenPayload{}, ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return model.TokenPayload{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return model.TokenPayload{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return model.TokenPayload{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return model.TokenPayload{
		UserID: userID,
		Email:  claims.Email,
		Class:  model.TokenClass(claims.Type),
		Nonce:  claims.ID,
	}, nil
}
