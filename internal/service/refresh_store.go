package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"go-blog-api/internal/model"
)

// RefreshTokenStore keeps bcrypt(HMAC-SHA256(key, token)) per user. The HMAC
// step bounds the bcrypt input to 64 bytes so the whole token is covered.
type RefreshTokenStore struct {
	tokens RefreshDigestRepository
	hasher *PasswordHasher
	key    []byte
}

func NewRefreshTokenStore(tokens RefreshDigestRepository, hasher *PasswordHasher, key string) *RefreshTokenStore {
	return &RefreshTokenStore{tokens: tokens, hasher: hasher, key: []byte(key)}
}

func (s *RefreshTokenStore) keyedDigest(raw string) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func (s *RefreshTokenStore) digest(raw string) (string, error) {
	return s.hasher.Hash(s.keyedDigest(raw))
}

// RecordIssuance makes raw the only valid refresh token for userID.
func (s *RefreshTokenStore) RecordIssuance(ctx context.Context, userID int64, raw string) error {
	digest, err := s.digest(raw)
	if err != nil {
		return fmt.Errorf("record refresh issuance: %w", err)
	}
	if err := s.tokens.Store(ctx, userID, digest); err != nil {
		return fmt.Errorf("record refresh issuance: %w", err)
	}
	return nil
}

// Matches checks raw against the digest loaded with user. A user without a
// digest matches nothing.
func (s *RefreshTokenStore) Matches(user model.User, raw string) bool {
	if !user.HasRefreshDigest() {
		return false
	}
	return s.hasher.Verify(*user.HashedRefreshToken, s.keyedDigest(raw))
}

// Rotate replaces previousDigest with the digest of raw. It fails with
// model.ErrRefreshDigestChanged if previousDigest is no longer current.
func (s *RefreshTokenStore) Rotate(ctx context.Context, userID int64, previousDigest string, raw string) error {
	digest, err := s.digest(raw)
	if err != nil {
		return fmt.Errorf("rotate refresh digest: %w", err)
	}
	if err := s.tokens.Swap(ctx, userID, previousDigest, digest); err != nil {
		return fmt.Errorf("rotate refresh digest: %w", err)
	}
	return nil
}

func (s *RefreshTokenStore) Revoke(ctx context.Context, userID int64) error {
	if err := s.tokens.Revoke(ctx, userID); err != nil {
		return fmt.Errorf("revoke refresh digest: %w", err)
	}
	return nil
}
