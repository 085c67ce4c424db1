package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go-blog-api/internal/model"
)

// CredentialVerifier checks an email/password pair against stored users.
type CredentialVerifier struct {
	users  UserRepository
	hasher *PasswordHasher

	dummyOnce sync.Once
	dummyHash string
}

func NewCredentialVerifier(users UserRepository, hasher *PasswordHasher) *CredentialVerifier {
	return &CredentialVerifier{users: users, hasher: hasher}
}

// Verify returns ErrAuthenticationFailed for an unknown email and for a wrong
// password alike. Unknown emails still pay for one bcrypt comparison.
func (v *CredentialVerifier) Verify(ctx context.Context, email string, password string) (model.User, error) {
	user, err := v.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		v.hasher.Verify(v.dummy(), password)
		return model.User{}, ErrAuthenticationFailed
	}
	if err != nil {
		return model.User{}, fmt.Errorf("verify credentials: %w", err)
	}

	if !v.hasher.Verify(user.PasswordHash, password) {
		return model.User{}, ErrAuthenticationFailed
	}

	return user, nil
}

func (v *CredentialVerifier) dummy() string {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = v.hasher.Hash("credential-verifier-placeholder")
	})
	return v.dummyHash
}
