package service

import (
	"context"

	"go-blog-api/internal/model"
)

//go:generate mockgen -source=repositories.go -destination=mocks/mock_repositories.go -package=mocks

// UserRepository is the storage the auth core reads users from and registers
// them into. FindBy* return model.ErrUserNotFound when nothing matches;
// Create returns an error wrapping model.ErrUserAlreadyExists on a unique
// email violation.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, in model.NewUser) (model.User, error)
}

// RefreshDigestRepository holds at most one refresh digest per user.
type RefreshDigestRepository interface {
	Store(ctx context.Context, userID int64, digest string) error
	Swap(ctx context.Context, userID int64, previous string, next string) error
	Revoke(ctx context.Context, userID int64) error
}

// AuthRecorder receives one observation per auth operation.
type AuthRecorder interface {
	ObserveAuth(operation string, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAuth(string, string) {}
