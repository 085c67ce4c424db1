// Package repotest provides an in-memory user store with the same contract
// as the Postgres repositories, for service and HTTP tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go-blog-api/internal/model"
)

type Users struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]model.User
}

func NewUsers() *Users {
	return &Users{byID: map[int64]model.User{}}
}

func (r *Users) FindByID(_ context.Context, id int64) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (r *Users) Create(_ context.Context, in model.NewUser) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == in.Email {
			return model.User{}, model.ErrUserAlreadyExists
		}
	}

	r.nextID++
	now := time.Now().UTC()
	u := model.User{
		ID:           r.nextID,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		Name:         in.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	return cloneUser(u), nil
}

func (r *Users) Store(_ context.Context, userID int64, digest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok {
		return fmt.Errorf("store refresh digest: user %d missing", userID)
	}
	u.HashedRefreshToken = &digest
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *Users) Swap(_ context.Context, userID int64, previous string, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[userID]
	if !ok || u.HashedRefreshToken == nil || *u.HashedRefreshToken != previous {
		return model.ErrRefreshDigestChanged
	}
	u.HashedRefreshToken = &next
	u.UpdatedAt = time.Now().UTC()
	r.byID[userID] = u
	return nil
}

func (r *Users) Revoke(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[userID]; ok {
		u.HashedRefreshToken = nil
		r.byID[userID] = u
	}
	return nil
}

// Digest returns the stored refresh digest, or "" when there is none.
func (r *Users) Digest(userID int64) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byID[userID]; ok && u.HashedRefreshToken != nil {
		return *u.HashedRefreshToken
	}
	return ""
}

func (r *Users) Emails() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u.Email)
	}
	sort.Strings(out)
	return out
}

func (r *Users) Delete(userID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byID, userID)
}

func cloneUser(u model.User) model.User {
	if u.HashedRefreshToken != nil {
		digest := *u.HashedRefreshToken
		u.HashedRefreshToken = &digest
	}
	return u
}
