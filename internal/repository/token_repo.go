package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-blog-api/internal/model"
)

// TokenRepository persists the per-user refresh token digest held in
// users.hashed_refresh_token. Each write is a single-row UPDATE.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Store overwrites the digest unconditionally. A missing row is a storage
// failure, not a lookup miss: the caller has just loaded the user.
func (r *TokenRepository) Store(ctx context.Context, userID int64, digest string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET hashed_refresh_token = $2, updated_at = $3 WHERE id = $1`,
		userID, digest, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store refresh digest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("store refresh digest: user %d missing", userID)
	}
	return nil
}

// Swap replaces the digest only while it still equals previous. It returns
// model.ErrRefreshDigestChanged when a concurrent writer got there first.
func (r *TokenRepository) Swap(ctx context.Context, userID int64, previous string, next string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET hashed_refresh_token = $3, updated_at = $4
		 WHERE id = $1 AND hashed_refresh_token = $2`,
		userID, previous, next, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("swap refresh digest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRefreshDigestChanged
	}
	return nil
}

func (r *TokenRepository) Revoke(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE users SET hashed_refresh_token = NULL, updated_at = $2
		 WHERE id = $1 AND hashed_refresh_token IS NOT NULL`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("revoke refresh digest: %w", err)
	}
	return nil
}
