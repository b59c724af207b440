package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
)

type tokenRevocationRepositoryImpl struct {
	db *database.DB
}

// NewTokenRevocationRepository stores revoked access tokens in PostgreSQL.
// It serves deployments that run without Redis.
func NewTokenRevocationRepository(db *database.DB) jwt.RevocationStore {
	return &tokenRevocationRepositoryImpl{db: db}
}

func (t *tokenRevocationRepositoryImpl) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	q := GetQuerier(ctx, t.db)

	query := `
		INSERT INTO revoked_tokens (token_hash, expires_at)
		VALUES ($1, $2)
		ON CONFLICT (token_hash) DO NOTHING
	`
	if _, err := q.Exec(ctx, query, jwt.HashToken(token), expiresAt.UTC()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	// Expired entries can never match a valid token again.
	if _, err := q.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < NOW()`); err != nil {
		return fmt.Errorf("failed to purge expired tokens: %w", err)
	}
	return nil
}

func (t *tokenRevocationRepositoryImpl) IsRevoked(ctx context.Context, token string) (bool, error) {
	q := GetQuerier(ctx, t.db)

	query := `SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token_hash = $1 AND expires_at > NOW())`

	var revoked bool
	if err := q.QueryRow(ctx, query, jwt.HashToken(token)).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return revoked, nil
}
