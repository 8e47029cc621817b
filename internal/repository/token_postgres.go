package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type PostgresRevokedTokenRepository struct {
	db *sql.DB
}

func NewPostgresRevokedToken(db *sql.DB) *PostgresRevokedTokenRepository {
	return &PostgresRevokedTokenRepository{db: db}
}

// Revoke is idempotent: revoking an already-revoked jti is a no-op.
func (r *PostgresRevokedTokenRepository) Revoke(ctx context.Context, jti string) error {
	query := `INSERT INTO revoked_tokens (jti) VALUES ($1) ON CONFLICT (jti) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, jti); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *PostgresRevokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists, nil
}

var _ RevokedTokenRepository = (*PostgresRevokedTokenRepository)(nil)
