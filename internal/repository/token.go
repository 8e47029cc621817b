package repository

import "context"

// RevokedTokenRepository records JWT ids invalidated by logout.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
