package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct{ pool *pgxpool.Pool }

// HashGatewayKey is the at-rest form of a gateway key.
func HashGatewayKey(k string) string {
	h := sha256.Sum256([]byte(k))
	return hex.EncodeToString(h[:])
}

// ResolveUserIDFromGatewayKey maps a non-revoked gateway key to its user.
func (r *UsersRepo) ResolveUserIDFromGatewayKey(ctx context.Context, rawKey string) (string, error) {
	var id string
	err := r.pool.QueryRow(ctx, `
SELECT user_id
FROM user_api_keys
WHERE key_hash=$1 AND revoked_at IS NULL
`, HashGatewayKey(rawKey)).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}
