package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/oauth2"

	"github.com/Mirxa893/zola/internal/auth"
)

const (
	CredentialAPIKey = "api_key"
	CredentialOAuth2 = "oauth2"
)

// UserKey is a provider credential stored for one user. EncryptedKey is only
// set for api_key credentials, OAuthTokenJSON only for oauth2 ones.
type UserKey struct {
	ID             string
	UserID         string
	Provider       string
	CredentialType string
	EncryptedKey   string
	OAuthTokenJSON string
}

type UserKeysRepo struct{ pool *pgxpool.Pool }

// Get returns the enabled credential of userID for provider, or ErrNotFound.
func (r *UserKeysRepo) Get(ctx context.Context, userID, provider string) (UserKey, error) {
	var k UserKey
	err := r.pool.QueryRow(ctx, `
SELECT id::text, user_id, provider, credential_type, COALESCE(encrypted_key,''), COALESCE(oauth_token_json::text,'')
FROM user_keys
WHERE user_id=$1 AND provider=$2 AND is_disabled=false
`, userID, provider).Scan(&k.ID, &k.UserID, &k.Provider, &k.CredentialType, &k.EncryptedKey, &k.OAuthTokenJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserKey{}, ErrNotFound
	}
	if err != nil {
		return UserKey{}, err
	}
	return k, nil
}

// ListProviders returns the providers for which userID has an enabled credential.
func (r *UserKeysRepo) ListProviders(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT provider
FROM user_keys
WHERE user_id=$1 AND is_disabled=false
`, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// UpdateOAuthToken persists a refreshed token so later requests start from it.
func (r *UserKeysRepo) UpdateOAuthToken(ctx context.Context, keyID string, tok *oauth2.Token) error {
	j, err := auth.TokenToJSON(tok)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
UPDATE user_keys
SET oauth_token_json=$1::jsonb, updated_at=now()
WHERE id=$2 AND credential_type='oauth2'
`, string(j), keyID)
	return err
}
