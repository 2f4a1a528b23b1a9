package credentials

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/Mirxa893/zola/internal/auth"
	"github.com/Mirxa893/zola/internal/store"
)

// KeyStore is the slice of the user key table the resolver needs.
type KeyStore interface {
	Get(ctx context.Context, userID, provider string) (store.UserKey, error)
	ListProviders(ctx context.Context, userID string) ([]string, error)
	UpdateOAuthToken(ctx context.Context, keyID string, tok *oauth2.Token) error
}

type Opener interface {
	Open(sealed string) (string, error)
}

// Resolver returns the effective credential of a user for a provider family:
// the user's own key when one is stored, the deployment-wide key otherwise.
// "No credential" is reported as an empty key, never as an error.
type Resolver struct {
	log       zerolog.Logger
	keys      KeyStore
	opener    Opener
	oauth     *oauth2.Config
	fallbacks map[string]string
	providers []string
}

type Config struct {
	// Fallbacks maps provider family to a deployment-wide key.
	Fallbacks map[string]string
	// Providers lists the families reported by KeyStatus.
	Providers []string
	// OAuth refreshes oauth2 credentials; nil disables refreshing.
	OAuth *oauth2.Config
}

func NewResolver(log zerolog.Logger, keys KeyStore, opener Opener, cfg Config) *Resolver {
	return &Resolver{
		log:       log,
		keys:      keys,
		opener:    opener,
		oauth:     cfg.OAuth,
		fallbacks: cfg.Fallbacks,
		providers: cfg.Providers,
	}
}

// Resolve returns the key to use for userID against provider, or "" when none
// is configured anywhere.
func (r *Resolver) Resolve(ctx context.Context, userID, provider string) (string, error) {
	if provider == "" {
		return "", nil
	}
	k, err := r.keys.Get(ctx, userID, provider)
	if errors.Is(err, store.ErrNotFound) {
		return r.fallbacks[provider], nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s key: %w", provider, err)
	}

	switch k.CredentialType {
	case store.CredentialOAuth2:
		return r.oauthAccessToken(ctx, k)
	default:
		if r.opener == nil {
			return "", auth.ErrNoSecret
		}
		key, err := r.opener.Open(k.EncryptedKey)
		if err != nil {
			return "", fmt.Errorf("decrypt %s key: %w", provider, err)
		}
		return key, nil
	}
}

func (r *Resolver) oauthAccessToken(ctx context.Context, k store.UserKey) (string, error) {
	tok, err := auth.TokenFromJSON([]byte(k.OAuthTokenJSON))
	if err != nil {
		return "", err
	}
	if r.oauth == nil {
		return tok.AccessToken, nil
	}
	fresh, changed, err := auth.FreshToken(ctx, r.oauth, tok)
	if err != nil {
		return "", err
	}
	if changed {
		if err := r.keys.UpdateOAuthToken(ctx, k.ID, fresh); err != nil {
			r.log.Warn().Err(err).Str("provider", k.Provider).Msg("persist refreshed token failed")
		}
	}
	return fresh.AccessToken, nil
}

// KeyStatus reports, per known provider family, whether userID has a key of
// their own stored.
func (r *Resolver) KeyStatus(ctx context.Context, userID string) (map[string]bool, error) {
	status := make(map[string]bool, len(r.providers))
	for _, p := range r.providers {
		status[p] = false
	}
	have, err := r.keys.ListProviders(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range have {
		if _, known := status[p]; known {
			status[p] = true
		}
	}
	return status, nil
}
