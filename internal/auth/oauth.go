package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

var ErrEmptyToken = errors.New("stored oauth token is empty")

// OAuthConfig builds the client used to refresh stored provider tokens.
func OAuthConfig(clientID, clientSecret, tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TokenFromJSON(b []byte) (*oauth2.Token, error) {
	if len(b) == 0 {
		return nil, ErrEmptyToken
	}
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("decode oauth token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, ErrEmptyToken
	}
	return &tok, nil
}

func TokenToJSON(tok *oauth2.Token) ([]byte, error) {
	return json.Marshal(tok)
}

// FreshToken returns a valid token for tok, refreshing it through conf when it
// has expired. changed reports whether the caller should persist the result.
func FreshToken(ctx context.Context, conf *oauth2.Config, tok *oauth2.Token) (fresh *oauth2.Token, changed bool, err error) {
	if tok.Valid() {
		return tok, false, nil
	}
	fresh, err = conf.TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, false, fmt.Errorf("refresh oauth token: %w", err)
	}
	changed = fresh.AccessToken != tok.AccessToken || !fresh.Expiry.Equal(tok.Expiry)
	return fresh, changed, nil
}
