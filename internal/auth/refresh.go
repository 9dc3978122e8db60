package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// refreshBuffer is how long before expiry a token is considered stale
const refreshBuffer = 60 * time.Second

// ErrNoRefresh is returned when an expired token cannot be refreshed
var ErrNoRefresh = errors.New("token expired and no refresh token or token URL configured")

// TokenSource hands out access tokens for the health API, refreshing them
// through the OAuth token endpoint and persisting every new token via onRefresh
type TokenSource struct {
	config    *oauth2.Config
	token     *oauth2.Token
	onRefresh func(*oauth2.Token) error
	mu        sync.Mutex
}

// NewTokenSource creates a new TokenSource starting from token
func NewTokenSource(cfg *oauth2.Config, token *oauth2.Token, onRefresh func(*oauth2.Token) error) *TokenSource {
	return &TokenSource{
		config:    cfg,
		token:     token,
		onRefresh: onRefresh,
	}
}

// Token returns a valid token, refreshing if necessary.
// Tokens without an expiry never need refreshing.
func (ts *TokenSource) Token() (*oauth2.Token, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !ts.stale() {
		return ts.token, nil
	}

	if ts.token.RefreshToken == "" || ts.config == nil || ts.config.Endpoint.TokenURL == "" {
		return nil, ErrNoRefresh
	}

	src := ts.config.TokenSource(context.Background(), ts.token)
	newToken, err := src.Token()
	if err != nil {
		return nil, err
	}

	// Some providers omit the refresh token when it is unchanged
	if newToken.RefreshToken == "" {
		newToken.RefreshToken = ts.token.RefreshToken
	}

	if ts.onRefresh != nil {
		if err := ts.onRefresh(newToken); err != nil {
			return nil, err
		}
	}

	ts.token = newToken
	return newToken, nil
}

// IsExpired checks if the current token is expired or will expire within the buffer
func (ts *TokenSource) IsExpired() bool {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.stale()
}

func (ts *TokenSource) stale() bool {
	if ts.token.Expiry.IsZero() {
		return false
	}
	return time.Until(ts.token.Expiry) <= refreshBuffer
}
