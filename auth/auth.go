// Package auth manages OAuth2 client-credential tokens for outbound API
// calls.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCred caches a client-credentials token and refreshes it when it
// expires.
type ClientCred struct {
	conf  clientcredentials.Config
	token *oauth2.Token
}

// NewClientCred creates a token manager from the configuration.
func NewClientCred(conf Conf) *ClientCred {
	return &ClientCred{conf: conf.toOauth2Config()}
}

// Token returns a valid access token, requesting a new one when the
// cached token has expired.
func (c *ClientCred) Token(ctx context.Context) (string, error) {
	if c.token != nil && c.token.Valid() {
		return c.token.AccessToken, nil
	}
	if err := c.refresh(ctx); err != nil {
		return "", err
	}
	return c.token.AccessToken, nil
}

// SetAuthHeader attaches the bearer token to the request, refreshing it
// first if needed.
func (c *ClientCred) SetAuthHeader(r *http.Request) error {
	if c.token == nil || !c.token.Valid() {
		if err := c.refresh(r.Context()); err != nil {
			return err
		}
	}
	c.token.SetAuthHeader(r)
	return nil
}

func (c *ClientCred) refresh(ctx context.Context) error {
	tok, err := c.conf.Token(ctx)
	if err != nil {
		return fmt.Errorf("failed to get token: %w", err)
	}
	c.token = tok
	return nil
}
