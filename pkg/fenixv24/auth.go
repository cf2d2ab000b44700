package fenixv24

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Authenticate eagerly ensures a valid session exists. Polling callers
// never need this; it exists for setup flows that want to fail fast on
// bad credentials.
func (c *Client) Authenticate(ctx context.Context) error {
	_, err := c.ensureToken(ctx)
	return err
}

// ensureToken returns an access token guaranteed valid for at least
// refreshMargin. When no session exists, or the current one is inside the
// margin, a full password-grant authentication is performed; the vendor
// issues short-lived tokens and re-authentication is the refresh mechanism.
//
// Concurrent callers share a single outstanding authentication attempt.
// Duplicate token requests risk vendor-side rate limiting, so at most one
// is ever in flight per client.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	if s := c.session; s.valid(time.Now()) {
		token := s.accessToken
		c.mu.Unlock()
		if c.logger != nil {
			c.logger.Debug("using cached access token")
		}
		return token, nil
	}
	c.mu.Unlock()

	token, err, _ := c.authGroup.Do("auth", func() (any, error) {
		return c.authenticate(ctx)
	})
	if err != nil {
		return "", err
	}
	return token.(string), nil
}

// authenticate performs the OAuth2 password grant and replaces the stored
// session on success. On failure any prior (expired) session is left
// untouched so the error is visible to every caller.
func (c *Client) authenticate(ctx context.Context) (string, error) {
	// A caller queued behind a completed attempt may already hold a
	// fresh session.
	c.mu.Lock()
	if s := c.session; s.valid(time.Now()) {
		token := s.accessToken
		c.mu.Unlock()
		return token, nil
	}
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("authenticating", "smarthome_id", c.smarthomeID)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.PasswordCredentialsToken(ctx, c.email, c.password)
	if err != nil {
		return "", mapTokenError(err)
	}
	if tok.AccessToken == "" || tok.Expiry.IsZero() {
		return "", &AuthError{Msg: "token response missing access_token or expires_in"}
	}

	c.mu.Lock()
	c.session = &session{
		accessToken:  tok.AccessToken,
		refreshToken: tok.RefreshToken,
		expiresAt:    tok.Expiry,
	}
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("authentication successful", "expires_at", tok.Expiry)
	}
	return tok.AccessToken, nil
}

func mapTokenError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
			return &AuthError{Status: status, Msg: strings.TrimSpace(string(retrieveErr.Body))}
		}
		return &NetworkError{Op: "token request", Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &NetworkError{Op: "token request", Err: err}
	}

	// The oauth2 package reports malformed token bodies (missing
	// access_token, unparseable JSON) as plain errors.
	return &AuthError{Msg: err.Error()}
}
