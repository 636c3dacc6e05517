package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	loginPath   = "/api/v1/users/auth/login/google"
	reissuePath = "/api/v1/users/auth/reissue"
)

// GoogleAuthURL builds the OAuth consent URL the user visits to obtain an
// authorization code.
func GoogleAuthURL(clientID, redirectURI string) string {
	query := url.Values{
		"client_id":     {clientID},
		"redirect_uri":  {redirectURI},
		"response_type": {"code"},
		"scope":         {"openid email profile"},
		"access_type":   {"offline"},
	}
	return "https://accounts.google.com/o/oauth2/v2/auth?" + query.Encode()
}

// LoginWithGoogle exchanges a Google authorization code for a session. The
// access token arrives in the Authorization response header (with a body
// fallback for older deployments), the refresh cookie lands in the jar, and
// both the token and profile are persisted before returning.
func (c *Client) LoginWithGoogle(ctx context.Context, code string) (User, error) {
	a := &attempt{
		method: http.MethodPost,
		path:   loginPath,
		query:  url.Values{"code": {code}},
		noAuth: true,
	}

	resp, err := c.send(ctx, a, "")
	if err != nil {
		return User{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, readErrorResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return User{}, fmt.Errorf("read login response: %w", err)
	}

	token := strings.TrimSpace(strings.TrimPrefix(resp.Header.Get("Authorization"), "Bearer"))
	if token == "" {
		var alt struct {
			AccessToken string `json:"accessToken"`
		}
		json.Unmarshal(body, &alt)
		token = alt.AccessToken
	}
	if token == "" || token == "null" {
		return User{}, fmt.Errorf("login response carried no access token")
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return User{}, fmt.Errorf("decode login response: %w", err)
	}

	if err := c.creds.SetSession(token, body); err != nil {
		return User{}, fmt.Errorf("store session: %w", err)
	}

	return user, nil
}

// Reissue trades the session-refresh cookie for a fresh access token and
// persists it. A 401 means the session itself is dead: the stored token and
// profile are cleared together and ErrSessionExpired is returned.
func (c *Client) Reissue(ctx context.Context) (string, error) {
	a := &attempt{method: http.MethodPost, path: reissuePath, noAuth: true}

	resp, err := c.send(ctx, a, "")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		if err := c.creds.Clear(); err != nil {
			c.logger.Printf("clear credentials after expired session: %v", err)
		}
		return "", ErrSessionExpired
	}
	if resp.StatusCode != http.StatusOK {
		return "", readErrorResponse(resp)
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode reissue response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("reissue response carried no access token")
	}

	if err := c.creds.SetToken(payload.AccessToken); err != nil {
		return "", fmt.Errorf("store reissued token: %w", err)
	}

	return payload.AccessToken, nil
}

// Logout discards the stored token and profile. It is purely local; the
// backend session simply ages out.
func (c *Client) Logout() error {
	return c.creds.Clear()
}

// StoredUser returns the profile persisted at login without a network call.
func (c *Client) StoredUser() (User, error) {
	raw, err := c.creds.User()
	if err != nil {
		return User{}, fmt.Errorf("read stored profile: %w", err)
	}
	if len(raw) == 0 {
		return User{}, ErrNotLoggedIn
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return User{}, fmt.Errorf("decode stored profile: %w", err)
	}
	return user, nil
}

// LoggedIn reports whether a usable token is stored.
func (c *Client) LoggedIn() bool {
	token, err := c.creds.Token()
	return err == nil && token != "" && token != "null"
}
