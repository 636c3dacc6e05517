// Package api is the client for the grouptodo REST backend.
//
// Every call goes through a single request pipeline that attaches the stored
// bearer token and recovers transparently from one class of failure: an
// expired token. On a 401 the pipeline reissues the token using the
// session-refresh cookie and replays the original request exactly once. A
// second 401, or any other failure, propagates to the caller.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	internalstrings "github.com/grouptodo/gtd/internal/strings"
)

// CredentialStore persists the bearer token and user profile. Writes replace
// the stored value; Clear removes the token and profile together.
type CredentialStore interface {
	Token() (string, error)
	SetToken(token string) error
	SetSession(token string, user json.RawMessage) error
	User() (json.RawMessage, error)
	Clear() error
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend address. A missing scheme defaults to http.
	BaseURL string

	// Credentials is required; it supplies and receives the bearer token.
	Credentials CredentialStore

	// Jar carries the session-refresh cookie. When nil, reissue only works
	// within a single process after login.
	Jar http.CookieJar

	// HTTPClient overrides the default transport. Its Jar is replaced by
	// Jar when both are set.
	HTTPClient *http.Client

	// Logger receives pipeline diagnostics. Silent when nil.
	Logger *log.Logger
}

const defaultTimeout = 30 * time.Second

// Client calls the grouptodo backend.
type Client struct {
	baseURL string
	client  *http.Client
	creds   CredentialStore
	logger  *log.Logger

	// refreshMu serializes token reissue so concurrent 401s trigger one
	// refresh, not one per request.
	refreshMu sync.Mutex
}

// NewClient creates a client for the given backend.
func NewClient(opts Options) (*Client, error) {
	if internalstrings.IsBlank(opts.BaseURL) {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.Credentials == nil {
		return nil, fmt.Errorf("credential store is required")
	}

	baseURL := internalstrings.TrimTrailingSlash(strings.TrimSpace(opts.BaseURL))
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if opts.Jar != nil {
		httpClient.Jar = opts.Jar
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Client{
		baseURL: baseURL,
		client:  httpClient,
		creds:   opts.Credentials,
		logger:  logger,
	}, nil
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// attempt is one logical request plus its retry state. The marker lives
// here rather than on the http.Request, so the refresh-and-retry path fires
// at most once per logical call no matter how many 401s come back.
type attempt struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string

	// noAuth skips the bearer header and the 401 recovery path; used for
	// login and reissue themselves.
	noAuth bool

	// retried is set once the 401 recovery path has fired.
	retried bool
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	return c.do(ctx, &attempt{method: http.MethodGet, path: path, query: query}, dest)
}

func (c *Client) post(ctx context.Context, path string, payload, dest any) error {
	a, err := jsonAttempt(http.MethodPost, path, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, a, dest)
}

func (c *Client) patch(ctx context.Context, path string, payload, dest any) error {
	a, err := jsonAttempt(http.MethodPatch, path, payload)
	if err != nil {
		return err
	}
	return c.do(ctx, a, dest)
}

func (c *Client) delete(ctx context.Context, path string, dest any) error {
	return c.do(ctx, &attempt{method: http.MethodDelete, path: path}, dest)
}

func jsonAttempt(method, path string, payload any) (*attempt, error) {
	a := &attempt{method: method, path: path}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		a.body = data
		a.contentType = "application/json"
	}
	return a, nil
}

// do dispatches an attempt and decodes the response into dest. Network
// failures and non-401 error statuses propagate immediately; a 401 on an
// authenticated, not-yet-retried attempt triggers reissue-and-replay.
func (c *Client) do(ctx context.Context, a *attempt, dest any) error {
	token := ""
	if !a.noAuth {
		stored, err := c.creds.Token()
		if err != nil {
			return fmt.Errorf("read credential: %w", err)
		}
		token = stored
	}

	resp, err := c.send(ctx, a, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !a.noAuth && !a.retried {
		a.retried = true
		io.Copy(io.Discard, resp.Body)
		c.logger.Printf("401 on %s %s, reissuing access token", a.method, a.path)
		if _, err := c.refreshToken(ctx, token); err != nil {
			return err
		}
		return c.do(ctx, a, dest)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return readErrorResponse(resp)
	}

	if dest == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send builds and dispatches one HTTP request for an attempt. The bearer
// header is attached only when a usable token is present; a literal "null"
// was historically stored by a buggy frontend and is treated as absent.
func (c *Client) send(ctx context.Context, a *attempt, token string) (*http.Response, error) {
	endpoint := c.baseURL + a.path
	if len(a.query) > 0 {
		endpoint += "?" + a.query.Encode()
	}

	var body io.Reader
	if a.body != nil {
		body = bytes.NewReader(a.body)
	}

	req, err := http.NewRequestWithContext(ctx, a.method, endpoint, body)
	if err != nil {
		return nil, err
	}
	if a.contentType != "" {
		req.Header.Set("Content-Type", a.contentType)
	}
	if token != "" && token != "null" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	return c.client.Do(req)
}

// refreshToken reissues the access token. Refreshes are serialized: a caller
// whose stale token was already replaced while it waited for the lock reuses
// the fresh token instead of issuing a redundant reissue call.
func (c *Client) refreshToken(ctx context.Context, staleToken string) (string, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	current, err := c.creds.Token()
	if err == nil && current != "" && current != staleToken {
		return current, nil
	}

	return c.Reissue(ctx)
}

func readErrorResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		if message, ok := payload["message"]; ok {
			apiErr.Message = message
		} else if message, ok := payload["error"]; ok {
			apiErr.Message = message
		}
	}

	return apiErr
}
