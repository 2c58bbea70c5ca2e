// Package apiclient is the dashboard's bridge to the todo API.
//
// Authenticated calls go through a Caller, which is the single place that
// attaches the bearer token and turns a missing token or a 401 into a
// redirect to the login page.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrNoToken means no token was stored; the navigator was sent to login.
	ErrNoToken = errors.New("apiclient: no token")
	// ErrUnauthorized means the API answered 401; the navigator was sent to login.
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrInvalidCredentials is returned by Login on a 401.
	ErrInvalidCredentials = errors.New("apiclient: invalid credentials")
)

// StatusError is any non-2xx answer other than 401.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Credentials supplies the token for the current user.
type Credentials interface {
	Token() string
}

// Navigator sends the current user to the login page.
type Navigator interface {
	RedirectToLogin()
}

// Client holds the HTTP client and the API base URL. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	baseURL string
}

// New returns a Client for baseURL. A nil hc means http.DefaultClient.
func New(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{http: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Bind returns a Caller that authenticates with creds and redirects through nav.
func (c *Client) Bind(creds Credentials, nav Navigator) *Caller {
	return &Caller{client: c, creds: creds, nav: nav}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges username and password for a token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := c.send(ctx, http.MethodPost, "/login", "", credentials{username, password})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", ErrInvalidCredentials
	}
	if err := decode(resp, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errors.New("apiclient: login returned no token")
	}
	return out.Token, nil
}

// Register creates a user. Validation failures come back as *StatusError.
func (c *Client) Register(ctx context.Context, username, password string) error {
	resp, err := c.send(ctx, http.MethodPost, "/register", "", credentials{username, password})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, nil)
}

func (c *Client) send(ctx context.Context, method, path, token string, in any) (*http.Response, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// decode turns non-2xx into *StatusError and decodes 2xx bodies into out.
func decode(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorMessage reads {"error": "..."} or falls back to the raw body.
func errorMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
