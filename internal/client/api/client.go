// Package api is the command gateway: it issues requests against the remote
// training-management API using the current credential and maps failures to
// typed results. It never writes to the local mirrors; state converges when
// the server's broadcast echo arrives over the push channel, so a successful
// command is briefly invisible locally.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"trainhub/internal/common"
	"trainhub/internal/logging"
	"trainhub/internal/models"
)

// CredentialSource supplies the bearer token for authenticated calls.
// The session state store implements it.
type CredentialSource interface {
	Token() (string, bool)
}

// Client talks JSON over HTTP to the remote API.
type Client struct {
	baseURL string
	http    *http.Client
	creds   CredentialSource
	logger  logging.Logger
}

func New(baseURL string, creds CredentialSource, logger logging.Logger) *Client {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		creds:   creds,
		logger:  logger,
	}
}

// errorBody is the JSON error shape returned by the API.
type errorBody struct {
	Detail string `json:"detail"`
}

// do performs one request. Every expected failure mode comes back as a
// typed error: common.ErrorUnauthorized when no credential is held, or
// *RemoteError for rejections, transport failures and undecodable bodies.
func (c *Client) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	var token string
	if authed {
		var ok bool
		if token, ok = c.creds.Token(); !ok {
			return common.ErrorUnauthorized
		}
	}

	var body *bytes.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error(ctx, "request transport failure", "method", method, "path", path, "error", err)
		return &RemoteError{Reason: genericReason}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := genericReason
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Detail != "" {
			reason = eb.Detail
		}
		return &RemoteError{StatusCode: resp.StatusCode, Reason: reason}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.logger.Error(ctx, "undecodable response body", "method", method, "path", path, "error", err)
			return &RemoteError{Reason: genericReason}
		}
	}
	return nil
}

// Login authenticates and returns the issued token plus the principal's
// profile. It is the one operation that requires no current credential.
func (c *Client) Login(ctx context.Context, username, password string) (models.TokenResponse, error) {
	var resp models.TokenResponse
	err := c.do(ctx, http.MethodPost, "/auth/login",
		models.LoginRequest{Username: username, Password: password}, &resp, false)
	return resp, err
}

// Ping probes server liveness without a credential.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, false)
}

// ListUsers fetches the full user collection for the initial mirror load.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.do(ctx, http.MethodGet, "/users/", nil, &users, true)
	return users, err
}

func (c *Client) GetUser(ctx context.Context, id int64) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodGet, "/users/"+strconv.FormatInt(id, 10), nil, &u, true)
	return u, err
}

func (c *Client) CreateUser(ctx context.Context, in models.UserCreate) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPost, "/users/", in, &u, true)
	return u, err
}

func (c *Client) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) (models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPut, "/users/"+strconv.FormatInt(id, 10), in, &u, true)
	return u, err
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/users/"+strconv.FormatInt(id, 10), nil, nil, true)
}

// ListSessions fetches the full session collection for the initial mirror load.
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	err := c.do(ctx, http.MethodGet, "/sessions/", nil, &sessions, true)
	return sessions, err
}

func (c *Client) GetSession(ctx context.Context, id int64) (models.Session, error) {
	var s models.Session
	err := c.do(ctx, http.MethodGet, "/sessions/"+strconv.FormatInt(id, 10), nil, &s, true)
	return s, err
}

func (c *Client) CreateSession(ctx context.Context, in models.SessionCreate) (models.Session, error) {
	var s models.Session
	err := c.do(ctx, http.MethodPost, "/sessions/", in, &s, true)
	return s, err
}

func (c *Client) UpdateSession(ctx context.Context, id int64, in models.SessionUpdate) (models.Session, error) {
	var s models.Session
	err := c.do(ctx, http.MethodPut, "/sessions/"+strconv.FormatInt(id, 10), in, &s, true)
	return s, err
}

func (c *Client) DeleteSession(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+strconv.FormatInt(id, 10), nil, nil, true)
}

// UserAnalytics returns user counts grouped by role.
func (c *Client) UserAnalytics(ctx context.Context) (map[string]int64, error) {
	var counts map[string]int64
	err := c.do(ctx, http.MethodGet, "/analytics/users", nil, &counts, true)
	return counts, err
}

// SessionAnalytics returns session counts grouped by status.
func (c *Client) SessionAnalytics(ctx context.Context) (map[string]int64, error) {
	var counts map[string]int64
	err := c.do(ctx, http.MethodGet, "/analytics/sessions", nil, &counts, true)
	return counts, err
}
