// Package client is a Go client for the postboard REST API. It keeps
// the session token issued at login and attaches it as a bearer header
// to every subsequent request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/jmartell/postboard-be/internal/models"
)

// Failures surfaced to callers so they can react to session state.
var (
	// ErrUnauthenticated means no token is held or the server rejected
	// the request with 401; the caller should log in (again).
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden means the held token was rejected as invalid or
	// expired; the session should be discarded.
	ErrForbidden = errors.New("token rejected")
)

// APIError is any other non-success response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Client talks to a postboard server. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// New creates a Client for the API at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}

// Token returns the currently held session token, empty if logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Logout discards the held token. The token itself stays valid on the
// server until it expires; discarding it is all a client can do.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	return c.do(ctx, http.MethodPost, "/api/register", body, false, nil)
}

// Login authenticates and stores the returned session token.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, false, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.token = resp.Token
	c.mu.Unlock()
	return nil
}

// Profile fetches the authenticated user's record.
func (c *Client) Profile(ctx context.Context) (models.User, error) {
	var user models.User
	err := c.do(ctx, http.MethodGet, "/api/profile", nil, true, &user)
	return user, err
}

// CreatePost creates a post owned by the authenticated user.
func (c *Client) CreatePost(ctx context.Context, title, content string) (models.Post, error) {
	var post models.Post
	body := map[string]string{"title": title, "content": content}
	err := c.do(ctx, http.MethodPost, "/api/posts", body, true, &post)
	return post, err
}

// ListPosts fetches the global feed.
func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.do(ctx, http.MethodGet, "/api/posts", nil, true, &posts)
	return posts, err
}

// UpdatePost replaces a post's title and content.
func (c *Client) UpdatePost(ctx context.Context, id, title, content string) (models.Post, error) {
	var post models.Post
	body := map[string]string{"title": title, "content": content}
	err := c.do(ctx, http.MethodPut, "/api/posts/"+id, body, true, &post)
	return post, err
}

// DeletePost removes a post by id.
func (c *Client) DeletePost(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/posts/"+id, nil, true, nil)
}

// do performs one request. When authed is set, the held token is
// attached; a missing token fails fast with ErrUnauthenticated without
// a round trip. A 401 response also clears the held token.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, authed bool, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		token := c.Token()
		if token == "" {
			return ErrUnauthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusUnauthorized:
		c.Logout()
		return ErrUnauthenticated
	case resp.StatusCode == http.StatusForbidden:
		return ErrForbidden
	default:
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return &APIError{StatusCode: resp.StatusCode, Message: msg.Message}
	}
}
