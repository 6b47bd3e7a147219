// Package client wraps the task service HTTP API for presentation layers.
// It attaches the current session's bearer token to every request, falls
// back to the public anonymous credential, and retries exactly once with
// that credential when a request is rejected as unauthorized.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/internal/infrastructure/identity"
)

const defaultTimeout = 10 * time.Second

// Config configures the API client.
type Config struct {
	BaseURL     string // task service base, e.g. https://host/api/v1
	AnonKey     string // public anonymous credential
	IdentityURL string // identity provider base URL, used for login
	Timeout     time.Duration
	Dial        fasthttp.DialFunc // optional, mainly for tests
}

// APIError is a non-2xx response translated into an error. Message is
// best-effort from the body, falling back to the HTTP status text.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether the error is a 401 that survived the retry.
func (e *APIError) IsUnauthorized() bool {
	return e.Status == http.StatusUnauthorized
}

type session struct {
	token     string
	expiresAt time.Time
}

func (s *session) valid(now time.Time) bool {
	return s != nil && s.token != "" && (s.expiresAt.IsZero() || now.Before(s.expiresAt))
}

// Client is a thread-safe task service API client.
type Client struct {
	cfg      Config
	http     *fasthttp.Client
	identity *identity.Client

	mu   sync.RWMutex
	sess *session
}

// New builds a client. The identity provider client is only exercised by
// Login and Signup; task calls go straight to the service.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			ReadTimeout:  cfg.Timeout,
			WriteTimeout: cfg.Timeout,
			Dial:         cfg.Dial,
		},
		identity: identity.NewClient(identity.Config{
			URL:     cfg.IdentityURL,
			AnonKey: cfg.AnonKey,
		}),
	}
}

// Login performs the provider password grant and caches the session token.
func (c *Client) Login(ctx context.Context, email, password string) error {
	sess, err := c.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	expiresAt := time.Time{}
	if sess.ExpiresIn > 0 {
		expiresAt = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	}
	c.SetSession(sess.AccessToken, expiresAt)
	return nil
}

// Signup creates an account through the service's auth gateway, then logs
// in with the same credentials.
func (c *Client) Signup(ctx context.Context, email, password, name string) error {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, "/signup", body, nil); err != nil {
		return err
	}
	return c.Login(ctx, email, password)
}

// SetSession installs an externally obtained bearer token.
func (c *Client) SetSession(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = &session{token: token, expiresAt: expiresAt}
}

// Logout discards the cached session; subsequent requests use the
// anonymous credential.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = nil
}

// ListTodos fetches all todos, newest first.
func (c *Client) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

// CreateTodo creates a todo and returns the server-confirmed record.
func (c *Client) CreateTodo(ctx context.Context, text string) (*domain.Todo, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}
	var todo domain.Todo
	if err := c.do(ctx, http.MethodPost, "/todos", body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo applies a partial update and returns the merged record.
func (c *Client) UpdateTodo(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error) {
	body, err := json.Marshal(update)
	if err != nil {
		return nil, err
	}
	var todo domain.Todo
	if err := c.do(ctx, http.MethodPut, "/todos/"+id, body, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// DeleteTodo removes a todo. The service acknowledges deletes of absent ids.
func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+id, nil, nil)
}

func (c *Client) credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.sess.valid(time.Now()) {
		return c.sess.token
	}
	return c.cfg.AnonKey
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) error {
	status, respBody, err := c.roundTrip(ctx, method, path, body, c.credential())
	if err != nil {
		return err
	}

	// One retry with the anonymous credential on an authorization failure.
	// Any other failure, or a failure on the retry itself, propagates as-is.
	if status == http.StatusUnauthorized {
		status, respBody, err = c.roundTrip(ctx, method, path, body, c.cfg.AnonKey)
		if err != nil {
			return err
		}
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return &APIError{Status: status, Message: extractMessage(respBody, status)}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte, token string) (int, []byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.BaseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.http.DoDeadline(req, resp, deadline)
	} else {
		err = c.http.DoTimeout(req, resp, c.cfg.Timeout)
	}
	if err != nil {
		return 0, nil, err
	}

	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}

func extractMessage(body []byte, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return http.StatusText(status)
}
