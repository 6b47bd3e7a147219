package identity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/taskmaster/backend/domain"
)

const defaultTimeout = 10 * time.Second

// Config mirrors config.IdentityConfig without importing the config package.
type Config struct {
	URL        string // provider base URL, e.g. https://<project>.example.co
	AnonKey    string // public anonymous credential
	ServiceKey string // privileged service-role credential, never exposed to clients

	Dial fasthttp.DialFunc // optional, mainly for tests
}

// Client talks to the external identity provider's auth API. Login uses the
// standard password grant; signup goes through the administrative endpoint so
// the account is created with email confirmation pre-satisfied.
type Client struct {
	cfg  Config
	http *fasthttp.Client
}

// Account is the provider's account descriptor returned on signup.
type Account struct {
	ID           string            `json:"id"`
	Email        string            `json:"email"`
	CreatedAt    string            `json:"created_at,omitempty"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

// Session is an issued bearer credential with its expiry.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// NewClient builds an identity provider client.
func NewClient(cfg Config) *Client {
	return &Client{
		cfg: cfg,
		http: &fasthttp.Client{
			ReadTimeout:  defaultTimeout,
			WriteTimeout: defaultTimeout,
			Dial:         cfg.Dial,
		},
	}
}

type createUserRequest struct {
	Email        string            `json:"email"`
	Password     string            `json:"password"`
	EmailConfirm bool              `json:"email_confirm"`
	UserMetadata map[string]string `json:"user_metadata,omitempty"`
}

// AdminCreateUser provisions a pre-confirmed account using the service-role
// credential. Provider rejections (duplicate email, weak password) come back
// as INVALID domain errors so the handler maps them to 400.
func (c *Client) AdminCreateUser(ctx context.Context, email, password, name string) (*Account, error) {
	payload := createUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
	}
	if name != "" {
		payload.UserMetadata = map[string]string{"name": name}
	}

	var account Account
	if err := c.post(ctx, "/auth/v1/admin/users", c.cfg.ServiceKey, payload, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInWithPassword performs the provider's password-grant flow using the
// public anonymous credential. Credential checking stays entirely on the
// provider side.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	if err := c.post(ctx, "/auth/v1/token?grant_type=password", c.cfg.AnonKey, passwordGrantRequest{
		Email:    email,
		Password: password,
	}, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) post(ctx context.Context, path, credential string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to encode provider request", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.cfg.URL + path)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("apikey", credential)
	req.SetBody(body)

	if err := c.do(ctx, req, resp); err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "identity provider unreachable", err)
	}

	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		message := extractProviderError(resp.Body())
		if status >= fasthttp.StatusBadRequest && status < fasthttp.StatusInternalServerError {
			return domain.NewError(domain.ErrCodeInvalid, message)
		}
		return domain.NewError(domain.ErrCodeInternal, message)
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return domain.WrapError(domain.ErrCodeInternal, "malformed provider response", err)
		}
	}
	return nil
}

func (c *Client) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if deadline, ok := ctx.Deadline(); ok {
		return c.http.DoDeadline(req, resp, deadline)
	}
	return c.http.DoTimeout(req, resp, defaultTimeout)
}

// providerError covers the error body shapes the provider is known to emit.
type providerError struct {
	Message          string `json:"msg"`
	ErrorText        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func extractProviderError(body []byte) string {
	var pe providerError
	if err := json.Unmarshal(body, &pe); err == nil {
		switch {
		case pe.Message != "":
			return pe.Message
		case pe.ErrorDescription != "":
			return pe.ErrorDescription
		case pe.ErrorText != "":
			return pe.ErrorText
		}
	}
	return "identity provider request failed"
}
