package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/backend/api/transport"
	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/internal/infrastructure/identity"
	authUC "github.com/taskmaster/backend/usecase/auth"
)

type stubProvider struct {
	err error
}

func (s *stubProvider) AdminCreateUser(ctx context.Context, email, password, name string) (*identity.Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &identity.Account{ID: "acct-1", Email: email}, nil
}

func newAuthHandler(provider authUC.Provider) *AuthHandler {
	return NewAuthHandler(authUC.New(provider, nil), nil, nil)
}

func TestSignupHandler(t *testing.T) {
	h := newAuthHandler(&stubProvider{})

	ctx := invoke(h.Signup, http.MethodPost, "/api/v1/signup", []byte(`{"email":"user@example.com","password":"hunter22"}`), nil)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())

	var account identity.Account
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &account))
	assert.Equal(t, "acct-1", account.ID)
	assert.Equal(t, "user@example.com", account.Email)
}

func TestSignupHandlerValidation(t *testing.T) {
	h := newAuthHandler(&stubProvider{})

	tests := []struct {
		name string
		body []byte
	}{
		{"missing email", []byte(`{"password":"x"}`)},
		{"missing password", []byte(`{"email":"a@b.c"}`)},
		{"malformed json", []byte(`{"email"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := invoke(h.Signup, http.MethodPost, "/api/v1/signup", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
		})
	}
}

func TestSignupHandlerProviderRejection(t *testing.T) {
	h := newAuthHandler(&stubProvider{err: domain.NewError(domain.ErrCodeInvalid, "email already registered")})

	ctx := invoke(h.Signup, http.MethodPost, "/api/v1/signup", []byte(`{"email":"dup@b.c","password":"x"}`), nil)
	assert.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())

	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "email already registered", resp.Error)
}

func TestSignupHandlerProviderFault(t *testing.T) {
	h := newAuthHandler(&stubProvider{err: domain.NewError(domain.ErrCodeInternal, "identity provider unreachable")})

	ctx := invoke(h.Signup, http.MethodPost, "/api/v1/signup", []byte(`{"email":"a@b.c","password":"x"}`), nil)
	assert.Equal(t, http.StatusInternalServerError, ctx.Response.StatusCode())

	var resp transport.ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "Failed to create account", resp.Error, "internal detail must not leak")
}
