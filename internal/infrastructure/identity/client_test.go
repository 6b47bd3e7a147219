package identity

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/taskmaster/backend/domain"
)

func newProvider(t *testing.T, handler fasthttp.RequestHandler) *Client {
	t.Helper()

	ln := fasthttputil.NewInmemoryListener()
	server := &fasthttp.Server{Handler: handler}
	go server.Serve(ln) //nolint:errcheck
	t.Cleanup(func() {
		server.Shutdown() //nolint:errcheck
		ln.Close()
	})

	return NewClient(Config{
		URL:        "http://provider",
		AnonKey:    "anon-key",
		ServiceKey: "service-key",
		Dial: func(addr string) (net.Conn, error) {
			return ln.Dial()
		},
	})
}

func TestAdminCreateUser(t *testing.T) {
	provider := newProvider(t, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "/auth/v1/admin/users", string(ctx.Path()))
		assert.Equal(t, "Bearer service-key", string(ctx.Request.Header.Peek("Authorization")))

		var req map[string]interface{}
		require.NoError(t, json.Unmarshal(ctx.PostBody(), &req))
		assert.Equal(t, "user@example.com", req["email"])
		assert.Equal(t, true, req["email_confirm"], "accounts are created pre-confirmed")

		ctx.SetBodyString(`{"id":"acct-1","email":"user@example.com"}`)
	})

	account, err := provider.AdminCreateUser(context.Background(), "user@example.com", "hunter22", "User")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", account.ID)
}

func TestAdminCreateUserRejection(t *testing.T) {
	provider := newProvider(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusUnprocessableEntity)
		ctx.SetBodyString(`{"msg":"A user with this email address has already been registered"}`)
	})

	_, err := provider.AdminCreateUser(context.Background(), "dup@example.com", "secret", "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Contains(t, err.Error(), "already been registered")
}

func TestSignInWithPassword(t *testing.T) {
	provider := newProvider(t, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "/auth/v1/token", string(ctx.Path()))
		assert.Equal(t, "grant_type=password", string(ctx.QueryArgs().QueryString()))
		assert.Equal(t, "Bearer anon-key", string(ctx.Request.Header.Peek("Authorization")))

		ctx.SetBodyString(`{"access_token":"session-jwt","token_type":"bearer","expires_in":3600}`)
	})

	session, err := provider.SignInWithPassword(context.Background(), "user@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "session-jwt", session.AccessToken)
	assert.Equal(t, 3600, session.ExpiresIn)
}

func TestSignInWithPasswordBadCredentials(t *testing.T) {
	provider := newProvider(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusBadRequest)
		ctx.SetBodyString(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
	})

	_, err := provider.SignInWithPassword(context.Background(), "user@example.com", "wrong")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestProviderUnreachable(t *testing.T) {
	client := NewClient(Config{
		URL: "http://provider",
		Dial: func(addr string) (net.Conn, error) {
			return nil, net.ErrClosed
		},
	})

	_, err := client.SignInWithPassword(context.Background(), "a@b.c", "pw")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInternal))
}
