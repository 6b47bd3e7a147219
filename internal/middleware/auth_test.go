package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const testSecret = "test-signing-secret"

func signedToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "anon",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "valid token passes",
			authHeader: "Bearer " + signedToken(t, testSecret),
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "missing header rejected",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "garbage token rejected",
			authHeader: "Bearer not-a-jwt",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong signature rejected",
			authHeader: "Bearer " + signedToken(t, "some-other-secret"),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nextCalled bool
			handler := BearerAuth(testSecret, nil)(func(ctx *fasthttp.RequestCtx) {
				nextCalled = true
				ctx.SetStatusCode(http.StatusOK)
			})

			var ctx fasthttp.RequestCtx
			ctx.Request.Header.SetMethod(http.MethodGet)
			ctx.Request.SetRequestURI("/api/v1/todos")
			if tt.authHeader != "" {
				ctx.Request.Header.Set("Authorization", tt.authHeader)
			}

			handler(&ctx)

			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := CORS(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusOK)
		ctx.SetBodyString("handled")
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(http.MethodOptions)
	ctx.Request.SetRequestURI("/api/v1/todos")

	handler(&ctx)

	assert.Equal(t, http.StatusNoContent, ctx.Response.StatusCode())
	assert.Empty(t, ctx.Response.Body(), "preflight must not reach the handler")
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
	assert.Equal(t, "600", string(ctx.Response.Header.Peek("Access-Control-Max-Age")))
}

func TestCORSPassesThroughRequests(t *testing.T) {
	handler := CORS(func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(http.StatusOK)
		ctx.SetBodyString("handled")
	})

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(http.MethodGet)
	ctx.Request.SetRequestURI("/api/v1/todos")

	handler(&ctx)

	assert.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "handled", string(ctx.Response.Body()))
	assert.Equal(t, "*", string(ctx.Response.Header.Peek("Access-Control-Allow-Origin")))
}
