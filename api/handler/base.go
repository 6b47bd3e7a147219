package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmaster/backend/api/transport"
	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

// respondError maps the domain error to an HTTP status. Validation and
// not-found errors keep their own message; storage and internal faults are
// collapsed into the handler-supplied generic one so internals never leak.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error, internalMessage string) {
	status := mapError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error(internalMessage, zap.Error(err))
		message = internalMessage
	}
	h.respondJSON(ctx, status, transport.ErrorResponse{Error: message})
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
