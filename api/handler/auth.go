package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmaster/backend/api/transport"
	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/pkg/httpcontext"
	authUC "github.com/taskmaster/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// Signup handles POST /signup and returns the provider account descriptor.
func (h *AuthHandler) Signup(ctx *fasthttp.RequestCtx) {
	var req transport.SignupRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: domain.ErrInvalidPayload.Message})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	account, err := h.uc.Signup(stdCtx, req.Email, req.Password, req.Name)
	if err != nil {
		h.respondError(ctx, err, "Failed to create account")
		return
	}
	h.respondJSON(ctx, http.StatusOK, account)
}
