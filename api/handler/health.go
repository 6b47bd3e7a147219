package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmaster/backend/api/transport"
	"github.com/taskmaster/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
}

func NewHealthHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
	}
}

// Check handles GET /health. The contract is a plain ok; store degradation
// is reported through the monitor's logs, not here.
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, transport.HealthResponse{Status: "ok"})
}
