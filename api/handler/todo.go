package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskmaster/backend/api/transport"
	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/pkg/httpcontext"
	todoUC "github.com/taskmaster/backend/usecase/todo"
)

type TodoHandler struct {
	baseHandler
	uc *todoUC.UseCase
}

func NewTodoHandler(uc *todoUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// ListTodos handles GET /todos. The response is a bare array sorted by
// createdAt descending.
func (h *TodoHandler) ListTodos(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	todos, err := h.uc.ListTodos(stdCtx)
	if err != nil {
		h.respondError(ctx, err, "Failed to fetch todos")
		return
	}
	h.respondJSON(ctx, http.StatusOK, todos)
}

// CreateTodo handles POST /todos.
func (h *TodoHandler) CreateTodo(ctx *fasthttp.RequestCtx) {
	var req transport.CreateTodoRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: domain.ErrInvalidPayload.Message})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTodo(stdCtx, req.Text)
	if err != nil {
		h.respondError(ctx, err, "Failed to create todo")
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// UpdateTodo handles PUT /todos/{id}. The body is a partial update;
// unspecified fields keep their stored values.
func (h *TodoHandler) UpdateTodo(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: "missing todo id"})
		return
	}

	var update domain.TodoUpdate
	if err := json.Unmarshal(ctx.PostBody(), &update); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: domain.ErrInvalidPayload.Message})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTodo(stdCtx, id, update)
	if err != nil {
		h.respondError(ctx, err, "Failed to update todo")
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// DeleteTodo handles DELETE /todos/{id}. Always acknowledges success unless
// storage itself fails.
func (h *TodoHandler) DeleteTodo(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.ErrorResponse{Error: "missing todo id"})
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTodo(stdCtx, id); err != nil {
		h.respondError(ctx, err, "Failed to delete todo")
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.DeleteResponse{Success: true})
}
