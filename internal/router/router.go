package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskmaster/backend/api/handler"
)

type Handlers struct {
	Todo   *apiHandler.TodoHandler
	Auth   *apiHandler.AuthHandler
	Health *apiHandler.HealthHandler
}

// New builds the route table under the fixed base path. Health and signup
// stay outside the bearer-token middleware: signup is how a token is first
// obtained, and health is for infrastructure probes.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler, basePath string) *router.Router {
	r := router.New()
	g := r.Group(basePath)

	g.GET("/health", handlers.Health.Check)
	g.POST("/signup", handlers.Auth.Signup)

	g.GET("/todos", authMiddleware(handlers.Todo.ListTodos))
	g.POST("/todos", authMiddleware(handlers.Todo.CreateTodo))
	g.PUT("/todos/{id}", authMiddleware(handlers.Todo.UpdateTodo))
	g.DELETE("/todos/{id}", authMiddleware(handlers.Todo.DeleteTodo))

	return r
}
