package repository

import (
	"context"

	"github.com/taskmaster/backend/domain"
)

// TodoRepository persists todos. List returns records in unspecified order;
// ordering is a service-level contract applied by the use case. Delete is
// idempotent: removing an absent id is not an error.
type TodoRepository interface {
	List(ctx context.Context) ([]domain.Todo, error)
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	Put(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id string) error
}
