package kvrepo

import (
	"context"
	"encoding/json"

	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/internal/infrastructure/kv"
	"github.com/taskmaster/backend/repository"
)

const todoPrefix = "todo:"

type todoRepository struct {
	store kv.Store
}

// NewTodoRepository creates a key-value backed todo repository. Records live
// at "todo:<id>" as full Todo JSON; the prefix scan is the only query pattern.
func NewTodoRepository(store kv.Store) repository.TodoRepository {
	return &todoRepository{store: store}
}

func (r *todoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	values, err := r.store.GetByPrefix(ctx, todoPrefix)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to scan todos", err)
	}

	todos := make([]domain.Todo, 0, len(values))
	for _, value := range values {
		var todo domain.Todo
		if err := json.Unmarshal(value, &todo); err != nil {
			return nil, domain.WrapError(domain.ErrCodeStorage, "corrupt todo record", err)
		}
		todos = append(todos, todo)
	}
	return todos, nil
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	value, err := r.store.Get(ctx, r.key(id))
	if err != nil {
		if kv.IsNotFound(err) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, domain.WrapError(domain.ErrCodeStorage, "failed to read todo", err)
	}

	var todo domain.Todo
	if err := json.Unmarshal(value, &todo); err != nil {
		return nil, domain.WrapError(domain.ErrCodeStorage, "corrupt todo record", err)
	}
	return &todo, nil
}

func (r *todoRepository) Put(ctx context.Context, todo *domain.Todo) error {
	if todo == nil || todo.ID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(todo)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to encode todo", err)
	}
	if err := r.store.Set(ctx, r.key(todo.ID), payload); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to write todo", err)
	}
	return nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, r.key(id)); err != nil {
		return domain.WrapError(domain.ErrCodeStorage, "failed to delete todo", err)
	}
	return nil
}

func (r *todoRepository) key(id string) string {
	return todoPrefix + id
}
