package todo

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/repository"
)

type UseCase struct {
	todos  repository.TodoRepository
	logger *zap.Logger
}

func New(todos repository.TodoRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		todos:  todos,
		logger: logger,
	}
}

// ListTodos returns every todo ordered by createdAt descending (newest
// first). The ordering is a service contract, not a storage guarantee.
func (uc *UseCase) ListTodos(ctx context.Context) ([]domain.Todo, error) {
	todos, err := uc.todos.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(todos, func(i, j int) bool {
		return todos[i].CreatedAt > todos[j].CreatedAt
	})
	return todos, nil
}

// CreateTodo validates the text, assigns the durable id and creation time,
// forces completed to false regardless of input and persists the record.
func (uc *UseCase) CreateTodo(ctx context.Context, text string) (*domain.Todo, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyText
	}

	todo := &domain.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: false,
		CreatedAt: domain.NowMillis(),
	}

	if err := uc.todos.Put(ctx, todo); err != nil {
		return nil, err
	}

	uc.logger.Debug("todo created", zap.String("id", todo.ID))
	return todo, nil
}

// UpdateTodo merges the supplied fields over the stored record and writes it
// back. The read-modify-write is not atomic; concurrent updates to the same
// id race and the later write wins.
func (uc *UseCase) UpdateTodo(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error) {
	existing, err := uc.todos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(existing)

	if err := uc.todos.Put(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteTodo removes the todo unconditionally. Deleting an absent id
// succeeds: delete is idempotent.
func (uc *UseCase) DeleteTodo(ctx context.Context, id string) error {
	return uc.todos.Delete(ctx, id)
}
