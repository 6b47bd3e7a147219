// Package syncer keeps a client-side todo collection in sync with the
// remote task service using optimistic updates: every mutation applies to
// local state first, confirms remotely, and reverts from a pre-mutation
// snapshot if the remote call fails.
package syncer

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskmaster/backend/domain"
)

// API is the slice of the task service client the engine needs.
type API interface {
	ListTodos(ctx context.Context) ([]domain.Todo, error)
	CreateTodo(ctx context.Context, text string) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, id string, update domain.TodoUpdate) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, id string) error
}

// Syncer owns the authoritative client-side todo collection for a session,
// plus the selected todo id and the active filter. Mutations apply
// synchronously; remote confirmation and reconciliation run on a goroutine
// tracked by Wait.
type Syncer struct {
	api    API
	notify Notifier
	logger *zap.Logger

	mu         sync.Mutex
	todos      []domain.Todo
	filter     domain.Filter
	selectedID string

	wg sync.WaitGroup
}

// New creates a sync engine over the given API client.
func New(api API, notify Notifier, logger *zap.Logger) *Syncer {
	if notify == nil {
		notify = nopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{
		api:    api,
		notify: notify,
		logger: logger,
		filter: domain.FilterAll,
	}
}

// Load replaces local state with the remote collection. On failure the
// caller keeps whatever state it had and may retry manually.
func (s *Syncer) Load(ctx context.Context) error {
	todos, err := s.api.ListTodos(ctx)
	if err != nil {
		s.logger.Warn("initial load failed", zap.Error(err))
		s.notify.Error("Failed to load tasks")
		return err
	}

	s.mu.Lock()
	s.todos = todos
	s.mu.Unlock()
	return nil
}

// Add creates a todo optimistically: a temporary-id entry is prepended
// immediately, then swapped for the server-confirmed record. If the remote
// create fails the temporary entry is removed entirely.
func (s *Syncer) Add(ctx context.Context, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	temp := domain.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: false,
		CreatedAt: domain.NowMillis(),
	}

	s.mu.Lock()
	s.todos = append([]domain.Todo{temp}, s.todos...)
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		created, err := s.api.CreateTodo(ctx, text)

		s.mu.Lock()
		i := s.indexOf(temp.ID)
		if err != nil {
			if i >= 0 {
				s.todos = append(s.todos[:i], s.todos[i+1:]...)
			}
			s.mu.Unlock()
			s.logger.Warn("create failed", zap.Error(err))
			s.notify.Error("Failed to add task")
			return
		}
		if i >= 0 {
			s.todos[i] = *created
			if s.selectedID == temp.ID {
				s.selectedID = created.ID
			}
		}
		s.mu.Unlock()
		s.notify.Success("Task added")
	}()
}

// Update applies a partial update optimistically and reverts the single
// entity to its pre-mutation snapshot if the remote call fails. An unknown
// id is a silent no-op.
func (s *Syncer) Update(ctx context.Context, id string, update domain.TodoUpdate) {
	s.update(ctx, id, update, false)
}

// Toggle flips the completed flag immediately, without debounce.
func (s *Syncer) Toggle(ctx context.Context, id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	next := !s.todos[i].Completed
	s.mu.Unlock()

	s.update(ctx, id, domain.TodoUpdate{Completed: &next}, false)
}

func (s *Syncer) update(ctx context.Context, id string, update domain.TodoUpdate, silent bool) {
	if update.IsZero() {
		return
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.todos[i]
	update.Apply(&s.todos[i])
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if _, err := s.api.UpdateTodo(ctx, id, update); err != nil {
			s.mu.Lock()
			if j := s.indexOf(id); j >= 0 {
				s.todos[j] = snapshot
			}
			s.mu.Unlock()
			s.logger.Warn("update failed", zap.String("id", id), zap.Error(err))
			s.notify.Error("Failed to save changes")
			return
		}
		// Local state is already correct; the merged server record adds
		// nothing under last-write-wins.
		if !silent {
			s.notify.Success("Changes saved")
		}
	}()
}

// Delete removes a todo optimistically. On remote failure the entry is
// re-inserted and the collection re-sorted so it returns to its
// createdAt-descending position. An unknown id is a silent no-op.
func (s *Syncer) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	snapshot := s.todos[i]
	s.todos = append(s.todos[:i], s.todos[i+1:]...)
	if s.selectedID == id {
		s.selectedID = ""
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := s.api.DeleteTodo(ctx, id); err != nil {
			s.mu.Lock()
			s.todos = append(s.todos, snapshot)
			sort.SliceStable(s.todos, func(a, b int) bool {
				return s.todos[a].CreatedAt > s.todos[b].CreatedAt
			})
			s.mu.Unlock()
			s.logger.Warn("delete failed", zap.String("id", id), zap.Error(err))
			s.notify.Error("Failed to delete task")
			return
		}
		s.notify.Success("Task deleted")
	}()
}

// Todos returns a snapshot of the full collection.
func (s *Syncer) Todos() []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Todo(nil), s.todos...)
}

// Filtered returns the collection restricted to the active filter. The view
// is recomputed on every call; nothing is cached.
func (s *Syncer) Filtered() []domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Todo
	for _, t := range s.todos {
		if s.filter.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Counts derives the per-filter totals from current state.
func (s *Syncer) Counts() domain.Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := domain.Counts{All: len(s.todos)}
	for _, t := range s.todos {
		if t.Completed {
			counts.Completed++
		} else {
			counts.Active++
		}
	}
	return counts
}

// SetFilter switches the active view.
func (s *Syncer) SetFilter(f domain.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Filter returns the active filter.
func (s *Syncer) Filter() domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Select marks a todo as the one open in the detail view.
func (s *Syncer) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedID = id
}

// Selected returns a copy of the selected todo, or nil when none is
// selected or it has left the collection.
func (s *Syncer) Selected() *domain.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == "" {
		return nil
	}
	if i := s.indexOf(s.selectedID); i >= 0 {
		todo := s.todos[i]
		return &todo
	}
	return nil
}

// Wait blocks until all in-flight confirmations have reconciled. Intended
// for teardown and tests.
func (s *Syncer) Wait() {
	s.wg.Wait()
}

// indexOf must be called with s.mu held.
func (s *Syncer) indexOf(id string) int {
	for i := range s.todos {
		if s.todos[i].ID == id {
			return i
		}
	}
	return -1
}
