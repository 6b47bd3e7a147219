package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/taskmaster/backend/domain"
)

// DefaultDebounce is the quiet period before an edited field is saved.
const DefaultDebounce = time.Second

type editField string

const (
	fieldText        editField = "text"
	fieldDescription editField = "description"
)

// Editor owns the detail-view editing session for one todo. Keystrokes
// update local display state immediately and arm a per-field debounce
// timer; only the timer's expiry issues the remote update, carrying the
// latest value for that field. Toggling completed bypasses the debounce.
//
// Close cancels all pending timers and must be called on every exit path
// from the detail view so no stale timer fires after the session ends.
type Editor struct {
	ctx    context.Context
	syncer *Syncer
	todoID string
	delay  time.Duration

	mu     sync.Mutex
	closed bool
	timers map[editField]*time.Timer

	text        string
	description string
}

// NewEditor starts an editing session for the given todo. A non-positive
// delay falls back to DefaultDebounce.
func NewEditor(ctx context.Context, s *Syncer, todoID string, delay time.Duration) *Editor {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	e := &Editor{
		ctx:    ctx,
		syncer: s,
		todoID: todoID,
		delay:  delay,
		timers: make(map[editField]*time.Timer),
	}

	if todo := s.Selected(); todo != nil && todo.ID == todoID {
		e.text = todo.Text
		e.description = todo.Description
	}
	return e
}

// SetText records a text keystroke and restarts the text debounce timer.
func (e *Editor) SetText(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.text = value
	e.arm(fieldText, value)
}

// SetDescription records a description keystroke and restarts its timer.
func (e *Editor) SetDescription(value string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.description = value
	e.arm(fieldDescription, value)
}

// Text returns the local display value for the text field.
func (e *Editor) Text() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text
}

// Description returns the local display value for the description field.
func (e *Editor) Description() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.description
}

// ToggleCompleted flips the completed flag immediately. Binary state gains
// nothing from debouncing.
func (e *Editor) ToggleCompleted() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.mu.Unlock()
	e.syncer.Toggle(e.ctx, e.todoID)
}

// Close ends the session and cancels every pending timer. Safe to call
// more than once.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for field, timer := range e.timers {
		timer.Stop()
		delete(e.timers, field)
	}
}

// arm must be called with e.mu held. A new keystroke before expiry cancels
// and restarts the field's timer, so a pause in typing of at least the
// debounce period produces exactly one remote update per field.
func (e *Editor) arm(field editField, value string) {
	if timer, ok := e.timers[field]; ok {
		timer.Stop()
	}
	e.timers[field] = time.AfterFunc(e.delay, func() {
		e.fire(field, value)
	})
}

func (e *Editor) fire(field editField, value string) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	delete(e.timers, field)
	e.mu.Unlock()

	var update domain.TodoUpdate
	switch field {
	case fieldText:
		update.Text = &value
	case fieldDescription:
		update.Description = &value
	}

	// Auto-saves stay silent on success to avoid notification spam.
	e.syncer.update(e.ctx, e.todoID, update, true)
}
