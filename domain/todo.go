package domain

import "time"

// Todo represents a single task item.
//
// CreatedAt is milliseconds since the Unix epoch and never changes after
// creation. IDs are opaque: the server assigns a durable one on create, the
// sync engine uses a temporary one until the create is confirmed.
type Todo struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	CreatedAt   int64  `json:"createdAt"`
}

// TodoUpdate is a partial update. Nil fields are left untouched by Apply,
// which keeps the merge semantics of the update endpoint statically checkable.
type TodoUpdate struct {
	Text        *string `json:"text,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// Apply merges the update over the todo, field by field.
func (u TodoUpdate) Apply(t *Todo) {
	if t == nil {
		return
	}
	if u.Text != nil {
		t.Text = *u.Text
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
}

// IsZero reports whether the update carries no fields at all.
func (u TodoUpdate) IsZero() bool {
	return u.Text == nil && u.Description == nil && u.Completed == nil
}

// NowMillis returns the current wall clock as epoch milliseconds, the unit
// used for Todo.CreatedAt throughout the API.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Filter selects a view over the todo collection.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Matches reports whether the todo belongs to the filtered view.
func (f Filter) Matches(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Counts summarizes a todo collection per filter bucket.
type Counts struct {
	All       int `json:"all"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
}
