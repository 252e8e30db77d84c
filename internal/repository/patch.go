package repository

import (
	"bytes"
	"encoding/json"
	"time"
)

// Patch is a tagged optional for partial updates. A field that is absent from
// the request body is Unchanged, a field set to JSON null is Cleared, and a
// field with a value is Set. This keeps "no change" and "remove the value"
// distinct without sentinel strings.
type Patch[T any] struct {
	set     bool
	cleared bool
	value   T
}

func Set[T any](v T) Patch[T] {
	return Patch[T]{set: true, value: v}
}

func Clear[T any]() Patch[T] {
	return Patch[T]{cleared: true}
}

func (p Patch[T]) IsUnchanged() bool { return !p.set && !p.cleared }

func (p Patch[T]) IsCleared() bool { return p.cleared }

// Get returns the new value; ok is false unless the patch is Set.
func (p Patch[T]) Get() (T, bool) { return p.value, p.set }

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// so an untouched Patch stays Unchanged.
func (p *Patch[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*p = Patch[T]{cleared: true}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Patch[T]{set: true, value: v}
	return nil
}

// CardPatch carries the updatable card attributes for a partial update.
type CardPatch struct {
	Title       Patch[string]    `json:"title"`
	Description Patch[string]    `json:"description"`
	Priority    Patch[Priority]  `json:"priority"`
	DueDate     Patch[time.Time] `json:"dueDate"`
	AssigneeID  Patch[int64]     `json:"assigneeId"`
}
