// Package domain holds the entities the service stores and the sparse
// change-sets used to mutate them.
package domain

import "time"

// Priority is the urgency bucket of a todo.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Todo is a single todo-list entry.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	Priority    Priority  `json:"priority"`
	DueDate     string    `json:"dueDate,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodoCreate carries the caller-supplied fields of a new todo. Identity,
// completion state and timestamps are assigned by the repository.
type TodoCreate struct {
	UserID      string
	Title       string
	Description string
	Priority    Priority
	DueDate     string
	Tags        []string
}

// TodoUpdate is a sparse change-set. A nil field means "leave as-is".
type TodoUpdate struct {
	Title       *string
	Description *string
	Completed   *bool
	Priority    *Priority
	DueDate     *string
	Tags        *[]string
}

// Changes lists the defined fields in declaration order.
func (u TodoUpdate) Changes() []Change {
	var changes []Change
	if u.Title != nil {
		changes = append(changes, Change{Field: "title", Value: *u.Title})
	}
	if u.Description != nil {
		changes = append(changes, Change{Field: "description", Value: *u.Description})
	}
	if u.Completed != nil {
		changes = append(changes, Change{Field: "completed", Value: *u.Completed})
	}
	if u.Priority != nil {
		changes = append(changes, Change{Field: "priority", Value: string(*u.Priority)})
	}
	if u.DueDate != nil {
		changes = append(changes, Change{Field: "dueDate", Value: *u.DueDate})
	}
	if u.Tags != nil {
		changes = append(changes, Change{Field: "tags", Value: *u.Tags})
	}
	return changes
}

// Apply copies the defined fields of u onto t. Timestamps are not touched.
func (u TodoUpdate) Apply(t *Todo) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Tags != nil {
		t.Tags = append([]string(nil), (*u.Tags)...)
	}
}
