package repository

import (
	"fmt"
	"strings"
	"time"

	"todo-backend/internal/domain"
)

// UpdatedAtField is the modification timestamp every update refreshes.
const UpdatedAtField = "updatedAt"

// Fields the builder never assigns from a change-set.
var immutableFields = map[string]bool{
	"id":           true,
	"createdAt":    true,
	UpdatedAtField: true,
}

// Update is a rendered partial-update instruction. Attribute names and
// values are referenced through placeholders so stored field names never
// collide with reserved words of the store's expression language.
type Update struct {
	Clauses []string
	Names   map[string]string
	Values  map[string]any
}

// Expression renders the SET expression.
func (u Update) Expression() string {
	return "SET " + strings.Join(u.Clauses, ", ")
}

// UpdateBuilder accumulates field assignments in insertion order.
type UpdateBuilder struct {
	fields []string
	values []any
	index  map[string]int
}

// NewUpdateBuilder returns an empty builder.
func NewUpdateBuilder() *UpdateBuilder {
	return &UpdateBuilder{index: make(map[string]int)}
}

// Set records a new value for field. Setting a field twice keeps its first
// position and the last value. Identity and timestamp fields are ignored.
func (b *UpdateBuilder) Set(field string, value any) *UpdateBuilder {
	if immutableFields[field] {
		return b
	}
	if i, ok := b.index[field]; ok {
		b.values[i] = value
		return b
	}
	b.index[field] = len(b.fields)
	b.fields = append(b.fields, field)
	b.values = append(b.values, value)
	return b
}

// SetAll records every change in order.
func (b *UpdateBuilder) SetAll(changes []domain.Change) *UpdateBuilder {
	for _, c := range changes {
		b.Set(c.Field, c.Value)
	}
	return b
}

// Len is the number of distinct fields recorded so far.
func (b *UpdateBuilder) Len() int {
	return len(b.fields)
}

// Build renders the instruction, appending the modification timestamp
// clause last. ok is false when no field was recorded; callers must then
// skip the write entirely rather than issue a timestamp-only update.
func (b *UpdateBuilder) Build(modifiedAt time.Time) (u Update, ok bool) {
	if len(b.fields) == 0 {
		return Update{}, false
	}

	u = Update{
		Clauses: make([]string, 0, len(b.fields)+1),
		Names:   make(map[string]string, len(b.fields)+1),
		Values:  make(map[string]any, len(b.fields)+1),
	}
	for i, field := range b.fields {
		name := fmt.Sprintf("#f%d", i)
		value := fmt.Sprintf(":v%d", i)
		u.Clauses = append(u.Clauses, name+" = "+value)
		u.Names[name] = field
		u.Values[value] = b.values[i]
	}

	u.Clauses = append(u.Clauses, "#"+UpdatedAtField+" = :"+UpdatedAtField)
	u.Names["#"+UpdatedAtField] = UpdatedAtField
	u.Values[":"+UpdatedAtField] = modifiedAt
	return u, true
}

// NextModification returns the timestamp to stamp on an update so that it
// is strictly after previous even when the clock has not advanced past it
// at the stored precision.
func NextModification(now, previous time.Time) time.Time {
	now = now.UTC().Truncate(time.Millisecond)
	if !now.After(previous) {
		return previous.Add(time.Millisecond)
	}
	return now
}
