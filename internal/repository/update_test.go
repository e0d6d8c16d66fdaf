package repository

import (
	"testing"
	"time"

	"todo-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateBuilder_EmptyIsNoOp(t *testing.T) {
	u, ok := NewUpdateBuilder().Build(time.Now())

	assert.False(t, ok)
	assert.Empty(t, u.Clauses)
}

func TestUpdateBuilder_OnlyImmutableFieldsIsNoOp(t *testing.T) {
	b := NewUpdateBuilder().
		Set("id", "other").
		Set("createdAt", time.Now()).
		Set(UpdatedAtField, time.Now())

	_, ok := b.Build(time.Now())

	assert.False(t, ok)
	assert.Zero(t, b.Len())
}

func TestUpdateBuilder_PositionalPlaceholders(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	u, ok := NewUpdateBuilder().SetAll([]domain.Change{
		{Field: "title", Value: "Buy milk"},
		{Field: "completed", Value: true},
	}).Build(at)

	require.True(t, ok)
	assert.Equal(t, []string{"#f0 = :v0", "#f1 = :v1", "#updatedAt = :updatedAt"}, u.Clauses)
	assert.Equal(t, map[string]string{
		"#f0":        "title",
		"#f1":        "completed",
		"#updatedAt": "updatedAt",
	}, u.Names)
	assert.Equal(t, map[string]any{
		":v0":        "Buy milk",
		":v1":        true,
		":updatedAt": at,
	}, u.Values)
	assert.Equal(t, "SET #f0 = :v0, #f1 = :v1, #updatedAt = :updatedAt", u.Expression())
}

func TestUpdateBuilder_ReservedWordFieldsGoThroughPlaceholders(t *testing.T) {
	u, ok := NewUpdateBuilder().Set("name", "x").Set("status", "y").Build(time.Now())

	require.True(t, ok)
	for _, clause := range u.Clauses {
		assert.NotContains(t, clause, "name")
		assert.NotContains(t, clause, "status")
	}
}

func TestUpdateBuilder_RepeatedFieldKeepsFirstPositionLastValue(t *testing.T) {
	u, ok := NewUpdateBuilder().
		Set("title", "first").
		Set("priority", "high").
		Set("title", "second").
		Build(time.Now())

	require.True(t, ok)
	assert.Len(t, u.Clauses, 3)
	assert.Equal(t, "title", u.Names["#f0"])
	assert.Equal(t, "second", u.Values[":v0"])
	assert.Equal(t, "priority", u.Names["#f1"])
}

func TestUpdateBuilder_TimestampClauseAlwaysLast(t *testing.T) {
	u, ok := NewUpdateBuilder().Set("tags", []string{"a"}).Build(time.Now())

	require.True(t, ok)
	assert.Equal(t, "#updatedAt = :updatedAt", u.Clauses[len(u.Clauses)-1])
}

func TestNextModification(t *testing.T) {
	prev := time.Date(2026, 10, 17, 9, 30, 0, int(5*time.Millisecond), time.UTC)

	t.Run("clock moved forward", func(t *testing.T) {
		now := prev.Add(time.Second)
		assert.Equal(t, now, NextModification(now, prev))
	})

	t.Run("clock did not move at stored precision", func(t *testing.T) {
		now := prev.Add(300 * time.Microsecond)
		assert.Equal(t, prev.Add(time.Millisecond), NextModification(now, prev))
	})

	t.Run("clock went backwards", func(t *testing.T) {
		now := prev.Add(-time.Hour)
		assert.True(t, NextModification(now, prev).After(prev))
	})
}

func TestEffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, EffectiveLimit(0))
	assert.Equal(t, DefaultPageSize, EffectiveLimit(-3))
	assert.Equal(t, 10, EffectiveLimit(10))
	assert.Equal(t, MaxPageSize, EffectiveLimit(MaxPageSize+1))
}
