package session_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/mealmate/internal/domain"
	"github.com/pkordes/mealmate/internal/session"
)

func TestRegistry_PutGetTake(t *testing.T) {
	r := session.NewRegistry[string]("note", discardLogger())
	id := uuid.New()

	r.Put(id, "hello")
	got, err := r.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, 1, r.Len())

	taken, err := r.Take(id)
	require.NoError(t, err)
	assert.Equal(t, "hello", taken)
	assert.Equal(t, 0, r.Len())

	_, err = r.Get(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = r.Take(id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_Drain(t *testing.T) {
	r := session.NewRegistry[int]("n", discardLogger())
	r.Put(uuid.New(), 1)
	r.Put(uuid.New(), 2)

	got := r.Drain()

	assert.ElementsMatch(t, []int{1, 2}, got)
	assert.Equal(t, 0, r.Len())
}
