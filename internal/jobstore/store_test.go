package jobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/deploy-agent/internal/types"
)

func TestCreateAndGet(t *testing.T) {
	store := New()
	created := store.Create("job-1", "calc-42")

	assert.Equal(t, "job-1", created.JobID)
	assert.Equal(t, types.StateReceived, created.State)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.Get("calc-42")
	require.NoError(t, err)
	assert.Equal(t, "job-1", got.JobID)
}

func TestGet_Unknown(t *testing.T) {
	_, err := New().Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetState(t *testing.T) {
	store := New()
	store.Create("job-1", "calc-42")

	store.SetState("calc-42", types.StateProvisioning)

	got, err := store.Get("calc-42")
	require.NoError(t, err)
	assert.Equal(t, types.StateProvisioning, got.State)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestSetError(t *testing.T) {
	store := New()
	store.Create("job-1", "calc-42")

	store.SetError("calc-42", "push failed")

	got, err := store.Get("calc-42")
	require.NoError(t, err)
	assert.Equal(t, types.StateFailed, got.State)
	assert.Equal(t, "push failed", got.Error)
}

func TestUpdate_UnknownTaskIsIgnored(t *testing.T) {
	store := New()
	store.SetState("nope", types.StateDone)
	assert.Zero(t, store.Len())
}

func TestGet_ReturnsCopy(t *testing.T) {
	store := New()
	store.Create("job-1", "calc-42")

	got, err := store.Get("calc-42")
	require.NoError(t, err)
	got.State = types.StateFailed

	again, err := store.Get("calc-42")
	require.NoError(t, err)
	assert.Equal(t, types.StateReceived, again.State, "mutating a snapshot must not touch the stored record")
}

func TestCreate_ReplacesPreviousRecord(t *testing.T) {
	store := New()
	store.Create("job-1", "calc-42")
	store.SetState("calc-42", types.StateDone)

	store.Create("job-2", "calc-42")

	got, err := store.Get("calc-42")
	require.NoError(t, err)
	assert.Equal(t, "job-2", got.JobID)
	assert.Equal(t, types.StateReceived, got.State)
	assert.Equal(t, 1, store.Len())
}
