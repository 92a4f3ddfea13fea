package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	v, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, m.Set(ctx, "k", "v", 0))
	v, _ = m.Get(ctx, "k")
	assert.Equal(t, "v", v)

	require.NoError(t, m.Delete(ctx, "k"))
	v, _ = m.Get(ctx, "k")
	assert.Empty(t, v)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "code", "123456", time.Minute))
	now = now.Add(59 * time.Second)
	v, _ := m.Get(ctx, "code")
	assert.Equal(t, "123456", v)

	now = now.Add(time.Second)
	v, _ = m.Get(ctx, "code")
	assert.Empty(t, v)
}

func TestMemoryIncrWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.now = func() time.Time { return now }

	for i := int64(1); i <= 3; i++ {
		n, err := m.Incr(ctx, "login:a@b.c", 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	// The window is fixed from the first increment.
	now = now.Add(15 * time.Minute)
	n, err := m.Incr(ctx, "login:a@b.c", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
