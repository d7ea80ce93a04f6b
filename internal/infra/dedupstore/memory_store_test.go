package dedupstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReserveMarkAndExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 9, 20, 10, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	ok, err := store.Reserve(ctx, "abc", 10*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.Reserve(ctx, "abc", 10*time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.MarkSent(ctx, "abc", time.Hour))
	now = now.Add(30 * time.Minute)
	ok, err = store.Reserve(ctx, "abc", 10*time.Minute)
	require.NoError(t, err)
	require.False(t, ok, "marker outlives the reservation ttl")

	now = now.Add(time.Hour)
	ok, err = store.Reserve(ctx, "abc", 10*time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStoreRelease(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ok, err := store.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(ctx, "k"))
	ok, err = store.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestMemoryStoreWithoutTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.MarkSent(ctx, "k", 0))
	now = now.Add(24 * 365 * time.Hour)
	ok, err := store.Reserve(ctx, "k", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreReserveIsExclusive(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := store.Reserve(ctx, "same", time.Minute)
			if err == nil && ok {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, winners)
}
