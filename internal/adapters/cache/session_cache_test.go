package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeSession struct{ name string }

func TestSessionCache_SetAndGet(t *testing.T) {
	c, err := NewSessionCache[*fakeSession](128, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	id := uuid.New()
	s := &fakeSession{name: "widget"}

	require.True(t, c.Set(id, s))

	got, ok := c.Get(id)
	require.True(t, ok)
	require.Same(t, s, got)
}

func TestSessionCache_GetMissWhenEmpty(t *testing.T) {
	c, err := NewSessionCache[*fakeSession](64, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	got, ok := c.Get(uuid.New())
	require.False(t, ok)
	require.Nil(t, got)
}

func TestSessionCache_DeleteEvictsOnlySpecifiedSession(t *testing.T) {
	c, err := NewSessionCache[*fakeSession](256, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	drop, keep := uuid.New(), uuid.New()
	c.Set(drop, &fakeSession{name: "drop"})
	c.Set(keep, &fakeSession{name: "keep"})

	c.Delete(drop)
	c.cache.Wait()

	_, ok := c.Get(drop)
	require.False(t, ok)
	got, ok := c.Get(keep)
	require.True(t, ok)
	require.Equal(t, "keep", got.name)
}

func TestSessionCache_ExpiresAfterTTL(t *testing.T) {
	c, err := NewSessionCache[*fakeSession](64, 50*time.Millisecond)
	require.NoError(t, err)
	defer c.Close()

	id := uuid.New()
	c.Set(id, &fakeSession{name: "short"})

	// poll the underlying cache: Get would slide the expiration forward
	require.Eventually(t, func() bool {
		_, ok := c.cache.Get(id.String())
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}

func TestNewSessionCache_RejectsNonPositiveSize(t *testing.T) {
	_, err := NewSessionCache[*fakeSession](0, time.Hour)
	require.Error(t, err)
}

func TestSessionCache_SetReportsSessionsNotAdmitted(t *testing.T) {
	c, err := NewSessionCache[*fakeSession](4, time.Hour)
	require.NoError(t, err)
	defer c.Close()

	for i := 0; i < 4; i++ {
		id := uuid.New()
		require.True(t, c.Set(id, &fakeSession{name: "hot"}))
		for j := 0; j < 5; j++ {
			_, ok := c.Get(id)
			require.True(t, ok)
		}
	}

	rejected := 0
	for i := 0; i < 20; i++ {
		id := uuid.New()
		stored := c.Set(id, &fakeSession{name: "new"})
		_, found := c.cache.Get(id.String())
		require.Equal(t, stored, found, "Set must only report sessions that Get can return")
		if !stored {
			rejected++
		}
	}
	require.Positive(t, rejected)
}
