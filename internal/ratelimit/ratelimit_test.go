// File: internal/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(window time.Duration, maxRequests int) *MemoryStore {
	return NewMemoryStore(&Config{
		WindowSize:    window,
		MaxRequests:   maxRequests,
		CleanupPeriod: time.Hour,
	})
}

func TestAllowWithinLimit(t *testing.T) {
	store := newTestStore(time.Hour, 5)
	defer store.Close()

	for i := 0; i < 5; i++ {
		assert.True(t, store.Allow("203.0.113.9"), "request %d should pass", i+1)
	}
}

func TestSixthRequestDenied(t *testing.T) {
	store := newTestStore(time.Hour, 5)
	defer store.Close()

	for i := 0; i < 5; i++ {
		require.True(t, store.Allow("203.0.113.9"))
	}
	assert.False(t, store.Allow("203.0.113.9"))
	// Denial does not consume the window for other identities.
	assert.True(t, store.Allow("203.0.113.10"))
}

func TestWindowResetAllowsAgain(t *testing.T) {
	store := newTestStore(30*time.Millisecond, 2)
	defer store.Close()

	require.True(t, store.Allow("a"))
	require.True(t, store.Allow("a"))
	require.False(t, store.Allow("a"))

	time.Sleep(50 * time.Millisecond)

	// First request after reset_at passes and restarts the window.
	assert.True(t, store.Allow("a"))
	assert.True(t, store.Allow("a"))
	assert.False(t, store.Allow("a"))
}

func TestRetryAfter(t *testing.T) {
	store := newTestStore(time.Hour, 1)
	defer store.Close()

	assert.Zero(t, store.RetryAfter("a"), "untracked identity has no wait")

	require.True(t, store.Allow("a"))
	retry := store.RetryAfter("a")
	assert.Greater(t, retry, time.Duration(0))
	assert.LessOrEqual(t, retry, time.Hour)
}

func TestCleanupRemovesExpiredEntries(t *testing.T) {
	store := newTestStore(10*time.Millisecond, 5)
	defer store.Close()

	store.Allow("a")
	store.Allow("b")
	time.Sleep(20 * time.Millisecond)
	store.cleanup()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.entries)
}

func TestConcurrentAccess(t *testing.T) {
	store := newTestStore(time.Hour, 100)
	defer store.Close()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, allowed)
}

func TestClientIdentity(t *testing.T) {
	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		r.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
		r.Header.Set("X-Real-IP", "198.51.100.2")
		assert.Equal(t, "198.51.100.1", ClientIdentity(r))
	})

	t.Run("falls back to X-Real-IP", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		r.Header.Set("X-Real-IP", "198.51.100.2")
		assert.Equal(t, "198.51.100.2", ClientIdentity(r))
	})

	t.Run("falls back to RemoteAddr", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		r.RemoteAddr = "192.0.2.7:4711"
		assert.Equal(t, "192.0.2.7", ClientIdentity(r))
	})

	t.Run("unknown when nothing usable", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/api/chat", nil)
		r.RemoteAddr = ""
		assert.Equal(t, UnknownIdentity, ClientIdentity(r))
	})
}
