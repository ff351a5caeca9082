// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// UnknownIdentity is used when no caller address can be determined.
// All unidentified callers share one bucket.
const UnknownIdentity = "unknown"

// Store decides whether a request from the given identity is allowed.
// Implementations perform the check-and-increment atomically. The in-memory
// implementation below suits single-instance deployments; multi-instance
// deployments need a shared external counter behind the same interface.
type Store interface {
	Allow(identity string) bool
}

// Config holds rate limiting configuration
type Config struct {
	WindowSize    time.Duration // Time window for rate limiting
	MaxRequests   int           // Maximum requests per window
	CleanupPeriod time.Duration // How often to sweep stale entries
}

// DefaultChatConfig returns the limits used by the chat entry point.
func DefaultChatConfig() *Config {
	return &Config{
		WindowSize:    time.Hour,
		MaxRequests:   5,
		CleanupPeriod: 15 * time.Minute,
	}
}

// entry tracks the request count and window reset time for one identity.
type entry struct {
	Count   int
	ResetAt time.Time
}

// MemoryStore implements Store with a process-local map.
// State is lost on restart, which is acceptable for abuse mitigation
// but not for strict quota enforcement.
type MemoryStore struct {
	config  *Config
	entries map[string]*entry
	mu      sync.Mutex
	stopCh  chan struct{}
}

// NewMemoryStore creates an in-memory limiter and starts its sweep goroutine.
func NewMemoryStore(config *Config) *MemoryStore {
	store := &MemoryStore{
		config:  config,
		entries: make(map[string]*entry),
		stopCh:  make(chan struct{}),
	}

	go store.cleanupLoop()

	return store
}

// Allow reports whether a request from identity is within the limit,
// counting the request if so. First request in a window (re)initializes
// the entry with count 1.
func (s *MemoryStore) Allow(identity string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	record, exists := s.entries[identity]

	if !exists || now.After(record.ResetAt) {
		s.entries[identity] = &entry{
			Count:   1,
			ResetAt: now.Add(s.config.WindowSize),
		}
		return true
	}

	if record.Count >= s.config.MaxRequests {
		return false
	}

	record.Count++
	return true
}

// RetryAfter returns how long until the identity's window resets. Zero
// means the identity is not currently tracked or its window has expired.
func (s *MemoryStore) RetryAfter(identity string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.entries[identity]
	if !exists {
		return 0
	}
	remaining := time.Until(record.ResetAt)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// cleanupLoop periodically removes expired entries so the map does not
// grow without bound across many distinct identities.
func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for identity, record := range s.entries {
		if now.After(record.ResetAt) {
			delete(s.entries, identity)
		}
	}
}

// Close stops the sweep goroutine.
func (s *MemoryStore) Close() {
	close(s.stopCh)
}

// ClientIdentity extracts the caller's forwarded network address from the
// request, falling back to UnknownIdentity.
func ClientIdentity(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		if ip := parseFirstIP(forwarded); ip != "" {
			return ip
		}
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return UnknownIdentity
	}
	if ip == "" {
		return UnknownIdentity
	}
	return ip
}

// parseFirstIP extracts the first entry from a comma-separated list
func parseFirstIP(forwarded string) string {
	ips := strings.Split(forwarded, ",")
	if len(ips) > 0 {
		return strings.TrimSpace(ips[0])
	}
	return ""
}
