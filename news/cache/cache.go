package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mohammad-safakhou/newsagent/models"
)

// DefaultTTL is how long a cached result set stays fresh.
const DefaultTTL = 10 * time.Minute

// Store caches retrieved article sets per (topic, count) so repeated
// questions about the same topic within the TTL skip both retrieval phases.
type Store interface {
	Get(ctx context.Context, topic string, count int) ([]models.Article, bool, error)
	Set(ctx context.Context, topic string, count int, articles []models.Article) error
}

type StoreType string

const (
	MemoryStore StoreType = "memory"
	RedisStore  StoreType = "redis"
)

// NewStore builds a cache store of the given type. Redis stores ping the
// server before being returned.
func NewStore(storeType StoreType, addr, password string, db int, ttl time.Duration) (Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	switch storeType {
	case MemoryStore:
		return NewMemoryStore(ttl), nil
	case RedisStore:
		return NewRedisStore(addr, password, db, ttl)
	default:
		return nil, fmt.Errorf("unsupported cache store type: %s", storeType)
	}
}

func cacheKey(topic string, count int) string {
	return fmt.Sprintf("newscache:%s:%d", strings.ToLower(strings.TrimSpace(topic)), count)
}

type memoryEntry struct {
	articles  []models.Article
	expiresAt time.Time
}

// Memory is a process-local Store, fine for a single instance.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, entries: make(map[string]memoryEntry)}
}

func (m *Memory) Get(_ context.Context, topic string, count int) ([]models.Article, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[cacheKey(topic, count)]
	m.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	out := make([]models.Article, len(entry.articles))
	copy(out, entry.articles)
	return out, true, nil
}

func (m *Memory) Set(_ context.Context, topic string, count int, articles []models.Article) error {
	stored := make([]models.Article, len(articles))
	copy(stored, articles)
	m.mu.Lock()
	m.entries[cacheKey(topic, count)] = memoryEntry{articles: stored, expiresAt: time.Now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}
