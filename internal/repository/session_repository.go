package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/sra-panel-api/internal/models"
	appErrors "github.com/noah-isme/sra-panel-api/pkg/errors"
)

// SessionStore persists UI-session-scoped state: the uploaded dataset and
// the latest insight slot. State expires with the session TTL.
type SessionStore interface {
	SaveDataset(ctx context.Context, dataset *models.Dataset) error
	GetDataset(ctx context.Context, sessionID string) (*models.Dataset, error)
	SaveInsights(ctx context.Context, sessionID string, state *models.InsightState) error
	GetInsights(ctx context.Context, sessionID string) (*models.InsightState, error)
	Delete(ctx context.Context, sessionID string) error
}

func datasetKey(sessionID string) string  { return "session:data:" + sessionID }
func insightsKey(sessionID string) string { return "session:insights:" + sessionID }

// RedisSessionStore stores session state in Redis with a fixed TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore constructs a Redis-backed session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) SaveDataset(ctx context.Context, dataset *models.Dataset) error {
	return s.setJSON(ctx, datasetKey(dataset.SessionID), dataset)
}

func (s *RedisSessionStore) GetDataset(ctx context.Context, sessionID string) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := s.getJSON(ctx, datasetKey(sessionID), &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (s *RedisSessionStore) SaveInsights(ctx context.Context, sessionID string, state *models.InsightState) error {
	return s.setJSON(ctx, insightsKey(sessionID), state)
}

func (s *RedisSessionStore) GetInsights(ctx context.Context, sessionID string) (*models.InsightState, error) {
	var state models.InsightState
	if err := s.getJSON(ctx, insightsKey(sessionID), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, datasetKey(sessionID), insightsKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session %s: %w", sessionID, err)
	}
	return nil
}

func (s *RedisSessionStore) setJSON(ctx context.Context, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session value for %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisSessionStore) getJSON(ctx context.Context, key string, dest interface{}) error {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrSessionNotFound
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal session value for %s: %w", key, err)
	}
	return nil
}

// MemorySessionStore keeps session state in process memory. Used when Redis
// is not available; state does not survive a restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	datasets map[string]memoryEntry
	insights map[string]memoryEntry
	now      func() time.Time
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// NewMemorySessionStore constructs an in-memory session store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &MemorySessionStore{
		ttl:      ttl,
		datasets: make(map[string]memoryEntry),
		insights: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) SaveDataset(_ context.Context, dataset *models.Dataset) error {
	return s.put(s.datasets, dataset.SessionID, dataset)
}

func (s *MemorySessionStore) GetDataset(_ context.Context, sessionID string) (*models.Dataset, error) {
	var dataset models.Dataset
	if err := s.get(s.datasets, sessionID, &dataset); err != nil {
		return nil, err
	}
	return &dataset, nil
}

func (s *MemorySessionStore) SaveInsights(_ context.Context, sessionID string, state *models.InsightState) error {
	return s.put(s.insights, sessionID, state)
}

func (s *MemorySessionStore) GetInsights(_ context.Context, sessionID string) (*models.InsightState, error) {
	var state models.InsightState
	if err := s.get(s.insights, sessionID, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, sessionID)
	delete(s.insights, sessionID)
	return nil
}

func (s *MemorySessionStore) put(bucket map[string]memoryEntry, sessionID string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal session value: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket[sessionID] = memoryEntry{payload: payload, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemorySessionStore) get(bucket map[string]memoryEntry, sessionID string, dest interface{}) error {
	s.mu.RLock()
	entry, ok := bucket[sessionID]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expiresAt) {
		return appErrors.ErrSessionNotFound
	}
	return json.Unmarshal(entry.payload, dest)
}
