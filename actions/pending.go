package actions

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/granjadata/avicola_backend/config"
	"github.com/granjadata/avicola_backend/utils"
)

// DefaultPendingTTL bounds how long a previewed action stays confirmable.
const DefaultPendingTTL = 30 * time.Minute

const pendingKeyPrefix = "pending_action:"

// PendingStore keeps previewed actions until they are confirmed or expire.
// Take is single-use: a token yields its action exactly once.
type PendingStore interface {
	Put(ctx context.Context, action Action) (string, error)
	Take(ctx context.Context, token string) (Action, bool, error)
}

// PendingTTLFromEnv reads PENDING_ACTION_TTL_MINUTES, falling back to the
// default when unset or unparseable.
func PendingTTLFromEnv() time.Duration {
	raw := os.Getenv("PENDING_ACTION_TTL_MINUTES")
	if raw == "" {
		return DefaultPendingTTL
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return DefaultPendingTTL
	}
	return time.Duration(minutes) * time.Minute
}

// NewPendingStore picks redis when a connection is up, so pending tokens
// survive restarts and are shared across replicas.
func NewPendingStore(ttl time.Duration) PendingStore {
	if rdb := config.GetRedisDB(); rdb != nil {
		return NewRedisPendingStore(rdb, ttl)
	}
	return NewMemoryPendingStore(ttl)
}

type memoryEntry struct {
	action    Action
	expiresAt time.Time
}

// MemoryPendingStore is the single-process fallback when redis is absent.
type MemoryPendingStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryPendingStore(ttl time.Duration) *MemoryPendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &MemoryPendingStore{
		entries: map[string]memoryEntry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryPendingStore) Put(_ context.Context, action Action) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.entries[token] = memoryEntry{action: action, expiresAt: now.Add(s.ttl)}
	return token, nil
}

func (s *MemoryPendingStore) Take(_ context.Context, token string) (Action, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[token]
	if !ok {
		return Action{}, false, nil
	}
	delete(s.entries, token)
	if s.now().After(entry.expiresAt) {
		return Action{}, false, nil
	}
	return entry.action, true, nil
}

// RedisPendingStore stores each pending action under its own key with the
// TTL, and consumes it with GETDEL so concurrent confirms cannot both win.
type RedisPendingStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPendingStore(client *redis.Client, ttl time.Duration) *RedisPendingStore {
	if ttl <= 0 {
		ttl = DefaultPendingTTL
	}
	return &RedisPendingStore{client: client, ttl: ttl}
}

func (s *RedisPendingStore) Put(ctx context.Context, action Action) (string, error) {
	token := uuid.NewString()
	payload, err := utils.MarshalToJSON(action)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, pendingKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisPendingStore) Take(ctx context.Context, token string) (Action, bool, error) {
	payload, err := s.client.GetDel(ctx, pendingKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return Action{}, false, nil
	}
	if err != nil {
		return Action{}, false, err
	}
	var action Action
	if err := utils.UnmarshalFromJSON(payload, &action); err != nil {
		return Action{}, false, err
	}
	return action, true, nil
}
