// Package session resolves the signed-in user's business, venue and access level.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

// KV is the part of the Redis client the store needs.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store keeps session contexts in Redis, one JSON value per session id.
type Store struct {
	kv     KV
	prefix string
	ttl    time.Duration
}

// NewStore builds a store over kv.
func NewStore(kv KV, cfg config.SessionConfig) *Store {
	return &Store{kv: kv, prefix: cfg.KeyPrefix, ttl: cfg.TTL()}
}

// Create stores auth under a new session id.
func (s *Store) Create(ctx context.Context, auth domain.AuthContext) (string, error) {
	id := uuid.NewString()
	if err := s.Save(ctx, id, auth); err != nil {
		return "", err
	}
	return id, nil
}

// Save writes auth for id, refreshing its TTL.
func (s *Store) Save(ctx context.Context, id string, auth domain.AuthContext) error {
	if !auth.Scoped() {
		return apperrors.NewContextError("session must carry a business code")
	}
	payload, err := json.Marshal(auth)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load reads the context of id. Unknown or unscoped sessions are context errors.
func (s *Store) Load(ctx context.Context, id string) (domain.AuthContext, error) {
	if id == "" {
		return domain.AuthContext{}, apperrors.NewContextError("no session")
	}
	raw, err := s.kv.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AuthContext{}, apperrors.NewContextError("session expired")
	}
	if err != nil {
		return domain.AuthContext{}, fmt.Errorf("load session: %w", err)
	}
	var auth domain.AuthContext
	if err := json.Unmarshal(raw, &auth); err != nil {
		return domain.AuthContext{}, fmt.Errorf("decode session: %w", err)
	}
	if !auth.Scoped() {
		return domain.AuthContext{}, apperrors.NewContextError("session has no business")
	}
	return auth, nil
}

// Delete removes id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.kv.Del(ctx, s.key(id)).Err()
}

func (s *Store) key(id string) string {
	return s.prefix + id
}
