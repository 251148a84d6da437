package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/staff-directory/internal/config"
	"github.com/spec-kit/staff-directory/internal/domain"
	apperrors "github.com/spec-kit/staff-directory/pkg/util/errorutil"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (m *memKV) Get(_ context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	val, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (m *memKV) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	m.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memKV) Del(_ context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

var sessionCfg = config.SessionConfig{JWTSecret: "test-secret", TTLMinutes: 30, KeyPrefix: "panel:session:"}

var managerAuth = domain.AuthContext{BusinessCode: "BIZ1", VenueCode: "SYD01", AccessLevel: domain.AccessLevelManager}

func TestStoreRoundTrip(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, sessionCfg)

	id, err := store.Create(context.Background(), managerAuth)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, ok := kv.data["panel:session:"+id]; !ok {
		t.Fatalf("session not stored under prefix: %v", kv.data)
	}
	if kv.ttl["panel:session:"+id] != 30*time.Minute {
		t.Fatalf("ttl = %s", kv.ttl["panel:session:"+id])
	}

	got, err := store.Load(context.Background(), id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != managerAuth {
		t.Fatalf("Load() = %+v, want %+v", got, managerAuth)
	}

	if err := store.Delete(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(context.Background(), id); !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected context error after delete, got %v", err)
	}
}

func TestStoreRejectsUnscopedContext(t *testing.T) {
	store := NewStore(newMemKV(), sessionCfg)
	if _, err := store.Create(context.Background(), domain.AuthContext{AccessLevel: domain.AccessLevelManager}); !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestStoreLoadErrors(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, sessionCfg)

	kv.data["panel:session:bad"] = "{not json"
	if _, err := store.Load(context.Background(), "bad"); err == nil || apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected decode error, got %v", err)
	}
	kv.data["panel:session:nobiz"] = `{"access_level":"manager"}`
	if _, err := store.Load(context.Background(), "nobiz"); !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected context error, got %v", err)
	}
	kv.err = errors.New("redis down")
	if _, err := store.Load(context.Background(), "any"); err == nil || apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestTokenCodec(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	token, exp, err := codec.Issue("sess-1", managerAuth)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expiry in the past: %s", exp)
	}

	claims, err := codec.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if claims.SessionID != "sess-1" || claims.Auth() != managerAuth {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := NewTokenCodec("other", time.Hour).Parse(token); err == nil {
		t.Fatal("token signed with another secret should not parse")
	}
}

func TestReaderResolve(t *testing.T) {
	kv := newMemKV()
	reader := NewReader(NewStore(kv, sessionCfg), NewTokenCodec(sessionCfg.JWTSecret, time.Hour))

	sess, token, err := reader.Issue(context.Background(), managerAuth)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	byToken, err := reader.Resolve(context.Background(), token, "")
	if err != nil || byToken.ID != sess.ID || byToken.Auth != managerAuth {
		t.Fatalf("Resolve(token) = %+v, %v", byToken, err)
	}
	byCookie, err := reader.Resolve(context.Background(), "", sess.ID)
	if err != nil || byCookie.Auth != managerAuth {
		t.Fatalf("Resolve(cookie) = %+v, %v", byCookie, err)
	}

	if _, err := reader.Resolve(context.Background(), "garbage", ""); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := reader.Resolve(context.Background(), "", ""); !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected context error, got %v", err)
	}

	if err := reader.Revoke(context.Background(), sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := reader.Resolve(context.Background(), "", sess.ID); !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected context error after revoke, got %v", err)
	}
	if _, err := reader.Resolve(context.Background(), token, ""); !apperrors.HasCode(err, apperrors.CodeContextMissing) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestReaderTokenUsesStoredContext(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, sessionCfg)
	reader := NewReader(store, NewTokenCodec(sessionCfg.JWTSecret, time.Hour))

	sess, token, err := reader.Issue(context.Background(), managerAuth)
	if err != nil {
		t.Fatal(err)
	}
	moved := managerAuth
	moved.VenueCode = "MEL01"
	if err := store.Save(context.Background(), sess.ID, moved); err != nil {
		t.Fatal(err)
	}

	got, err := reader.Resolve(context.Background(), token, "")
	if err != nil || got.Auth != moved {
		t.Fatalf("Resolve(token) = %+v, %v", got, err)
	}

	kv.err = errors.New("redis down")
	if _, err := reader.Resolve(context.Background(), token, ""); err == nil {
		t.Fatal("expected store failure to reject the token")
	}
}

func TestReaderIssueRejectsUnknownAccessLevel(t *testing.T) {
	reader := NewReader(NewStore(newMemKV(), sessionCfg), NewTokenCodec("s", time.Hour))
	_, _, err := reader.Issue(context.Background(), domain.AuthContext{BusinessCode: "BIZ1", AccessLevel: "owner"})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
