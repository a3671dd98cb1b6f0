// Package redis provides the web session store backed by Redis.
//
// Each session is one JSON value whose key expires with the session.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	webstorage "github.com/studentreg/web/internal/services/web/storage"
)

const keyPrefix = "web:session:"

// Client is the subset of *goredis.Client the store uses.
type Client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
	Close() error
}

// Options configures a Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Store persists sessions in Redis.
type Store struct {
	client Client
	now    func() time.Time
}

type record struct {
	Token     string `json:"token"`
	CreatedAt int64  `json:"createdAt"`
	ExpiresAt int64  `json:"expiresAt,omitempty"`
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(client), nil
}

// New wraps an existing client.
func New(client Client) *Store {
	return &Store{client: client, now: time.Now}
}

// SaveSession stores session with a TTL matching its expiry, or
// webstorage.DefaultTTL when it has none.
func (s *Store) SaveSession(ctx context.Context, session webstorage.Session) error {
	session, err := session.Validate()
	if err != nil {
		return err
	}
	now := s.now()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now.UTC()
	}
	ttl := webstorage.DefaultTTL
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(now)
		if ttl <= 0 {
			return s.DeleteSession(ctx, session.ID)
		}
	}
	payload, err := json.Marshal(record{
		Token:     session.Token,
		CreatedAt: session.CreatedAt.UnixMilli(),
		ExpiresAt: unixMillis(session.ExpiresAt),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+session.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession returns the session for id when the key exists.
func (s *Store) LoadSession(ctx context.Context, id string) (webstorage.Session, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return webstorage.Session{}, false, nil
	}
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return webstorage.Session{}, false, nil
	}
	if err != nil {
		return webstorage.Session{}, false, fmt.Errorf("load session: %w", err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return webstorage.Session{}, false, fmt.Errorf("decode session: %w", err)
	}
	session := webstorage.Session{
		ID:        id,
		Token:     rec.Token,
		CreatedAt: fromUnixMillis(rec.CreatedAt),
		ExpiresAt: fromUnixMillis(rec.ExpiresAt),
	}
	if session.Expired(s.now()) {
		return webstorage.Session{}, false, s.DeleteSession(ctx, id)
	}
	return session, true, nil
}

// DeleteSession removes the key for id.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+strings.TrimSpace(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
