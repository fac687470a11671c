// Package state persists the digest bot's durable state in Redis: the
// last-processed commit cursor and the queue of pending update parts.
// Single writer, no concurrent access by design.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	cursorKey  = "digest:last_processed_sha"
	pendingKey = "digest:pending_updates"
)

// Store is a Redis-backed state store. Keys are namespaced under a prefix
// so several bots can share one Redis instance.
type Store struct {
	client *redis.Client
	prefix string
}

// Options configures the store connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix namespaces all keys, default "topi".
	Prefix string
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Prefix == "" {
		opts.Prefix = "topi"
	}
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return &Store{client: client, prefix: opts.Prefix}, nil
}

// NewStoreWithClient wraps an existing client (used by tests).
func NewStoreWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "topi"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

// LastProcessedSHA returns the cursor, or "" when no commit has been
// processed yet.
func (s *Store) LastProcessedSHA(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key(cursorKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cursor: %w", err)
	}
	return val, nil
}

// SetLastProcessedSHA advances the cursor. Called only after a successful
// delivery so a failed send is retried on the next tick.
func (s *Store) SetLastProcessedSHA(ctx context.Context, sha string) error {
	if err := s.client.Set(ctx, s.key(cursorKey), sha, 0).Err(); err != nil {
		return fmt.Errorf("write cursor: %w", err)
	}
	return nil
}

// PushPending appends update parts to the delivery queue.
func (s *Store) PushPending(ctx context.Context, parts ...string) error {
	if len(parts) == 0 {
		return nil
	}
	vals := make([]interface{}, len(parts))
	for i, p := range parts {
		vals[i] = p
	}
	if err := s.client.RPush(ctx, s.key(pendingKey), vals...).Err(); err != nil {
		return fmt.Errorf("queue pending updates: %w", err)
	}
	return nil
}

// PopPending removes and returns the oldest pending update part.
// Returns ("", false, nil) when the queue is empty.
func (s *Store) PopPending(ctx context.Context) (string, bool, error) {
	val, err := s.client.LPop(ctx, s.key(pendingKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("pop pending update: %w", err)
	}
	return val, true, nil
}

// PendingCount returns the number of queued update parts.
func (s *Store) PendingCount(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, s.key(pendingKey)).Result()
	if err != nil {
		return 0, fmt.Errorf("count pending updates: %w", err)
	}
	return n, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.client.Close()
}
