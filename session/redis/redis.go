// Package redis provides a Redis-backed core.SessionStore so voice sessions
// survive worker restarts and can be resumed by any worker in a fleet.
//
// Layout per session (prefix configurable, default "voxmesh:sess:"):
//
//	<prefix><id>:state   hash   field -> JSON-encoded value
//	<prefix><id>:events  list   JSON-encoded core.Event, append order
//	<prefix><id>:meta    hash   created / updated RFC3339 timestamps
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxmesh/voxmesh/core"
)

// Options configure the Redis session store.
type Options struct {
	Prefix string        // Key prefix, defaults to "voxmesh:sess:"
	TTL    time.Duration // Per-session expiry; 0 disables expiry
}

// Store implements core.SessionStore on top of a Redis client.
type Store struct {
	client *redis.Client
	opts   Options
}

// NewStore wraps an existing Redis client.
func NewStore(client *redis.Client, optFns ...func(o *Options)) *Store {
	opts := Options{Prefix: "voxmesh:sess:"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, opts: opts}
}

// NewStoreFromAddr dials addr (host:port) and wraps the resulting client.
func NewStoreFromAddr(addr string, optFns ...func(o *Options)) *Store {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return NewStore(client, optFns...)
}

// WithTTL sets a per-session expiry refreshed on every write.
func WithTTL(ttl time.Duration) func(o *Options) {
	return func(o *Options) { o.TTL = ttl }
}

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) func(o *Options) {
	return func(o *Options) { o.Prefix = prefix }
}

func (s *Store) stateKey(id string) string  { return s.opts.Prefix + id + ":state" }
func (s *Store) eventsKey(id string) string { return s.opts.Prefix + id + ":events" }
func (s *Store) metaKey(id string) string   { return s.opts.Prefix + id + ":meta" }

// Ping verifies connectivity to the Redis backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error { return s.client.Close() }

// Create resets any existing data for the session and records its creation time.
func (s *Store) Create(sessionID string) (*core.Session, error) {
	ctx := context.Background()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.stateKey(sessionID), s.eventsKey(sessionID), s.metaKey(sessionID))
	pipe.HSet(ctx, s.metaKey(sessionID), "created", now, "updated", now)
	s.applyTTL(ctx, pipe, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("redis create session: %w", err)
	}

	return core.NewSession(sessionID), nil
}

// Get loads the session state and event history. Missing sessions return a
// fresh empty session, matching the in-memory store's lazy semantics.
func (s *Store) Get(sessionID string) (*core.Session, error) {
	ctx := context.Background()

	sess := core.NewSession(sessionID)

	state, err := s.client.HGetAll(ctx, s.stateKey(sessionID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load state: %w", err)
	}
	for field, raw := range state {
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("redis decode state field %q: %w", field, err)
		}
		sess.SetState(field, value)
	}

	rawEvents, err := s.client.LRange(ctx, s.eventsKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis load events: %w", err)
	}
	for i, raw := range rawEvents {
		var ev core.Event
		if err := json.Unmarshal([]byte(raw), &ev); err != nil {
			return nil, fmt.Errorf("redis decode event %d: %w", i, err)
		}
		sess.AddEvent(ev)
	}

	meta, err := s.client.HGetAll(ctx, s.metaKey(sessionID)).Result()
	if err == nil {
		if created, ok := meta["created"]; ok {
			if ts, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
				sess.Created = ts
			}
		}
		if updated, ok := meta["updated"]; ok {
			if ts, perr := time.Parse(time.RFC3339Nano, updated); perr == nil {
				sess.Updated = ts
			}
		}
	}

	return sess, nil
}

// AppendEvent pushes the event onto the session's history list.
func (s *Store) AppendEvent(sessionID string, ev core.Event) error {
	ctx := context.Background()

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis encode event: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, s.eventsKey(sessionID), data)
	pipe.HSet(ctx, s.metaKey(sessionID), "updated", time.Now().UTC().Format(time.RFC3339Nano))
	s.applyTTL(ctx, pipe, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis append event: %w", err)
	}

	return nil
}

// ApplyDelta merges a key/value delta into the session state hash.
func (s *Store) ApplyDelta(sessionID string, delta map[string]any) error {
	if len(delta) == 0 {
		return nil
	}

	ctx := context.Background()

	fields := make([]any, 0, len(delta)*2)
	for k, v := range delta {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("redis encode state field %q: %w", k, err)
		}
		fields = append(fields, k, data)
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.stateKey(sessionID), fields...)
	pipe.HSet(ctx, s.metaKey(sessionID), "updated", time.Now().UTC().Format(time.RFC3339Nano))
	s.applyTTL(ctx, pipe, sessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis apply delta: %w", err)
	}

	return nil
}

// Delete removes all keys belonging to the session.
func (s *Store) Delete(sessionID string) error {
	ctx := context.Background()
	if err := s.client.Del(ctx, s.stateKey(sessionID), s.eventsKey(sessionID), s.metaKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (s *Store) applyTTL(ctx context.Context, pipe redis.Pipeliner, sessionID string) {
	if s.opts.TTL <= 0 {
		return
	}
	pipe.Expire(ctx, s.stateKey(sessionID), s.opts.TTL)
	pipe.Expire(ctx, s.eventsKey(sessionID), s.opts.TTL)
	pipe.Expire(ctx, s.metaKey(sessionID), s.opts.TTL)
}
