// Package mute tracks task identifiers whose reminders must never be
// shown again. The set is durable and append-only: there is no unmute.
package mute

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// setKey is the Redis key holding the muted task-id set.
const setKey = "voicetask:muted"

// Store is the durable mute set. Membership must be re-read before every
// scheduling and delivery decision; callers never cache it, since a mute
// can be recorded from a background action handler at any time.
type Store interface {
	Add(ctx context.Context, taskID int64) error
	Contains(ctx context.Context, taskID int64) (bool, error)
	All(ctx context.Context) ([]int64, error)
}

// RedisStore implements Store on a Redis set. SADD/SISMEMBER give the
// atomic membership semantics the scheduler and worker rely on.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore creates a mute store on an existing Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Add records a task as muted.
func (s *RedisStore) Add(ctx context.Context, taskID int64) error {
	if err := s.rdb.SAdd(ctx, setKey, taskID).Err(); err != nil {
		return fmt.Errorf("muting task %d: %w", taskID, err)
	}
	return nil
}

// Contains reports whether a task is muted.
func (s *RedisStore) Contains(ctx context.Context, taskID int64) (bool, error) {
	muted, err := s.rdb.SIsMember(ctx, setKey, taskID).Result()
	if err != nil {
		return false, fmt.Errorf("checking mute for task %d: %w", taskID, err)
	}
	return muted, nil
}

// All returns every muted task id.
func (s *RedisStore) All(ctx context.Context) ([]int64, error) {
	members, err := s.rdb.SMembers(ctx, setKey).Result()
	if err != nil {
		return nil, fmt.Errorf("listing muted tasks: %w", err)
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
