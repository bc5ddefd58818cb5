package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	RedisUniqueKeyPrefix = "patient:unique:"

	// Timeout for individual Redis operations
	uniqueKeyGuardTimeout = 2 * time.Second
)

// reserveKeysScript sets every key or none of them.
// Returns 0 on success, or the 1-based index of the first key already held.
var reserveKeysScript = redis.NewScript(`
	for i, key in ipairs(KEYS) do
		if redis.call('EXISTS', key) == 1 then
			return i
		end
	end
	for _, key in ipairs(KEYS) do
		redis.call('SET', key, ARGV[1], 'PX', ARGV[2])
	end
	return 0
`)

// releaseKeysScript deletes only the keys still owned by the given token.
var releaseKeysScript = redis.NewScript(`
	local released = 0
	for _, key in ipairs(KEYS) do
		if redis.call('GET', key) == ARGV[1] then
			redis.call('DEL', key)
			released = released + 1
		end
	end
	return released
`)

// UniqueKey is one value of a unique patient column
type UniqueKey struct {
	Field string
	Value string
}

// KeyReservedError means another request is writing the same unique value right now
type KeyReservedError struct {
	Key UniqueKey
}

func (e *KeyReservedError) Error() string {
	return fmt.Sprintf("%s %s is being registered by another request", e.Key.Field, e.Key.Value)
}

// UniqueKeyGuard serializes concurrent writes that target the same unique values.
// The database constraints stay authoritative; the guard only narrows the
// check-then-insert window.
type UniqueKeyGuard interface {
	Reserve(ctx context.Context, keys ...UniqueKey) (release func(), err error)
}

type redisUniqueKeyGuard struct {
	client *redis.Client
	log    *logrus.Logger
	ttl    time.Duration
}

func NewRedisUniqueKeyGuard(client *redis.Client, log *logrus.Logger, ttl time.Duration) UniqueKeyGuard {
	if client == nil {
		return NewNoopUniqueKeyGuard()
	}
	return &redisUniqueKeyGuard{
		client: client,
		log:    log,
		ttl:    ttl,
	}
}

func (g *redisUniqueKeyGuard) Reserve(ctx context.Context, keys ...UniqueKey) (func(), error) {
	if len(keys) == 0 {
		return func() {}, nil
	}

	redisKeys := make([]string, len(keys))
	for i, key := range keys {
		redisKeys[i] = RedisUniqueKeyPrefix + key.Field + ":" + key.Value
	}
	token := uuid.New().String()

	opCtx, cancel := context.WithTimeout(ctx, uniqueKeyGuardTimeout)
	defer cancel()

	held, err := reserveKeysScript.Run(opCtx, g.client, redisKeys, token, g.ttl.Milliseconds()).Int()
	if err != nil {
		// Fail open: the unique constraints still reject duplicates.
		g.log.Warnf("Failed to reserve unique keys in Redis: %+v", err)
		return func() {}, nil
	}
	if held > 0 {
		return nil, &KeyReservedError{Key: keys[held-1]}
	}

	release := func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), uniqueKeyGuardTimeout)
		defer cancel()
		if err := releaseKeysScript.Run(releaseCtx, g.client, redisKeys, token).Err(); err != nil {
			g.log.Warnf("Failed to release unique keys in Redis: %+v", err)
		}
	}
	return release, nil
}

type noopUniqueKeyGuard struct{}

// NewNoopUniqueKeyGuard is used when Redis is disabled.
func NewNoopUniqueKeyGuard() UniqueKeyGuard {
	return noopUniqueKeyGuard{}
}

func (noopUniqueKeyGuard) Reserve(ctx context.Context, keys ...UniqueKey) (func(), error) {
	return func() {}, nil
}
