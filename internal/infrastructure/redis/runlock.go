package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const runLockKey = "tjrates:scrape:run"

// RunLock serializes scrape passes across processes with SET NX. The TTL
// bounds how long a crashed run can block the next one.
type RunLock struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRunLock(client *redis.Client, ttl time.Duration) *RunLock {
	return &RunLock{Client: client, TTL: ttl}
}

func (l *RunLock) TryLock(ctx context.Context) (bool, error) {
	return l.Client.SetNX(ctx, runLockKey, "1", l.TTL).Result()
}

func (l *RunLock) Unlock(ctx context.Context) error {
	return l.Client.Del(ctx, runLockKey).Err()
}
