package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/salesdeck/salesdeck/internal/ports"
)

const (
	lockTTL       = 10 * time.Second
	lockRetryWait = 25 * time.Millisecond
)

// releaseScript deletes the lock key only when it still holds our token, so
// a lock that expired and was re-acquired by another process is not released
// from under it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisDealLocker serializes stage-history writes per deal across processes
// using a SET NX lock with a TTL. The TTL bounds how long a crashed holder
// can block other writers.
type RedisDealLocker struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisDealLocker creates a Redis-backed deal locker
func NewRedisDealLocker(client *redis.Client, logger *logrus.Logger) *RedisDealLocker {
	return &RedisDealLocker{client: client, logger: logger}
}

// Lock blocks until the per-deal lock is acquired or ctx is done
func (l *RedisDealLocker) Lock(ctx context.Context, dealID string) (func(), error) {
	key := fmt.Sprintf("deal_lock:%s", dealID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire deal lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryWait):
		}
	}

	release := func() {
		// Release runs on a fresh context: the request context may already
		// be cancelled by the time the caller unlocks.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.WithError(err).WithField("deal_id", dealID).Warn("Failed to release deal lock")
		}
	}
	return release, nil
}

var _ ports.DealLocker = (*RedisDealLocker)(nil)
