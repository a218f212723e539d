package redis

import (
	"context"
	"errors"
	"time"

	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockHeld = errors.New("lock is held by another owner")

// only the owner's token may delete the key
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// TryLock sets name with SET NX PX and returns a release func bound to the owner token.
// ErrLockHeld is returned when another owner holds the lock.
func TryLock(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	lockKey := key("lock", name)
	token := uuid.NewString()

	ok, err := client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		logger.Error("Failed to acquire redis lock", err, map[string]interface{}{
			"key": lockKey,
		})
		return nil, err
	}
	if !ok {
		logger.Debug("Redis lock already held", map[string]interface{}{
			"key": lockKey,
		})
		return nil, ErrLockHeld
	}

	release := func() {
		// released on a fresh context so a cancelled request still frees the lock
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, client, []string{lockKey}, token).Err(); err != nil {
			logger.Warn("Failed to release redis lock", map[string]interface{}{
				"key":   lockKey,
				"error": err.Error(),
			})
		}
	}
	return release, nil
}
