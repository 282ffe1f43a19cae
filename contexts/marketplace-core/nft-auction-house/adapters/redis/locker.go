package redisadapter

import (
	"context"
	"fmt"
	"time"

	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// unlockLua deletes a lock key only if its value matches the caller's unique
// token, so one holder can never release another holder's lock.
const unlockLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

const defaultLockTTL = 15 * time.Second

// Locker serializes per-listing mutations across processes using Redis SETNX
// with a TTL and a Lua-based conditional unlock.
type Locker struct {
	rdb      *redis.Client
	ttl      time.Duration
	unlockSc *redis.Script
}

func NewLocker(rdb *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{
		rdb:      rdb,
		ttl:      ttl,
		unlockSc: redis.NewScript(unlockLua),
	}
}

func lockKey(listingID string) string {
	return "lock:listing:" + listingID
}

// Acquire obtains the listing lock or fails with ErrLockHeld. The returned
// release is safe to call more than once.
func (l *Locker) Acquire(ctx context.Context, listingID string) (func(), error) {
	token := uuid.NewString()
	key := lockKey(listingID)

	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: acquire lock %s: %w", listingID, err)
	}
	if !ok {
		return nil, domainerrors.ErrLockHeld
	}

	released := false
	release := func() {
		if released {
			return
		}
		released = true

		// Background context so release succeeds even when the caller's
		// context is already cancelled.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = l.unlockSc.Run(unlockCtx, l.rdb, []string{key}, token).Err()
	}
	return release, nil
}
