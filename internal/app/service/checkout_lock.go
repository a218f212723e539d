package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/acehadwer/storefront-backend/pkg/logger"
	"github.com/acehadwer/storefront-backend/pkg/redis"
)

var ErrCheckoutInProgress = errors.New("checkout already in progress")

// CheckoutLocker serialises checkouts per user. Acquire returns ErrCheckoutInProgress
// when the user already has a checkout running.
type CheckoutLocker interface {
	Acquire(ctx context.Context, userID uint) (release func(), err error)
}

type localCheckoutLocker struct {
	mu     sync.Mutex
	active map[uint]struct{}
}

// NewLocalCheckoutLocker guards checkouts within this process only.
func NewLocalCheckoutLocker() CheckoutLocker {
	return &localCheckoutLocker{active: make(map[uint]struct{})}
}

func (l *localCheckoutLocker) Acquire(_ context.Context, userID uint) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, held := l.active[userID]; held {
		return nil, ErrCheckoutInProgress
	}
	l.active[userID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.active, userID)
			l.mu.Unlock()
		})
	}, nil
}

type redisCheckoutLocker struct {
	ttl time.Duration
}

// NewRedisCheckoutLocker guards checkouts across instances. Requires redis.Init.
func NewRedisCheckoutLocker(ttl time.Duration) CheckoutLocker {
	return &redisCheckoutLocker{ttl: ttl}
}

func (l *redisCheckoutLocker) Acquire(ctx context.Context, userID uint) (func(), error) {
	release, err := redis.TryLock(ctx, fmt.Sprintf("checkout:%d", userID), l.ttl)
	if errors.Is(err, redis.ErrLockHeld) {
		return nil, ErrCheckoutInProgress
	}
	if err != nil {
		logger.Error("Checkout lock unavailable", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return release, nil
}
