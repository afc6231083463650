package interfaces

import (
	"context"

	"github.com/go-redis/redis_rate/v10"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) error
}

// Mutex matches the redsync mutex surface so services can be exercised with a
// local lock in tests.
type Mutex interface {
	Lock() error
	Unlock() (bool, error)
}

type Locker interface {
	NewMutex(name string) Mutex
}
