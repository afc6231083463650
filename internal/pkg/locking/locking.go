package locking

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"

	"snapclash/internal/interfaces"
)

type RedsyncLocker struct {
	rs *redsync.Redsync
}

func NewLocker(client redis.UniversalClient) *RedsyncLocker {
	pool := goredis.NewPool(client)
	return &RedsyncLocker{redsync.New(pool)}
}

func (l *RedsyncLocker) NewMutex(name string) interfaces.Mutex {
	return l.rs.NewMutex(name)
}
