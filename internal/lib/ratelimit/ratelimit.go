// Package ratelimit builds the fixed-window limiter in front of the contact route.
//
// A window opens on the first hit for a key and lasts for the configured
// duration; every hit inside it increments the same counter. Counting is done
// by ulule/limiter. Two stores are provided: an in-process map, and Redis,
// which is shared by every instance of the service.
package ratelimit

import (
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const (
	// DefaultKeyPrefix namespaces limiter keys in a shared Redis.
	DefaultKeyPrefix = "ratelimit"

	// DefaultCleanUpInterval is how often the memory store drops ended windows.
	DefaultCleanUpInterval = time.Minute
)

// New returns a limiter allowing requests hits per key in each window.
func New(store limiter.Store, requests int, window time.Duration) *limiter.Limiter {
	return limiter.New(store, limiter.Rate{
		Period: window,
		Limit:  int64(requests),
	})
}

// NewMemoryStore keeps counters in process. Ended windows are swept every
// cleanUp.
func NewMemoryStore(cleanUp time.Duration) limiter.Store {
	if cleanUp <= 0 {
		cleanUp = DefaultCleanUpInterval
	}
	return memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          DefaultKeyPrefix,
		CleanUpInterval: cleanUp,
	})
}

// NewRedisStore keeps counters in Redis so every instance sees the same
// count. The client is owned by the caller.
//
// The store loads its scripts on creation, so Redis must be reachable.
func NewRedisStore(client *redis.Client, prefix string) (limiter.Store, error) {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	store, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
		Prefix: prefix,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create redis rate limit store")
	}

	return store, nil
}
