package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Pinging a dead Redis should fail the boot fast, not hang it.
const redisPingTimeout = 3 * time.Second

// NewRedis connects the client that backs the menu cache, the job queues and
// the shift summary hashes. Connectivity is verified up front so a bad
// REDIS_URL surfaces at startup instead of on the first queued job.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}
