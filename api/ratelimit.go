package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const rateLimiterSweepInterval = 5 * time.Minute

// RateLimiter decides whether a client identified by key may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
	Close() error
}

// MemoryRateLimiter keeps one token bucket per key in process memory. Idle buckets are
// swept periodically until Close is called.
type MemoryRateLimiter struct {
	limit rate.Limit
	burst int
	idle  time.Duration

	mu      sync.Mutex
	entries map[string]*bucket
	stopCh  chan struct{}
	once    sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryRateLimiter allows requests per window for every key, with bursts up to burst.
func NewMemoryRateLimiter(requests int, window time.Duration, burst int) *MemoryRateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if burst <= 0 {
		burst = requests
	}

	rl := &MemoryRateLimiter{
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   burst,
		idle:    window,
		entries: make(map[string]*bucket),
		stopCh:  make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

func (rl *MemoryRateLimiter) Allow(ctx context.Context, key string) bool {
	now := time.Now()

	rl.mu.Lock()
	b, ok := rl.entries[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.entries[key] = b
	}
	b.lastSeen = now
	rl.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

func (rl *MemoryRateLimiter) sweepLoop() {
	ticker := time.NewTicker(rateLimiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *MemoryRateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, b := range rl.entries {
		if now.Sub(b.lastSeen) > rl.idle {
			delete(rl.entries, key)
		}
	}
}

func (rl *MemoryRateLimiter) Close() error {
	rl.once.Do(func() {
		close(rl.stopCh)
	})
	return nil
}

// RedisRateLimiter counts requests per key in fixed windows shared through Redis.
// Redis failures admit the request.
type RedisRateLimiter struct {
	client  *redis.Client
	logger  *slog.Logger
	prefix  string
	limit   int
	window  time.Duration
	timeout time.Duration
}

// NewRedisRateLimiter connects to Redis and fails when the server does not answer a ping.
func NewRedisRateLimiter(addr, password string, db, limit int, window time.Duration, l *slog.Logger) (*RedisRateLimiter, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	if window <= 0 {
		window = time.Minute
	}
	if l == nil {
		l = logger
	}
	return &RedisRateLimiter{
		client:  client,
		logger:  l,
		prefix:  "devconnect:ratelimit:",
		limit:   limit,
		window:  window,
		timeout: 250 * time.Millisecond,
	}, nil
}

func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	if rl.limit <= 0 {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, rl.timeout)
	defer cancel()

	redisKey := rl.prefix + key
	counter, err := rl.client.Incr(ctx, redisKey).Result()
	if err != nil {
		rl.logger.Error("redis rate limiter error", slog.String("op", "incr"), slog.Any("err", err))
		return true
	}
	if counter == 1 {
		if err := rl.client.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			rl.logger.Error("redis rate limiter error", slog.String("op", "expire"), slog.Any("err", err))
		}
	}

	return counter <= int64(rl.limit)
}

func (rl *RedisRateLimiter) Close() error {
	return rl.client.Close()
}
