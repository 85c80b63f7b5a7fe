// Package redis wraps the go-redis client used by the save store.
package redis

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
)

// Options configures Redis client behavior
type Options struct {
	PoolSize        int           `koanf:"pool_size"`
	MinIdleConns    int           `koanf:"min_idle_conns"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	MaxRetries      int           `koanf:"max_retries"`
	UseTLS          bool          `koanf:"use_tls"`
}

// NewClient creates a Redis client for a single instance. No connection is
// made until the first command.
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:            endpoint,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = &tls.Config{
			InsecureSkipVerify: true, // #nosec G402 // For self-signed certs
		}
	}

	return redis.NewClient(redisOpts), nil
}

// ConnectConfig controls how long Connect keeps trying
type ConnectConfig struct {
	Endpoint string
	Options  *Options
	Attempts uint64
	Backoff  time.Duration
}

// Connect creates a client and waits until the server answers PING, backing
// off exponentially between attempts
func Connect(ctx context.Context, cfg *ConnectConfig) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}

	client, err := NewClient(cfg.Endpoint, cfg.Options)
	if err != nil {
		return nil, err
	}

	base := cfg.Backoff
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	backoff := retry.WithMaxRetries(cfg.Attempts, retry.NewExponential(base))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := client.Ping(ctx).Err(); err != nil {
			slog.WarnContext(ctx, "redis not ready",
				"endpoint", cfg.Endpoint,
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.FromContext(ctxErr, "redis connect interrupted")
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis unreachable")
	}

	slog.InfoContext(ctx, "redis connected", "endpoint", cfg.Endpoint, "attempts", attempt)
	return client, nil
}
