package saves

import (
	"context"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	redisclient "github.com/KirkDiggler/rpg-journey/internal/redis"
)

// KeyPrefix prefixes every save slot key
const KeyPrefix = "save:"

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis save repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed save repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Snapshot == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}

	slot := slotOrDefault(input.Slot)
	rec := &Record{
		Version: CurrentVersion,
		SavedAt: r.clock.Now().UTC(),
		Data:    input.Snapshot,
	}
	data, err := encode(rec)
	if err != nil {
		return nil, err
	}

	// No TTL for saves
	if err := r.client.Set(ctx, KeyPrefix+slot, data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to write save %s", slot)
	}

	slog.InfoContext(ctx, "game saved", "slot", slot, "hero", input.Snapshot.Name)
	return &SaveOutput{Record: rec}, nil
}

func (r *redisRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	slot := DefaultSlot
	if input != nil {
		slot = slotOrDefault(input.Slot)
	}

	raw, err := r.client.Get(ctx, KeyPrefix+slot).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no save in slot %s", slot)
		}
		return nil, errors.Wrapf(err, "failed to read save %s", slot)
	}

	return decode(ctx, slot, raw)
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	slot := DefaultSlot
	if input != nil {
		slot = slotOrDefault(input.Slot)
	}

	n, err := r.client.Del(ctx, KeyPrefix+slot).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to delete save %s", slot)
	}
	return &DeleteOutput{Deleted: n > 0}, nil
}
