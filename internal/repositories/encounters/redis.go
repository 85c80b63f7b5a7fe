package encounters

import (
	"context"
	"encoding/json"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-journey/internal/redis"
)

const (
	// KeyPrefix prefixes every journal entry key
	KeyPrefix = "encounter:"
	// HeroIndexPrefix prefixes the per-hero list of entry ids
	HeroIndexPrefix = "encounter:hero:"

	errEntryIDEmpty = "encounter ID is required"
	errHeroIDEmpty  = "hero ID is required"
)

type redisRepository struct {
	client redisclient.Client
}

// RedisConfig contains configuration for the Redis journal repository.
type RedisConfig struct {
	Client redisclient.Client
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

// NewRedis creates a new Redis-backed journal. Entries live under
// encounter:<id>; each hero has a newest-first list of IDs.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{client: cfg.Client}, nil
}

func (r *redisRepository) Save(ctx context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Entry == nil {
		return nil, errors.InvalidArgument("entry is required")
	}
	if input.Entry.ID == "" {
		return nil, errors.InvalidArgument(errEntryIDEmpty)
	}

	key := KeyPrefix + input.Entry.ID
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existence")
	}

	data, err := json.Marshal(input.Entry)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal encounter")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if exists == 0 && input.Entry.HeroID != "" {
		pipe.LPush(ctx, HeroIndexPrefix+input.Entry.HeroID, input.Entry.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save encounter")
	}

	return &SaveOutput{Success: true}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEntryIDEmpty)
	}

	entry, err := r.get(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Entry: entry}, nil
}

func (r *redisRepository) get(ctx context.Context, id string) (*Entry, error) {
	raw, err := r.client.Get(ctx, KeyPrefix+id).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("encounter %s not found", id)
		}
		return nil, errors.Wrap(err, "failed to get encounter")
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "encounter record is corrupt").
			WithMeta("encounter_id", id)
	}
	return &entry, nil
}

func (r *redisRepository) ListByHero(ctx context.Context, input *ListByHeroInput) (*ListByHeroOutput, error) {
	if input == nil || input.HeroID == "" {
		return nil, errors.InvalidArgument(errHeroIDEmpty)
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgument("limit must not be negative")
	}

	stop := int64(-1)
	if input.Limit > 0 {
		stop = int64(input.Limit - 1)
	}
	ids, err := r.client.LRange(ctx, HeroIndexPrefix+input.HeroID, 0, stop).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list encounters")
	}

	entries := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		entry, err := r.get(ctx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		entries = append(entries, entry)
	}

	return &ListByHeroOutput{Entries: entries}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument(errEntryIDEmpty)
	}

	entry, err := r.get(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, KeyPrefix+entry.ID)
	if entry.HeroID != "" {
		pipe.LRem(ctx, HeroIndexPrefix+entry.HeroID, 0, entry.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to delete encounter")
	}

	return &DeleteOutput{Success: true}, nil
}
