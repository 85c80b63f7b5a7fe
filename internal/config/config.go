// Package config loads game settings from defaults, an optional YAML file and
// command line flags, in that order of precedence.
package config

import (
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/entities/character"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/orchestrators/adventure"
	"github.com/KirkDiggler/rpg-journey/internal/orchestrators/encounter"
	"github.com/KirkDiggler/rpg-journey/internal/redis"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/saves"
)

// Save store kinds
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Log configures the slog handler
type Log struct {
	// Format is "text" or "json"
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// Redis configures the connection used by the redis save store
type Redis struct {
	Endpoint        string        `koanf:"endpoint"`
	ConnectAttempts uint64        `koanf:"connect_attempts"`
	ConnectBackoff  time.Duration `koanf:"connect_backoff"`
	Options         redis.Options `koanf:"options"`
}

// Save picks where games are saved
type Save struct {
	Store string `koanf:"store"`
	Slot  string `koanf:"slot"`
}

// Metrics configures the prometheus endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `koanf:"addr"`
}

// Encounter holds the adventure settings
type Encounter struct {
	MaxEncounters     int               `koanf:"max_encounters"`
	ReactionTimeout   time.Duration     `koanf:"reaction_timeout"`
	InventoryCapacity int               `koanf:"inventory_capacity"`
	Rewards           adventure.Rewards `koanf:"rewards"`
}

// Config is the full game configuration
type Config struct {
	Log         Log                   `koanf:"log"`
	Redis       Redis                 `koanf:"redis"`
	Save        Save                  `koanf:"save"`
	Metrics     Metrics               `koanf:"metrics"`
	Combat      combat.Rules          `koanf:"combat"`
	Pacing      encounter.Pacing      `koanf:"pacing"`
	Emergency   encounter.Emergency   `koanf:"emergency"`
	Progression character.Progression `koanf:"progression"`
	Encounter   Encounter             `koanf:"encounter"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Log: Log{
			Format: "text",
			Level:  "info",
		},
		Redis: Redis{
			Endpoint:        "localhost:6379",
			ConnectAttempts: 5,
			ConnectBackoff:  200 * time.Millisecond,
			Options: redis.Options{
				PoolSize:     10,
				MinIdleConns: 1,
				MaxRetries:   3,
			},
		},
		Save: Save{
			Store: StoreMemory,
			Slot:  saves.DefaultSlot,
		},
		Combat:      combat.DefaultRules(),
		Pacing:      encounter.DefaultPacing(),
		Emergency:   encounter.DefaultEmergency(),
		Progression: character.DefaultProgression(),
		Encounter: Encounter{
			MaxEncounters:     adventure.DefaultMaxEncounters,
			InventoryCapacity: 20,
			Rewards:           adventure.DefaultRewards(),
		},
	}
}

// BindFlags registers the overridable settings on fs. Flag names are the
// dotted config keys so they layer over the file.
func BindFlags(fs *pflag.FlagSet) {
	d := Default()

	fs.String("log.format", d.Log.Format, "log format (text or json)")
	fs.String("log.level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.String("save.store", d.Save.Store, "save store (memory or redis)")
	fs.String("save.slot", d.Save.Slot, "save slot name")
	fs.String("redis.endpoint", d.Redis.Endpoint, "redis address used by the redis save store")
	fs.String("metrics.addr", d.Metrics.Addr, "address for the prometheus endpoint, empty to disable")
	fs.Duration("encounter.reaction_timeout", d.Encounter.ReactionTimeout, "time allowed to pick a reaction, 0 waits")
	fs.Int("encounter.max_encounters", d.Encounter.MaxEncounters, "encounters before the boss appears")
}

// Load builds the configuration. path may be empty; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}
	if fs != nil {
		if err := k.Load(posflag.Provider(fs, ".", k), nil); err != nil {
			return nil, errors.Wrap(err, "failed to read flags")
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	switch c.Log.Format {
	case "text", "json":
	default:
		vb.Fieldf("Log.Format", "unknown format %q", c.Log.Format)
	}
	switch c.Save.Store {
	case StoreMemory:
	case StoreRedis:
		errors.ValidateRequired("Redis.Endpoint", c.Redis.Endpoint, vb)
		errors.ValidatePositive("Redis.ConnectAttempts", int(c.Redis.ConnectAttempts), vb)
	default:
		vb.Fieldf("Save.Store", "unknown store %q", c.Save.Store)
	}
	if c.Encounter.ReactionTimeout < 0 {
		vb.Field("Encounter.ReactionTimeout", "must not be negative")
	}
	errors.ValidateNonNegative("Encounter.MaxEncounters", c.Encounter.MaxEncounters, vb)
	errors.ValidateNonNegative("Encounter.InventoryCapacity", c.Encounter.InventoryCapacity, vb)

	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"Combat", &c.Combat},
		{"Pacing", &c.Pacing},
		{"Emergency", &c.Emergency},
		{"Progression", &c.Progression},
		{"Encounter.Rewards", &c.Encounter.Rewards},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			vb.InvalidField(s.name, err.Error())
		}
	}

	return vb.Build()
}
