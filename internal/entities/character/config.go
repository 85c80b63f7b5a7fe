package character

import (
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

// Defaults applied to zero-valued Config fields
const (
	DefaultMaxLife       = 100
	DefaultWeaponDamage  = 15
	DefaultWeaponName    = "Sword"
	DefaultAttribute     = 10
	DefaultLevel         = 1
	DefaultXPToNextLevel = 100
	DefaultClassName     = "Adventurer"
)

// Progression holds the leveling constants
type Progression struct {
	// GrowthFactor multiplies the xp threshold on every level-up
	GrowthFactor float64 `koanf:"growth_factor"`
	LifeBonus    int     `koanf:"life_bonus"`
	DamageBonus  int     `koanf:"damage_bonus"`
}

// DefaultProgression returns the standard leveling curve
func DefaultProgression() Progression {
	return Progression{
		GrowthFactor: 1.5,
		LifeBonus:    20,
		DamageBonus:  5,
	}
}

// Validate checks the curve never shrinks
func (p *Progression) Validate() error {
	vb := errors.NewValidationBuilder()
	if p.GrowthFactor < 1 {
		vb.Field("GrowthFactor", "must be at least 1")
	}
	errors.ValidateNonNegative("LifeBonus", p.LifeBonus, vb)
	errors.ValidateNonNegative("DamageBonus", p.DamageBonus, vb)
	return vb.Build()
}

// Config describes a character to build. Zero numeric fields take their
// defaults; CurrentLife nil means full vitality and WeaponDamage nil means
// DefaultWeaponDamage.
type Config struct {
	ID        string
	Name      string
	ClassName string
	IsPlayer  bool

	MaxLife      int
	CurrentLife  *int
	WeaponDamage *int
	WeaponName   string

	Speed        int
	Agility      int
	Dexterity    int
	Speech       int
	Intelligence int
	Persistence  int

	Gold          int
	Level         int
	XP            int
	XPToNextLevel int

	Items             []*items.Item
	InventoryCapacity int

	// Provider answers reaction prompts for player characters
	Provider input.Provider
	// Roller drives AI reactions. Defaults to dice.DefaultRoller.
	Roller      dice.Roller
	Progression *Progression
	// ReactionTimeout bounds the reaction prompt. Zero waits for the answer.
	ReactionTimeout time.Duration
	// IDGenerator names characters and domain messages
	IDGenerator idgen.Generator
}

// Validate ensures the config describes a legal character
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	errors.ValidateRequired("Name", c.Name, vb)
	errors.ValidateNonNegative("MaxLife", c.MaxLife, vb)
	if c.WeaponDamage != nil && *c.WeaponDamage < 0 {
		vb.Field("WeaponDamage", "must not be negative")
	}
	errors.ValidateNonNegative("Gold", c.Gold, vb)
	errors.ValidateNonNegative("XP", c.XP, vb)
	errors.ValidateNonNegative("XPToNextLevel", c.XPToNextLevel, vb)
	if c.CurrentLife != nil && *c.CurrentLife < 0 {
		vb.Field("CurrentLife", "must not be negative")
	}
	if c.ReactionTimeout < 0 {
		vb.Field("ReactionTimeout", "must not be negative")
	}
	if c.Progression != nil {
		if err := c.Progression.Validate(); err != nil {
			vb.InvalidField("Progression", err.Error())
		}
	}

	return vb.Build()
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
