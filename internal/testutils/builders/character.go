// Package builders provides test data builders for creating test fixtures
package builders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-journey/internal/entities/character"
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

// CharacterBuilder provides a fluent interface for building test characters
type CharacterBuilder struct {
	cfg *character.Config
}

// NewHeroBuilder starts a player character with default stats
func NewHeroBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		cfg: &character.Config{
			ID:          "hero-test-001",
			Name:        "Aria",
			IsPlayer:    true,
			IDGenerator: idgen.NewSequential("msg"),
		},
	}
}

// NewEnemyBuilder starts an adversary with default stats
func NewEnemyBuilder() *CharacterBuilder {
	return &CharacterBuilder{
		cfg: &character.Config{
			ID:          "enemy-test-001",
			Name:        "Slime",
			WeaponName:  "Goo",
			IDGenerator: idgen.NewSequential("msg"),
		},
	}
}

// WithID sets the character ID
func (b *CharacterBuilder) WithID(id string) *CharacterBuilder {
	b.cfg.ID = id
	return b
}

// WithName sets the display name
func (b *CharacterBuilder) WithName(name string) *CharacterBuilder {
	b.cfg.Name = name
	return b
}

// WithLife sets maximum and current vitality
func (b *CharacterBuilder) WithLife(current, maxLife int) *CharacterBuilder {
	b.cfg.MaxLife = maxLife
	b.cfg.CurrentLife = &current
	return b
}

// WithMaxLife sets maximum vitality and starts at full
func (b *CharacterBuilder) WithMaxLife(maxLife int) *CharacterBuilder {
	b.cfg.MaxLife = maxLife
	b.cfg.CurrentLife = nil
	return b
}

// WithDamage sets weapon damage
func (b *CharacterBuilder) WithDamage(damage int) *CharacterBuilder {
	b.cfg.WeaponDamage = &damage
	return b
}

// WithSpeed sets the turn-order key
func (b *CharacterBuilder) WithSpeed(speed int) *CharacterBuilder {
	b.cfg.Speed = speed
	return b
}

// WithAgility sets the defense attribute
func (b *CharacterBuilder) WithAgility(agility int) *CharacterBuilder {
	b.cfg.Agility = agility
	return b
}

// WithDexterity sets the attack attribute
func (b *CharacterBuilder) WithDexterity(dexterity int) *CharacterBuilder {
	b.cfg.Dexterity = dexterity
	return b
}

// WithXP sets experience and the level-up threshold
func (b *CharacterBuilder) WithXP(xp, toNext int) *CharacterBuilder {
	b.cfg.XP = xp
	b.cfg.XPToNextLevel = toNext
	return b
}

// WithItems seeds the inventory
func (b *CharacterBuilder) WithItems(seed ...*items.Item) *CharacterBuilder {
	b.cfg.Items = append(b.cfg.Items, seed...)
	return b
}

// WithProvider sets the reaction input provider
func (b *CharacterBuilder) WithProvider(p input.Provider) *CharacterBuilder {
	b.cfg.Provider = p
	return b
}

// WithRoller sets the AI reaction roller
func (b *CharacterBuilder) WithRoller(r dice.Roller) *CharacterBuilder {
	b.cfg.Roller = r
	return b
}

// WithReactionTimeout bounds reaction prompts
func (b *CharacterBuilder) WithReactionTimeout(d time.Duration) *CharacterBuilder {
	b.cfg.ReactionTimeout = d
	return b
}

// Config returns the config built so far
func (b *CharacterBuilder) Config() *character.Config {
	return b.cfg
}

// Build creates the character, failing the test on error
func (b *CharacterBuilder) Build(t *testing.T) *character.Character {
	t.Helper()
	c, err := character.New(b.cfg)
	require.NoError(t, err)
	return c
}
