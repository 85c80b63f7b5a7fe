// Package loot creates items dropped after a won encounter
package loot

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-journey/internal/content"
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

// FallbackIDPrefix starts the id of every item handed out when nothing else
// can be made
const FallbackIDPrefix = "fallback-"

// Config holds the dependencies for a Generator
type Config struct {
	Catalog     *content.Catalog
	Roller      dice.Roller
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}

	return vb.Build()
}

// Generator builds level-scaled items from the catalog templates
type Generator struct {
	tables content.ItemTables
	roller dice.Roller
	ids    idgen.Generator
}

// NewGenerator creates a loot generator
func NewGenerator(cfg *Config) (*Generator, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	g := &Generator{
		tables: cfg.Catalog.Items,
		roller: cfg.Roller,
		ids:    cfg.IDGenerator,
	}
	if g.roller == nil {
		g.roller = dice.DefaultRoller
	}
	if g.ids == nil {
		g.ids = idgen.NewULID("item")
	}
	return g, nil
}

// RandomItem draws a potion 40% of the time, a weapon 30% and armor 30%
func (g *Generator) RandomItem(level int) (*items.Item, error) {
	level = max(level, 1)

	roll, err := g.roller.Roll(100)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll item kind")
	}

	switch {
	case roll <= 40:
		return g.potion(level)
	case roll <= 70:
		return g.weapon(level)
	default:
		return g.armor(level)
	}
}

// potion tiers: 10% top, 30% middle, 60% bottom
func (g *Generator) potion(level int) (*items.Item, error) {
	templates := g.tables.Potions
	if len(templates) < 3 {
		return nil, errors.FailedPrecondition("potion table needs three tiers")
	}

	roll, err := g.roller.Roll(100)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll potion tier")
	}

	t := templates[0]
	switch {
	case roll <= 10:
		t = templates[2]
	case roll <= 40:
		t = templates[1]
	}

	return &items.Item{
		ID:          g.ids.Generate(),
		Name:        t.Name,
		Category:    items.CategoryConsumable,
		Rarity:      t.Rarity,
		Level:       level,
		Description: t.Description,
		Effects:     []items.Effect{items.NewHealEffect(t.BaseValue, t.Description)},
		Uses:        1,
	}, nil
}

// weapon damage scales by two per level; one weapon in five is a staff
func (g *Generator) weapon(level int) (*items.Item, error) {
	roll, err := g.roller.Roll(100)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll weapon family")
	}

	templates := g.tables.Swords
	if roll > 80 {
		templates = g.tables.Staves
	}
	t, err := g.pick(templates)
	if err != nil {
		return nil, err
	}

	damage := t.BaseValue + level*2
	return &items.Item{
		ID:          g.ids.Generate(),
		Name:        t.Name,
		Category:    items.CategoryWeapon,
		Rarity:      t.Rarity,
		Level:       level,
		Description: t.Description,
		Effects:     []items.Effect{items.NewDamageEffect(damage, t.Description)},
		Modifiers:   items.StatModifiers{Damage: damage},
	}, nil
}

// armor defense scales by one per two levels and carries no effects
func (g *Generator) armor(level int) (*items.Item, error) {
	t, err := g.pick(g.tables.Shields)
	if err != nil {
		return nil, err
	}

	return &items.Item{
		ID:          g.ids.Generate(),
		Name:        t.Name,
		Category:    items.CategoryArmor,
		Rarity:      t.Rarity,
		Level:       level,
		Description: t.Description,
		Modifiers:   items.StatModifiers{Defense: t.BaseValue + level/2},
	}, nil
}

func (g *Generator) pick(templates []content.ItemTemplate) (content.ItemTemplate, error) {
	if len(templates) == 0 {
		return content.ItemTemplate{}, errors.FailedPrecondition("item table is empty")
	}
	roll, err := g.roller.Roll(len(templates))
	if err != nil {
		return content.ItemTemplate{}, errors.Wrap(err, "failed to pick template")
	}
	return templates[roll-1], nil
}

// Fallback returns a consolation item with its own id
func (g *Generator) Fallback() *items.Item {
	return &items.Item{
		ID:          FallbackIDPrefix + g.ids.Generate(),
		Name:        "Stale Bread",
		Category:    items.CategoryConsumable,
		Rarity:      items.RarityCommon,
		Level:       1,
		Description: "Better than nothing.",
		Effects:     []items.Effect{items.NewHealEffect(5, "Heals 5 HP")},
		Uses:        1,
	}
}
