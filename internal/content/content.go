// Package content holds the static game tables: adversaries, loot templates
// and starting classes. The tables ship embedded in the binary.
package content

import (
	"embed"
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
)

//go:embed data/*.yaml
var files embed.FS

// Range is an inclusive integer interval
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Enemy is an adversary template
type Enemy struct {
	Name      string `yaml:"name"`
	HP        int    `yaml:"hp"`
	Damage    int    `yaml:"damage"`
	Weapon    string `yaml:"weapon"`
	Speed     int    `yaml:"speed"`
	Agility   int    `yaml:"agility"`
	Dexterity int    `yaml:"dexterity"`
	// Gold is nil when the template does not set a reward range
	Gold *Range `yaml:"gold"`
	XP   int    `yaml:"xp"`
	Boss bool   `yaml:"boss"`
}

// ItemTemplate is the base an item is scaled from
type ItemTemplate struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Category    items.Category `yaml:"category"`
	Rarity      items.Rarity   `yaml:"rarity"`
	BaseValue   int            `yaml:"base"`
}

// ItemTables groups loot templates by kind
type ItemTables struct {
	Potions []ItemTemplate `yaml:"potions"`
	Swords  []ItemTemplate `yaml:"swords"`
	Shields []ItemTemplate `yaml:"shields"`
	Staves  []ItemTemplate `yaml:"staves"`
}

// Class adjusts a new hero's starting stats
type Class struct {
	Name         string `yaml:"name"`
	MaxLife      int    `yaml:"max_life"`
	WeaponDamage int    `yaml:"weapon_damage"`
}

// Catalog is the full set of content tables
type Catalog struct {
	Enemies []Enemy    `yaml:"enemies"`
	Items   ItemTables `yaml:"items"`
	Classes []Class    `yaml:"classes"`
}

// Load parses the embedded tables
func Load() (*Catalog, error) {
	catalog := &Catalog{}
	for _, name := range []string{"data/enemies.yaml", "data/items.yaml", "data/classes.yaml"} {
		raw, err := files.ReadFile(name)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", name)
		}
		if err := Parse(raw, catalog); err != nil {
			return nil, errors.Wrapf(err, "failed to parse %s", name)
		}
	}

	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// MustLoad is Load for program start-up, where bad embedded data is a build defect
func MustLoad() *Catalog {
	catalog, err := Load()
	if err != nil {
		panic(fmt.Sprintf("content: %v", err))
	}
	return catalog
}

// Parse decodes YAML into catalog, merging with what is already there
func Parse(raw []byte, catalog *Catalog) error {
	if err := yaml.Unmarshal(raw, catalog); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "malformed content table")
	}
	return nil
}

// Validate checks the tables are usable by the adventure and loot code
func (c *Catalog) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(c.NormalEnemies()) == 0 {
		vb.Field("Enemies", "at least one non-boss enemy is required")
	}
	for i, e := range c.Enemies {
		if e.Name == "" {
			vb.Fieldf("Enemies", "enemy %d has no name", i)
		}
		if e.HP <= 0 {
			vb.Fieldf("Enemies", "%s must have positive hp", e.Name)
		}
		if e.Gold != nil && e.Gold.Min > e.Gold.Max {
			vb.Fieldf("Enemies", "%s has an inverted gold range", e.Name)
		}
	}
	if len(c.Items.Potions) < 3 {
		vb.Field("Items.Potions", "three potion tiers are required")
	}
	if len(c.Items.Swords) == 0 {
		vb.Field("Items.Swords", "at least one sword is required")
	}
	if len(c.Items.Shields) == 0 {
		vb.Field("Items.Shields", "at least one shield is required")
	}
	if len(c.Items.Staves) == 0 {
		vb.Field("Items.Staves", "at least one staff is required")
	}

	return vb.Build()
}

// NormalEnemies returns the templates eligible for random encounters
func (c *Catalog) NormalEnemies() []Enemy {
	var out []Enemy
	for _, e := range c.Enemies {
		if !e.Boss {
			out = append(out, e)
		}
	}
	return out
}

// Bosses returns the boss templates
func (c *Catalog) Bosses() []Enemy {
	var out []Enemy
	for _, e := range c.Enemies {
		if e.Boss {
			out = append(out, e)
		}
	}
	return out
}

// RandomEnemy picks a non-boss template uniformly
func (c *Catalog) RandomEnemy(roller dice.Roller) (*Enemy, error) {
	pool := c.NormalEnemies()
	if len(pool) == 0 {
		return nil, errors.NotFound("no enemies available")
	}

	roll, err := roller.Roll(len(pool))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pick enemy")
	}
	enemy := pool[roll-1]
	return &enemy, nil
}

// FindEnemy looks up a template by case-insensitive name
func (c *Catalog) FindEnemy(name string) (*Enemy, error) {
	for _, e := range c.Enemies {
		if strings.EqualFold(e.Name, name) {
			enemy := e
			return &enemy, nil
		}
	}
	return nil, errors.NotFoundf("enemy %q not found", name)
}

// FindClass looks up a class by case-insensitive name. Unknown names get a
// class with no adjustments.
func (c *Catalog) FindClass(name string) Class {
	for _, cl := range c.Classes {
		if strings.EqualFold(cl.Name, name) {
			return cl
		}
	}
	return Class{Name: name}
}
