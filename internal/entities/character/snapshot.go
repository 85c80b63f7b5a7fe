package character

import (
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
)

// Snapshot is the plain data form of a character used for saves
type Snapshot struct {
	ID            string         `json:"id,omitempty"`
	Name          string         `json:"name"`
	ClassName     string         `json:"className"`
	IsPlayer      bool           `json:"isPlayer"`
	MaxLife       int            `json:"maxLife"`
	CurrentLife   int            `json:"currentLife"`
	WeaponDamage  int            `json:"weaponDamage"`
	WeaponName    string         `json:"weaponName"`
	Speed         int            `json:"speed"`
	Agility       int            `json:"agility"`
	Dexterity     int            `json:"dexterity"`
	Speech        int            `json:"speech"`
	Intelligence  int            `json:"intelligence"`
	Persistence   int            `json:"persistence"`
	Gold          int            `json:"gold"`
	Level         int            `json:"level"`
	XP            int            `json:"xp"`
	XPToNextLevel int            `json:"xpToNextLevel"`
	Inventory     []items.Record `json:"inventoryData"`
}

// Snapshot captures the character's persistent state
func (c *Character) Snapshot() *Snapshot {
	return &Snapshot{
		ID:            c.id,
		Name:          c.name,
		ClassName:     c.className,
		IsPlayer:      c.isPlayer,
		MaxLife:       c.maxLife,
		CurrentLife:   c.currentLife,
		WeaponDamage:  c.weaponDamage,
		WeaponName:    c.weaponName,
		Speed:         c.speed,
		Agility:       c.agility,
		Dexterity:     c.dexterity,
		Speech:        c.speech,
		Intelligence:  c.intelligence,
		Persistence:   c.persistence,
		Gold:          c.gold,
		Level:         c.level,
		XP:            c.xp,
		XPToNextLevel: c.xpToNextLevel,
		Inventory:     c.inventory.Records(),
	}
}

// FromSnapshot rebuilds a character. Dependencies such as the provider and
// roller are taken from deps, which may be nil.
func FromSnapshot(snap *Snapshot, deps *Config) (*Character, error) {
	if snap == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}

	cfg := &Config{}
	if deps != nil {
		cfg.Provider = deps.Provider
		cfg.Roller = deps.Roller
		cfg.Progression = deps.Progression
		cfg.ReactionTimeout = deps.ReactionTimeout
		cfg.IDGenerator = deps.IDGenerator
		cfg.InventoryCapacity = deps.InventoryCapacity
	}

	currentLife := snap.CurrentLife
	weaponDamage := snap.WeaponDamage
	cfg.ID = snap.ID
	cfg.Name = snap.Name
	cfg.ClassName = snap.ClassName
	cfg.IsPlayer = snap.IsPlayer
	cfg.MaxLife = snap.MaxLife
	cfg.CurrentLife = &currentLife
	cfg.WeaponDamage = &weaponDamage
	cfg.WeaponName = snap.WeaponName
	cfg.Speed = snap.Speed
	cfg.Agility = snap.Agility
	cfg.Dexterity = snap.Dexterity
	cfg.Speech = snap.Speech
	cfg.Intelligence = snap.Intelligence
	cfg.Persistence = snap.Persistence
	cfg.Gold = snap.Gold
	cfg.Level = snap.Level
	cfg.XP = snap.XP
	cfg.XPToNextLevel = snap.XPToNextLevel

	for _, rec := range snap.Inventory {
		cfg.Items = append(cfg.Items, items.FromRecord(rec))
	}

	c, err := New(cfg)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "snapshot does not describe a valid character")
	}
	return c, nil
}
