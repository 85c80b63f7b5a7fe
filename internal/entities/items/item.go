// Package items defines item descriptors, their effects and the bounded
// inventory a character carries.
package items

import (
	"strings"
)

// Category groups items by how they are used
type Category string

// Item categories
const (
	CategoryConsumable Category = "CONSUMABLE"
	CategoryWeapon     Category = "WEAPON"
	CategoryArmor      Category = "ARMOR"
	CategoryAccessory  Category = "ACCESSORY"
)

// Equippable reports whether items of this category can be equipped
func (c Category) Equippable() bool {
	return c == CategoryWeapon || c == CategoryArmor || c == CategoryAccessory
}

// Rarity is the loot tier of an item
type Rarity string

// Rarity tiers
const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// StatModifiers are the bonuses an equippable would grant. Combat does not read
// them yet.
type StatModifiers struct {
	Damage  int `json:"damage,omitempty"`
	Defense int `json:"defense,omitempty"`
}

// Item describes one inventory entry. Everything except Uses and Equipped is
// fixed at creation.
type Item struct {
	ID          string
	Name        string
	Category    Category
	Rarity      Rarity
	Level       int
	Description string
	Effects     []Effect

	// Uses is the remaining charges of a consumable
	Uses int
	// Equipped is only meaningful for equippables
	Equipped  bool
	Modifiers StatModifiers
}

// IsConsumable reports whether the item is used up by applying it
func (i *Item) IsConsumable() bool {
	return i.Category == CategoryConsumable
}

// Heals reports whether any effect of the item restores vitality
func (i *Item) Heals() bool {
	for _, e := range i.Effects {
		if e.Kind() == EffectHeal {
			return true
		}
	}
	return false
}

// NameContains does a case-insensitive substring match on the item name
func (i *Item) NameContains(marker string) bool {
	return strings.Contains(strings.ToLower(i.Name), strings.ToLower(marker))
}

// clone copies the item so callers cannot reach inventory state
func (i *Item) clone() Item {
	c := *i
	c.Effects = append([]Effect(nil), i.Effects...)
	return c
}
