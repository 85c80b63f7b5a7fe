package testutils

import (
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
)

// Fixture names
const (
	TestHeroName  = "Aria"
	TestEnemyName = "Slime"
)

// Potion returns a single-use healing potion
func Potion(id string, heal int) *items.Item {
	return &items.Item{
		ID:          id,
		Name:        "Small Health Potion",
		Category:    items.CategoryConsumable,
		Rarity:      items.RarityCommon,
		Level:       1,
		Description: "Heals some HP.",
		Effects:     []items.Effect{items.NewHealEffect(heal, "Heals some HP.")},
		Uses:        1,
	}
}

// Bread returns a consumable that heals but is not a potion
func Bread(id string) *items.Item {
	return &items.Item{
		ID:          id,
		Name:        "Stale Bread",
		Category:    items.CategoryConsumable,
		Rarity:      items.RarityCommon,
		Level:       1,
		Description: "Better than nothing.",
		Effects:     []items.Effect{items.NewHealEffect(5, "Heals 5 HP")},
		Uses:        1,
	}
}

// Sword returns an equippable weapon
func Sword(id string) *items.Item {
	return &items.Item{
		ID:          id,
		Name:        "Short Sword",
		Category:    items.CategoryWeapon,
		Rarity:      items.RarityCommon,
		Level:       1,
		Description: "+12 Damage.",
		Effects:     []items.Effect{items.NewDamageEffect(14, "+12 Damage.")},
		Modifiers:   items.StatModifiers{Damage: 14},
	}
}
