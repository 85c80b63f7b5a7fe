package items

import (
	"log/slog"
)

// EffectRecord is the persisted form of an Effect
type EffectRecord struct {
	Type        EffectKind `json:"type"`
	Value       int        `json:"value"`
	Description string     `json:"description"`
}

// Record is the persisted form of an Item
type Record struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Type        Category       `json:"type"`
	Rarity      Rarity         `json:"rarity"`
	Level       int            `json:"level"`
	Description string         `json:"description"`
	Effects     []EffectRecord `json:"effects"`
	Uses        int            `json:"uses,omitempty"`
	IsEquipped  bool           `json:"isEquipped,omitempty"`
	Modifiers   *StatModifiers `json:"statModifiers,omitempty"`
}

// ToRecord converts an item to its persisted form
func ToRecord(item *Item) Record {
	rec := Record{
		ID:          item.ID,
		Name:        item.Name,
		Type:        item.Category,
		Rarity:      item.Rarity,
		Level:       item.Level,
		Description: item.Description,
		Effects:     make([]EffectRecord, 0, len(item.Effects)),
		Uses:        item.Uses,
		IsEquipped:  item.Equipped,
	}
	for _, e := range item.Effects {
		rec.Effects = append(rec.Effects, EffectRecord{
			Type:        e.Kind(),
			Value:       e.Value(),
			Description: e.Description(),
		})
	}
	if item.Modifiers != (StatModifiers{}) {
		mods := item.Modifiers
		rec.Modifiers = &mods
	}
	return rec
}

// FromRecord rebuilds an item, turning effect records back into behaviour.
// Effects of unknown type are dropped.
func FromRecord(rec Record) *Item {
	item := &Item{
		ID:          rec.ID,
		Name:        rec.Name,
		Category:    rec.Type,
		Rarity:      rec.Rarity,
		Level:       rec.Level,
		Description: rec.Description,
		Uses:        rec.Uses,
		Equipped:    rec.IsEquipped,
	}
	if rec.Modifiers != nil {
		item.Modifiers = *rec.Modifiers
	}
	for _, er := range rec.Effects {
		effect := NewEffect(er.Type, er.Value, er.Description)
		if effect == nil {
			slog.Warn("dropping unknown effect type",
				"item_id", rec.ID,
				"effect_type", er.Type)
			continue
		}
		item.Effects = append(item.Effects, effect)
	}
	return item
}

// Records returns the persisted form of every carried item
func (inv *Inventory) Records() []Record {
	out := make([]Record, 0, len(inv.items))
	for _, item := range inv.items {
		out = append(out, ToRecord(item))
	}
	return out
}

// InventoryFromRecords rebuilds an inventory of the given capacity
func InventoryFromRecords(capacity int, records []Record) *Inventory {
	rebuilt := make([]*Item, 0, len(records))
	for _, rec := range records {
		rebuilt = append(rebuilt, FromRecord(rec))
	}
	return NewInventory(capacity, rebuilt...)
}
