package items

import (
	"log/slog"
	"slices"
)

// DefaultCapacity is the number of items a character can carry
const DefaultCapacity = 20

// Inventory is an ordered, bounded list of items. It is owned by a single
// character and is not safe for concurrent use.
type Inventory struct {
	capacity int
	items    []*Item
}

// NewInventory creates an inventory. A capacity <= 0 uses DefaultCapacity.
// Initial items beyond capacity are dropped.
func NewInventory(capacity int, initial ...*Item) *Inventory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	inv := &Inventory{
		capacity: capacity,
		items:    make([]*Item, 0, len(initial)),
	}
	for _, item := range initial {
		if !inv.Add(item) {
			slog.Warn("dropping item beyond inventory capacity",
				"item_id", item.ID,
				"capacity", capacity)
		}
	}
	return inv
}

// Add appends item. It returns false, leaving the inventory untouched, when the
// inventory is full or item is nil.
func (inv *Inventory) Add(item *Item) bool {
	if item == nil || len(inv.items) >= inv.capacity {
		return false
	}
	inv.items = append(inv.items, item)
	return true
}

// Remove takes the item with id out of the inventory and returns it
func (inv *Inventory) Remove(id string) (*Item, bool) {
	idx := inv.indexOf(id)
	if idx < 0 {
		return nil, false
	}
	item := inv.items[idx]
	inv.items = slices.Delete(inv.items, idx, idx+1)
	return item, true
}

// Use applies every effect of the consumable with id to target, spends one use
// and removes the item when no uses remain. Non-consumables and unknown ids
// return false without side effects.
func (inv *Inventory) Use(id string, target Target) bool {
	idx := inv.indexOf(id)
	if idx < 0 {
		return false
	}

	item := inv.items[idx]
	if !item.IsConsumable() {
		return false
	}

	for _, effect := range item.Effects {
		effect.Apply(target)
	}

	item.Uses--
	if item.Uses <= 0 {
		inv.Remove(id)
	}
	return true
}

// Get returns a copy of the item with id
func (inv *Inventory) Get(id string) (Item, bool) {
	idx := inv.indexOf(id)
	if idx < 0 {
		return Item{}, false
	}
	return inv.items[idx].clone(), true
}

// Items returns copies of the carried items in insertion order
func (inv *Inventory) Items() []Item {
	out := make([]Item, len(inv.items))
	for i, item := range inv.items {
		out[i] = item.clone()
	}
	return out
}

// Find returns a copy of the first item matching pred
func (inv *Inventory) Find(pred func(*Item) bool) (Item, bool) {
	for _, item := range inv.items {
		if pred(item) {
			return item.clone(), true
		}
	}
	return Item{}, false
}

// Len returns the number of items carried
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Capacity returns the maximum number of items
func (inv *Inventory) Capacity() int {
	return inv.capacity
}

// Full reports whether another Add would fail
func (inv *Inventory) Full() bool {
	return len(inv.items) >= inv.capacity
}

func (inv *Inventory) indexOf(id string) int {
	return slices.IndexFunc(inv.items, func(i *Item) bool {
		return i.ID == id
	})
}
