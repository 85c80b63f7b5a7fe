package saves

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
)

// InMemoryRepository implements Repository using in-memory storage. Records
// are kept encoded so a load never aliases a saved snapshot.
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string][]byte
	clock clock.Clock
}

// NewInMemory creates a new in-memory repository
func NewInMemory(c clock.Clock) *InMemoryRepository {
	if c == nil {
		c = clock.New()
	}
	return &InMemoryRepository{
		store: make(map[string][]byte),
		clock: c,
	}
}

// Save stores a snapshot
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Snapshot == nil {
		return nil, errors.InvalidArgument("snapshot is required")
	}

	rec := &Record{
		Version: CurrentVersion,
		SavedAt: r.clock.Now().UTC(),
		Data:    input.Snapshot,
	}
	data, err := encode(rec)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[slotOrDefault(input.Slot)] = data

	return &SaveOutput{Record: rec}, nil
}

// Load retrieves a snapshot
func (r *InMemoryRepository) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	slot := DefaultSlot
	if input != nil {
		slot = slotOrDefault(input.Slot)
	}

	r.mu.RLock()
	raw, exists := r.store[slot]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.NotFoundf("no save in slot %s", slot)
	}
	return decode(ctx, slot, raw)
}

// Delete removes a snapshot
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	slot := DefaultSlot
	if input != nil {
		slot = slotOrDefault(input.Slot)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.store[slot]
	delete(r.store, slot)
	return &DeleteOutput{Deleted: exists}, nil
}

// Put stores raw bytes in a slot. Tests use it to plant old or corrupt records.
func (r *InMemoryRepository) Put(slot string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.store[slotOrDefault(slot)] = raw
}
