package encounters

import (
	"context"
	"slices"
	"sync"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	store map[string]*Entry
	// order holds IDs in the order they were first saved
	order []string
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*Entry),
	}
}

// Save stores an entry
func (r *InMemoryRepository) Save(_ context.Context, input *SaveInput) (*SaveOutput, error) {
	if input == nil || input.Entry == nil {
		return nil, errors.InvalidArgument("entry is required")
	}
	if input.Entry.ID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.Entry.ID]; !exists {
		r.order = append(r.order, input.Entry.ID)
	}
	entry := *input.Entry
	r.store[entry.ID] = &entry

	return &SaveOutput{Success: true}, nil
}

// Get retrieves an entry by ID
func (r *InMemoryRepository) Get(_ context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.store[input.EncounterID]
	if !exists {
		return nil, errors.NotFoundf("encounter %s not found", input.EncounterID)
	}

	// Return a copy to prevent external modification
	out := *entry
	return &GetOutput{Entry: &out}, nil
}

// ListByHero returns a hero's entries, newest first
func (r *InMemoryRepository) ListByHero(_ context.Context, input *ListByHeroInput) (*ListByHeroOutput, error) {
	if input == nil || input.HeroID == "" {
		return nil, errors.InvalidArgument("hero ID is required")
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgument("limit must not be negative")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var entries []*Entry
	for _, id := range slices.Backward(r.order) {
		entry := r.store[id]
		if entry.HeroID != input.HeroID {
			continue
		}
		out := *entry
		entries = append(entries, &out)
		if input.Limit > 0 && len(entries) == input.Limit {
			break
		}
	}

	return &ListByHeroOutput{Entries: entries}, nil
}

// Delete removes an entry
func (r *InMemoryRepository) Delete(_ context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || input.EncounterID == "" {
		return nil, errors.InvalidArgument("encounter ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.store[input.EncounterID]; !exists {
		return nil, errors.NotFoundf("encounter %s not found", input.EncounterID)
	}
	delete(r.store, input.EncounterID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == input.EncounterID })

	return &DeleteOutput{Success: true}, nil
}
