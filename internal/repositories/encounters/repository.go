// Package encounters keeps the journal of finished encounters
package encounters

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-journey/internal/events"
)

// Repository defines the storage interface for the encounter journal
type Repository interface {
	// Save stores an entry, replacing one with the same ID
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Get retrieves an entry by ID
	// Returns errors.NotFound if no entry has that ID
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// ListByHero returns a hero's entries, newest first
	ListByHero(ctx context.Context, input *ListByHeroInput) (*ListByHeroOutput, error)

	// Delete removes an entry
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// Entry is one finished encounter
type Entry struct {
	ID         string              `json:"id"`
	HeroID     string              `json:"heroId"`
	Enemy      string              `json:"enemy"`
	Boss       bool                `json:"boss"`
	Result     events.CombatResult `json:"result"`
	Rounds     int                 `json:"rounds"`
	Gold       int                 `json:"gold"`
	XP         int                 `json:"xp"`
	Loot       string              `json:"loot,omitempty"`
	FinishedAt time.Time           `json:"finishedAt"`
}

// SaveInput defines the request for saving an entry
type SaveInput struct {
	Entry *Entry
}

// SaveOutput defines the response for saving an entry
type SaveOutput struct {
	Success bool
}

// GetInput defines the request for retrieving an entry
type GetInput struct {
	EncounterID string
}

// GetOutput defines the response for retrieving an entry
type GetOutput struct {
	Entry *Entry
}

// ListByHeroInput defines the request for a hero's entries
type ListByHeroInput struct {
	HeroID string
	// Limit caps the number of entries. Zero returns all of them.
	Limit int
}

// ListByHeroOutput defines the response for a hero's entries
type ListByHeroOutput struct {
	Entries []*Entry
}

// DeleteInput defines the request for deleting an entry
type DeleteInput struct {
	EncounterID string
}

// DeleteOutput defines the response for deleting an entry
type DeleteOutput struct {
	Success bool
}
