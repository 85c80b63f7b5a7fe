// Package saves provides persistence for hero snapshots
package saves

//go:generate mockgen -destination=mock/mock_repository.go -package=savesmock github.com/KirkDiggler/rpg-journey/internal/repositories/saves Repository

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-journey/internal/entities/character"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
)

// Save format constants
const (
	// CurrentVersion is stamped on every record written
	CurrentVersion = 1
	// DefaultSlot is the slot used when none is given
	DefaultSlot = "rpg_journey_save"
)

// Record is the versioned envelope stored for a slot
type Record struct {
	Version int                 `json:"version"`
	SavedAt time.Time           `json:"savedAt"`
	Data    *character.Snapshot `json:"data"`
}

// Repository defines the interface for save slot persistence
type Repository interface {
	// Save writes the snapshot to a slot, replacing what was there
	// Returns errors.InvalidArgument for a nil snapshot
	// Returns errors.Internal for storage failures
	Save(ctx context.Context, input *SaveInput) (*SaveOutput, error)

	// Load reads the snapshot in a slot
	// Returns errors.NotFound if the slot is empty
	// Returns errors.DataLoss if the stored record cannot be decoded
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// Delete clears a slot. Deleting an empty slot is not an error.
	Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error)
}

// SaveInput defines the input for saving
type SaveInput struct {
	Slot     string
	Snapshot *character.Snapshot
}

// SaveOutput defines the output for saving
type SaveOutput struct {
	Record *Record
}

// LoadInput defines the input for loading
type LoadInput struct {
	Slot string
}

// LoadOutput defines the output for loading
type LoadOutput struct {
	Record *Record
	// VersionMismatch is set when the record was written by another format
	// version. The snapshot is still returned.
	VersionMismatch bool
}

// DeleteInput defines the input for deleting
type DeleteInput struct {
	Slot string
}

// DeleteOutput defines the output for deleting
type DeleteOutput struct {
	Deleted bool
}

func slotOrDefault(slot string) string {
	if slot == "" {
		return DefaultSlot
	}
	return slot
}

func encode(rec *Record) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal save record")
	}
	return data, nil
}

func decode(ctx context.Context, slot string, raw []byte) (*LoadOutput, error) {
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "save record is corrupt").
			WithMeta("slot", slot)
	}
	if rec.Data == nil {
		return nil, errors.DataLossf("save record in %s has no data", slot)
	}

	out := &LoadOutput{Record: &rec}
	if rec.Version != CurrentVersion {
		out.VersionMismatch = true
		slog.WarnContext(ctx, "save version differs from current",
			"slot", slot,
			"saved_version", rec.Version,
			"current_version", CurrentVersion)
	}
	return out, nil
}
