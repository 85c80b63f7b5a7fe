// Package repair finds stored records that can no longer be read back
package repair

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	redisclient "github.com/KirkDiggler/rpg-journey/internal/redis"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/saves"
)

// Problem names a key and why it cannot be loaded
type Problem struct {
	Key    string
	Reason string
}

// ScanOutput defines the output for a scan
type ScanOutput struct {
	Checked  int
	Problems []Problem
}

// DeleteInput defines the input for removing keys
type DeleteInput struct {
	Keys []string
}

// DeleteOutput defines the output for removing keys
type DeleteOutput struct {
	Deleted int
}

// Config holds the dependencies for a Scanner
type Config struct {
	Client redisclient.Client
	// BatchSize is the SCAN count hint; zero lets the server decide
	BatchSize int64
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.BatchSize < 0 {
		vb.InvalidField("BatchSize", "must not be negative")
	}

	return vb.Build()
}

// Scanner walks save slots and journal entries looking for unreadable records
type Scanner struct {
	client    redisclient.Client
	batchSize int64
}

// NewScanner creates a scanner
func NewScanner(cfg *Config) (*Scanner, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Scanner{client: cfg.Client, batchSize: cfg.BatchSize}, nil
}

// Scan checks every save slot and journal entry
func (s *Scanner) Scan(ctx context.Context) (*ScanOutput, error) {
	out := &ScanOutput{}

	if err := s.scan(ctx, saves.KeyPrefix+"*", out, checkSave); err != nil {
		return nil, err
	}
	if err := s.scan(ctx, encounters.KeyPrefix+"*", out, checkEntry); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "repair scan finished", "checked", out.Checked, "problems", len(out.Problems))
	return out, nil
}

func (s *Scanner) scan(ctx context.Context, pattern string, out *ScanOutput, check func(string, []byte) string) error {
	iter := s.client.Scan(ctx, 0, pattern, s.batchSize).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		// hero indexes are lists of ids, not records
		if strings.HasPrefix(key, encounters.HeroIndexPrefix) {
			continue
		}

		out.Checked++
		raw, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			out.Problems = append(out.Problems, Problem{Key: key, Reason: "unreadable: " + err.Error()})
			continue
		}
		if reason := check(key, raw); reason != "" {
			out.Problems = append(out.Problems, Problem{Key: key, Reason: reason})
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrapf(err, "failed to scan %s", pattern)
	}
	return nil
}

func checkSave(_ string, raw []byte) string {
	var rec saves.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return "corrupt JSON"
	}
	if rec.Data == nil {
		return "save has no hero data"
	}
	if rec.Version != saves.CurrentVersion {
		return "old format version"
	}
	return ""
}

func checkEntry(key string, raw []byte) string {
	var entry encounters.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return "corrupt JSON"
	}
	if entry.ID != strings.TrimPrefix(key, encounters.KeyPrefix) {
		return "entry id does not match its key"
	}
	if entry.HeroID == "" {
		return "entry has no hero"
	}
	return ""
}

// Delete removes the given keys and drops journal ids from their hero index
func (s *Scanner) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil || len(input.Keys) == 0 {
		return &DeleteOutput{}, nil
	}

	n, err := s.client.Del(ctx, input.Keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete keys")
	}

	for _, key := range input.Keys {
		if !strings.HasPrefix(key, encounters.KeyPrefix) {
			continue
		}
		if err := s.dropFromIndexes(ctx, strings.TrimPrefix(key, encounters.KeyPrefix)); err != nil {
			return nil, err
		}
	}

	slog.InfoContext(ctx, "repair deleted keys", "requested", len(input.Keys), "deleted", n)
	return &DeleteOutput{Deleted: int(n)}, nil
}

// dropFromIndexes removes id from every hero index, since a corrupt entry
// no longer says which hero owns it
func (s *Scanner) dropFromIndexes(ctx context.Context, id string) error {
	iter := s.client.Scan(ctx, 0, encounters.HeroIndexPrefix+"*", s.batchSize).Iterator()
	for iter.Next(ctx) {
		if err := s.client.LRem(ctx, iter.Val(), 0, id).Err(); err != nil {
			return errors.Wrapf(err, "failed to unindex encounter %s", id)
		}
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "failed to scan hero indexes")
	}
	return nil
}
