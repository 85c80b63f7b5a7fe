package encounter

import (
	"time"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/events"
)

// Participant is a combatant the manager can also heal and equip from
type Participant interface {
	combat.Combatant

	CurrentLife() int
	MaxLife() int
	Items() []items.Item
	FindItem(pred func(*items.Item) bool) (items.Item, bool)
	UseItem(id string) bool
}

// Turn menu option IDs
const (
	ActionAttack = "ATTACK"
	ActionItem   = "ITEM"
	ActionFlee   = "FLEE"
)

// Outcome is how an encounter ended. Winner is nil when the player fled or
// nobody survived.
type Outcome struct {
	Result events.CombatResult
	Winner Participant
	Rounds int
}

// WinnerName returns the winner's name or an empty string
func (o *Outcome) WinnerName() string {
	if o.Winner == nil {
		return ""
	}
	return o.Winner.Name()
}

// Pacing holds the presentation pauses between steps of an encounter
type Pacing struct {
	Start  time.Duration `koanf:"start"`
	Round  time.Duration `koanf:"round"`
	Action time.Duration `koanf:"action"`
}

// DefaultPacing returns the standard pauses
func DefaultPacing() Pacing {
	return Pacing{
		Start:  time.Second,
		Round:  800 * time.Millisecond,
		Action: time.Second,
	}
}

// Validate rejects negative pauses
func (p *Pacing) Validate() error {
	vb := errors.NewValidationBuilder()
	if p.Start < 0 {
		vb.Field("Start", "must not be negative")
	}
	if p.Round < 0 {
		vb.Field("Round", "must not be negative")
	}
	if p.Action < 0 {
		vb.Field("Action", "must not be negative")
	}
	return vb.Build()
}

// Emergency controls automatic potion use
type Emergency struct {
	// Threshold is the fraction of max life below which a potion is used
	Threshold float64 `koanf:"threshold"`
	// PotionMarker is matched case-insensitively against item names
	PotionMarker string `koanf:"potion_marker"`
}

// DefaultEmergency returns the standard emergency rule
func DefaultEmergency() Emergency {
	return Emergency{
		Threshold:    0.25,
		PotionMarker: "potion",
	}
}

// Validate checks the threshold is a fraction
func (e *Emergency) Validate() error {
	vb := errors.NewValidationBuilder()
	if e.Threshold < 0 || e.Threshold > 1 {
		vb.Field("Threshold", "must be between 0 and 1")
	}
	errors.ValidateRequired("PotionMarker", e.PotionMarker, vb)
	return vb.Build()
}
