// Package combat resolves single attacks between two combatants: defensive
// reactions, the d20 hit check, damage and counter-attacks.
package combat

import (
	"context"

	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/rpg-journey/internal/events"
)

// Reaction is the defensive choice a target makes when attacked
type Reaction string

// Reactions
const (
	ReactionNone    Reaction = "NONE"
	ReactionDodge   Reaction = "DODGE"
	ReactionCounter Reaction = "COUNTER"
)

// ParseReaction maps an option id to a Reaction. Anything unknown is NONE.
func ParseReaction(id string) Reaction {
	switch Reaction(id) {
	case ReactionDodge:
		return ReactionDodge
	case ReactionCounter:
		return ReactionCounter
	default:
		return ReactionNone
	}
}

// Combatant is anything that can take part in combat
type Combatant interface {
	core.Entity

	Name() string
	IsPlayer() bool
	IsAlive() bool
	Speed() int
	Agility() int
	Dexterity() int
	WeaponDamage() int

	// TakeDamage lowers vitality, clamped at zero
	TakeDamage(amount int)
	// HandleReaction decides how to respond to an incoming attack
	HandleReaction(ctx context.Context, attacker Combatant) (Reaction, error)
	// Events is the combatant's own notification bus
	Events() *events.Bus
}

// Modifier converts an attribute score to a roll modifier, floor((score-10)/2)
func Modifier(score int) int {
	diff := score - 10
	modifier := diff / 2
	if diff < 0 && diff%2 != 0 {
		modifier--
	}
	return modifier
}
