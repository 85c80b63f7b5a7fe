// Package input defines how the engine asks a decision-maker for choices and
// provides Bridge, the request/response implementation a UI drives.
package input

//go:generate mockgen -destination=mock/mock_provider.go -package=inputmock github.com/KirkDiggler/rpg-journey/internal/input Provider

import (
	"context"
	"time"
)

// Provider supplies decisions for player-controlled characters.
//
// RequestChoice returns the ID of one of req.Options. Implementations return
// errors.DeadlineExceeded when req.Timeout elapses and errors.Canceled when
// ctx ends first.
type Provider interface {
	RequestChoice(ctx context.Context, req *ChoiceRequest) (string, error)
	RequestConfirmation(ctx context.Context, message string) (bool, error)
}

// ContextKind says what part of the game is asking
type ContextKind string

// Choice context kinds
const (
	KindCombatReaction    ContextKind = "COMBAT_REACTION"
	KindAdventureDecision ContextKind = "ADVENTURE_DECISION"
	KindCampAction        ContextKind = "CAMP_ACTION"
)

// Option is one selectable answer
type Option struct {
	ID    string
	Label string
}

// ChoiceContext describes who is deciding and why
type ChoiceContext struct {
	ActorName string
	Kind      ContextKind
	Metadata  map[string]string
}

// ChoiceRequest asks for one option out of several
type ChoiceRequest struct {
	Title   string
	Options []Option
	Context ChoiceContext
	// Timeout bounds how long the provider waits. Zero waits until ctx ends.
	Timeout time.Duration
}

// HasOption reports whether id names one of the request's options
func (r *ChoiceRequest) HasOption(id string) bool {
	return hasOption(r.Options, id)
}

func hasOption(options []Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

// Confirmation option IDs
const (
	OptionYes = "yes"
	OptionNo  = "no"
)
