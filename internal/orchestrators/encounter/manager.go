// Package encounter runs one combat encounter: turn order, phase transitions,
// player menus and automatic emergency healing.
package encounter

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/events"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

// Config holds the dependencies for a Manager
type Config struct {
	Combatants []Participant
	System     *combat.System
	// Provider answers player menus. Without one the player always attacks.
	Provider    input.Provider
	Clock       clock.Clock
	Pacing      *Pacing
	Emergency   *Emergency
	IDGenerator idgen.Generator
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if len(c.Combatants) < 2 {
		vb.Field("Combatants", "at least two combatants are required")
	}
	for i, p := range c.Combatants {
		if p == nil {
			vb.Fieldf("Combatants", "combatant %d is nil", i)
		}
	}
	if c.System == nil {
		vb.RequiredField("System")
	}
	if c.Pacing != nil {
		if err := c.Pacing.Validate(); err != nil {
			vb.InvalidField("Pacing", err.Error())
		}
	}
	if c.Emergency != nil {
		if err := c.Emergency.Validate(); err != nil {
			vb.InvalidField("Emergency", err.Error())
		}
	}

	return vb.Build()
}

// Manager runs a single encounter. It is used once: Run closes it.
type Manager struct {
	order     []Participant
	system    *combat.System
	provider  input.Provider
	clock     clock.Clock
	pacing    Pacing
	emergency Emergency
	ids       idgen.Generator

	round int

	closeOnce sync.Once
	unsubs    []events.Unsubscribe
}

// NewManager fixes the turn order, fastest first with ties kept in the given
// order, and installs the reactive behaviour on every combatant.
func NewManager(cfg *Config) (*Manager, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	order := append([]Participant(nil), cfg.Combatants...)
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].Speed() > order[j].Speed()
	})

	m := &Manager{
		order:     order,
		system:    cfg.System,
		provider:  cfg.Provider,
		clock:     cfg.Clock,
		pacing:    DefaultPacing(),
		emergency: DefaultEmergency(),
		ids:       cfg.IDGenerator,
	}
	if m.clock == nil {
		m.clock = clock.New()
	}
	if cfg.Pacing != nil {
		m.pacing = *cfg.Pacing
	}
	if cfg.Emergency != nil {
		m.emergency = *cfg.Emergency
	}
	if m.ids == nil {
		m.ids = idgen.NewULID("msg")
	}

	for _, p := range order {
		m.installReactions(p)
	}

	return m, nil
}

// Order returns the combatants in acting order
func (m *Manager) Order() []Participant {
	return append([]Participant(nil), m.order...)
}

// Round returns the number of rounds started so far
func (m *Manager) Round() int {
	return m.round
}

// Close removes the subscriptions installed by NewManager. It is safe to call
// more than once.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		for _, unsub := range m.unsubs {
			unsub()
		}
		m.unsubs = nil
	})
}

func (m *Manager) installReactions(p Participant) {
	bus := p.Events()

	m.unsubs = append(m.unsubs,
		events.On(bus, events.PriorityReactive, func(e events.DamageEvent) {
			m.emergencyHeal(p, e.CurrentLife)
		}),
		events.On(bus, events.PriorityReactive, func(events.HealEvent) {
			m.say(p, fmt.Sprintf("%s was healed!", p.Name()))
		}),
	)
}

func (m *Manager) emergencyHeal(p Participant, currentLife int) {
	if currentLife <= 0 || float64(currentLife) >= float64(p.MaxLife())*m.emergency.Threshold {
		return
	}

	potion, ok := p.FindItem(func(i *items.Item) bool {
		return i.IsConsumable() && i.Heals() && i.NameContains(m.emergency.PotionMarker)
	})
	if !ok {
		return
	}

	m.say(p, fmt.Sprintf("REACTION: %s is in danger and uses %s automatically!", p.Name(), potion.Name))
	p.UseItem(potion.ID)
}

// Run plays the encounter to its end. It returns errors.Canceled or
// errors.DeadlineExceeded when ctx ends first.
func (m *Manager) Run(ctx context.Context) (*Outcome, error) {
	defer m.Close()

	m.broadcastStatus(events.StatusStarting)
	m.broadcast("Combat started!")
	if err := m.pause(ctx, m.pacing.Start); err != nil {
		return nil, err
	}

	for m.ongoing() {
		m.round++
		m.broadcast(fmt.Sprintf("--- Round %d ---", m.round))
		if err := m.pause(ctx, m.pacing.Round); err != nil {
			return nil, err
		}

		for _, actor := range m.order {
			if !actor.IsAlive() {
				continue
			}

			fled, err := m.takeTurn(ctx, actor)
			if err != nil {
				return nil, err
			}
			if fled {
				outcome := &Outcome{Result: events.ResultFled, Rounds: m.round}
				m.broadcast(fmt.Sprintf("%s fled the battle!", actor.Name()))
				m.finish(outcome)
				return outcome, nil
			}

			if err := m.pause(ctx, m.pacing.Action); err != nil {
				return nil, err
			}
			if !m.ongoing() {
				break
			}
		}
	}

	outcome := &Outcome{Result: events.ResultDefeat, Rounds: m.round}
	for _, p := range m.order {
		if p.IsAlive() {
			outcome.Winner = p
			break
		}
	}
	if outcome.Winner != nil && outcome.Winner.IsPlayer() {
		outcome.Result = events.ResultVictory
	}

	if outcome.Winner != nil {
		m.broadcast(fmt.Sprintf("Winner: %s", outcome.Winner.Name()))
	} else {
		m.broadcast("Winner: nobody (draw)")
	}
	m.finish(outcome)

	slog.InfoContext(ctx, "encounter finished",
		"result", outcome.Result,
		"winner", outcome.WinnerName(),
		"rounds", outcome.Rounds)

	return outcome, nil
}

func (m *Manager) takeTurn(ctx context.Context, actor Participant) (bool, error) {
	m.broadcastEvent(events.TurnStartEvent{ActorName: actor.Name(), Round: m.round})

	if actor.IsPlayer() {
		m.broadcastStatus(events.StatusPlayerTurn)

		action, err := m.chooseAction(ctx, actor)
		if err != nil {
			return false, err
		}
		switch action {
		case ActionFlee:
			m.broadcastEvent(events.TurnEndEvent{ActorName: actor.Name(), Round: m.round})
			return true, nil
		case ActionItem:
			if err := m.useItem(ctx, actor); err != nil {
				return false, err
			}
		default:
			if err := m.attack(ctx, actor); err != nil {
				return false, err
			}
		}
	} else {
		m.broadcastStatus(events.StatusEnemyTurn)
		if err := m.attack(ctx, actor); err != nil {
			return false, err
		}
	}

	m.broadcastEvent(events.TurnEndEvent{ActorName: actor.Name(), Round: m.round})
	return false, nil
}

func (m *Manager) chooseAction(ctx context.Context, actor Participant) (string, error) {
	if m.provider == nil {
		return ActionAttack, nil
	}

	id, err := m.provider.RequestChoice(ctx, &input.ChoiceRequest{
		Title: fmt.Sprintf("%s's turn. What will you do?", actor.Name()),
		Options: []input.Option{
			{ID: ActionAttack, Label: "Attack"},
			{ID: ActionItem, Label: "Use item"},
			{ID: ActionFlee, Label: "Flee"},
		},
		Context: input.ChoiceContext{
			ActorName: actor.Name(),
			Kind:      input.KindCombatReaction,
			Metadata:  map[string]string{"sub_type": "TURN_ACTION"},
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", errors.FromContext(ctxErr, "encounter interrupted")
		}
		slog.WarnContext(ctx, "turn menu failed, attacking",
			"actor", actor.Name(),
			"error", err)
		return ActionAttack, nil
	}

	switch id {
	case ActionItem, ActionFlee:
		return id, nil
	default:
		return ActionAttack, nil
	}
}

func (m *Manager) useItem(ctx context.Context, actor Participant) error {
	carried := actor.Items()
	if len(carried) == 0 {
		m.say(actor, "Inventory is empty!")
		return nil
	}
	if m.provider == nil {
		return nil
	}

	options := make([]input.Option, len(carried))
	for i, item := range carried {
		options[i] = input.Option{
			ID:    item.ID,
			Label: fmt.Sprintf("%s (%s)", item.Name, item.Description),
		}
	}

	id, err := m.provider.RequestChoice(ctx, &input.ChoiceRequest{
		Title:   "Which item do you want to use?",
		Options: options,
		Context: input.ChoiceContext{
			ActorName: actor.Name(),
			Kind:      input.KindAdventureDecision,
			Metadata:  map[string]string{"sub_type": "ITEM_USAGE"},
		},
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.FromContext(ctxErr, "encounter interrupted")
		}
		slog.WarnContext(ctx, "item choice failed, no item used",
			"actor", actor.Name(),
			"error", err)
		return nil
	}

	if !actor.UseItem(id) {
		m.say(actor, "That item cannot be used now.")
	}
	return nil
}

func (m *Manager) attack(ctx context.Context, actor Participant) error {
	var target Participant
	for _, p := range m.order {
		if p != actor && p.IsAlive() {
			target = p
			break
		}
	}
	if target == nil {
		return nil
	}

	if _, err := m.system.ResolveAttack(ctx, actor, target); err != nil {
		return err
	}
	return nil
}

func (m *Manager) ongoing() bool {
	alive := 0
	for _, p := range m.order {
		if p.IsAlive() {
			alive++
		}
	}
	return alive > 1
}

func (m *Manager) pause(ctx context.Context, d time.Duration) error {
	if err := m.clock.Sleep(ctx, d); err != nil {
		return errors.FromContext(err, "encounter interrupted")
	}
	return nil
}

func (m *Manager) finish(outcome *Outcome) {
	m.broadcastStatus(events.StatusEnded)
	m.broadcastEvent(events.CombatEndEvent{
		Winner: outcome.WinnerName(),
		Result: outcome.Result,
	})
}

func (m *Manager) broadcastStatus(status events.CombatStatus) {
	m.broadcastEvent(events.CombatStatusEvent{Status: status})
}

func (m *Manager) broadcast(message string) {
	for _, p := range m.order {
		m.say(p, message)
	}
}

func (m *Manager) broadcastEvent(e events.Event) {
	for _, p := range m.order {
		p.Events().Emit(e)
	}
}

func (m *Manager) say(p Participant, message string) {
	p.Events().Emit(events.DomainMessageEvent{ID: m.ids.Generate(), Message: message})
}
