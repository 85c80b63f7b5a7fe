// Package adventure runs encounters for a hero: it spawns the adversary,
// hands the fight to the turn manager and pays out rewards.
package adventure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/content"
	"github.com/KirkDiggler/rpg-journey/internal/entities/character"
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/events"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/loot"
	"github.com/KirkDiggler/rpg-journey/internal/orchestrators/encounter"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/encounters"
)

var tracer = otel.Tracer("rpg-journey/adventure")

// DefaultWeaponName is given to adversaries whose template names no weapon
const DefaultWeaponName = "Claw"

// Rewards controls what a victory pays when the template does not say
type Rewards struct {
	GoldMin int `koanf:"gold_min"`
	GoldMax int `koanf:"gold_max"`
	XP      int `koanf:"xp"`
	// LootThreshold is the d100 result a drop must exceed
	LootThreshold int `koanf:"loot_threshold"`
}

// DefaultRewards returns the standard payout rules
func DefaultRewards() Rewards {
	return Rewards{
		GoldMin:       10,
		GoldMax:       50,
		XP:            20,
		LootThreshold: 40,
	}
}

// Validate checks the ranges are usable
func (r *Rewards) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateNonNegative("GoldMin", r.GoldMin, vb)
	if r.GoldMax < r.GoldMin {
		vb.Field("GoldMax", "must not be below GoldMin")
	}
	errors.ValidateNonNegative("XP", r.XP, vb)
	errors.ValidateRange("LootThreshold", r.LootThreshold, 0, 100, vb)
	return vb.Build()
}

// Recorder receives one observation per finished encounter
type Recorder interface {
	RecordEncounter(enemy string, result events.CombatResult, rounds int)
}

// Config holds the dependencies for a Service
type Config struct {
	Hero    *character.Character
	Catalog *content.Catalog
	Loot    *loot.Generator
	System  *combat.System

	Provider    input.Provider
	Roller      dice.Roller
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Pacing      *encounter.Pacing
	Emergency   *encounter.Emergency
	Rewards     *Rewards
	Metrics     Recorder
	// Journal records every finished encounter when set
	Journal encounters.Repository

	// MaxEncounters seeds the run context
	MaxEncounters int

	// OnEncounterStart is called with the adversary before the fight begins
	OnEncounterStart func(enemy *character.Character)
	// OnEncounterEnd is called once the encounter is over, whatever the result
	OnEncounterEnd func()
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Hero == nil {
		vb.RequiredField("Hero")
	}
	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Loot == nil {
		vb.RequiredField("Loot")
	}
	if c.System == nil {
		vb.RequiredField("System")
	}
	if c.Rewards != nil {
		if err := c.Rewards.Validate(); err != nil {
			vb.InvalidField("Rewards", err.Error())
		}
	}

	return vb.Build()
}

// Service runs encounters for one hero
type Service struct {
	hero      *character.Character
	catalog   *content.Catalog
	loot      *loot.Generator
	system    *combat.System
	provider  input.Provider
	roller    dice.Roller
	clock     clock.Clock
	ids       idgen.Generator
	pacing    *encounter.Pacing
	emergency *encounter.Emergency
	rewards   Rewards
	metrics   Recorder
	journal   encounters.Repository
	entryIDs  idgen.Generator
	run       *RunContext

	onStart func(*character.Character)
	onEnd   func()
}

// NewService creates an adventure service
func NewService(cfg *Config) (*Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Service{
		hero:      cfg.Hero,
		catalog:   cfg.Catalog,
		loot:      cfg.Loot,
		system:    cfg.System,
		provider:  cfg.Provider,
		roller:    cfg.Roller,
		clock:     cfg.Clock,
		ids:       cfg.IDGenerator,
		pacing:    cfg.Pacing,
		emergency: cfg.Emergency,
		rewards:   DefaultRewards(),
		metrics:   cfg.Metrics,
		journal:   cfg.Journal,
		entryIDs:  idgen.NewULID("enc"),
		run:       NewRunContext(cfg.MaxEncounters),
		onStart:   cfg.OnEncounterStart,
		onEnd:     cfg.OnEncounterEnd,
	}
	if cfg.Rewards != nil {
		s.rewards = *cfg.Rewards
	}
	if s.roller == nil {
		s.roller = dice.DefaultRoller
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.ids == nil {
		s.ids = idgen.NewULID("msg")
	}

	return s, nil
}

// RunContext returns the progress of the current run
func (s *Service) RunContext() *RunContext {
	return s.run
}

// HandleEncounterInput defines the input for one encounter
type HandleEncounterInput struct {
	// Enemy is the template to fight. Nil picks a random non-boss.
	Enemy *content.Enemy
}

// HandleEncounterOutput defines the result of one encounter
type HandleEncounterOutput struct {
	Outcome *encounter.Outcome
	Enemy   *character.Character
	Gold    int
	XP      int
	// Loot is the dropped item, nil when nothing dropped
	Loot *items.Item
	// LootKept is false when the drop did not fit in the inventory
	LootKept bool
}

// HandleEncounter fights one adversary to the end and pays out a victory
func (s *Service) HandleEncounter(ctx context.Context, input *HandleEncounterInput) (out *HandleEncounterOutput, err error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	template := input.Enemy
	if template == nil {
		template, err = s.catalog.RandomEnemy(s.roller)
		if err != nil {
			return nil, errors.Wrap(err, "failed to pick an adversary")
		}
	}

	ctx, span := tracer.Start(ctx, "adventure.encounter",
		trace.WithAttributes(
			attribute.String("enemy.name", template.Name),
			attribute.Bool("enemy.boss", template.Boss),
			attribute.Int("hero.level", s.hero.Level()),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	enemy, err := s.spawn(template)
	if err != nil {
		return nil, err
	}

	if s.onStart != nil {
		s.onStart(enemy)
	}
	defer func() {
		if s.onEnd != nil {
			s.onEnd()
		}
		s.hero.Events().Emit(events.CombatStatusEvent{Status: events.StatusIdle})
	}()

	manager, err := encounter.NewManager(&encounter.Config{
		Combatants:  []encounter.Participant{s.hero, enemy},
		System:      s.system,
		Provider:    s.provider,
		Clock:       s.clock,
		Pacing:      s.pacing,
		Emergency:   s.emergency,
		IDGenerator: s.ids,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to set up encounter")
	}

	outcome, err := manager.Run(ctx)
	if err != nil {
		return nil, err
	}

	out = &HandleEncounterOutput{Outcome: outcome, Enemy: enemy}
	if outcome.Result == events.ResultVictory {
		if err := s.payOut(ctx, template, out); err != nil {
			return nil, err
		}
		if template.Boss {
			s.run.BossDefeated = true
		}
	}
	s.run.IncrementEncounters()

	span.SetAttributes(
		attribute.String("encounter.result", string(outcome.Result)),
		attribute.Int("encounter.rounds", outcome.Rounds),
		attribute.Int("reward.gold", out.Gold),
		attribute.Int("reward.xp", out.XP),
	)
	if s.metrics != nil {
		s.metrics.RecordEncounter(template.Name, outcome.Result, outcome.Rounds)
	}
	s.record(ctx, template, out)

	slog.InfoContext(ctx, "encounter handled",
		"enemy", template.Name,
		"result", outcome.Result,
		"gold", out.Gold,
		"xp", out.XP,
		"encounters", s.run.EncounterCount)

	return out, nil
}

// record writes the encounter to the journal. A journal failure does not fail
// the encounter.
func (s *Service) record(ctx context.Context, template *content.Enemy, out *HandleEncounterOutput) {
	if s.journal == nil {
		return
	}

	entry := &encounters.Entry{
		ID:         s.entryIDs.Generate(),
		HeroID:     s.hero.GetID(),
		Enemy:      template.Name,
		Boss:       template.Boss,
		Result:     out.Outcome.Result,
		Rounds:     out.Outcome.Rounds,
		Gold:       out.Gold,
		XP:         out.XP,
		FinishedAt: s.clock.Now(),
	}
	if out.Loot != nil {
		entry.Loot = out.Loot.Name
	}

	if _, err := s.journal.Save(ctx, &encounters.SaveInput{Entry: entry}); err != nil {
		slog.WarnContext(ctx, "failed to record encounter",
			"enemy", template.Name,
			"error", err)
	}
}

func (s *Service) spawn(template *content.Enemy) (*character.Character, error) {
	weapon := template.Weapon
	if weapon == "" {
		weapon = DefaultWeaponName
	}

	damage := template.Damage
	enemy, err := character.New(&character.Config{
		Name:         template.Name,
		ClassName:    "Monster",
		MaxLife:      template.HP,
		WeaponDamage: &damage,
		WeaponName:   weapon,
		Speed:        template.Speed,
		Agility:      template.Agility,
		Dexterity:    template.Dexterity,
		Roller:       s.roller,
		IDGenerator:  s.ids,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to spawn %s", template.Name)
	}
	return enemy, nil
}

func (s *Service) payOut(ctx context.Context, template *content.Enemy, out *HandleEncounterOutput) error {
	goldMin, goldMax := s.rewards.GoldMin, s.rewards.GoldMax
	if template.Gold != nil {
		goldMin, goldMax = template.Gold.Min, template.Gold.Max
	}
	gold, err := s.rollBetween(goldMin, goldMax)
	if err != nil {
		return errors.Wrap(err, "failed to roll gold")
	}

	xp := template.XP
	if xp <= 0 {
		xp = s.rewards.XP
	}

	s.hero.Say(fmt.Sprintf("%s found %d gold.", s.hero.Name(), gold))
	s.hero.AddRewards(gold, xp)
	out.Gold = gold
	out.XP = xp

	roll, err := s.roller.Roll(100)
	if err != nil {
		return errors.Wrap(err, "failed to roll for loot")
	}
	if roll <= s.rewards.LootThreshold {
		return nil
	}

	item, err := s.loot.RandomItem(s.hero.Level())
	if err != nil {
		slog.WarnContext(ctx, "loot generation failed, using fallback", "error", err)
		item = s.loot.Fallback()
	}

	s.hero.Say(fmt.Sprintf("Loot found: %s!", item.Name))
	out.Loot = item
	out.LootKept = s.hero.AddItem(item)
	if !out.LootKept {
		s.hero.Say(fmt.Sprintf("Inventory is full! %s was left behind.", item.Name))
	}
	return nil
}

// rollBetween draws uniformly from [lo, hi]
func (s *Service) rollBetween(lo, hi int) (int, error) {
	if hi <= lo {
		return lo, nil
	}
	roll, err := s.roller.Roll(hi - lo + 1)
	if err != nil {
		return 0, err
	}
	return lo + roll - 1, nil
}
