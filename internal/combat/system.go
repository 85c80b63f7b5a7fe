package combat

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
)

// Rules holds the numbers behind attack resolution
type Rules struct {
	DieSize           int           `koanf:"die_size"`
	DefenseBase       int           `koanf:"defense_base"`
	DodgeBonus        int           `koanf:"dodge_bonus"`
	CounterDifficulty int           `koanf:"counter_difficulty"`
	CounterPause      time.Duration `koanf:"counter_pause"`
}

// DefaultRules returns the standard d20 rules
func DefaultRules() Rules {
	return Rules{
		DieSize:           20,
		DefenseBase:       10,
		DodgeBonus:        2,
		CounterDifficulty: 12,
		CounterPause:      500 * time.Millisecond,
	}
}

// Validate checks the rules are usable
func (r *Rules) Validate() error {
	vb := errors.NewValidationBuilder()
	if r.DieSize < 2 {
		vb.Field("DieSize", "must be at least 2")
	}
	errors.ValidateNonNegative("DodgeBonus", r.DodgeBonus, vb)
	errors.ValidatePositive("CounterDifficulty", r.CounterDifficulty, vb)
	if r.CounterPause < 0 {
		vb.Field("CounterPause", "must not be negative")
	}
	return vb.Build()
}

// AttackResult describes how one attack played out
type AttackResult struct {
	Hit bool
	// Critical is set when the die showed its highest face
	Critical     bool
	Roll         int
	AttackValue  int
	DefenseValue int
	Damage       int
	Reaction     Reaction
	// Countered is set when a counter-attack landed on the attacker
	Countered     bool
	CounterDamage int
}

// Config holds the dependencies for a System
type Config struct {
	Roller dice.Roller
	Clock  clock.Clock
	Rules  *Rules
	// Metrics is optional
	Metrics Recorder
}

// Recorder receives attack outcomes
type Recorder interface {
	RecordAttack(result *AttackResult)
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Rules != nil {
		if err := c.Rules.Validate(); err != nil {
			vb.InvalidField("Rules", err.Error())
		}
	}

	return vb.Build()
}

// System resolves attacks
type System struct {
	roller  dice.Roller
	clock   clock.Clock
	rules   Rules
	metrics Recorder
}

// NewSystem creates a combat system
func NewSystem(cfg *Config) (*System, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	rules := DefaultRules()
	if cfg.Rules != nil {
		rules = *cfg.Rules
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	return &System{
		roller:  cfg.Roller,
		clock:   clk,
		rules:   rules,
		metrics: cfg.Metrics,
	}, nil
}

// Rules returns the rules in effect
func (s *System) Rules() Rules {
	return s.rules
}

// ResolveAttack runs one attack of attacker against target. The only errors
// returned are context cancellation and dice failures.
func (s *System) ResolveAttack(ctx context.Context, attacker, target Combatant) (*AttackResult, error) {
	reaction, err := target.HandleReaction(ctx, attacker)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.FromContext(ctxErr, "attack interrupted")
		}
		slog.WarnContext(ctx, "reaction failed, taking the hit",
			"target", target.Name(),
			"attacker", attacker.Name(),
			"error", err)
		reaction = ReactionNone
	}

	roll, err := s.roller.Roll(s.rules.DieSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to roll attack")
	}

	result := &AttackResult{
		Roll:         roll,
		Critical:     roll == s.rules.DieSize,
		AttackValue:  roll + Modifier(attacker.Dexterity()),
		DefenseValue: s.rules.DefenseBase + Modifier(target.Agility()),
		Reaction:     reaction,
	}
	if reaction == ReactionDodge {
		result.DefenseValue += s.rules.DodgeBonus
	}
	result.Hit = result.Critical || result.AttackValue >= result.DefenseValue

	slog.DebugContext(ctx, "attack rolled",
		"attacker", attacker.Name(),
		"target", target.Name(),
		"roll", result.Roll,
		"attack", result.AttackValue,
		"defense", result.DefenseValue,
		"reaction", reaction)

	switch {
	case result.Hit:
		result.Damage = attacker.WeaponDamage()
		target.TakeDamage(result.Damage)
	case reaction == ReactionCounter && target.IsAlive():
		if err := s.counter(ctx, target, attacker, result); err != nil {
			return nil, err
		}
	}

	if s.metrics != nil {
		s.metrics.RecordAttack(result)
	}
	return result, nil
}

func (s *System) counter(ctx context.Context, defender, attacker Combatant, result *AttackResult) error {
	if err := s.clock.Sleep(ctx, s.rules.CounterPause); err != nil {
		return errors.FromContext(err, "counter-attack interrupted")
	}

	roll, err := s.roller.Roll(s.rules.DieSize)
	if err != nil {
		return errors.Wrap(err, "failed to roll counter-attack")
	}

	value := roll + Modifier(defender.Dexterity())
	slog.DebugContext(ctx, "counter-attack rolled",
		"defender", defender.Name(),
		"roll", roll,
		"value", value,
		"difficulty", s.rules.CounterDifficulty)

	if value < s.rules.CounterDifficulty {
		return nil
	}

	result.Countered = true
	result.CounterDamage = defender.WeaponDamage()
	attacker.TakeDamage(result.CounterDamage)
	return nil
}
