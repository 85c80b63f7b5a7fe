// Package session owns one game: the hero, the adventure that runs their
// encounters and the input bridge the UI answers through.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/content"
	"github.com/KirkDiggler/rpg-journey/internal/entities/character"
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/events"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/loot"
	"github.com/KirkDiggler/rpg-journey/internal/orchestrators/adventure"
	"github.com/KirkDiggler/rpg-journey/internal/orchestrators/encounter"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/encounters"
	"github.com/KirkDiggler/rpg-journey/internal/repositories/saves"
)

// Metrics records both attacks and encounters
type Metrics interface {
	combat.Recorder
	adventure.Recorder
}

// Config holds the dependencies for a Session
type Config struct {
	Catalog *content.Catalog
	Saves   saves.Repository
	// Journal keeps finished encounters. Defaults to an in-memory journal.
	Journal encounters.Repository

	// Bridge answers player prompts. Defaults to a bridge with no handler.
	Bridge      *input.Bridge
	Roller      dice.Roller
	Clock       clock.Clock
	IDGenerator idgen.Generator
	Metrics     Metrics

	Rules       *combat.Rules
	Pacing      *encounter.Pacing
	Emergency   *encounter.Emergency
	Progression *character.Progression
	Rewards     *adventure.Rewards

	Slot              string
	MaxEncounters     int
	ReactionTimeout   time.Duration
	InventoryCapacity int

	// OnLog receives every message meant for the player
	OnLog func(message string)
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Saves == nil {
		vb.RequiredField("Saves")
	}
	if c.ReactionTimeout < 0 {
		vb.Field("ReactionTimeout", "must not be negative")
	}

	return vb.Build()
}

// HeroStatus is the hero's vitals as the UI shows them
type HeroStatus struct {
	Name          string
	ClassName     string
	Life          int
	MaxLife       int
	Level         int
	Gold          int
	XP            int
	XPToNextLevel int
}

// EnemyStatus is the current adversary's vitals
type EnemyStatus struct {
	Name    string
	Life    int
	MaxLife int
}

// Session is a single game. Create it with New and release it with Dispose.
type Session struct {
	catalog *content.Catalog
	saves   saves.Repository
	journal encounters.Repository
	bridge  *input.Bridge
	roller  dice.Roller
	clock   clock.Clock
	ids     idgen.Generator
	metrics Metrics
	system  *combat.System
	loot    *loot.Generator

	pacing            *encounter.Pacing
	emergency         *encounter.Emergency
	progression       *character.Progression
	rewards           *adventure.Rewards
	slot              string
	maxEncounters     int
	reactionTimeout   time.Duration
	inventoryCapacity int
	onLog             func(string)

	mu     sync.Mutex
	hero   *character.Character
	enemy  *character.Character
	quest  *adventure.Service
	unsubs []events.Unsubscribe
}

// New creates a session with no hero
func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Session{
		catalog:           cfg.Catalog,
		saves:             cfg.Saves,
		journal:           cfg.Journal,
		bridge:            cfg.Bridge,
		roller:            cfg.Roller,
		clock:             cfg.Clock,
		ids:               cfg.IDGenerator,
		metrics:           cfg.Metrics,
		pacing:            cfg.Pacing,
		emergency:         cfg.Emergency,
		progression:       cfg.Progression,
		rewards:           cfg.Rewards,
		slot:              cfg.Slot,
		maxEncounters:     cfg.MaxEncounters,
		reactionTimeout:   cfg.ReactionTimeout,
		inventoryCapacity: cfg.InventoryCapacity,
		onLog:             cfg.OnLog,
	}
	if s.journal == nil {
		s.journal = encounters.NewInMemory()
	}
	if s.bridge == nil {
		s.bridge = input.NewBridge(nil)
	}
	if s.roller == nil {
		s.roller = dice.DefaultRoller
	}
	if s.clock == nil {
		s.clock = clock.New()
	}
	if s.ids == nil {
		s.ids = idgen.NewUUID("")
	}

	combatCfg := &combat.Config{
		Roller: s.roller,
		Clock:  s.clock,
		Rules:  cfg.Rules,
	}
	if s.metrics != nil {
		combatCfg.Metrics = s.metrics
	}
	system, err := combat.NewSystem(combatCfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create combat system")
	}
	s.system = system

	generator, err := loot.NewGenerator(&loot.Config{
		Catalog:     s.catalog,
		Roller:      s.roller,
		IDGenerator: idgen.NewULID("item"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create loot generator")
	}
	s.loot = generator

	return s, nil
}

// Bridge returns the input bridge the UI resolves prompts on
func (s *Session) Bridge() *input.Bridge {
	return s.bridge
}

// Hero returns the current hero, nil before InitHero or LoadGame
func (s *Session) Hero() *character.Character {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hero
}

// RunContext returns the progress of the current run, nil without a hero
func (s *Session) RunContext() *adventure.RunContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quest == nil {
		return nil
	}
	return s.quest.RunContext()
}

// InitHero discards any current game and starts a new one
func (s *Session) InitHero(name, className string) (*character.Character, error) {
	s.Dispose()

	class := s.catalog.FindClass(className)
	// classes only adjust the damage they name
	var damage *int
	if class.WeaponDamage > 0 {
		damage = &class.WeaponDamage
	}
	hero, err := character.New(&character.Config{
		Name:              name,
		ClassName:         class.Name,
		IsPlayer:          true,
		MaxLife:           class.MaxLife,
		WeaponDamage:      damage,
		InventoryCapacity: s.inventoryCapacity,
		Provider:          s.bridge,
		Roller:            s.roller,
		Progression:       s.progression,
		ReactionTimeout:   s.reactionTimeout,
		IDGenerator:       s.ids,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create hero")
	}

	if err := s.install(hero); err != nil {
		return nil, err
	}

	slog.Info("hero created",
		"hero_id", hero.GetID(),
		"name", name,
		"class", class.Name)
	s.log(fmt.Sprintf("Welcome, %s the %s!", name, class.Name))
	return hero, nil
}

// SaveGame writes the hero to the configured slot
func (s *Session) SaveGame(ctx context.Context) error {
	hero := s.Hero()
	if hero == nil {
		return errors.FailedPrecondition("no hero to save")
	}

	_, err := s.saves.Save(ctx, &saves.SaveInput{
		Slot:     s.slot,
		Snapshot: hero.Snapshot(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to save game")
	}

	s.log("Game saved successfully!")
	return nil
}

// LoadGame replaces the current game with the saved hero. A missing or
// unreadable save is reported as errors.NotFound.
func (s *Session) LoadGame(ctx context.Context) (*character.Character, error) {
	out, err := s.saves.Load(ctx, &saves.LoadInput{Slot: s.slot})
	if err != nil {
		if errors.IsNotFound(err) || errors.IsDataLoss(err) {
			slog.WarnContext(ctx, "no usable save", "slot", s.slot, "error", err)
			return nil, errors.NotFound("no save found")
		}
		return nil, errors.Wrap(err, "failed to load game")
	}

	hero, err := character.FromSnapshot(out.Record.Data, &character.Config{
		Provider:          s.bridge,
		Roller:            s.roller,
		Progression:       s.progression,
		ReactionTimeout:   s.reactionTimeout,
		IDGenerator:       s.ids,
		InventoryCapacity: s.inventoryCapacity,
	})
	if err != nil {
		slog.WarnContext(ctx, "save does not describe a hero", "slot", s.slot, "error", err)
		return nil, errors.NotFound("no save found")
	}

	s.Dispose()
	if err := s.install(hero); err != nil {
		return nil, err
	}

	s.log(fmt.Sprintf("Game loaded! Welcome back, %s.", hero.Name()))
	return hero, nil
}

// install makes hero the current hero and wires its adventure
func (s *Session) install(hero *character.Character) error {
	quest, err := adventure.NewService(&adventure.Config{
		Hero:             hero,
		Catalog:          s.catalog,
		Loot:             s.loot,
		System:           s.system,
		Provider:         s.bridge,
		Roller:           s.roller,
		Clock:            s.clock,
		IDGenerator:      s.ids,
		Pacing:           s.pacing,
		Emergency:        s.emergency,
		Rewards:          s.rewards,
		Metrics:          s.metrics,
		Journal:          s.journal,
		MaxEncounters:    s.maxEncounters,
		OnEncounterStart: s.setEnemy,
		OnEncounterEnd:   func() { s.setEnemy(nil) },
	})
	if err != nil {
		return errors.Wrap(err, "failed to start adventure")
	}

	unsub := events.On(hero.Events(), events.PriorityDefault, func(e events.DomainMessageEvent) {
		s.log(e.Message)
	})

	s.mu.Lock()
	s.hero = hero
	s.quest = quest
	s.unsubs = append(s.unsubs, unsub)
	s.mu.Unlock()
	return nil
}

func (s *Session) setEnemy(enemy *character.Character) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enemy = enemy
}

// HeroStatus reports the hero's vitals. ok is false without a hero.
func (s *Session) HeroStatus() (status HeroStatus, ok bool) {
	hero := s.Hero()
	if hero == nil {
		return HeroStatus{}, false
	}
	return HeroStatus{
		Name:          hero.Name(),
		ClassName:     hero.ClassName(),
		Life:          hero.CurrentLife(),
		MaxLife:       hero.MaxLife(),
		Level:         hero.Level(),
		Gold:          hero.Gold(),
		XP:            hero.XP(),
		XPToNextLevel: hero.XPToNextLevel(),
	}, true
}

// EnemyStatus reports the adversary of the running encounter. ok is false
// outside an encounter.
func (s *Session) EnemyStatus() (status EnemyStatus, ok bool) {
	s.mu.Lock()
	enemy := s.enemy
	s.mu.Unlock()

	if enemy == nil {
		return EnemyStatus{}, false
	}
	return EnemyStatus{
		Name:    enemy.Name(),
		Life:    enemy.CurrentLife(),
		MaxLife: enemy.MaxLife(),
	}, true
}

// Inventory returns a copy of the hero's items
func (s *Session) Inventory() []items.Item {
	hero := s.Hero()
	if hero == nil {
		return nil
	}
	return hero.Items()
}

// UseItem uses one of the hero's items outside combat
func (s *Session) UseItem(id string) bool {
	hero := s.Hero()
	if hero == nil {
		return false
	}
	return hero.UseItem(id)
}

// Rest restores the hero to full vitality
func (s *Session) Rest() bool {
	hero := s.Hero()
	if hero == nil || !hero.IsAlive() {
		return false
	}
	hero.RestoreFullLife()
	s.log(fmt.Sprintf("%s rests and recovers.", hero.Name()))
	return true
}

// StartEncounter fights the named adversary, or a random one when enemyName
// is empty
func (s *Session) StartEncounter(ctx context.Context, enemyName string) (*adventure.HandleEncounterOutput, error) {
	s.mu.Lock()
	hero, quest := s.hero, s.quest
	s.mu.Unlock()

	if hero == nil {
		return nil, errors.FailedPrecondition("no hero")
	}
	if !hero.IsAlive() {
		return nil, errors.FailedPreconditionf("%s cannot fight", hero.Name())
	}

	in := &adventure.HandleEncounterInput{}
	if enemyName != "" {
		template, err := s.catalog.FindEnemy(enemyName)
		if err != nil {
			return nil, err
		}
		in.Enemy = template
	}

	return quest.HandleEncounter(ctx, in)
}

// History returns the hero's finished encounters, newest first. A limit of
// zero returns all of them.
func (s *Session) History(ctx context.Context, limit int) ([]*encounters.Entry, error) {
	hero := s.Hero()
	if hero == nil {
		return nil, errors.FailedPrecondition("no hero")
	}

	out, err := s.journal.ListByHero(ctx, &encounters.ListByHeroInput{
		HeroID: hero.GetID(),
		Limit:  limit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to read encounter history")
	}
	return out.Entries, nil
}

// Dispose rejects any pending prompt and detaches from the hero. It is safe
// to call more than once.
func (s *Session) Dispose() {
	s.bridge.Cancel("session disposed")

	s.mu.Lock()
	unsubs := s.unsubs
	hero := s.hero
	s.unsubs = nil
	s.hero = nil
	s.enemy = nil
	s.quest = nil
	s.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	if hero != nil {
		hero.Events().Clear()
	}
}

func (s *Session) log(message string) {
	if s.onLog != nil {
		s.onLog(message)
	}
}
