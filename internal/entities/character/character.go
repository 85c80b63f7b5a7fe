// Package character implements the actor that fights: vitals, attributes,
// inventory, reactions and leveling. Every character owns its event bus.
package character

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/entities/items"
	"github.com/KirkDiggler/rpg-journey/internal/errors"
	"github.com/KirkDiggler/rpg-journey/internal/events"
	"github.com/KirkDiggler/rpg-journey/internal/input"
	"github.com/KirkDiggler/rpg-journey/internal/pkg/idgen"
)

// Entity types reported through core.Entity
const (
	TypeHero  = "hero"
	TypeEnemy = "enemy"
)

// Character is a hero or an adversary. It is driven by a single engine
// goroutine and is not safe for concurrent use.
type Character struct {
	id        string
	name      string
	className string
	isPlayer  bool

	currentLife  int
	maxLife      int
	weaponDamage int
	weaponName   string

	speed        int
	agility      int
	dexterity    int
	speech       int
	intelligence int
	persistence  int

	gold          int
	level         int
	xp            int
	xpToNextLevel int

	inventory *items.Inventory
	bus       *events.Bus

	provider        input.Provider
	roller          dice.Roller
	progression     Progression
	reactionTimeout time.Duration
	ids             idgen.Generator
}

// New creates a character
func New(cfg *Config) (*Character, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid character config")
	}

	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.NewUUID("")
	}
	roller := cfg.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	progression := DefaultProgression()
	if cfg.Progression != nil {
		progression = *cfg.Progression
	}

	id := cfg.ID
	if id == "" {
		id = ids.Generate()
	}
	className := cfg.ClassName
	if className == "" {
		className = DefaultClassName
	}
	weaponName := cfg.WeaponName
	if weaponName == "" {
		weaponName = DefaultWeaponName
	}

	c := &Character{
		id:              id,
		name:            cfg.Name,
		className:       className,
		isPlayer:        cfg.IsPlayer,
		maxLife:         orDefault(cfg.MaxLife, DefaultMaxLife),
		weaponDamage:    DefaultWeaponDamage,
		weaponName:      weaponName,
		speed:           orDefault(cfg.Speed, DefaultAttribute),
		agility:         orDefault(cfg.Agility, DefaultAttribute),
		dexterity:       orDefault(cfg.Dexterity, DefaultAttribute),
		speech:          orDefault(cfg.Speech, DefaultAttribute),
		intelligence:    orDefault(cfg.Intelligence, DefaultAttribute),
		persistence:     orDefault(cfg.Persistence, DefaultAttribute),
		gold:            cfg.Gold,
		level:           orDefault(cfg.Level, DefaultLevel),
		xp:              cfg.XP,
		xpToNextLevel:   orDefault(cfg.XPToNextLevel, DefaultXPToNextLevel),
		inventory:       items.NewInventory(cfg.InventoryCapacity, cfg.Items...),
		bus:             events.NewBus(),
		provider:        cfg.Provider,
		roller:          roller,
		progression:     progression,
		reactionTimeout: cfg.ReactionTimeout,
		ids:             ids,
	}

	if cfg.WeaponDamage != nil {
		c.weaponDamage = *cfg.WeaponDamage
	}
	c.currentLife = c.maxLife
	if cfg.CurrentLife != nil {
		c.currentLife = min(*cfg.CurrentLife, c.maxLife)
	}

	return c, nil
}

// GetID implements core.Entity
func (c *Character) GetID() string { return c.id }

// GetType implements core.Entity
func (c *Character) GetType() string {
	if c.isPlayer {
		return TypeHero
	}
	return TypeEnemy
}

// Name returns the display name
func (c *Character) Name() string { return c.name }

// ClassName returns the class chosen at creation
func (c *Character) ClassName() string { return c.className }

// IsPlayer reports whether decisions come from an input provider
func (c *Character) IsPlayer() bool { return c.isPlayer }

// IsAlive reports whether the character has vitality left
func (c *Character) IsAlive() bool { return c.currentLife > 0 }

// CurrentLife returns the current vitality
func (c *Character) CurrentLife() int { return c.currentLife }

// MaxLife returns the maximum vitality
func (c *Character) MaxLife() int { return c.maxLife }

// WeaponDamage returns the damage dealt on a hit
func (c *Character) WeaponDamage() int { return c.weaponDamage }

// WeaponName returns the display name of the weapon
func (c *Character) WeaponName() string { return c.weaponName }

// Speed returns the turn-order key
func (c *Character) Speed() int { return c.speed }

// Agility returns the defense attribute
func (c *Character) Agility() int { return c.agility }

// Dexterity returns the attack attribute
func (c *Character) Dexterity() int { return c.dexterity }

// Speech returns the social attribute
func (c *Character) Speech() int { return c.speech }

// Intelligence returns the mental attribute
func (c *Character) Intelligence() int { return c.intelligence }

// Persistence returns the endurance attribute
func (c *Character) Persistence() int { return c.persistence }

// Gold returns the carried gold
func (c *Character) Gold() int { return c.gold }

// Level returns the current level
func (c *Character) Level() int { return c.level }

// XP returns experience toward the next level
func (c *Character) XP() int { return c.xp }

// XPToNextLevel returns the current level-up threshold
func (c *Character) XPToNextLevel() int { return c.xpToNextLevel }

// Events returns the character's bus
func (c *Character) Events() *events.Bus { return c.bus }

// Provider returns the input provider, if any
func (c *Character) Provider() input.Provider { return c.provider }

// SetProvider attaches the decision source used for reactions
func (c *Character) SetProvider(p input.Provider) { c.provider = p }

// TakeDamage lowers vitality, clamped at zero. Death is announced once; a dead
// character ignores further damage.
func (c *Character) TakeDamage(amount int) {
	if !c.IsAlive() {
		return
	}
	amount = max(amount, 0)

	c.currentLife = max(c.currentLife-amount, 0)
	c.bus.Emit(events.DamageEvent{Damage: amount, CurrentLife: c.currentLife})

	if c.currentLife == 0 {
		c.bus.Emit(events.DeathEvent{EntityName: c.name})
	}
}

// Heal restores vitality up to the maximum. The dead cannot be healed.
func (c *Character) Heal(amount int) {
	if !c.IsAlive() || amount < 0 {
		return
	}

	restored := min(amount, c.maxLife-c.currentLife)
	c.currentLife += restored
	c.bus.Emit(events.HealEvent{Amount: restored})
}

// RestoreFullLife sets vitality to the maximum, reviving a dead character
func (c *Character) RestoreFullLife() {
	restored := c.maxLife - c.currentLife
	c.currentLife = c.maxLife
	c.bus.Emit(events.HealEvent{Amount: restored})
}

// HandleReaction implements combat.Combatant. Adversaries roll for it; players
// are asked through their provider. A provider failure is returned with
// ReactionNone.
func (c *Character) HandleReaction(ctx context.Context, attacker combat.Combatant) (combat.Reaction, error) {
	c.bus.Emit(events.BeingTargetedEvent{AttackerName: attacker.Name()})

	var (
		reaction combat.Reaction
		err      error
	)
	if c.isPlayer {
		reaction, err = c.askReaction(ctx, attacker)
	} else {
		reaction, err = c.rollReaction()
	}
	if err != nil {
		return combat.ReactionNone, err
	}

	c.bus.Emit(events.ReactionChosenEvent{Reaction: string(reaction)})
	return reaction, nil
}

func (c *Character) rollReaction() (combat.Reaction, error) {
	roll, err := c.roller.Roll(100)
	if err != nil {
		return combat.ReactionNone, errors.Wrap(err, "failed to roll reaction")
	}

	switch {
	case roll > 80:
		return combat.ReactionDodge, nil
	case roll > 60:
		return combat.ReactionCounter, nil
	default:
		return combat.ReactionNone, nil
	}
}

func (c *Character) askReaction(ctx context.Context, attacker combat.Combatant) (combat.Reaction, error) {
	if c.provider == nil {
		return combat.ReactionNone, nil
	}

	id, err := c.provider.RequestChoice(ctx, &input.ChoiceRequest{
		Title: fmt.Sprintf("%s is being attacked by %s!", strings.ToUpper(c.name), attacker.Name()),
		Options: []input.Option{
			{ID: string(combat.ReactionNone), Label: "Take the hit"},
			{ID: string(combat.ReactionDodge), Label: "Try to dodge"},
			{ID: string(combat.ReactionCounter), Label: "Prepare a counter"},
		},
		Context: input.ChoiceContext{
			ActorName: c.name,
			Kind:      input.KindCombatReaction,
			Metadata:  map[string]string{"attacker_name": attacker.Name()},
		},
		Timeout: c.reactionTimeout,
	})
	if err != nil {
		return combat.ReactionNone, err
	}
	return combat.ParseReaction(id), nil
}

// GainXP adds experience and levels up as many times as it covers
func (c *Character) GainXP(amount int) {
	if amount <= 0 {
		return
	}

	c.xp += amount
	c.Say(fmt.Sprintf("%s gained %d XP!", c.name, amount))

	for c.xpToNextLevel > 0 && c.xp >= c.xpToNextLevel {
		c.levelUp()
	}
}

func (c *Character) levelUp() {
	c.level++
	c.xp -= c.xpToNextLevel
	next := int(math.Floor(float64(c.xpToNextLevel) * c.progression.GrowthFactor))
	c.xpToNextLevel = max(next, c.xpToNextLevel)

	c.maxLife += c.progression.LifeBonus
	c.currentLife = c.maxLife
	c.weaponDamage += c.progression.DamageBonus

	c.Say(fmt.Sprintf("LEVEL UP! %s reached level %d!", c.name, c.level))
	c.Say(fmt.Sprintf("Max HP: %d | Damage: %d", c.maxLife, c.weaponDamage))
}

// AddRewards grants gold and experience
func (c *Character) AddRewards(gold, xp int) {
	c.gold += max(gold, 0)
	c.GainXP(xp)
}

// SpendGold removes gold if enough is carried
func (c *Character) SpendGold(amount int) bool {
	if amount < 0 || amount > c.gold {
		return false
	}
	c.gold -= amount
	return true
}

// AddItem stores item, announcing the new inventory on success
func (c *Character) AddItem(item *items.Item) bool {
	if !c.inventory.Add(item) {
		return false
	}
	c.emitInventory()
	return true
}

// UseItem applies the consumable with id to the character itself
func (c *Character) UseItem(id string) bool {
	if !c.inventory.Use(id, c) {
		return false
	}
	c.emitInventory()
	return true
}

// Items returns copies of the inventory contents
func (c *Character) Items() []items.Item {
	return c.inventory.Items()
}

// FindItem returns the first carried item matching pred
func (c *Character) FindItem(pred func(*items.Item) bool) (items.Item, bool) {
	return c.inventory.Find(pred)
}

// InventoryFull reports whether another item would be rejected
func (c *Character) InventoryFull() bool {
	return c.inventory.Full()
}

// Say emits a domain message on the character's bus
func (c *Character) Say(message string) {
	c.bus.Emit(events.DomainMessageEvent{ID: c.ids.Generate(), Message: message})
}

func (c *Character) emitInventory() {
	carried := c.inventory.Items()
	view := make([]events.InventoryItem, len(carried))
	for i, item := range carried {
		view[i] = events.InventoryItem{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Uses:        item.Uses,
		}
	}
	c.bus.Emit(events.InventoryChangeEvent{Items: view})
}
