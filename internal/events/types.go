package events

// Kind identifies an event and fixes its payload shape
type Kind string

// Event kinds
const (
	KindDamage          Kind = "damage"
	KindHeal            Kind = "heal"
	KindDeath           Kind = "death"
	KindTurnStart       Kind = "turn_start"
	KindTurnEnd         Kind = "turn_end"
	KindDomainMessage   Kind = "domain_message"
	KindCombatStatus    Kind = "combat_status_change"
	KindCombatEnd       Kind = "combat_end"
	KindInventoryChange Kind = "inventory_change"
	KindBeingTargeted   Kind = "being_targeted"
	KindReactionChosen  Kind = "reaction_chosen"
)

// CombatStatus is the phase an encounter is in
type CombatStatus string

// Combat phases
const (
	StatusIdle       CombatStatus = "IDLE"
	StatusStarting   CombatStatus = "STARTING"
	StatusPlayerTurn CombatStatus = "PLAYER_TURN"
	StatusEnemyTurn  CombatStatus = "ENEMY_TURN"
	StatusEnded      CombatStatus = "ENDED"
)

// CombatResult is how an encounter ended
type CombatResult string

// Combat results
const (
	ResultVictory CombatResult = "VICTORY"
	ResultDefeat  CombatResult = "DEFEAT"
	ResultFled    CombatResult = "FLED"
)

// DamageEvent is emitted after vitality drops. CurrentLife is already clamped.
type DamageEvent struct {
	Damage      int
	CurrentLife int
}

// Kind implements Event
func (DamageEvent) Kind() Kind { return KindDamage }

// HealEvent is emitted after vitality rises. Amount is what was actually restored.
type HealEvent struct {
	Amount int
}

// Kind implements Event
func (HealEvent) Kind() Kind { return KindHeal }

// DeathEvent is emitted once, when vitality reaches zero
type DeathEvent struct {
	EntityName string
}

// Kind implements Event
func (DeathEvent) Kind() Kind { return KindDeath }

// TurnStartEvent marks the start of one actor's turn
type TurnStartEvent struct {
	ActorName string
	Round     int
}

// Kind implements Event
func (TurnStartEvent) Kind() Kind { return KindTurnStart }

// TurnEndEvent marks the end of one actor's turn
type TurnEndEvent struct {
	ActorName string
	Round     int
}

// Kind implements Event
func (TurnEndEvent) Kind() Kind { return KindTurnEnd }

// DomainMessageEvent is free narrative text for display
type DomainMessageEvent struct {
	ID      string
	Message string
}

// Kind implements Event
func (DomainMessageEvent) Kind() Kind { return KindDomainMessage }

// CombatStatusEvent broadcasts a phase transition
type CombatStatusEvent struct {
	Status CombatStatus
}

// Kind implements Event
func (CombatStatusEvent) Kind() Kind { return KindCombatStatus }

// CombatEndEvent broadcasts the final outcome. Winner is empty when nobody survived
// or the player fled.
type CombatEndEvent struct {
	Winner string
	Result CombatResult
}

// Kind implements Event
func (CombatEndEvent) Kind() Kind { return KindCombatEnd }

// InventoryItem is the display view of one inventory entry
type InventoryItem struct {
	ID          string
	Name        string
	Description string
	Uses        int
}

// InventoryChangeEvent carries the inventory contents after a change
type InventoryChangeEvent struct {
	Items []InventoryItem
}

// Kind implements Event
func (InventoryChangeEvent) Kind() Kind { return KindInventoryChange }

// BeingTargetedEvent is emitted on the defender's bus before it picks a reaction
type BeingTargetedEvent struct {
	AttackerName string
}

// Kind implements Event
func (BeingTargetedEvent) Kind() Kind { return KindBeingTargeted }

// ReactionChosenEvent is emitted on the defender's bus once its reaction is known
type ReactionChosenEvent struct {
	Reaction string
}

// Kind implements Event
func (ReactionChosenEvent) Kind() Kind { return KindReactionChosen }
