package items

// EffectKind names what an effect does to its target
type EffectKind string

// Effect kinds
const (
	EffectHeal   EffectKind = "HEAL"
	EffectDamage EffectKind = "DAMAGE"
)

// Target is anything whose vitality an effect can change
type Target interface {
	Heal(amount int)
	TakeDamage(amount int)
}

// Effect is applied to a target when its item is used
type Effect interface {
	Kind() EffectKind
	Value() int
	Description() string
	Apply(target Target)
}

// HealEffect restores vitality, capped by the target at its maximum
type HealEffect struct {
	Amount int
	Text   string
}

// NewHealEffect creates a heal effect
func NewHealEffect(amount int, description string) *HealEffect {
	return &HealEffect{Amount: amount, Text: description}
}

// Kind implements Effect
func (e *HealEffect) Kind() EffectKind { return EffectHeal }

// Value implements Effect
func (e *HealEffect) Value() int { return e.Amount }

// Description implements Effect
func (e *HealEffect) Description() string { return e.Text }

// Apply implements Effect
func (e *HealEffect) Apply(target Target) {
	target.Heal(e.Amount)
}

// DamageEffect hurts the target through the same path as combat damage
type DamageEffect struct {
	Amount int
	Text   string
}

// NewDamageEffect creates a damage effect
func NewDamageEffect(amount int, description string) *DamageEffect {
	return &DamageEffect{Amount: amount, Text: description}
}

// Kind implements Effect
func (e *DamageEffect) Kind() EffectKind { return EffectDamage }

// Value implements Effect
func (e *DamageEffect) Value() int { return e.Amount }

// Description implements Effect
func (e *DamageEffect) Description() string { return e.Text }

// Apply implements Effect
func (e *DamageEffect) Apply(target Target) {
	target.TakeDamage(e.Amount)
}

// NewEffect rebuilds an effect from its kind. Unknown kinds return nil.
func NewEffect(kind EffectKind, value int, description string) Effect {
	switch kind {
	case EffectHeal:
		return NewHealEffect(value, description)
	case EffectDamage:
		return NewDamageEffect(value, description)
	default:
		return nil
	}
}
