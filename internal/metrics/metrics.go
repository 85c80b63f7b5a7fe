// Package metrics exposes prometheus counters for combat and encounters
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/rpg-journey/internal/combat"
	"github.com/KirkDiggler/rpg-journey/internal/events"
)

// Attack outcomes used as the "outcome" label
const (
	OutcomeHit      = "hit"
	OutcomeCritical = "critical"
	OutcomeMiss     = "miss"
)

// Metrics implements combat.Recorder and adventure.Recorder
type Metrics struct {
	attacks         *prometheus.CounterVec
	damage          prometheus.Counter
	counters        *prometheus.CounterVec
	encounters      *prometheus.CounterVec
	encounterRounds prometheus.Histogram
}

// New creates the collectors. Call Register to expose them.
func New() *Metrics {
	return &Metrics{
		attacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journey_attacks_total",
			Help: "Total number of resolved attacks",
		}, []string{"outcome", "reaction"}),
		damage: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journey_attack_damage_total",
			Help: "Total damage dealt by attacks and counters",
		}),
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journey_counter_attacks_total",
			Help: "Total number of counter-attack attempts",
		}, []string{"landed"}),
		encounters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journey_encounters_total",
			Help: "Total number of finished encounters",
		}, []string{"enemy", "result"}),
		encounterRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "journey_encounter_rounds",
			Help:    "Rounds fought per encounter",
			Buckets: prometheus.LinearBuckets(1, 2, 8),
		}),
	}
}

// Register registers every collector with reg. Panics on duplicate
// registration, following prometheus convention.
func (m *Metrics) Register(reg prometheus.Registerer) {
	reg.MustRegister(m.attacks, m.damage, m.counters, m.encounters, m.encounterRounds)
}

// RecordAttack implements combat.Recorder
func (m *Metrics) RecordAttack(r *combat.AttackResult) {
	if r == nil {
		return
	}

	outcome := OutcomeMiss
	switch {
	case r.Critical:
		outcome = OutcomeCritical
	case r.Hit:
		outcome = OutcomeHit
	}
	m.attacks.WithLabelValues(outcome, string(r.Reaction)).Inc()
	m.damage.Add(float64(r.Damage + r.CounterDamage))

	if r.Reaction == combat.ReactionCounter && !r.Hit {
		m.counters.WithLabelValues(strconv.FormatBool(r.Countered)).Inc()
	}
}

// RecordEncounter implements adventure.Recorder
func (m *Metrics) RecordEncounter(enemy string, result events.CombatResult, rounds int) {
	m.encounters.WithLabelValues(enemy, string(result)).Inc()
	m.encounterRounds.Observe(float64(rounds))
}
