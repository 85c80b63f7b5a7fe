package adventure

// DefaultMaxEncounters is how many fights a run has before the boss appears
const DefaultMaxEncounters = 5

// RunContext tracks progress through one run
type RunContext struct {
	EncounterCount int
	MaxEncounters  int
	BossDefeated   bool
}

// NewRunContext creates an empty run. A non-positive maxEncounters uses the default.
func NewRunContext(maxEncounters int) *RunContext {
	if maxEncounters <= 0 {
		maxEncounters = DefaultMaxEncounters
	}
	return &RunContext{MaxEncounters: maxEncounters}
}

// IncrementEncounters records a completed encounter
func (r *RunContext) IncrementEncounters() {
	r.EncounterCount++
}

// ShouldSpawnBoss reports whether enough encounters are done and the boss still stands
func (r *RunContext) ShouldSpawnBoss() bool {
	return r.EncounterCount >= r.MaxEncounters && !r.BossDefeated
}

// Reset starts the run over
func (r *RunContext) Reset() {
	r.EncounterCount = 0
	r.BossDefeated = false
}
