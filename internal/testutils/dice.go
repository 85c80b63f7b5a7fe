package testutils

import (
	"fmt"
	"sync"
)

// ScriptedRoller is a dice.Roller that returns queued results per die size.
// When a queue runs dry it returns the fallback for that size, or an error if
// none was set.
type ScriptedRoller struct {
	mu        sync.Mutex
	queues    map[int][]int
	fallbacks map[int]int
	calls     map[int]int
}

// NewScriptedRoller creates an empty scripted roller
func NewScriptedRoller() *ScriptedRoller {
	return &ScriptedRoller{
		queues:    make(map[int][]int),
		fallbacks: make(map[int]int),
		calls:     make(map[int]int),
	}
}

// Queue appends results for dice of the given size
func (r *ScriptedRoller) Queue(size int, results ...int) *ScriptedRoller {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queues[size] = append(r.queues[size], results...)
	return r
}

// Always sets the result returned once the queue for size is empty
func (r *ScriptedRoller) Always(size, result int) *ScriptedRoller {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[size] = result
	return r
}

// Calls returns how many dice of size were rolled
func (r *ScriptedRoller) Calls(size int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[size]
}

// Roll implements dice.Roller
func (r *ScriptedRoller) Roll(size int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[size]++
	if q := r.queues[size]; len(q) > 0 {
		r.queues[size] = q[1:]
		return q[0], nil
	}
	if v, ok := r.fallbacks[size]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("no scripted result for d%d", size)
}

// RollN implements dice.Roller
func (r *ScriptedRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
