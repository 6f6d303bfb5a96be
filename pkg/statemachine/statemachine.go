package statemachine

import (
	"sync"
)

// StateFn represents a state function following Rob Pike's pattern
type StateFn[T any] func(*T) StateFn[T]

// StateMachine drives an entity through its state functions. Each state
// does its work and returns the next state; a nil state ends the machine.
type StateMachine[T any] struct {
	entity  *T
	stateFn StateFn[T]
	steps   int
	mutex   sync.RWMutex
}

// NewStateMachine creates a new state machine for the given entity
func NewStateMachine[T any](entity *T, initialStateFn StateFn[T]) *StateMachine[T] {
	return &StateMachine[T]{
		entity:  entity,
		stateFn: initialStateFn,
	}
}

// Step runs the current state once and moves to the state it returns. It
// reports whether the machine can keep running.
func (sm *StateMachine[T]) Step() bool {
	sm.mutex.RLock()
	fn := sm.stateFn
	sm.mutex.RUnlock()
	if fn == nil {
		return false
	}

	next := fn(sm.entity)

	sm.mutex.Lock()
	sm.stateFn = next
	sm.steps++
	sm.mutex.Unlock()
	return next != nil
}

// Run steps the machine until a state returns nil. States block as long as
// they need, so Run is usually called on its own goroutine.
func (sm *StateMachine[T]) Run() {
	for sm.Step() {
	}
}

// Current returns the state that will run next.
func (sm *StateMachine[T]) Current() StateFn[T] {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.stateFn
}

// Steps returns how many states have run so far.
func (sm *StateMachine[T]) Steps() int {
	sm.mutex.RLock()
	defer sm.mutex.RUnlock()
	return sm.steps
}

// SetState replaces the next state without running it.
func (sm *StateMachine[T]) SetState(stateFn StateFn[T]) {
	sm.mutex.Lock()
	sm.stateFn = stateFn
	sm.mutex.Unlock()
}
