// Package beliefbase defines the belief store contract consumed by the
// unifier and belief actions, plus a concurrent in-memory implementation.
package beliefbase

import (
	"errors"
	"fmt"
	"sync"

	"agentcore/internal/logging"
	"agentcore/internal/term"
)

// ErrNotGround is returned when a literal with free variables is stored.
var ErrNotGround = errors.New("belief is not ground")

// ErrFactLimit is returned when a store configured with a limit is full.
var ErrFactLimit = errors.New("belief base fact limit reached")

// BeliefBase stores ground literals indexed by functor. Implementations must
// be safe for concurrent use.
type BeliefBase interface {
	// Lookup returns every belief whose functor equals functor, in insertion order.
	Lookup(functor term.Path) ([]*term.Literal, error)
	// Add stores a belief; it reports false when an equal belief already exists.
	Add(belief *term.Literal) (bool, error)
	// Remove deletes a belief; it reports false when no equal belief exists.
	Remove(belief *term.Literal) (bool, error)
}

// Memory is a BeliefBase held in process memory.
type Memory struct {
	mu     sync.RWMutex
	index  map[term.Path][]*term.Literal
	count  int
	limit  int
	logger *logging.Logger
}

// NewMemory creates an empty store. limit <= 0 means unbounded.
func NewMemory(limit int) *Memory {
	return &Memory{
		index:  make(map[term.Path][]*term.Literal),
		limit:  limit,
		logger: logging.Get(logging.CategoryBeliefBase),
	}
}

func (m *Memory) Lookup(functor term.Path) ([]*term.Literal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	beliefs := m.index[functor]
	out := make([]*term.Literal, len(beliefs))
	copy(out, beliefs)
	return out, nil
}

func (m *Memory) Add(belief *term.Literal) (bool, error) {
	if !belief.Ground() {
		return false, fmt.Errorf("%w: %s", ErrNotGround, belief)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.index[belief.Functor()] {
		if b.Equal(belief) {
			return false, nil
		}
	}
	if m.limit > 0 && m.count >= m.limit {
		return false, fmt.Errorf("%w (%d)", ErrFactLimit, m.limit)
	}
	m.index[belief.Functor()] = append(m.index[belief.Functor()], belief)
	m.count++
	m.logger.Debug("add %s", belief)
	return true, nil
}

func (m *Memory) Remove(belief *term.Literal) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	beliefs := m.index[belief.Functor()]
	for i, b := range beliefs {
		if b.Equal(belief) {
			m.index[belief.Functor()] = append(beliefs[:i:i], beliefs[i+1:]...)
			m.count--
			m.logger.Debug("remove %s", belief)
			return true, nil
		}
	}
	return false, nil
}

// Len returns the number of stored beliefs.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.count
}
