// Package mangle backs the belief base with a Google Mangle fact store and
// loads agent programs written in Mangle syntax.
package mangle

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/mangle/ast"
	"github.com/google/mangle/factstore"

	"agentcore/internal/beliefbase"
	"agentcore/internal/logging"
	"agentcore/internal/term"
)

// Config holds fact store configuration.
type Config struct {
	FactLimit int `json:"fact_limit" yaml:"fact_limit"` // 0 = unbounded
}

// Store is a beliefbase.BeliefBase over a concurrent Mangle fact store.
// Beliefs must be ground and flat: every argument a name, string, number or
// boolean. Strong negation is kept in the predicate symbol.
type Store struct {
	config Config

	mu        sync.RWMutex
	store     factstore.ConcurrentFactStore
	baseStore factstore.FactStoreWithRemove
	// seq records insertion order; the fact store itself is unordered.
	seq       map[string]uint64
	next      uint64
	factCount int
}

var _ beliefbase.BeliefBase = (*Store)(nil)

// NewStore creates an empty store.
func NewStore(cfg Config) *Store {
	baseStore := factstore.NewSimpleInMemoryStore()
	return &Store{
		config:    cfg,
		baseStore: baseStore,
		store:     factstore.NewConcurrentFactStore(baseStore),
		seq:       make(map[string]uint64),
	}
}

// Lookup returns the beliefs with the given functor, positive and negated,
// of any arity, in insertion order.
func (s *Store) Lookup(functor term.Path) ([]*term.Literal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		seq  uint64
		atom ast.Atom
	}
	var entries []entry
	for _, sym := range s.store.ListPredicates() {
		if sym.Symbol != string(functor) && sym.Symbol != negationPrefix+string(functor) {
			continue
		}
		err := s.store.GetFacts(ast.NewQuery(sym), func(atom ast.Atom) error {
			entries = append(entries, entry{seq: s.seq[atom.String()], atom: atom})
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("mangle lookup %s: %w", sym.Symbol, err)
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		}
		return 0
	})

	out := make([]*term.Literal, len(entries))
	for i, e := range entries {
		out[i] = atomToLiteral(e.atom)
	}
	return out, nil
}

func (s *Store) Add(belief *term.Literal) (bool, error) {
	if !belief.Ground() {
		return false, fmt.Errorf("%w: %s", beliefbase.ErrNotGround, belief)
	}
	atom, err := literalToAtom(belief)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store.Contains(atom) {
		return false, nil
	}
	if s.config.FactLimit > 0 && s.factCount >= s.config.FactLimit {
		return false, fmt.Errorf("%w (%d)", beliefbase.ErrFactLimit, s.config.FactLimit)
	}
	s.store.Add(atom)
	s.seq[atom.String()] = s.next
	s.next++
	s.factCount++
	logging.Get(logging.CategoryBeliefBase).Debug("mangle add %s", atom)
	return true, nil
}

func (s *Store) Remove(belief *term.Literal) (bool, error) {
	atom, err := literalToAtom(belief)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.baseStore.Remove(atom) {
		return false, nil
	}
	delete(s.seq, atom.String())
	s.factCount--
	logging.Get(logging.CategoryBeliefBase).Debug("mangle remove %s", atom)
	return true, nil
}

// Stats contains fact store statistics.
type Stats struct {
	TotalFacts      int            `json:"total_facts"`
	PredicateCounts map[string]int `json:"predicate_counts"`
}

// GetStats returns per-predicate fact counts.
func (s *Store) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, sym := range s.store.ListPredicates() {
		n := 0
		_ = s.store.GetFacts(ast.NewQuery(sym), func(ast.Atom) error {
			n++
			return nil
		})
		counts[sym.Symbol] += n
	}
	return Stats{TotalFacts: s.factCount, PredicateCounts: counts}
}
