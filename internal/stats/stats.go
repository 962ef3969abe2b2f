// Package stats records execution statistics. Collectors are passed in
// explicitly; there is no process-wide collector.
package stats

import "time"

// Collector receives execution events from the interpreter.
type Collector interface {
	// ObserveUnification records one belief search.
	ObserveUnification(functor string, matched bool, elapsed time.Duration)
	// ObserveRule records one achievement-rule resolution.
	ObserveRule(functor string, candidates int, succeeded bool, elapsed time.Duration)
	// ObservePlan records one plan activation.
	ObservePlan(trigger string, succeeded bool, elapsed time.Duration)
	// ObserveTrigger records a trigger handed to the agent.
	ObserveTrigger(kind string, immediate bool)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveUnification(string, bool, time.Duration) {}
func (Nop) ObserveRule(string, int, bool, time.Duration)   {}
func (Nop) ObservePlan(string, bool, time.Duration)        {}
func (Nop) ObserveTrigger(string, bool)                    {}

// OrNop returns c, or Nop when c is nil.
func OrNop(c Collector) Collector {
	if c == nil {
		return Nop{}
	}
	return c
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "fail"
}
