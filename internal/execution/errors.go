package execution

import "errors"

// Construction errors.
var (
	ErrNoVariables       = errors.New("unification literal has no variables")
	ErrDuplicateVariable = errors.New("variable occurs more than once in unification literal")
	ErrNotGround         = errors.New("literal must be ground")
	ErrNilAgent          = errors.New("agent is nil")
	ErrNilInstance       = errors.New("instance is nil")
	ErrUnknownRule       = errors.New("no rule with functor")
)

// ErrIllegalState reports a broken node contract found at execution time,
// such as a condition that emits other than one boolean term.
var ErrIllegalState = errors.New("illegal execution state")
