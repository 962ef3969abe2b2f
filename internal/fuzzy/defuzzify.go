package fuzzy

import "fmt"

// Defuzzification reduces a graded outcome to a crisp decision.
type Defuzzification interface {
	Defuzzify(values Set) bool
	Name() string
}

// Strategy names accepted by NewDefuzzification.
const (
	StrategyCrisp     = "crisp"
	StrategyThreshold = "threshold"
)

// Crisp is the default: members with zero degree carry no information and are
// dropped, the rest are reduced by Conjunction and the resulting value wins.
// An empty set is a success.
type Crisp struct{}

func (Crisp) Defuzzify(values Set) bool {
	return Reduce(members(values)).value
}

func (Crisp) Name() string { return StrategyCrisp }

// Threshold additionally requires the reduced degree to reach Level.
type Threshold struct {
	Level float64
}

func (t Threshold) Defuzzify(values Set) bool {
	r := Reduce(members(values))
	return r.value && r.degree >= t.Level
}

func (t Threshold) Name() string { return StrategyThreshold }

// NewDefuzzification builds a strategy by name.
func NewDefuzzification(strategy string, level float64) (Defuzzification, error) {
	switch strategy {
	case "", StrategyCrisp:
		return Crisp{}, nil
	case StrategyThreshold:
		if level < 0 || level > 1 {
			return nil, fmt.Errorf("%w: threshold %v", ErrDegreeOutOfRange, level)
		}
		return Threshold{Level: level}, nil
	default:
		return nil, fmt.Errorf("unknown defuzzification strategy %q", strategy)
	}
}

func members(values Set) Set {
	out := make(Set, 0, len(values))
	for _, v := range values {
		if v.degree > 0 {
			out = append(out, v)
		}
	}
	return out
}
