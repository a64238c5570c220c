package far

// NFA is a nondeterministic finite automaton with states indexed
// 0..Len(). During operation a RowVector tracks the set of states it
// could currently be in; testing a RowVector for acceptance is the
// Boolean inner product against Accepted.
//
// Reference: https://planetmath.org/matrixcharacterizationsofautomata
type NFA struct {
	t        [2]Matrix
	Accepted ColVector
}

// NewNFA returns an NFA with n states, empty transitions and acceptance.
func NewNFA(n int) NFA {
	return NFA{t: [2]Matrix{NewMatrix(n), NewMatrix(n)}, Accepted: 0}
}

// NFAFromTables builds an NFA directly from its transition matrices and
// accepted set, as read off a proof's serialized form.
func NFAFromTables(t0, t1 Matrix, accepted ColVector) NFA {
	return NFA{t: [2]Matrix{t0, t1}, Accepted: accepted}
}

// Clone returns a deep copy.
func (n NFA) Clone() NFA {
	return NFA{t: [2]Matrix{n.t[0].Clone(), n.t[1].Clone()}, Accepted: n.Accepted}
}

// Len is the number of states.
func (n NFA) Len() int { return n.t[0].Len() }

// Transitions returns the transition matrix read on bit b.
func (n NFA) Transitions(b uint8) Matrix { return n.t[b] }

// Step is the set of states reachable in one step, reading bit b, from
// the single state q.
func (n NFA) Step(q NFAState, b uint8) RowVector {
	return n.StepVec(row(q), b)
}

// StepVec is the set of states reachable in one step, reading bit b,
// from any state in v.
func (n NFA) StepVec(v RowVector, b uint8) RowVector {
	return v.MulMatrix(n.t[b])
}

// Validate ensures the data define a structurally valid NFA.
func (n NFA) Validate() error {
	if err := n.Accepted.Validate(n.Len()); err != nil {
		return err
	}
	if n.t[1].Len() != n.Len() {
		return ErrBadDimensions
	}
	if err := n.t[0].Validate(); err != nil {
		return err
	}
	return n.t[1].Validate()
}

// CheckTrailingZeros ensures the NFA's acceptance is unaffected by any
// trailing zeros past the scanned bits: T0 * Accepted must equal
// Accepted.
func (n NFA) CheckTrailingZeros() error {
	if n.t[0].MulCol(n.Accepted) == n.Accepted {
		return nil
	}
	return ErrTrailingZeroSensitivity
}

// CheckAcceptedSteadyState verifies that v is an "accepted steady
// state": reaching (at least) every state in v guarantees acceptance,
// and remains true after either transition.
func (n NFA) CheckAcceptedSteadyState(v RowVector) error {
	if err := v.Validate(n.Len()); err != nil {
		return err
	}
	if !v.Dot(n.Accepted) {
		return ErrRejectedSteadyState
	}
	if !(v.Le(v.MulMatrix(n.t[0])) && v.Le(v.MulMatrix(n.t[1]))) {
		return ErrBadSteadyState
	}
	return nil
}
