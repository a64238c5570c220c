package far

// DFA is a deterministic finite automaton with states indexed 0..Len(),
// initial state 0, scanning tape bits and tracking the exact DFAState
// reached.
type DFA struct {
	t [][2]DFAState
}

// NewDFA returns a DFA with n states, every transition defaulting to the
// initial state.
func NewDFA(n int) DFA {
	return DFA{t: make([][2]DFAState, n)}
}

// DFAFromTable builds a DFA directly from its transition table, as read
// off a proof's serialized form.
func DFAFromTable(t [][2]DFAState) DFA {
	return DFA{t: t}
}

// Len is the number of states.
func (d DFA) Len() int { return len(d.t) }

// Step is the outcome of reading bit b from state q.
func (d DFA) Step(q DFAState, b uint8) DFAState {
	return d.t[q][b]
}

// SetTransition sets the transition out of q on reading b.
func (d DFA) SetTransition(q DFAState, b uint8, to DFAState) {
	d.t[q][b] = to
}

// Validate ensures the table defines a well-formed DFA: nonempty, with
// every transition target in range.
func (d DFA) Validate() error {
	if d.Len() == 0 {
		return ErrBadDFASize
	}
	for _, pair := range d.t {
		for _, v := range pair {
			if int(v) >= d.Len() {
				return ErrBadDFATransition
			}
		}
	}
	return nil
}

// CheckLeadingZeros ensures the DFA reaches the same state regardless of
// any leading zeros before the scan begins: state 0 reading 0 must stay
// at state 0.
func (d DFA) CheckLeadingZeros() error {
	if d.t[0][0] == 0 {
		return nil
	}
	return ErrLeadingZeroSensitivity
}
