package far

import "github.com/busycoq/deciders/machine"

// TapeAutomaton recognizes a subset of TM tape+head configurations,
// scanning the tape in two phases. Phase 1 (the DFA) deterministically
// scans every bit up to the head, starting from an arbitrary point
// beyond which the (infinite) tape is 0-filled — CheckLeadingZeros is
// what makes that starting point well-defined. Phase 2 (the NFA) starts
// at nfa_start(q, f) once the DFA's state q and the TM's state-symbol f
// are known, and scans non-deterministically from the head outward to
// the other infinite, 0-filled end — CheckTrailingZeros is what makes
// this end well-defined too.
type TapeAutomaton struct {
	// Direction the automaton scans the tape in, relative to the TM's
	// own step direction: it must match the Move rules it is closed
	// under in the "forward" branch of closed().
	Direction machine.Direction
	Dfa       DFA
	Nfa       NFA
}

// NewTapeAutomaton builds an (unvalidated) TapeAutomaton.
func NewTapeAutomaton(direction machine.Direction, dfa DFA, nfa NFA) TapeAutomaton {
	return TapeAutomaton{Direction: direction, Dfa: dfa, Nfa: nfa}
}

// nfaStart is the NFA state in which the TapeAutomaton starts phase 2,
// having reached DFA state q and then read the TM state-symbol f.
func nfaStart(q DFAState, f TMState) NFAState {
	return NFAState(int(q)*TMStates + int(f))
}

// Validate ensures the TapeAutomaton satisfies its structural invariants:
// both automata are well-formed, the DFA ignores leading zeros, the NFA
// ignores trailing zeros, and the NFA has room for every nfa_start(q, f).
func (a TapeAutomaton) Validate() error {
	if err := a.Dfa.Validate(); err != nil {
		return err
	}
	if err := a.Dfa.CheckLeadingZeros(); err != nil {
		return err
	}
	if err := a.Nfa.Validate(); err != nil {
		return err
	}
	if err := a.Nfa.CheckTrailingZeros(); err != nil {
		return err
	}
	if a.Nfa.Len() < TMStates*a.Dfa.Len() {
		return ErrBadNFASize
	}
	return nil
}

// Proof certifies that a Turing machine runs forever from its initial
// configuration: a TapeAutomaton such that accepting a configuration
// after a TM step implies it accepted the configuration before the
// step, together with a steady state that every halt rule must reach.
type Proof struct {
	Automaton   TapeAutomaton
	SteadyState RowVector
}

// NewProof builds an (unvalidated) Proof.
func NewProof(direction machine.Direction, dfa DFA, nfa NFA, steadyState RowVector) Proof {
	return Proof{Automaton: NewTapeAutomaton(direction, dfa, nfa), SteadyState: steadyState}
}

// Validate confirms every invariant the Proof claims: if it holds, no
// sequence of TM steps can ever lead from the starting configuration to
// a halt.
func (p Proof) Validate(m *machine.Machine) error {
	if err := p.Automaton.Validate(); err != nil {
		return err
	}
	if err := p.Automaton.Nfa.CheckAcceptedSteadyState(p.SteadyState); err != nil {
		return err
	}
	if row(nfaStart(0, 0)).Dot(p.Automaton.Nfa.Accepted) {
		return ErrBadStart
	}

	var failure error
	m.Rules(func(rule machine.Rule) {
		if failure != nil {
			return
		}
		for q := DFAState(0); int(q) < p.Automaton.Dfa.Len(); q++ {
			if !p.closed(q, rule) {
				failure = NotClosedError(q, rule)
				return
			}
		}
	})
	return failure
}

// closed checks the backward-closure property at one DFA state q for
// one TM rule: whether accepting the configuration reached after
// applying rule implies accepting the configuration before it, when the
// DFA was in state q just before the step.
//
// The invariants documented on TapeAutomaton and Proof require this to
// hold for every DFA state q the rule's step could start from, so every
// q in range is checked here (not just q=0).
func (p Proof) closed(q DFAState, rule machine.Rule) bool {
	a := p.Automaton

	if rule.Halt {
		return p.SteadyState.Le(a.Nfa.Step(nfaStart(q, rule.FromState), rule.Read))
	}

	if rule.Dir == a.Direction {
		reached := a.Nfa.Step(nfaStart(q, rule.FromState), rule.Read)
		required := row(nfaStart(a.Dfa.Step(q, rule.Write), rule.ToState))
		return required.Le(reached)
	}

	for b := uint8(0); b < 2; b++ {
		reached := a.Nfa.Step(nfaStart(a.Dfa.Step(q, b), rule.FromState), rule.Read)
		required := a.Nfa.StepVec(a.Nfa.Step(nfaStart(q, rule.ToState), b), rule.Write)
		if !required.Le(reached) {
			return false
		}
	}
	return true
}
