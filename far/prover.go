package far

import (
	"strconv"

	"github.com/busycoq/deciders/machine"
)

// Prover is the common interface for proof-search strategies: it either
// returns a TapeAutomaton proving tm non-halting (paired with its own
// SteadyState) or gives up. The caller is expected to validate whatever
// comes back via Proof.Validate before trusting it.
type Prover interface {
	Name() string
	SteadyState() RowVector
	Prove(tm *machine.Machine) *TapeAutomaton
}

// Name identifies the direct search strategy, e.g. for status displays.
func (p *DirectProver) Name() string { return "direct" }

// Name identifies the MitM-DFA SAT search strategy, e.g. "mitm_dfa(3)".
func (p *MitMDFAProver) Name() string {
	return "mitm_dfa(" + strconv.Itoa(int(p.n)) + ")"
}

// SteadyState for MitMDFAProver matches DirectProver's: CompleteUnverified
// always finishes the automaton with the Halt-state convention.
func (p *MitMDFAProver) SteadyState() RowVector {
	return row(NFAState(TMStates * int(p.n)))
}

// FindProof tries each prover in order (cheapest/most restrictive
// first, by convention) and returns the first validated Proof found.
func FindProof(tm *machine.Machine, provers []Prover) (Proof, bool) {
	for _, p := range provers {
		automaton := p.Prove(tm)
		if automaton == nil {
			continue
		}
		proof := NewProof(automaton.Direction, automaton.Dfa, automaton.Nfa, p.SteadyState())
		if proof.Validate(tm) == nil {
			return proof, true
		}
	}
	return Proof{}, false
}

// DepthRange is the legal range of DFA-size search parameters a prover
// may be constructed with: 1..=MaxDFA.
func DepthRange() (lo, hi int) { return 1, MaxDFA }
