package far

import "github.com/busycoq/deciders/machine"

// DirectProver searches directly for a TapeAutomaton proving a machine
// non-halting. An NFA only ever needs depth*TMStates+1 states:
// nfa_start(q, f) for each DFA state q and TM state f, plus one special
// Halt state. Halt is automatically an accepted steady state, so the
// search picks a direction, then a DFA (incrementally, one transition
// at a time via DFAPrefixIterator), building the minimal NFA satisfying
// the closure conditions as each new DFA transition becomes known. The
// search succeeds once the DFA is complete and the NFA still rejects
// nfa_start(0, 0).
type DirectProver struct {
	Depth int
}

// NewDirectProver returns a prover searching DFAs with at most depth
// states.
func NewDirectProver(depth int) *DirectProver {
	return &DirectProver{Depth: depth}
}

func (p *DirectProver) nfaHalt() NFAState {
	return NFAState(TMStates * p.Depth)
}

// SteadyState is the accepted steady state this prover's proofs always
// use: the singleton set containing the Halt NFA state.
func (p *DirectProver) SteadyState() RowVector {
	return row(p.nfaHalt())
}

// Prove tries both scan directions and returns the first TapeAutomaton
// found, or nil if neither direction yields one within Depth states.
func (p *DirectProver) Prove(tm *machine.Machine) *TapeAutomaton {
	if a := p.proveSide(tm, machine.Right); a != nil {
		return a
	}
	return p.proveSide(tm, machine.Left)
}

func (p *DirectProver) proveSide(tm *machine.Machine, direction machine.Direction) *TapeAutomaton {
	dfas := NewDFAPrefixIterator(p.Depth)
	nfas := make([]NFA, 2*p.Depth)
	halt := p.nfaHalt()

	for {
		qNew, bNew, ok := dfas.Next()
		if !ok {
			return nil
		}
		ply := 2*int(qNew) + int(bNew)
		if ply == 0 {
			nfas[0] = NewNFA(p.Depth*TMStates + 1)
			initHaltNFA(dfas.Dfa, &nfas[0], tm, halt)
		} else {
			nfas[ply] = nfas[ply-1].Clone()
		}
		saturate(dfas.Dfa, &nfas[ply], tm, direction, qNew, bNew)

		if row(nfaStart(0, 0)).Dot(nfas[ply].Accepted) {
			dfas.SkipCurrentSubtree()
			continue
		}
		if int(qNew) == p.Depth-1 && bNew == 1 {
			automaton := NewTapeAutomaton(direction, dfas.Dfa, nfas[ply].Clone())
			return &automaton
		}
	}
}

// initHaltNFA seeds nfa with everything forced by halt rules alone,
// independent of which DFA is eventually chosen.
func initHaltNFA(dfa DFA, nfa *NFA, tm *machine.Machine, halt NFAState) {
	nfa.Accepted = col(halt)
	nfa.Transitions(0).OrRow(halt, row(halt))
	nfa.Transitions(1).OrRow(halt, row(halt))

	tm.Rules(func(rule machine.Rule) {
		if !rule.Halt {
			return
		}
		for q := 0; q < dfa.Len(); q++ {
			nfa.Transitions(rule.Read).OrRow(nfaStart(DFAState(q), rule.FromState), row(halt))
		}
	})
}

// saturate updates nfa with all transitions and acceptances required by
// the closure conditions, now that dfa is known up through its
// (qNew, bNew) transition. Closure conditions for Move rules opposite
// the scan direction depend on NFA transitions still being discovered,
// so the fixpoint loop below repeats until nothing new is added.
func saturate(dfa DFA, nfa *NFA, tm *machine.Machine, scanDir machine.Direction, qNew DFAState, bNew uint8) {
	tm.Rules(func(rule machine.Rule) {
		if rule.Halt || rule.Dir != scanDir || rule.Write != bNew {
			return
		}
		nfa.Transitions(rule.Read).OrRow(nfaStart(qNew, rule.FromState), row(nfaStart(dfa.Step(qNew, rule.Write), rule.ToState)))
	})

	for {
		grew := false
		tm.Rules(func(rule machine.Rule) {
			if rule.Halt || rule.Dir == scanDir {
				return
			}
		outer:
			for q := DFAState(0); ; q++ {
				for b := uint8(0); b < 2; b++ {
					if q > qNew || (q == qNew && b > bNew) {
						break outer
					}
					q2 := dfa.Step(q, b)
					before := nfa.Transitions(rule.Read).Row(nfaStart(q2, rule.FromState))
					add := nfa.StepVec(nfa.Step(nfaStart(q, rule.ToState), b), rule.Write)
					nfa.Transitions(rule.Read).OrRow(nfaStart(q2, rule.FromState), add)
					after := nfa.Transitions(rule.Read).Row(nfaStart(q2, rule.FromState))
					if after != before {
						grew = true
					}
				}
			}
		})
		if !grew {
			break
		}
	}

	for {
		old := nfa.Accepted
		nfa.Accepted |= nfa.Transitions(0).MulCol(nfa.Accepted)
		if nfa.Accepted == old {
			break
		}
	}
}

// CompleteUnverified finishes building a TapeAutomaton from a fully
// specified DFA (every transition known, e.g. just solved for by a SAT
// search), running the same closure-saturation direct search does
// incrementally but in one pass over the whole table. Returns nil if
// the resulting NFA still accepts the start configuration.
func CompleteUnverified(tm *machine.Machine, direction machine.Direction, dfa DFA) *TapeAutomaton {
	depth := dfa.Len()
	halt := NFAState(TMStates * depth)
	nfa := NewNFA(depth*TMStates + 1)
	initHaltNFA(dfa, &nfa, tm, halt)

	for q := DFAState(0); int(q) < depth; q++ {
		for b := uint8(0); b < 2; b++ {
			saturate(dfa, &nfa, tm, direction, q, b)
		}
	}

	if row(nfaStart(0, 0)).Dot(nfa.Accepted) {
		return nil
	}
	automaton := NewTapeAutomaton(direction, dfa, nfa)
	return &automaton
}
