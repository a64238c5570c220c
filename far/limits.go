// Package far implements the Finite-Automata-Reduction decider: a
// non-halting proof is a pair of finite automata — a DFA scanning the
// tape up to the head, and an NFA scanning from the head outward — such
// that "accepted" is closed under taking one step backward from any TM
// transition. If the start configuration is rejected and halting
// configurations are all accepted, no TM run can ever reach a halt.
package far

// TMStates is the fixed number of TM states these proofs are checked
// against (matching the machine package's States).
const TMStates = 5

// MaxDFA and MaxNFA bound the automaton sizes a Proof may declare, so
// that nfa_start(q, f) = q*TMStates+f always fits in an NFAStateMask.
const (
	MaxDFA = 12
	MaxNFA = 64
)

// TMState, DFAState and NFAState index, respectively, a TM state, a DFA
// state, and an NFA state.
type TMState = uint8
type DFAState = uint8
type NFAState = uint8

// NFAStateMask represents a set of NFA states as a bitmask, state i
// included iff bit 1<<i is set. 64 bits comfortably covers MaxNFA.
type NFAStateMask = uint64
