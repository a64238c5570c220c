package far

import (
	"testing"

	"github.com/busycoq/deciders/machine"
)

func mustMachine(t *testing.T, text string) *machine.Machine {
	t.Helper()
	m, err := machine.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return m
}

func dfaOf(rows ...[2]DFAState) DFA {
	return DFAFromTable(append([][2]DFAState(nil), rows...))
}

func nfaOf(n int, accepted ColVector, rows0, rows1 []RowVector) NFA {
	m0, m1 := NewMatrix(n), NewMatrix(n)
	for i, v := range rows0 {
		m0.SetRow(NFAState(i), v)
	}
	for i, v := range rows1 {
		m1.SetRow(NFAState(i), v)
	}
	return NFAFromTables(m0, m1, accepted)
}

// TestSimpleProof checks the proof for https://bbchallenge.org/1.
func TestSimpleProof(t *testing.T) {
	tm := mustMachine(t, "1RB---_0RC---_0RD---_0RE---_0LE1RB")
	dfa := dfaOf([2]DFAState{0, 0})
	nfa := nfaOf(6, 32,
		[]RowVector{2, 4, 8, 16, 28, 32},
		[]RowVector{32, 32, 32, 32, 2, 32})
	proof := NewProof(machine.Right, dfa, nfa, 32)

	if err := proof.Validate(tm); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	// Corrupted proof data is rejected.
	proof.Automaton.Dfa.t[0][0] = 42
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != BadDFATransition {
		t.Errorf("corrupted dfa transition: err = %v, want BadDFATransition", err)
	}
	proof.Automaton.Dfa.t[0][0] = 0

	proof.Automaton.Nfa.t[0].SetRow(0, row(7))
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != BadVector {
		t.Errorf("oversized nfa transition: err = %v, want BadVector", err)
	}
	proof.Automaton.Nfa.t[0].SetRow(0, row(1))

	proof.Automaton.Nfa.Accepted = col(7)
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != BadVector {
		t.Errorf("oversized accepted: err = %v, want BadVector", err)
	}
	proof.Automaton.Nfa.Accepted = col(0) | col(5)
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != TrailingZeroSensitivity {
		t.Errorf("trailing-zero-sensitive accepted: err = %v, want TrailingZeroSensitivity", err)
	}
	proof.Automaton.Nfa.Accepted = col(0) | col(1) | col(2) | col(3) | col(4) | col(5)
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != BadStart {
		t.Errorf("start-accepting automaton: err = %v, want BadStart", err)
	}
	proof.Automaton.Nfa.Accepted = col(5)

	proof.SteadyState = row(7)
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != BadVector {
		t.Errorf("oversized steady state: err = %v, want BadVector", err)
	}
	proof.SteadyState = row(0) | row(5)
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != BadSteadyState {
		t.Errorf("non-steady state: err = %v, want BadSteadyState", err)
	}
	proof.SteadyState = 0
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != RejectedSteadyState {
		t.Errorf("rejected steady state: err = %v, want RejectedSteadyState", err)
	}
}

// TestNontrivialMirroredProof checks the proof for https://bbchallenge.org/12345,
// a left-scanning automaton with two DFA states: the valid proof must pass
// the closure checks at every DFA state q, and each of its three corruptions
// must fail closure at q=0.
func TestNontrivialMirroredProof(t *testing.T) {
	tm := mustMachine(t, "1RB---_0RC---_1RD0RD_0LD1LE_1LC0LB")
	dfa := dfaOf([2]DFAState{0, 1}, [2]DFAState{1, 1})
	nfa := nfaOf(11, 1056,
		[]RowVector{384, 128, 512, 8, 128, 1984, 968, 576, 256, 128, 1024},
		[]RowVector{1024, 1024, 8, 512, 2, 1024, 1024, 384, 512, 64, 1024})
	proof := NewProof(machine.Left, dfa, nfa, 1024)

	if err := proof.Validate(tm); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}

	proof.Automaton.Dfa.t[0][0] = 1
	if err := proof.Validate(tm); err == nil || err.(*BadProof).Kind != LeadingZeroSensitivity {
		t.Errorf("err = %v, want LeadingZeroSensitivity", err)
	}
	proof.Automaton.Dfa.t[0][0] = 0

	proof.Automaton.Nfa.t[1].SetRow(0, row(0))
	err := proof.Validate(tm)
	nc, ok := err.(*BadProof)
	if !ok || nc.Kind != NotClosed || nc.Q != 0 || !nc.Rule.Halt || nc.Rule.FromState != 0 || nc.Rule.Read != 1 {
		t.Errorf("err = %v, want NotClosed{q:0, rule:Halt{f:0,r:1}}", err)
	}
	proof.Automaton.Nfa.t[1].SetRow(0, row(10))

	proof.Automaton.Nfa.t[0].SetRow(4, row(0))
	err = proof.Validate(tm)
	nc, ok = err.(*BadProof)
	if !ok || nc.Kind != NotClosed || nc.Q != 0 || nc.Rule.Halt || nc.Rule.FromState != 4 || nc.Rule.Read != 0 {
		t.Errorf("err = %v, want NotClosed{q:0, rule:Move{f:4,r:0,...}}", err)
	}
	proof.Automaton.Nfa.t[0].SetRow(4, row(7))

	proof.Automaton.Nfa.t[0].OrRow(1, row(0))
	err = proof.Validate(tm)
	nc, ok = err.(*BadProof)
	if !ok || nc.Kind != NotClosed || nc.Q != 0 || nc.Rule.Halt || nc.Rule.FromState != 0 || nc.Rule.Read != 0 {
		t.Errorf("err = %v, want NotClosed{q:0, rule:Move{f:0,r:0,...}}", err)
	}
}

// TestDirectProverSingleHalt covers spec.md scenario 5: direct(n=1) must
// prove the single-halt machine non-halting with a 1-state DFA.
func TestDirectProverSingleHalt(t *testing.T) {
	tm := mustMachine(t, "1RB---_0RC---_0RD---_0RE---_0LE1RB")
	prover := NewDirectProver(1)
	automaton := prover.Prove(tm)
	if automaton == nil {
		t.Fatal("Prove() = nil, want a TapeAutomaton")
	}
	if automaton.Dfa.Len() != 1 {
		t.Errorf("Dfa.Len() = %d, want 1", automaton.Dfa.Len())
	}
	proof := NewProof(automaton.Direction, automaton.Dfa, automaton.Nfa, prover.SteadyState())
	if err := proof.Validate(tm); err != nil {
		t.Errorf("direct-prover output failed validation: %v", err)
	}
}

// TestMitMDFAProverLeftScan covers spec.md scenario 6: mitm_dfa(n=2) must
// prove the given left-scanning machine non-halting.
func TestMitMDFAProverLeftScan(t *testing.T) {
	tm := mustMachine(t, "1RB---_0RC---_1RD0RD_0LD1LE_1LC0LB")
	prover := NewMitMDFAProver(2)
	automaton := prover.Prove(tm)
	if automaton == nil {
		t.Fatal("Prove() = nil, want a TapeAutomaton")
	}
	proof := NewProof(automaton.Direction, automaton.Dfa, automaton.Nfa, prover.SteadyState())
	if err := proof.Validate(tm); err != nil {
		t.Errorf("mitm_dfa-prover output failed validation: %v", err)
	}
}

func TestDFAIteratorCounts(t *testing.T) {
	// Counts of complete 0-insensitive binary DFAs follow OEIS A107668.
	cases := []struct {
		n, want int
	}{{1, 1}, {2, 4}, {3, 45}}
	for _, c := range cases {
		it := NewDFAIterator(c.n)
		count := 0
		for it.Next() {
			count++
		}
		if count != c.want {
			t.Errorf("NewDFAIterator(%d): count = %d, want %d", c.n, count, c.want)
		}
	}
}

func TestDFAIterator1State(t *testing.T) {
	it := NewDFAIterator(1)
	if !it.Next() {
		t.Fatal("Next() = false, want true")
	}
	if it.Prefix.Dfa.t[0] != [2]DFAState{0, 0} {
		t.Errorf("dfa.t = %v, want [[0 0]]", it.Prefix.Dfa.t)
	}
	if it.Next() {
		t.Error("Next() = true, want false (exhausted)")
	}
}
