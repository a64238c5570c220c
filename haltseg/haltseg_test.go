package haltseg

import (
	"testing"

	"github.com/busycoq/deciders/machine"
)

// testMachine is a small synthetic 5-state machine, hand-constructed (not
// pulled from the bbchallenge database, which is out of scope for this
// repo) so that every assertion below can be verified by tracing the
// decider's rules by hand: only A and B have live transitions (A reads 0
// -> writes 1, moves right, goes to B; B reads 0 -> writes 0, moves left,
// goes to A), every other transition halts, and nothing transitions into
// C, D, or E.
const testMachineText = "1RB---_0LA---_------_------_------"

func mustTestMachine(t *testing.T) *machine.Machine {
	t.Helper()
	m, err := machine.Parse(testMachineText)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestGetInitialNodes(t *testing.T) {
	m := mustTestMachine(t)
	nodes := getInitialNodes(m, 3, 1)
	if len(nodes) != 8 {
		t.Fatalf("len(initial nodes) = %d, want 8 (one per halting (state,symbol) pair)", len(nodes))
	}
	// First two roots come from A reading 1 and B reading 1 (the only
	// other halting transitions), in (state, symbol) order.
	if nodes[0].State != InState(0) || !nodes[0].Segment[1].Bit {
		t.Errorf("nodes[0] = %+v, want state A, middle cell pinned to 1", nodes[0])
	}
	if nodes[1].State != InState(1) || !nodes[1].Segment[1].Bit {
		t.Errorf("nodes[1] = %+v, want state B, middle cell pinned to 1", nodes[1])
	}
}

func TestIsFatal(t *testing.T) {
	allZero := []SegmentCell{Unallocated(), CellBit(false), CellBit(false)}
	hasOne := []SegmentCell{Unallocated(), CellBit(true), Unallocated()}

	cases := []struct {
		name string
		n    Node
		want bool
	}{
		{"outside, all zero", Node{State: Outside(), Segment: allZero}, true},
		{"outside, has a one", Node{State: Outside(), Segment: hasOne}, false},
		{"state A, all zero", Node{State: InState(0), Segment: allZero}, true},
		{"state B, all zero", Node{State: InState(1), Segment: allZero}, false},
	}
	for _, c := range cases {
		if got := c.n.IsFatal(); got != c.want {
			t.Errorf("%s: IsFatal() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestGetNeighboursInsideSegment(t *testing.T) {
	m := mustTestMachine(t)
	n := Node{State: InState(0), Segment: []SegmentCell{Unallocated(), CellBit(true), Unallocated()}, PosInSegment: 1}
	neighbours := n.GetNeighbours(m)
	if len(neighbours) != 1 {
		t.Fatalf("len(neighbours) = %d, want 1 (only B-read-0 transitions into A)", len(neighbours))
	}
	want := Node{State: InState(1), Segment: []SegmentCell{Unallocated(), CellBit(true), CellBit(false)}, PosInSegment: 2}
	if neighbours[0].key() != want.key() {
		t.Errorf("neighbours[0] = %+v, want %+v", neighbours[0], want)
	}
}

// TestRunSearchCannotConclude traces the full backward search by hand
// for segment size 3 / initial position 1: the search reaches a fatal
// all-zero A-state node as its 11th expansion, so it must report
// CannotConclude(11), not a proof.
func TestRunSearchCannotConclude(t *testing.T) {
	m := mustTestMachine(t)
	result := runSearch(m, 3, 1, -1)
	if result.Outcome != CannotConclude {
		t.Fatalf("Outcome = %v, want CannotConclude", result.Outcome)
	}
	if result.NodesSeen != 11 {
		t.Errorf("NodesSeen = %d, want 11", result.NodesSeen)
	}
}

func TestDecideExhaustsDepthWithoutProof(t *testing.T) {
	m := mustTestMachine(t)
	result := Decide(m, Limits{MaxDepth: 1})
	if result.Outcome != NodeLimitExceeded {
		t.Errorf("Outcome = %v, want NodeLimitExceeded (depth exhausted without a proof)", result.Outcome)
	}
}

func TestDecideCumulativeStopsAtBudget(t *testing.T) {
	m := mustTestMachine(t)
	result := DecideCumulative(m, Limits{NodeLimit: 5})
	if result.Outcome != NodeLimitExceeded {
		t.Fatalf("Outcome = %v, want NodeLimitExceeded", result.Outcome)
	}
	if result.NodesSeen != 6 {
		t.Errorf("NodesSeen = %d, want 6", result.NodesSeen)
	}
}
