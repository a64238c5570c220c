package haltseg

import "github.com/busycoq/deciders/machine"

// Limits bounds the backward search. MaxDepth is the distance to the
// segment's edge the per-depth driver (Decide) exhaustively searches up
// to; NodeLimit is the cumulative node budget the legacy driver
// (DecideCumulative) spends across growing segment sizes before giving
// up. Grounded on decider_halting_segment/src/lib.rs's two strategies
// (Iijil_strategy and Iijil_strategy_updated).
type Limits struct {
	MaxDepth  int
	NodeLimit int
}

// Outcome classifies a search's result.
type Outcome int

const (
	// MachineDoesNotHalt means the search exhausted the reachable node
	// set without hitting a fatal node: every backward path dies out.
	MachineDoesNotHalt Outcome = iota
	// CannotConclude means the search met a fatal node (an all-zero
	// segment outside it, or in the start state) before exhausting the
	// frontier — the machine might still halt.
	CannotConclude
	// NodeLimitExceeded means the configured budget ran out first.
	NodeLimitExceeded
)

// Result is the outcome of one (or, for the cumulative driver, several
// chained) search run(s), plus how many nodes were expanded.
type Result struct {
	Outcome   Outcome
	NodesSeen int
}

// getInitialNodes builds the search frontier's roots: one node per
// (state, symbol) whose forward transition halts, each pinning the
// segment's initialPosInSegment cell to that symbol — i.e. "the machine
// is about to halt having just written this bit here".
func getInitialNodes(m *machine.Machine, segmentSize uint8, initialPosInSegment int) []Node {
	if initialPosInSegment >= int(segmentSize) {
		panic("haltseg: initial position must be inside the segment")
	}
	set := newOrderedNodeSet()
	for state := uint8(0); state < machine.States; state++ {
		for symbol := uint8(0); symbol < machine.Symbols; symbol++ {
			if !m.Transition(state, symbol).IsHalt() {
				continue
			}
			segment := make([]SegmentCell, segmentSize)
			segment[initialPosInSegment] = CellBit(symbol == 1)
			set.Insert(Node{State: InState(state), Segment: segment, PosInSegment: initialPosInSegment})
		}
	}
	return set.dense
}

// runSearch runs the backward reachability search for one fixed segment
// size and initial head position. limit < 0 means unbounded.
func runSearch(m *machine.Machine, segmentSize uint8, initialPosInSegment, limit int) Result {
	nodes := newOrderedNodeSet()
	nodes.Extend(getInitialNodes(m, segmentSize, initialPosInSegment))

	idxSeen := 0
	for {
		node, ok := nodes.At(idxSeen)
		if !ok {
			return Result{Outcome: MachineDoesNotHalt, NodesSeen: idxSeen}
		}
		idxSeen++

		if node.IsFatal() {
			return Result{Outcome: CannotConclude, NodesSeen: idxSeen}
		}
		if limit >= 0 && idxSeen > limit {
			return Result{Outcome: NodeLimitExceeded, NodesSeen: idxSeen}
		}

		nodes.Extend(node.GetNeighbours(m))
	}
}

// Decide runs the per-depth exhaustive variant (Iijil_strategy_updated):
// for each distance-to-segment-end d from 1 up to limits.MaxDepth, it
// searches the segment of size 2d+1 with the head starting in the
// middle, unbounded by node count, stopping at the first depth that
// proves non-halting. This avoids Iijil_strategy's dependence on
// neighbour-insertion order for reproducibility, at the cost of
// re-expanding work across depths rather than carrying a cumulative
// budget forward.
func Decide(m *machine.Machine, limits Limits) Result {
	for d := 1; d <= limits.MaxDepth; d++ {
		segmentSize := uint8(2*d + 1)
		result := runSearch(m, segmentSize, d, -1)
		if result.Outcome == MachineDoesNotHalt {
			return result
		}
	}
	return Result{Outcome: NodeLimitExceeded}
}

// DecideCumulative runs the legacy strategy (Iijil_strategy): it grows
// the segment size by one (on each side) at a time, capping every
// individual search by limits.NodeLimit and stopping once the running
// total of expanded nodes reaches limits.NodeLimit.
func DecideCumulative(m *machine.Machine, limits Limits) Result {
	total := 0
	for d := 1; total < limits.NodeLimit; d++ {
		segmentSize := uint8(2*d + 1)
		result := runSearch(m, segmentSize, d, limits.NodeLimit)
		switch result.Outcome {
		case MachineDoesNotHalt:
			return Result{Outcome: MachineDoesNotHalt, NodesSeen: total + result.NodesSeen}
		case NodeLimitExceeded:
			return result
		default: // CannotConclude
			total += result.NodesSeen
		}
	}
	return Result{Outcome: NodeLimitExceeded, NodesSeen: total}
}
