// Package haltseg implements the Halting-Segment decider: a backward
// reachability search over bounded "segment" configurations around the
// tape head. A node that can only be reached by backward transitions
// through other non-halting-looking nodes, with no live path back to a
// halt instruction, proves the machine never halts.
package haltseg

import (
	"fmt"
	"strings"

	"github.com/busycoq/deciders/machine"
)

// OutsideSegmentOrState is either "the head is currently outside the
// tracked segment" or "the head is inside it, in a given TM state".
type OutsideSegmentOrState struct {
	Outside bool
	State   uint8
}

// Outside constructs the outside-segment variant.
func Outside() OutsideSegmentOrState { return OutsideSegmentOrState{Outside: true} }

// InState constructs the inside-segment variant for the given state.
func InState(state uint8) OutsideSegmentOrState { return OutsideSegmentOrState{State: state} }

func (o OutsideSegmentOrState) String() string {
	if o.Outside {
		return "*"
	}
	return fmt.Sprintf("%c", 'A'+o.State)
}

// SegmentCell is one cell of a bounded segment of tape: either never
// written by the search (Unallocated) or pinned to a bit value.
type SegmentCell struct {
	Allocated bool
	Bit       bool
}

// Unallocated constructs the not-yet-constrained cell value.
func Unallocated() SegmentCell { return SegmentCell{} }

// CellBit constructs a cell pinned to the given bit.
func CellBit(b bool) SegmentCell { return SegmentCell{Allocated: true, Bit: b} }

// Node is one state of the backward search: the head's location relative
// to the segment, the segment's cell contents, and the head's exact
// position within it when inside.
type Node struct {
	State        OutsideSegmentOrState
	Segment      []SegmentCell
	PosInSegment int
}

// key renders a structural string uniquely identifying the node's value,
// for use by the insertion-ordered node set.
func (n Node) key() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|%d|", n.State, n.PosInSegment)
	for _, c := range n.Segment {
		switch {
		case !c.Allocated:
			b.WriteByte('.')
		case c.Bit:
			b.WriteByte('1')
		default:
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (n Node) areThereNoOnes() bool {
	for _, c := range n.Segment {
		if c.Allocated && c.Bit {
			return false
		}
	}
	return true
}

// IsFatal reports whether a node cannot witness non-halting: its segment
// has no 1s and either the head is outside the segment or in state A (the
// start state) — meeting such a node means the search cannot conclude.
func (n Node) IsFatal() bool {
	if n.State.Outside || (!n.State.Outside && n.State.State == 0) {
		return n.areThereNoOnes()
	}
	return false
}

func containsNode(nodes []Node, n Node) bool {
	for _, existing := range nodes {
		if existing.key() == n.key() {
			return true
		}
	}
	return false
}

// GetNeighbours returns the backward-reachability neighbours of n: nodes
// that, by taking one forward TM transition, arrive at n's configuration.
func (n Node) GetNeighbours(m *machine.Machine) []Node {
	if n.State.Outside {
		return n.getNeighboursWhenOutsideSegment(m)
	}
	return n.getNeighboursWhenInsideSegment(n.State.State, m)
}

// getNeighboursWhenOutsideSegment: the head is currently outside the
// segment, so its backward-reachable neighbours are states that were
// inside and whose transition made them leave the segment at this edge.
func (n Node) getNeighboursWhenOutsideSegment(m *machine.Machine) []Node {
	var out []Node
	for state := uint8(0); state < machine.States; state++ {
		for read := uint8(0); read < machine.Symbols; read++ {
			tr := m.Transition(state, read)
			if tr.IsHalt() {
				continue
			}

			leavesAtThisEdge := (n.PosInSegment == 0 && tr.Dir == machine.Left) ||
				(n.PosInSegment+1 == len(n.Segment) && tr.Dir == machine.Right)
			if !leavesAtThisEdge {
				continue
			}

			cell := n.Segment[n.PosInSegment]
			if cell.Allocated && cell.Bit != (tr.Write == 1) {
				continue
			}

			newSegment := append([]SegmentCell(nil), n.Segment...)
			newSegment[n.PosInSegment] = CellBit(read == 1)

			candidate := Node{State: InState(state), Segment: newSegment, PosInSegment: n.PosInSegment}
			if !containsNode(out, candidate) {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// getNeighboursWhenInsideSegment: the head is inside the segment in the
// given state; its backward-reachable neighbours are states whose
// transition lands in `state` at this position (or, for positions at the
// segment's edge moving further out, a transition arriving from outside).
func (n Node) getNeighboursWhenInsideSegment(state uint8, m *machine.Machine) []Node {
	var out []Node
	for fromState := uint8(0); fromState < machine.States; fromState++ {
		for read := uint8(0); read < machine.Symbols; read++ {
			tr := m.Transition(fromState, read)
			if tr.IsHalt() || tr.NextState != state {
				continue
			}

			leavesAtThisEdge := (n.PosInSegment == 0 && tr.Dir == machine.Right) ||
				(n.PosInSegment+1 == len(n.Segment) && tr.Dir == machine.Left)
			if leavesAtThisEdge {
				candidate := Node{State: Outside(), Segment: n.Segment, PosInSegment: n.PosInSegment}
				if !containsNode(out, candidate) {
					out = append(out, candidate)
				}
				continue
			}

			newPos := n.PosInSegment - 1
			if tr.Dir == machine.Left {
				newPos = n.PosInSegment + 1
			}

			cell := n.Segment[newPos]
			if cell.Allocated && cell.Bit != (tr.Write == 1) {
				continue
			}

			newSegment := append([]SegmentCell(nil), n.Segment...)
			newSegment[newPos] = CellBit(read == 1)

			candidate := Node{State: InState(fromState), Segment: newSegment, PosInSegment: newPos}
			if !containsNode(out, candidate) {
				out = append(out, candidate)
			}
		}
	}
	return out
}

// String renders the node in the form "State: E ;  _ . .[0]. .  _",
// matching the original's trace output.
func (n Node) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "State: %s ; ", n.State)

	if n.State.Outside && n.PosInSegment == 0 {
		b.WriteString("[_]")
	} else {
		b.WriteString(" _")
	}

	for i, c := range n.Segment {
		if i == 0 && i != n.PosInSegment && !n.State.Outside {
			b.WriteByte(' ')
		}
		spaceAfter := true
		switch {
		case !c.Allocated:
			b.WriteByte('.')
		case i != n.PosInSegment || n.State.Outside:
			if c.Bit {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		default:
			if c.Bit {
				b.WriteString("[1]")
			} else {
				b.WriteString("[0]")
			}
			spaceAfter = false
		}
		if spaceAfter && (i+1 != n.PosInSegment || n.State.Outside) {
			b.WriteByte(' ')
		}
	}

	if n.State.Outside && n.PosInSegment+1 == len(n.Segment) {
		b.WriteString("[_]")
	} else {
		b.WriteString(" _")
	}
	return b.String()
}
