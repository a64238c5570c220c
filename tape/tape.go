// Package tape implements the directional tape model: a tape where the
// head is materialized as a dedicated cell between symbols and carries a
// facing direction. It supports forward stepping, sub-tape extraction, and
// infinite-zero extension at either end.
package tape

import (
	"errors"
	"fmt"
	"strings"

	"github.com/busycoq/deciders/machine"
)

// Sentinel errors for tape operations.
var (
	// ErrMachineHalted is returned by Step when the transition table entry
	// for the current (state, read) pair is Halt.
	ErrMachineHalted = errors.New("tape: machine has halted")
	// ErrOutOfTape is returned when an operation would move the head
	// outside the bounds of a partial (non-infinite) tape.
	ErrOutOfTape = errors.New("tape: out of tape")
	// ErrInvalidTape is returned when a tape's invariants are violated,
	// e.g. sub_tape excludes the head cell.
	ErrInvalidTape = errors.New("tape: invalid tape")
)

// Head describes the state the machine is in and the direction it is
// currently facing.
type Head struct {
	State   uint8
	Facing  machine.Direction
}

// String renders the head as e.g. "A>" (facing right) or "<E" (facing left).
func (h Head) String() string {
	letter := byte('A' + h.State)
	if h.Facing == machine.Left {
		return fmt.Sprintf("<%c", letter)
	}
	return fmt.Sprintf("%c>", letter)
}

// CellKind tags the variant a Cell holds.
type CellKind uint8

const (
	// KindInfiniteZero marks a tape extremity: all cells beyond it, in
	// that direction, are implicitly 0.
	KindInfiniteZero CellKind = iota
	// KindSymbol holds a single written bit.
	KindSymbol
	// KindHead holds the single head cell on the tape.
	KindHead
)

// Cell is one position on the tape: either the infinite-zero extremity
// marker, a written symbol, or the head. Exactly one Cell on a Tape has
// Kind == KindHead.
type Cell struct {
	Kind   CellKind
	Symbol uint8 // valid when Kind == KindSymbol
	Head   Head  // valid when Kind == KindHead
}

func symCell(b uint8) Cell  { return Cell{Kind: KindSymbol, Symbol: b} }
func headCell(h Head) Cell  { return Cell{Kind: KindHead, Head: h} }
func zeroCell() Cell        { return Cell{Kind: KindInfiniteZero} }
func (c Cell) isHead() bool { return c.Kind == KindHead }
func (c Cell) isZero() bool { return c.Kind == KindInfiniteZero }

// Tape is a sequence of cells with a cached head position and step count.
// A full tape is bracketed by two KindInfiniteZero cells; a partial tape
// (produced by SubTape) has none.
type Tape struct {
	Machine   *machine.Machine
	Cells     []Cell
	HeadPos   int
	StepCount int
}

// NewInitial returns 0∞ · A> · 0∞: the head in state 0, facing right,
// surrounded by infinite zeros.
func NewInitial(m *machine.Machine) *Tape {
	return &Tape{
		Machine: m,
		Cells:   []Cell{zeroCell(), headCell(Head{State: 0, Facing: machine.Right}), zeroCell()},
		HeadPos: 1,
	}
}

// New builds a full tape from explicit before/after symbol words and a
// head, wrapping the result in infinite zeros on both ends.
func New(m *machine.Machine, before []uint8, head Head, after []uint8) *Tape {
	cells := make([]Cell, 0, len(before)+len(after)+3)
	cells = append(cells, zeroCell())
	for _, b := range before {
		cells = append(cells, symCell(b))
	}
	headPos := len(cells)
	cells = append(cells, headCell(head))
	for _, a := range after {
		cells = append(cells, symCell(a))
	}
	cells = append(cells, zeroCell())
	return &Tape{Machine: m, Cells: cells, HeadPos: headPos}
}

// NewPartial is like New but without the infinite-zero wrapping, producing
// a partial tape.
func NewPartial(m *machine.Machine, before []uint8, head Head, after []uint8) *Tape {
	cells := make([]Cell, 0, len(before)+len(after)+1)
	for _, b := range before {
		cells = append(cells, symCell(b))
	}
	headPos := len(cells)
	cells = append(cells, headCell(head))
	for _, a := range after {
		cells = append(cells, symCell(a))
	}
	return &Tape{Machine: m, Cells: cells, HeadPos: headPos}
}

// Len returns the number of cells on the tape.
func (t *Tape) Len() int { return len(t.Cells) }

// Clone returns a deep copy of the tape.
func (t *Tape) Clone() *Tape {
	cells := make([]Cell, len(t.Cells))
	copy(cells, t.Cells)
	return &Tape{Machine: t.Machine, Cells: cells, HeadPos: t.HeadPos, StepCount: t.StepCount}
}

// String renders the tape, showing "0∞" for infinite-zero extremities, the
// digit for symbols, and Head.String() for the head cell.
func (t *Tape) String() string {
	var b strings.Builder
	for _, c := range t.Cells {
		switch c.Kind {
		case KindInfiniteZero:
			b.WriteString("0∞")
		case KindSymbol:
			fmt.Fprintf(&b, "%d", c.Symbol)
		case KindHead:
			b.WriteString(c.Head.String())
		}
	}
	return b.String()
}

// CurrentHead returns the head cell's data.
func (t *Tape) CurrentHead() (Head, error) {
	if t.HeadPos < 0 || t.HeadPos >= len(t.Cells) || !t.Cells[t.HeadPos].isHead() {
		return Head{}, ErrInvalidTape
	}
	return t.Cells[t.HeadPos].Head, nil
}

// CurrentReadPos returns the tape index the head is about to read: one
// cell in the facing direction from HeadPos.
func (t *Tape) CurrentReadPos() (int, error) {
	h, err := t.CurrentHead()
	if err != nil {
		return 0, err
	}
	if h.Facing == machine.Right {
		return t.HeadPos + 1, nil
	}
	return t.HeadPos - 1, nil
}

// CurrentReadSymbol returns the bit the head is about to read (0 for an
// infinite-zero extremity).
func (t *Tape) CurrentReadSymbol() (uint8, error) {
	pos, err := t.CurrentReadPos()
	if err != nil {
		return 0, err
	}
	if pos < 0 || pos >= len(t.Cells) {
		return 0, ErrOutOfTape
	}
	c := t.Cells[pos]
	switch c.Kind {
	case KindInfiniteZero:
		return 0, nil
	case KindSymbol:
		return c.Symbol, nil
	default:
		return 0, ErrInvalidTape
	}
}

// CurrentTransition looks up the transition for the head's current state
// and the symbol it is about to read.
func (t *Tape) CurrentTransition() (machine.Transition, error) {
	h, err := t.CurrentHead()
	if err != nil {
		return machine.Transition{}, err
	}
	sym, err := t.CurrentReadSymbol()
	if err != nil {
		return machine.Transition{}, err
	}
	tr := t.Machine.Transition(h.State, sym)
	if tr.IsHalt() {
		return tr, ErrMachineHalted
	}
	return tr, nil
}

// Step performs one TM step: it reads the cell in front of the head, looks
// up the transition, and either extends the tape (if the read cell was an
// infinite-zero extremity) or writes in place; the head then slides one
// cell if its new facing matches the old one, or simply rotates in place
// if the transition reverses direction. It reports whether the tape grew
// on its left end, which callers tracking repeater offsets need to know.
func (t *Tape) Step() (grewLeft bool, err error) {
	curHead, err := t.CurrentHead()
	if err != nil {
		return false, err
	}
	readPos, err := t.CurrentReadPos()
	if err != nil {
		return false, err
	}

	if readPos < 0 || readPos >= len(t.Cells) {
		return false, ErrOutOfTape
	}
	if t.Cells[readPos].isZero() {
		switch readPos {
		case len(t.Cells) - 1:
			// Right extremity: extend by appending a new zero beyond it;
			// the old extremity cell becomes the write target.
			t.Cells = append(t.Cells, zeroCell())
		case 0:
			// Left extremity: prepend a new zero, shifting every existing
			// index (including the old extremity) right by one.
			t.Cells = append([]Cell{zeroCell()}, t.Cells...)
			t.HeadPos++
			readPos++
			grewLeft = true
		default:
			return false, ErrInvalidTape
		}
	}

	tr, err := t.CurrentTransition()
	if err != nil {
		return grewLeft, err
	}

	newHead := Head{State: tr.NextState, Facing: tr.Dir}
	t.Cells[t.HeadPos] = headCell(newHead)
	t.Cells[readPos] = symCell(tr.Write)

	if curHead.Facing == newHead.Facing {
		newPos, err := t.validTapeAfterDirection(t.HeadPos, tr.Dir)
		if err != nil {
			return grewLeft, err
		}
		t.Cells[t.HeadPos], t.Cells[readPos] = t.Cells[readPos], t.Cells[t.HeadPos]
		t.HeadPos = newPos
	}
	t.StepCount++
	return grewLeft, nil
}

// Steps runs n steps, stopping at the first error.
func (t *Tape) Steps(n int) error {
	for i := 0; i < n; i++ {
		if _, err := t.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tape) validTapeAfterDirection(pos int, dir machine.Direction) (int, error) {
	delta := 1
	if dir == machine.Left {
		delta = -1
	}
	newPos := pos + delta
	if newPos < 0 || newPos >= len(t.Cells) {
		return 0, ErrOutOfTape
	}
	return newPos, nil
}

// FirstIndexNonZeroInfinite returns the index of the first non-infinite-zero
// cell (skipping a leading KindInfiniteZero, if any).
func (t *Tape) FirstIndexNonZeroInfinite() int {
	for i, c := range t.Cells {
		if !c.isZero() {
			return i
		}
	}
	return len(t.Cells)
}

// LastIndexNonZeroInfinite returns the index of the last non-infinite-zero
// cell.
func (t *Tape) LastIndexNonZeroInfinite() int {
	for i := len(t.Cells) - 1; i >= 0; i-- {
		if !t.Cells[i].isZero() {
			return i
		}
	}
	return -1
}

// FiniteWordsLeftRightOfHead returns the bit strings immediately to the
// left and right of the head, trimmed of infinite-zero cells.
func (t *Tape) FiniteWordsLeftRightOfHead() ([]uint8, []uint8, error) {
	if _, err := t.CurrentHead(); err != nil {
		return nil, nil, err
	}
	var left []uint8
	for i := t.HeadPos - 1; i >= 0; i-- {
		c := t.Cells[i]
		if c.isZero() {
			break
		}
		if c.Kind != KindSymbol {
			return nil, nil, ErrInvalidTape
		}
		left = append(left, c.Symbol)
	}
	// left was collected right-to-left; reverse it.
	for i, j := 0, len(left)-1; i < j; i, j = i+1, j-1 {
		left[i], left[j] = left[j], left[i]
	}
	var right []uint8
	for i := t.HeadPos + 1; i < len(t.Cells); i++ {
		c := t.Cells[i]
		if c.isZero() {
			break
		}
		if c.Kind != KindSymbol {
			return nil, nil, ErrInvalidTape
		}
		right = append(right, c.Symbol)
	}
	return left, right, nil
}

// SubTape extracts cells[start:end] as a new partial tape, preserving the
// head. Fails if the range excludes the head cell.
func (t *Tape) SubTape(start, end int) (*Tape, error) {
	if start < 0 || end > len(t.Cells) || start > end {
		return nil, ErrInvalidTape
	}
	if t.HeadPos < start || t.HeadPos >= end {
		return nil, ErrInvalidTape
	}
	cells := make([]Cell, end-start)
	copy(cells, t.Cells[start:end])
	return &Tape{Machine: t.Machine, Cells: cells, HeadPos: t.HeadPos - start}, nil
}

// Key renders a structural string key suitable for use as a map/set key
// (e.g. cycle detection during shift-rule simulation).
func (t *Tape) Key() string { return t.String() }
