// Package bouncer implements the Bouncer decider: it runs a TM, extracts
// record-breaking tape snapshots, guesses a wall-repeater formula tape
// that compresses an infinite family of configurations, discovers shift
// rules by simulating on a sub-tape, and proves non-halting by reaching a
// special case of the initial formula tape.
package bouncer

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/busycoq/deciders/machine"
	"github.com/busycoq/deciders/tape"
)

// Sentinel errors specific to formula tape operations, layered on top of
// the underlying tape package's errors.
var (
	ErrInvalidFormulaTape    = errors.New("bouncer: invalid formula tape")
	ErrNoShiftRule           = errors.New("bouncer: no shift rule found")
	ErrShiftRuleNotApplicable = errors.New("bouncer: shift rule not applicable here")
	ErrInvalidRepeaterIndex  = errors.New("bouncer: invalid repeater index")
)

// FormulaTapeError wraps either one of this package's sentinels or an
// underlying tape error, matching the teacher's wrap-with-Unwrap pattern.
type FormulaTapeError struct {
	Err error
}

func (e *FormulaTapeError) Error() string { return "formula tape: " + e.Err.Error() }
func (e *FormulaTapeError) Unwrap() error { return e.Err }

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return &FormulaTapeError{Err: err}
}

// RepeaterPos is a half-open span [Beg, End) of the underlying tape whose
// cells represent an arbitrarily-repeated word.
type RepeaterPos struct {
	Beg, End int
}

// Len returns the repeater word's length.
func (r RepeaterPos) Len() int { return r.End - r.Beg }

// FormulaTape is a directional tape annotated with an ordered list of
// non-overlapping repeater intervals.
type FormulaTape struct {
	Tape     *tape.Tape
	Repeaters []RepeaterPos // sorted and disjoint, by Beg (equivalently by End)
}

// Clone returns a deep copy.
func (f *FormulaTape) Clone() *FormulaTape {
	reps := make([]RepeaterPos, len(f.Repeaters))
	copy(reps, f.Repeaters)
	return &FormulaTape{Tape: f.Tape.Clone(), Repeaters: reps}
}

// v2s renders a bit word as a string of '0'/'1' characters, matching the
// original's v2s helper used throughout its Display impls.
func v2s(word []uint8) string {
	var b strings.Builder
	for _, bit := range word {
		fmt.Fprintf(&b, "%d", bit)
	}
	return b.String()
}

// GetRepeaterWord collects the symbols across a repeater's span.
func (f *FormulaTape) GetRepeaterWord(repeaterIndex int) ([]uint8, error) {
	if repeaterIndex < 0 || repeaterIndex >= len(f.Repeaters) {
		return nil, wrap(ErrInvalidRepeaterIndex)
	}
	rp := f.Repeaters[repeaterIndex]
	if rp.Len() == 0 {
		return nil, wrap(ErrInvalidFormulaTape)
	}
	word := make([]uint8, 0, rp.Len())
	for i := rp.Beg; i < rp.End; i++ {
		c := f.Tape.Cells[i]
		if c.Kind != tape.KindSymbol {
			return nil, wrap(ErrInvalidFormulaTape)
		}
		word = append(word, c.Symbol)
	}
	return word, nil
}

// posIsRepeaterBeg reports whether pos is the Beg of some repeater, via
// binary search over the sorted Repeaters slice.
func (f *FormulaTape) posIsRepeaterBeg(pos int) bool {
	i := sort.Search(len(f.Repeaters), func(i int) bool { return f.Repeaters[i].Beg >= pos })
	return i < len(f.Repeaters) && f.Repeaters[i].Beg == pos
}

// posIsRepeaterEnd reports whether pos is the End of some repeater.
func (f *FormulaTape) posIsRepeaterEnd(pos int) bool {
	i := sort.Search(len(f.Repeaters), func(i int) bool { return f.Repeaters[i].End >= pos })
	return i < len(f.Repeaters) && f.Repeaters[i].End == pos
}

// repeaterRight returns the repeater with the smallest Beg >= pos, if any.
func (f *FormulaTape) repeaterRight(pos int) (RepeaterPos, bool) {
	i := sort.Search(len(f.Repeaters), func(i int) bool { return f.Repeaters[i].Beg >= pos })
	if i == len(f.Repeaters) {
		return RepeaterPos{}, false
	}
	return f.Repeaters[i], true
}

// repeaterLeft returns the repeater with Beg <= pos, closest to pos, if
// any.
func (f *FormulaTape) repeaterLeft(pos int) (RepeaterPos, bool) {
	i := sort.Search(len(f.Repeaters), func(i int) bool { return f.Repeaters[i].Beg > pos })
	if i == 0 {
		return RepeaterPos{}, false
	}
	return f.Repeaters[i-1], true
}

// repeaterIndexByBeg returns the index of the repeater starting at beg.
func (f *FormulaTape) repeaterIndexByBeg(beg int) (int, bool) {
	i := sort.Search(len(f.Repeaters), func(i int) bool { return f.Repeaters[i].Beg >= beg })
	if i < len(f.Repeaters) && f.Repeaters[i].Beg == beg {
		return i, true
	}
	return 0, false
}

// HeadIsPointingAtRepeater reports whether the head faces into an
// adjacent repeater: facing right with a repeater starting at HeadPos+1,
// or facing left with a repeater ending at HeadPos.
func (f *FormulaTape) HeadIsPointingAtRepeater() (bool, error) {
	h, err := f.Tape.CurrentHead()
	if err != nil {
		return false, wrap(err)
	}
	if h.Facing == machine.Right {
		return f.posIsRepeaterBeg(f.Tape.HeadPos + 1), nil
	}
	return f.posIsRepeaterEnd(f.Tape.HeadPos), nil
}

// ShiftRuleTape carves the minimal sub-tape the head could scan before
// reaching the next repeater or tape end on its far side, bounded on the
// near side by the previous repeater's end (or the first non-zero-infinite
// cell).
func (f *FormulaTape) ShiftRuleTape() (*tape.Tape, error) {
	h, err := f.Tape.CurrentHead()
	if err != nil {
		return nil, wrap(err)
	}

	var beg, end int
	switch h.Facing {
	case machine.Right:
		if rp, ok := f.repeaterLeft(f.Tape.HeadPos); ok {
			beg = rp.End
		} else {
			beg = f.Tape.FirstIndexNonZeroInfinite()
		}
		if rp, ok := f.repeaterRight(f.Tape.HeadPos); ok {
			end = rp.End
		} else {
			end = f.Tape.LastIndexNonZeroInfinite() + 1
		}
	default: // Left
		rp, ok := f.repeaterLeft(f.Tape.HeadPos)
		if !ok {
			return nil, wrap(ErrInvalidFormulaTape)
		}
		beg = rp.Beg
		if rp2, ok := f.repeaterRight(f.Tape.HeadPos); ok {
			end = rp2.Beg
		} else {
			end = f.Tape.LastIndexNonZeroInfinite() + 1
		}
	}
	sub, err := f.Tape.SubTape(beg, end)
	if err != nil {
		return nil, wrap(err)
	}
	return sub, nil
}

// ShiftRule is a local rewrite tail·H·(lhs)^k -> (rhs)^k·tail·H (or its
// mirror for a left-facing head).
type ShiftRule struct {
	Head         tape.Head
	Tail         []uint8
	LhsRepeater  []uint8
	RhsRepeater  []uint8
	NumSteps     int
}

// String renders the rule in the direction-dependent arrow form.
func (r ShiftRule) String() string {
	if r.Head.Facing == machine.Right {
		return fmt.Sprintf("%s%s(%s) → (%s)%s%s", v2s(r.Tail), r.Head, v2s(r.LhsRepeater), v2s(r.RhsRepeater), v2s(r.Tail), r.Head)
	}
	return fmt.Sprintf("(%s)%s%s → %s%s(%s)", v2s(r.LhsRepeater), r.Head, v2s(r.Tail), r.Head, v2s(r.Tail), v2s(r.RhsRepeater))
}

// ToSavaskFormat renders the rule for the human-readable transcript
// format (see SPEC_FULL.md §4.15).
func (r ShiftRule) ToSavaskFormat() string {
	if r.Head.Facing == machine.Right {
		return fmt.Sprintf("%s%s(%s) --> (%s)%s%s", v2s(r.Tail), r.Head, v2s(r.LhsRepeater), v2s(r.RhsRepeater), v2s(r.Tail), r.Head)
	}
	return fmt.Sprintf("(%s)%s%s --> %s%s(%s)", v2s(r.LhsRepeater), r.Head, v2s(r.Tail), r.Head, v2s(r.Tail), v2s(r.RhsRepeater))
}

// ApplyShiftRule applies rule to a head that currently points at a
// repeater whose word equals rule.LhsRepeater: it overwrites the repeater
// span with rule.RhsRepeater and rotates the region between the new and
// old repeater position to preserve the head/tail invariants.
func (f *FormulaTape) ApplyShiftRule(rule ShiftRule) error {
	h, err := f.Tape.CurrentHead()
	if err != nil {
		return wrap(err)
	}

	var lhsPos RepeaterPos
	var ok bool
	if h.Facing == machine.Right {
		lhsPos, ok = f.repeaterRight(f.Tape.HeadPos)
	} else {
		lhsPos, ok = f.repeaterLeft(f.Tape.HeadPos)
	}
	if !ok {
		return wrap(ErrShiftRuleNotApplicable)
	}
	idx, ok := f.repeaterIndexByBeg(lhsPos.Beg)
	if !ok {
		return wrap(ErrShiftRuleNotApplicable)
	}

	shift := len(rule.Tail) + 1
	var newPos RepeaterPos
	if h.Facing == machine.Right {
		newPos = RepeaterPos{Beg: lhsPos.Beg - shift, End: lhsPos.End - shift}
	} else {
		newPos = RepeaterPos{Beg: lhsPos.Beg + shift, End: lhsPos.End + shift}
	}

	for i, b := range rule.RhsRepeater {
		f.Tape.Cells[lhsPos.Beg+i] = tape.Cell{Kind: tape.KindSymbol, Symbol: b}
	}

	rotLen := lhsPos.Len()
	if h.Facing == machine.Right {
		lo, hi := newPos.Beg, lhsPos.End
		rotateRight(f.Tape.Cells[lo:hi], rotLen)
		f.Tape.HeadPos += rotLen
	} else {
		lo, hi := lhsPos.Beg, newPos.End
		rotateLeft(f.Tape.Cells[lo:hi], rotLen)
		f.Tape.HeadPos -= rotLen
	}

	f.Repeaters[idx] = newPos
	sort.Slice(f.Repeaters, func(i, j int) bool { return f.Repeaters[i].Beg < f.Repeaters[j].Beg })
	return nil
}

// rotateRight rotates s right by n (elements move to higher indices,
// wrapping around), matching Rust's Vec::rotate_right.
func rotateRight(s []tape.Cell, n int) {
	if len(s) == 0 {
		return
	}
	n = ((n % len(s)) + len(s)) % len(s)
	rotateLeft(s, len(s)-n)
}

// rotateLeft rotates s left by n, matching Rust's Vec::rotate_left.
func rotateLeft(s []tape.Cell, n int) {
	if len(s) == 0 {
		return
	}
	n = ((n % len(s)) + len(s)) % len(s)
	if n == 0 {
		return
	}
	tmp := make([]tape.Cell, len(s))
	copy(tmp, s[n:])
	copy(tmp[len(s)-n:], s[:n])
	copy(s, tmp)
}

// Step performs one formula-tape macro-step: if the head isn't pointing
// at a repeater, it takes a plain TM step on the underlying tape (and, if
// that left-extends the tape, bumps every repeater's Beg/End by one);
// otherwise it detects and applies a shift rule.
func (f *FormulaTape) Step() (*ShiftRule, error) {
	atRepeater, err := f.HeadIsPointingAtRepeater()
	if err != nil {
		return nil, err
	}
	if !atRepeater {
		h, err := f.Tape.CurrentHead()
		if err != nil {
			return nil, wrap(err)
		}
		grewLeft, err := f.Tape.Step()
		if err != nil {
			return nil, wrap(err)
		}
		if grewLeft && h.Facing == machine.Left {
			for i := range f.Repeaters {
				f.Repeaters[i].Beg++
				f.Repeaters[i].End++
			}
		}
		return nil, nil
	}
	rule, err := f.DetectShiftRule()
	if err != nil {
		return nil, err
	}
	if err := f.ApplyShiftRule(rule); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Steps runs numSteps macro-steps, stopping at the first error.
func (f *FormulaTape) Steps(numSteps int) error {
	for i := 0; i < numSteps; i++ {
		if _, err := f.Step(); err != nil {
			return err
		}
	}
	return nil
}

// String renders the formula tape, bracketing repeater spans in parens
// and interleaving symbols, head, and infinite-zero sentinels.
func (f *FormulaTape) String() string {
	var b strings.Builder
	i := 0
	for i < len(f.Tape.Cells) {
		if f.posIsRepeaterBeg(i) {
			rp, _ := f.repeaterRight(i)
			b.WriteByte('(')
			for j := rp.Beg; j < rp.End; j++ {
				c := f.Tape.Cells[j]
				fmt.Fprintf(&b, "%d", c.Symbol)
			}
			b.WriteByte(')')
			i = rp.End
			continue
		}
		c := f.Tape.Cells[i]
		switch c.Kind {
		case tape.KindInfiniteZero:
			b.WriteString("0∞")
		case tape.KindSymbol:
			fmt.Fprintf(&b, "%d", c.Symbol)
		case tape.KindHead:
			b.WriteString(c.Head.String())
		}
		i++
	}
	return b.String()
}

// ToSavaskFormat is currently identical to String; kept distinct because
// the certificate transcript format (SPEC_FULL.md §4.15) calls it
// explicitly at each recorded step, matching the original's separate
// entry point.
func (f *FormulaTape) ToSavaskFormat() string { return f.String() }
