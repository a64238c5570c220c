package bouncer

import (
	"errors"

	"github.com/busycoq/deciders/machine"
	"github.com/busycoq/deciders/tape"
)

// DetectShiftRule detects a shift rule from the formula tape's current
// head position (which must already point at a repeater). It carves the
// shift-rule sub-tape, simulates TM steps on a mutable copy while tracking
// the widest read window, and classifies the outcome:
//   - if the simulation revisits a previously-seen sub-tape, there is no
//     shift rule (it's a looper, not a bouncer rule);
//   - if the simulation runs off the sub-tape with the head back in its
//     original state and facing, the visited window yields lhs/rhs
//     repeater words (with an empty-tail fast path when the head never
//     crossed back past its start);
//   - any other tape error propagates.
func (f *FormulaTape) DetectShiftRule() (ShiftRule, error) {
	shiftRuleTape, err := f.ShiftRuleTape()
	if err != nil {
		return ShiftRule{}, err
	}

	tapesSeen := map[string]bool{}
	initialTape := shiftRuleTape.Clone()
	initialHead, err := initialTape.CurrentHead()
	if err != nil {
		return ShiftRule{}, wrap(err)
	}
	tapesSeen[initialTape.Key()] = true

	leftWordHead, rightWordHead, err := initialTape.FiniteWordsLeftRightOfHead()
	if err != nil {
		return ShiftRule{}, wrap(err)
	}
	var lhsRepeater []uint8
	if initialHead.Facing == machine.Right {
		lhsRepeater = rightWordHead
	} else {
		lhsRepeater = leftWordHead
	}
	if len(lhsRepeater) == 0 {
		return ShiftRule{}, wrap(ErrInvalidFormulaTape)
	}
	lhsRepeaterSize := len(lhsRepeater)

	minReadPos, err := shiftRuleTape.CurrentReadPos()
	if err != nil {
		return ShiftRule{}, wrap(err)
	}
	maxReadPos := minReadPos

	numSteps := 0
	for {
		_, stepErr := shiftRuleTape.Step()
		if stepErr == nil {
			if tapesSeen[shiftRuleTape.Key()] {
				return ShiftRule{}, wrap(ErrNoShiftRule)
			}
			tapesSeen[shiftRuleTape.Key()] = true
			if pos, err := shiftRuleTape.CurrentReadPos(); err == nil {
				if pos < minReadPos {
					minReadPos = pos
				}
				if pos > maxReadPos {
					maxReadPos = pos
				}
			}
			numSteps++
			continue
		}

		if !errors.Is(stepErr, tape.ErrOutOfTape) {
			return ShiftRule{}, wrap(stepErr)
		}

		finalHead, err := shiftRuleTape.CurrentHead()
		if err != nil {
			return ShiftRule{}, wrap(err)
		}
		if initialHead.State != finalHead.State || initialHead.Facing != finalHead.Facing {
			return ShiftRule{}, wrap(ErrNoShiftRule)
		}

		finalLeftWordHead, finalRightWordHead, err := shiftRuleTape.FiniteWordsLeftRightOfHead()
		if err != nil {
			return ShiftRule{}, wrap(err)
		}

		switch initialHead.Facing {
		case machine.Right:
			if minReadPos >= initialTape.HeadPos {
				return ShiftRule{
					Head:        initialHead,
					Tail:        nil,
					LhsRepeater: lhsRepeater,
					RhsRepeater: append([]uint8(nil), finalLeftWordHead[:lhsRepeaterSize]...),
					NumSteps:    numSteps,
				}, nil
			}
			interestingInitial, err := initialTape.SubTape(minReadPos, initialTape.Len())
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			interestingFinal, err := shiftRuleTape.SubTape(minReadPos, shiftRuleTape.Len())
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			tail, _, err := interestingInitial.FiniteWordsLeftRightOfHead()
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			repeaterAndTail, _, err := interestingFinal.FiniteWordsLeftRightOfHead()
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			if len(repeaterAndTail) < lhsRepeaterSize || !bytesEqual(tail, repeaterAndTail[lhsRepeaterSize:]) {
				return ShiftRule{}, wrap(ErrNoShiftRule)
			}
			rhsRepeater := append([]uint8(nil), repeaterAndTail[:lhsRepeaterSize]...)
			return ShiftRule{
				Head:        initialHead,
				Tail:        append([]uint8(nil), tail...),
				LhsRepeater: lhsRepeater,
				RhsRepeater: rhsRepeater,
				NumSteps:    numSteps,
			}, nil

		default: // Left
			if maxReadPos <= initialTape.HeadPos {
				return ShiftRule{
					Head:        initialHead,
					Tail:        nil,
					LhsRepeater: lhsRepeater,
					RhsRepeater: append([]uint8(nil), finalRightWordHead[:lhsRepeaterSize]...),
					NumSteps:    numSteps,
				}, nil
			}
			interestingInitial, err := initialTape.SubTape(0, maxReadPos+1)
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			interestingFinal, err := shiftRuleTape.SubTape(0, maxReadPos+1)
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			_, tail, err := interestingInitial.FiniteWordsLeftRightOfHead()
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			_, tailAndRepeater, err := interestingFinal.FiniteWordsLeftRightOfHead()
			if err != nil {
				return ShiftRule{}, wrap(err)
			}
			if len(tailAndRepeater) < lhsRepeaterSize {
				return ShiftRule{}, wrap(ErrNoShiftRule)
			}
			// Symmetric with the Right-facing branch above: the prefix
			// must match the original tail, and the trailing
			// lhsRepeaterSize symbols are the recovered rhs_repeater.
			// (One early draft compared/returned the same prefix slice
			// for both tail and rhs_repeater; spec.md §9 calls for the
			// stricter, symmetric reading used here.)
			split := len(tailAndRepeater) - lhsRepeaterSize
			if !bytesEqual(tail, tailAndRepeater[:split]) {
				return ShiftRule{}, wrap(ErrNoShiftRule)
			}
			rhsRepeater := append([]uint8(nil), tailAndRepeater[split:]...)
			return ShiftRule{
				Head:        initialHead,
				Tail:        append([]uint8(nil), tail...),
				LhsRepeater: lhsRepeater,
				RhsRepeater: rhsRepeater,
				NumSteps:    numSteps,
			}, nil
		}
	}
}
