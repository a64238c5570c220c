package bouncer

import (
	"github.com/busycoq/deciders/machine"
	"github.com/busycoq/deciders/tape"
)

// formulaAtom is one element of a guessed proto-formula tape: either a
// literal symbol or a repeater word, in left-to-right order.
type formulaAtom struct {
	isRepeater bool
	symbol     uint8
	repeater   []uint8
}

// stripHeadAndZero returns a tape's symbols with the head and
// infinite-zero cells removed.
func stripHeadAndZero(t *tape.Tape) []uint8 {
	out := make([]uint8, 0, t.Len())
	for _, c := range t.Cells {
		if c.Kind == tape.KindSymbol {
			out = append(out, c.Symbol)
		}
	}
	return out
}

// dpStep tags the outcome of one DP cell: fail, a literal symbol, an end
// marker, or a repeater of some length.
type dpStep int

const (
	dpFail dpStep = -1
	dpSym  dpStep = -2
	dpEnd  dpStep = -3
)

// FitFormulaTapeFromTriple runs the memoized dynamic program described in
// SPEC_FULL.md / spec.md §4.5 over three same-head tapes whose lengths
// form an arithmetic progression with common difference d, classifying
// each position as a literal symbol, a repeater start, or the tape's end.
// It returns nil if no such fit exists.
func FitFormulaTapeFromTriple(machineStr string, tape0, tape1, tape2 *tape.Tape) (*FormulaTape, error) {
	m, err := machine.Parse(machineStr)
	if err != nil {
		return nil, err
	}
	head, err := tape0.CurrentHead()
	if err != nil {
		return nil, err
	}
	s0 := stripHeadAndZero(tape0)
	s1 := stripHeadAndZero(tape1)
	s2 := stripHeadAndZero(tape2)

	n0, n1 := len(s0), len(s1)
	if n1 < n0 {
		return nil, nil
	}

	// memo[i0][d] caches the outcome for DP state (i0, d); dpStep values
	// double as sentinels, non-negative values encode Repeat(k).
	width := n1 - n0 + 1
	memo := make([][]dpStep, n0+1)
	computed := make([][]bool, n0+1)
	for i := range memo {
		memo[i] = make([]dpStep, width)
		computed[i] = make([]bool, width)
	}

	var solve func(i0, d int) dpStep
	solve = func(i0, d int) dpStep {
		if computed[i0][d] {
			return memo[i0][d]
		}
		computed[i0][d] = true // guard against infinite recursion; filled below

		i1 := i0 + d
		i2 := i0 + 2*d

		if i0 == n0 && i1 == n1 {
			memo[i0][d] = dpEnd
			return dpEnd
		}

		if i0 < n0 && i1 < n1 && i2 < len(s2) && s0[i0] == s1[i1] && s1[i1] == s2[i2] {
			if i0+1 <= n0 && d < width && solve(i0+1, d) != dpFail {
				memo[i0][d] = dpSym
				return dpSym
			}
		}

		remainingS0 := n0 - i0
		remainingS1 := n1 - i1
		longestMatch := 0
		if remainingS1 > remainingS0 {
			cap := remainingS1 - remainingS0
			for longestMatch < cap && i1+longestMatch < len(s1) && i2+longestMatch < len(s2) && s1[i1+longestMatch] == s2[i2+longestMatch] {
				longestMatch++
			}
		}
		for k := longestMatch; k >= 1; k-- {
			if i2+2*k > len(s2) {
				continue
			}
			match := true
			for j := 0; j < k; j++ {
				if s2[i2+j] != s2[i2+k+j] {
					match = false
					break
				}
			}
			if !match {
				continue
			}
			if i0 <= n0 && d+k < width && solve(i0, d+k) != dpFail {
				memo[i0][d] = dpStep(k)
				return dpStep(k)
			}
		}

		memo[i0][d] = dpFail
		return dpFail
	}

	if solve(0, 0) == dpFail {
		return nil, nil
	}

	var atoms []formulaAtom
	i0, d := 0, 0
	for {
		step := memo[i0][d]
		switch {
		case step == dpEnd:
			return protoFormulaTapeToFormulaTape(m, head, atoms), nil
		case step == dpSym:
			atoms = append(atoms, formulaAtom{symbol: s0[i0]})
			i0++
		case step >= 0:
			k := int(step)
			rep := append([]uint8(nil), s1[i0+d:i0+d+k]...)
			atoms = append(atoms, formulaAtom{isRepeater: true, repeater: rep})
			d += k
		default:
			return nil, nil
		}
	}
}

// protoFormulaTapeToFormulaTape builds the concrete FormulaTape from a
// sequence of guessed atoms and the shared head.
func protoFormulaTapeToFormulaTape(m *machine.Machine, head tape.Head, atoms []formulaAtom) *FormulaTape {
	var content []uint8
	var repeaters []RepeaterPos

	offset := 1
	if head.Facing == machine.Left {
		offset = 2
	}

	repeaterOffset := 0
	for i, atom := range atoms {
		if atom.isRepeater {
			content = append(content, atom.repeater...)
			repeaters = append(repeaters, RepeaterPos{
				Beg: offset + repeaterOffset + i,
				End: offset + repeaterOffset + i + len(atom.repeater),
			})
			repeaterOffset += len(atom.repeater) - 1
		} else {
			content = append(content, atom.symbol)
		}
	}

	var t *tape.Tape
	if head.Facing == machine.Left {
		t = tape.New(m, nil, head, content)
	} else {
		t = tape.New(m, content, head, nil)
	}

	return &FormulaTape{Tape: t, Repeaters: repeaters}
}
