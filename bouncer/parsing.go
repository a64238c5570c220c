package bouncer

import (
	"strings"

	"github.com/busycoq/deciders/machine"
	"github.com/busycoq/deciders/tape"
)

// ParseFormulaTape parses the textual formula tape grammar
// (e.g. "0∞(111)1110(11)00D>0∞"): an optional leading
// and/or trailing "0∞" extremity marker, then a sequence of literal bits,
// parenthesized repeater words, and exactly one head marker
// (state-letter '>' or '<' state-letter).
//
// This is a from-scratch scan rather than a port of the original's
// string-index arithmetic, which computed repeater offsets by hand over
// the unparsed string and is easy to get subtly wrong; tracking offsets
// directly against the cell slice as it's built is simpler to verify.
func ParseFormulaTape(m *machine.Machine, s string) (*FormulaTape, error) {
	leading := strings.HasPrefix(s, "0∞")
	if leading {
		s = s[len("0∞"):]
	}
	trailing := strings.HasSuffix(s, "0∞")
	if trailing {
		s = s[:len(s)-len("0∞")]
	}

	var cells []tape.Cell
	var repeaters []RepeaterPos
	repBeg := 0
	inRepeater := false

	runes := []rune(s)
	for i := 0; i < len(runes); {
		c := runes[i]
		switch {
		case c == '(':
			if inRepeater {
				return nil, wrap(ErrInvalidFormulaTape)
			}
			inRepeater = true
			repBeg = len(cells)
			i++
		case c == ')':
			if !inRepeater {
				return nil, wrap(ErrInvalidFormulaTape)
			}
			repeaters = append(repeaters, RepeaterPos{Beg: repBeg, End: len(cells)})
			inRepeater = false
			i++
		case c == '0' || c == '1':
			cells = append(cells, tape.Cell{Kind: tape.KindSymbol, Symbol: uint8(c - '0')})
			i++
		case c == '<':
			if i+1 >= len(runes) || runes[i+1] < 'A' || runes[i+1] > 'Z' {
				return nil, wrap(ErrInvalidFormulaTape)
			}
			cells = append(cells, tape.Cell{Kind: tape.KindHead, Head: tape.Head{
				State: uint8(runes[i+1] - 'A'), Facing: machine.Left,
			}})
			i += 2
		case c >= 'A' && c <= 'Z':
			if i+1 >= len(runes) || runes[i+1] != '>' {
				return nil, wrap(ErrInvalidFormulaTape)
			}
			cells = append(cells, tape.Cell{Kind: tape.KindHead, Head: tape.Head{
				State: uint8(c - 'A'), Facing: machine.Right,
			}})
			i += 2
		default:
			return nil, wrap(ErrInvalidFormulaTape)
		}
	}
	if inRepeater {
		return nil, wrap(ErrInvalidFormulaTape)
	}

	headPos := -1
	for idx, c := range cells {
		if c.Kind == tape.KindHead {
			if headPos != -1 {
				return nil, wrap(ErrInvalidFormulaTape)
			}
			headPos = idx
		}
	}
	if headPos == -1 {
		return nil, wrap(ErrInvalidFormulaTape)
	}

	offset := 0
	if leading {
		cells = append([]tape.Cell{{Kind: tape.KindInfiniteZero}}, cells...)
		offset = 1
		headPos++
	}
	if trailing {
		cells = append(cells, tape.Cell{Kind: tape.KindInfiniteZero})
	}
	for i := range repeaters {
		repeaters[i].Beg += offset
		repeaters[i].End += offset
	}

	return &FormulaTape{
		Tape:      &tape.Tape{Machine: m, Cells: cells, HeadPos: headPos},
		Repeaters: repeaters,
	}, nil
}
