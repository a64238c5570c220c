package bouncer

import "github.com/busycoq/deciders/tape"

// finiteWordLeftOfRepeater returns the literal word immediately left of a
// repeater, walking backward until it hits the head, an infinite-zero
// extremity, or another repeater's end.
func (f *FormulaTape) finiteWordLeftOfRepeater(repeaterIndex int) ([]uint8, error) {
	if repeaterIndex < 0 || repeaterIndex >= len(f.Repeaters) {
		return nil, wrap(ErrInvalidRepeaterIndex)
	}
	rp := f.Repeaters[repeaterIndex]
	var word []uint8
	for pos := rp.Beg - 1; pos >= 0 && !f.posIsRepeaterEnd(pos+1); pos-- {
		c := f.Tape.Cells[pos]
		if c.Kind == tape.KindSymbol {
			word = append(word, c.Symbol)
		} else {
			break
		}
	}
	// word was collected right-to-left (nearest the repeater first); the
	// caller expects left-to-right tape order.
	for i, j := 0, len(word)-1; i < j; i, j = i+1, j-1 {
		word[i], word[j] = word[j], word[i]
	}
	return word, nil
}

// finiteWordRightOfRepeater returns the literal word immediately right of
// a repeater, walking forward until it hits the head, an infinite-zero
// extremity, or another repeater's beginning.
func (f *FormulaTape) finiteWordRightOfRepeater(repeaterIndex int) ([]uint8, error) {
	if repeaterIndex < 0 || repeaterIndex >= len(f.Repeaters) {
		return nil, wrap(ErrInvalidRepeaterIndex)
	}
	rp := f.Repeaters[repeaterIndex]
	var word []uint8
	for pos := rp.End; pos < f.Tape.Len() && !f.posIsRepeaterBeg(pos); pos++ {
		c := f.Tape.Cells[pos]
		if c.Kind != tape.KindSymbol {
			break
		}
		word = append(word, c.Symbol)
	}
	return word, nil
}

// cyclicSuffixMatchLen returns the largest m (0 <= m <= len(adjacent))
// such that adjacent's last m symbols equal repeater's content, read
// backward and tiled cyclically leftward from the repeater's start. A
// positive result means those m symbols can be absorbed into the
// repeater by shifting its Beg left by m without changing the tape's
// content.
func cyclicSuffixMatchLen(adjacent, repeater []uint8) int {
	if len(repeater) == 0 {
		return 0
	}
	m := 0
	for m < len(adjacent) {
		k := m
		want := repeater[len(repeater)-1-(k%len(repeater))]
		if adjacent[len(adjacent)-1-k] != want {
			break
		}
		m++
	}
	return m
}

// cyclicPrefixMatchLen returns the largest m (0 <= m <= len(adjacent))
// such that adjacent's first m symbols equal repeater's content tiled
// cyclically rightward from the repeater's end.
func cyclicPrefixMatchLen(adjacent, repeater []uint8) int {
	if len(repeater) == 0 {
		return 0
	}
	m := 0
	for m < len(adjacent) {
		if adjacent[m] != repeater[m%len(repeater)] {
			break
		}
		m++
	}
	return m
}

// Align slides every repeater's boundaries to a canonical position: for
// each repeater with adjacent literal word a, it seeks the largest
// suffix/prefix of a that is consistent with a rotation of the repeater's
// own word, and absorbs it into the repeater. This reduces the chance
// that is_special_case_of later fails solely due to representation
// differences. Runs to a fixed point (bounded by tape length) so that
// Align(Align(x)) == Align(x).
func (f *FormulaTape) Align() error {
	maxPasses := f.Tape.Len() + 1
	for pass := 0; pass < maxPasses; pass++ {
		changed := false
		for i := range f.Repeaters {
			word, err := f.GetRepeaterWord(i)
			if err != nil {
				return err
			}
			if len(word) == 0 {
				continue
			}

			leftWord, err := f.finiteWordLeftOfRepeater(i)
			if err != nil {
				return err
			}
			if m := cyclicSuffixMatchLen(leftWord, word); m > 0 {
				f.Repeaters[i].Beg -= m
				changed = true
				continue
			}

			rightWord, err := f.finiteWordRightOfRepeater(i)
			if err != nil {
				return err
			}
			if m := cyclicPrefixMatchLen(rightWord, word); m > 0 {
				f.Repeaters[i].End += m
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
	return wrap(ErrInvalidFormulaTape)
}
