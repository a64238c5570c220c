package bouncer

// isRepeats reports whether word consists of zero or more whole
// concatenated copies of r (the empty word counts, n=0).
func isRepeats(word, r []uint8) bool {
	if len(r) == 0 {
		return len(word) == 0
	}
	if len(word)%len(r) != 0 {
		return false
	}
	for i := 0; i < len(word); i += len(r) {
		for j := 0; j < len(r); j++ {
			if word[i+j] != r[j] {
				return false
			}
		}
	}
	return true
}

func bytesEqual(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsSpecialCaseOf reports whether f is obtainable from model by replacing
// any repeater (r) with r^n (r) r^m for some n, m >= 0 on every repeater
// (the glossary's "special case" relation). Both tapes are aligned first.
func (f *FormulaTape) IsSpecialCaseOf(model *FormulaTape) (bool, error) {
	self := f.Clone()
	if err := self.Align(); err != nil {
		return false, err
	}
	modelAligned := model.Clone()
	if err := modelAligned.Align(); err != nil {
		return false, err
	}

	if len(self.Repeaters) != len(modelAligned.Repeaters) {
		return false, nil
	}

	for i := range self.Repeaters {
		selfR, err := self.GetRepeaterWord(i)
		if err != nil {
			return false, err
		}
		modelR, err := modelAligned.GetRepeaterWord(i)
		if err != nil {
			return false, err
		}
		if !bytesEqual(selfR, modelR) {
			return false, nil
		}
		r := selfR

		selfLeft, err := self.finiteWordLeftOfRepeater(i)
		if err != nil {
			return false, err
		}
		modelLeft, err := modelAligned.finiteWordLeftOfRepeater(i)
		if err != nil {
			return false, err
		}
		if len(selfLeft) < len(modelLeft) {
			return false, nil
		}
		split := len(selfLeft) - len(modelLeft)
		if !bytesEqual(selfLeft[split:], modelLeft) || !isRepeats(selfLeft[:split], r) {
			return false, nil
		}

		selfRight, err := self.finiteWordRightOfRepeater(i)
		if err != nil {
			return false, err
		}
		modelRight, err := modelAligned.finiteWordRightOfRepeater(i)
		if err != nil {
			return false, err
		}
		if len(selfRight) < len(modelRight) {
			return false, nil
		}
		if !bytesEqual(selfRight[:len(modelRight)], modelRight) || !isRepeats(selfRight[len(modelRight):], r) {
			return false, nil
		}
	}
	return true, nil
}
