package far

// DFAPrefixIterator enumerates possible n-state DFAs (over the {0,1}
// alphabet), subject to two restrictions: DFA.CheckLeadingZeros passes,
// and state IDs are assigned in breadth-first order from the initial
// state (0-transitions before 1-transitions) — so no two DFAs yielded
// are isomorphic relabelings of each other.
//
// It yields once per (nonempty) prefix of a transition table that could
// still be completed into such a DFA: the Dfa field is mutated in
// place, and Next returns the (q, b) index just filled in. A caller
// uninterested in every completion of the current prefix can call
// SkipCurrentSubtree to jump past it.
type DFAPrefixIterator struct {
	Dfa DFA

	qb          int
	tmax        []DFAState
	skipCurrent bool
	started     bool
}

// NewDFAPrefixIterator returns an iterator for n-state DFAs.
func NewDFAPrefixIterator(n int) *DFAPrefixIterator {
	return &DFAPrefixIterator{
		Dfa:  NewDFA(n),
		tmax: make([]DFAState, 2*n+1),
	}
}

// SkipCurrentSubtree asks Next to skip every DFA starting with the
// prefix most recently yielded.
func (it *DFAPrefixIterator) SkipCurrentSubtree() {
	it.skipCurrent = true
}

func (it *DFAPrefixIterator) qbPair() (int, int) {
	return it.qb / 2, it.qb % 2
}

// Next advances to the next valid prefix, returning the (q, b) index
// just filled in, or ok=false once the enumeration is exhausted.
func (it *DFAPrefixIterator) Next() (q DFAState, b uint8, ok bool) {
	m := DFAState(it.Dfa.Len() - 1)

	if it.qb < 2*it.Dfa.Len() && !it.skipCurrent {
		qi, bi := it.qbPair()
		if it.tmax[it.qb] < m && it.qb == 2*int(it.tmax[it.qb])+1 {
			it.Dfa.t[qi][bi] = it.tmax[it.qb] + 1
		} else {
			it.Dfa.t[qi][bi] = 0
		}
		it.qb++
		it.tmax[it.qb] = maxDFAState(it.tmax[it.qb-1], it.Dfa.t[qi][bi])
		return DFAState(qi), uint8(bi), true
	}
	it.skipCurrent = false

	for it.qb > 1 {
		it.qb--
		qi, bi := it.qbPair()
		if it.Dfa.t[qi][bi] <= it.tmax[it.qb] && it.Dfa.t[qi][bi] < m {
			it.Dfa.t[qi][bi]++
			it.qb++
			it.tmax[it.qb] = maxDFAState(it.tmax[it.qb-1], it.Dfa.t[qi][bi])
			return DFAState(qi), uint8(bi), true
		}
	}
	return 0, 0, false
}

func maxDFAState(a, b DFAState) DFAState {
	if a > b {
		return a
	}
	return b
}

// DFAIterator wraps a DFAPrefixIterator, yielding once per completed
// DFA rather than once per prefix.
type DFAIterator struct {
	Prefix *DFAPrefixIterator
}

// NewDFAIterator returns an iterator over complete n-state DFAs.
func NewDFAIterator(n int) *DFAIterator {
	return &DFAIterator{Prefix: NewDFAPrefixIterator(n)}
}

// Next advances to the next complete DFA, or ok=false once exhausted.
func (it *DFAIterator) Next() (ok bool) {
	qMax := DFAState(it.Prefix.Dfa.Len() - 1)
	for {
		q, b, ok := it.Prefix.Next()
		if !ok {
			return false
		}
		if q == qMax && b == 1 {
			return true
		}
	}
}
