// Package heuristics provides non-authoritative search-order hints for
// the deciders: none of its scores can reject a candidate outright, they
// only bias which candidate is tried first, so a wrong or degenerate
// score only costs time, never correctness.
package heuristics

import "github.com/coregx/ahocorasick"

// RepeaterFilter scores a tape word by how much short-period repetition
// an Aho-Corasick scan of small doubled-period patterns ("ab" repeated
// as "abab") finds in it. bouncer's driver uses the score to try the
// record-tape triples most likely to fit a repeater first, while still
// exhausting every triple in the fallback order if the heuristic favorite
// doesn't pan out.
type RepeaterFilter struct {
	automaton *ahocorasick.Automaton
	maxPeriod int
}

// NewRepeaterFilter builds a filter recognizing periods 1..maxPeriod.
// The pattern set holds 2^p patterns per period p, 2^(maxPeriod+1)-2 in
// all, so callers should keep
// maxPeriod small (3 or 4 comfortably covers the repeaters bouncer
// machines exhibit in practice).
func NewRepeaterFilter(maxPeriod int) *RepeaterFilter {
	builder := ahocorasick.NewBuilder()
	for p := 1; p <= maxPeriod; p++ {
		for _, pat := range doubledPeriods(p) {
			builder.AddPattern(pat)
		}
	}
	auto, err := builder.Build()
	if err != nil {
		// A filter that never matches anything still makes every
		// candidate score 0 — degrades to the caller's original order.
		return &RepeaterFilter{maxPeriod: maxPeriod}
	}
	return &RepeaterFilter{automaton: auto, maxPeriod: maxPeriod}
}

// doubledPeriods returns every length-2p bit string formed by repeating
// a length-p bit string twice, as the literal byte pattern that
// indicates "this symbol run repeats with period p" to the automaton.
func doubledPeriods(p int) [][]byte {
	n := 1 << uint(p)
	out := make([][]byte, 0, n)
	for v := 0; v < n; v++ {
		half := make([]byte, p)
		for i := 0; i < p; i++ {
			if v&(1<<uint(i)) != 0 {
				half[i] = '1'
			} else {
				half[i] = '0'
			}
		}
		pat := make([]byte, 0, 2*p)
		pat = append(pat, half...)
		pat = append(pat, half...)
		out = append(out, pat)
	}
	return out
}

// Score counts how many doubled-period matches the automaton finds
// scanning word left to right (word is a slice of tape symbols, 0/1).
// Higher scores indicate a word that looks more like it's built from a
// repeated block, i.e. a better repeater-fitting candidate.
func (f *RepeaterFilter) Score(word []uint8) int {
	if f.automaton == nil || len(word) == 0 {
		return 0
	}
	haystack := make([]byte, len(word))
	for i, b := range word {
		if b != 0 {
			haystack[i] = '1'
		} else {
			haystack[i] = '0'
		}
	}

	score := 0
	at := 0
	for at <= len(haystack) {
		m := f.automaton.Find(haystack, at)
		if m == nil {
			break
		}
		score++
		at = m.Start + 1
	}
	return score
}
