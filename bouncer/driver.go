package bouncer

import (
	"errors"
	"sort"

	"github.com/busycoq/deciders/heuristics"
	"github.com/busycoq/deciders/machine"
	"github.com/busycoq/deciders/tape"
)

// repeaterFilter biases tryFitAndProve's candidate order toward triples
// whose flanking words already look period-repeating, without changing
// which triples are tried overall: it's a shared package-level instance
// since building its Aho-Corasick automaton isn't free and the pattern
// set doesn't depend on the machine being decided.
var repeaterFilter = heuristics.NewRepeaterFilter(4)

// Limits bounds the search the decider performs before giving up,
// grounded on bouncers_decider.rs's step_limit/macro_step_limit
// parameters (the original hard-codes these per invocation; this repo
// exposes them as an explicit options struct per SPEC_FULL.md §4.13).
type Limits struct {
	StepLimit        int
	MacroStepLimit   int
	FormulaTapeLimit int // max number of record-breaking tapes to retain per head
}

// DefaultLimits mirrors the values used throughout the original's test
// suite and CLI driver.
func DefaultLimits() Limits {
	return Limits{StepLimit: 1_000_000, MacroStepLimit: 10_000, FormulaTapeLimit: 1000}
}

// Result is the outcome of running the decider on one machine.
type Result struct {
	NonHalting  bool
	Certificate *Certificate
}

// Decide runs the bouncer decider on the machine described by
// machineStdFormat: it simulates up to limits.StepLimit steps, recording
// record-breaking tape snapshots bucketed by head, then for each head
// tries to fit a formula tape across increasingly-spaced triples of
// record tapes and prove non-halting from it. It returns a Result with
// NonHalting=false (and a nil Certificate) if no proof was found within
// the given limits — this is inconclusive, not a halting verdict.
func Decide(machineStdFormat string, limits Limits) (Result, error) {
	m, err := machine.Parse(machineStdFormat)
	if err != nil {
		return Result{}, err
	}

	t := tape.NewInitial(m)
	records := map[headSnapshot][]*tape.Tape{}
	bestLen := map[headSnapshot]int{}

	for step := 0; step < limits.StepLimit; step++ {
		hk, err := headKeyOf(t)
		if err != nil {
			return Result{}, err
		}
		if t.Len() > bestLen[hk] {
			bestLen[hk] = t.Len()
			bucket := records[hk]
			if len(bucket) >= limits.FormulaTapeLimit {
				bucket = bucket[1:]
			}
			records[hk] = append(bucket, t.Clone())
		}

		if _, err := t.Step(); err != nil {
			if errors.Is(err, tape.ErrMachineHalted) {
				return Result{NonHalting: false}, nil
			}
			return Result{}, err
		}
	}

	// Deterministic iteration order over the head buckets, replacing the
	// original's itertools-based sorted iteration with sort.Slice over
	// the map's keys.
	heads := make([]headSnapshot, 0, len(records))
	for hk := range records {
		heads = append(heads, hk)
	}
	sort.Slice(heads, func(i, j int) bool {
		if heads[i].state != heads[j].state {
			return heads[i].state < heads[j].state
		}
		return heads[i].facing < heads[j].facing
	})

	for _, hk := range heads {
		bucket := records[hk]
		cert, err := tryFitAndProve(machineStdFormat, bucket, limits.MacroStepLimit)
		if err != nil {
			return Result{}, err
		}
		if cert != nil {
			return Result{NonHalting: true, Certificate: cert}, nil
		}
	}

	return Result{NonHalting: false}, nil
}

// tripleCandidate is one (gap, i) triple index into bucket, carrying its
// repeaterFilter score so candidates can be tried best-first while still
// covering exactly the same exhaustive set as a plain nested loop.
type tripleCandidate struct {
	gap, i int
	score  int
}

// rankTriples enumerates every triple tryFitAndProve would have walked
// in a plain nested loop (i<j<k, gaps j-i == k-j) and orders them by how
// much period-repetition their middle tape's flanking words exhibit.
// This never removes a candidate, only reorders it — a wrong or
// degenerate score only costs the search time, not correctness.
func rankTriples(bucket []*tape.Tape) []tripleCandidate {
	n := len(bucket)
	var cands []tripleCandidate
	for gap := 1; gap*2 < n; gap++ {
		for i := 0; i+2*gap < n; i++ {
			score := 0
			if left, right, err := bucket[i+gap].FiniteWordsLeftRightOfHead(); err == nil {
				score = repeaterFilter.Score(left) + repeaterFilter.Score(right)
			}
			cands = append(cands, tripleCandidate{gap: gap, i: i, score: score})
		}
	}
	sort.SliceStable(cands, func(a, b int) bool { return cands[a].score > cands[b].score })
	return cands
}

// tryFitAndProve walks every triple of record-breaking tapes in bucket
// (i<j<k so the gaps j-i and k-j form a genuine arithmetic progression
// candidate), best-repetition-score first, and for each asks the guesser
// for a formula tape fit and attempts to prove non-halting from it.
// Mirrors bouncers_decider.rs's nested loop trying progressively wider
// triples before giving up on a head bucket; rankTriples only changes
// the order candidates are tried in, not the set itself.
func tryFitAndProve(machineStdFormat string, bucket []*tape.Tape, macroStepLimit int) (*Certificate, error) {
	for _, c := range rankTriples(bucket) {
		t0, t1, t2 := bucket[c.i], bucket[c.i+c.gap], bucket[c.i+2*c.gap]
		ft, err := FitFormulaTapeFromTriple(machineStdFormat, t0, t1, t2)
		if err != nil {
			return nil, err
		}
		if ft == nil {
			continue
		}
		if err := ft.Align(); err != nil {
			continue
		}
		cert, err := ft.ProveNonHalt(machineStdFormat, t0.StepCount, macroStepLimit)
		if err != nil {
			continue
		}
		return cert, nil
	}
	return nil, nil
}
