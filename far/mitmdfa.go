package far

import (
	"github.com/busycoq/deciders/far/sat"
	"github.com/busycoq/deciders/machine"
)

// MitMDFAProver searches for a simpler recognizing automaton: consume
// the tape from both ends with a DFA each, excluding the bit under the
// head. "Meeting in the middle" gives a tuple (qL, f, r, qR); a subset
// of these tuples is accepted, subject to start/halt/closure rules.
// Searching for a useful pair of DFAs by brute force rarely finishes,
// so this encodes the search as a CNF formula and hands it to a SAT
// solver — the same DFA-pair/SAT technique pioneered in the
// bbchallenge community by @djmati1111 and @Mateon1. Once solved, the
// left DFA alone is enough: CompleteUnverified reconstructs the full
// TapeAutomaton from it.
type MitMDFAProver struct {
	n      int32
	solver *sat.Solver
	ready  bool
}

// NewMitMDFAProver returns a prover searching DFA pairs with n states
// each.
func NewMitMDFAProver(n int) *MitMDFAProver {
	return &MitMDFAProver{n: int32(n), solver: sat.NewSolver()}
}

// Prove searches for a TapeAutomaton proving tm non-halting, reusing
// the accumulated CNF formula across calls (only tm's own transition
// encoding changes, passed as solver assumptions).
func (p *MitMDFAProver) Prove(tm *machine.Machine) *TapeAutomaton {
	if !p.ready {
		p.init(p.n)
	}

	var assumptions []int32
	tm.Rules(func(rule machine.Rule) {
		cl := p.tmClause(rule)
		assumptions = append(assumptions, cl[:]...)
	})

	if !p.solver.SolveAssuming(assumptions) {
		return nil
	}
	dfa := NewDFA(int(p.n))
	for q := 0; q < dfa.Len(); q++ {
		for b := uint8(0); b < 2; b++ {
			dfa.SetTransition(DFAState(q), b, p.dfaEval(fromLeft, DFAState(q), b))
		}
	}
	return CompleteUnverified(tm, machine.Right, dfa)
}

// The CNF variable numbering below packs the conditions of interest
// tightly into a sequence of variables: `eq`/`le` variables represent
// an outcome being `=`/`<=` a fixed value, under the rule `x = k`
// implies `x <= k` implies `x <= k+1` and `x != k+1`.
// See also: https://www.carstensinz.de/papers/CP-2005.pdf
const (
	satTrue    int32 = 1
	satFalse   int32 = -satTrue
	tState           = int32(TMStates)
	fromLeft         = 0
	fromRight        = 1
)

// trapezoid is the number of lattice points in 0 <= y < min(x, h), 0 <= x < b.
func trapezoid(b, h int32) int32 {
	s := b
	if h < s {
		s = h
	}
	return (s*(s-1))/2 + (b-s)*h
}

func tmWriteVar(f, r int32) int32 { return f + tState*r + 2 }
func tmRightVar(f, r int32) int32 { return f + tState*r + tState*2 + 2 }
func tmToEqVar(f, r, t int32) int32 {
	return f + tState*(r+2*t) + tState*4 + 2
}
func tmToLeVar(f, r, t int32) int32 {
	return f + tState*(r+2*(t-1)) + tState*(6+tState*2) + 2
}
func dfaTEqVar(n, lr, qb, t int32) int32 {
	return lr + 2*(qb-1+trapezoid(2*n, t)) + 4*tState*(tState+1) + 2
}
func dfaTLeVar(n, lr, qb, t int32) int32 {
	return lr + 2*(qb-2+trapezoid(2*n-2, t-1)) + 4*tState*(tState+1) + n*(1+3*n)
}
func acceptedVar(n, ql, f, r, qr int32) int32 {
	return ql + n*(f+tState*(r+2*qr)) + 4*tState*(tState+1) + 6*n*(n-1) + 1
}
func auxVar0(n int32) int32 {
	return n*tState*2*n + 4*tState*(tState+1) + 6*n*(n-1) + 1
}

func negateIf0(lit int32, w uint8) int32 {
	if w == 0 {
		return -lit
	}
	return lit
}

func negateIfLeft(lit int32, d machine.Direction) int32 {
	if d == machine.Left {
		return -lit
	}
	return lit
}

// tmClause encodes one TM rule as a 3-literal assumption clause, pinning
// the formula's TM-transition variables to match this specific machine.
func (p *MitMDFAProver) tmClause(rule machine.Rule) [3]int32 {
	f, r := int32(rule.FromState), int32(rule.Read)
	if rule.Halt {
		return [3]int32{tmToEqVar(f, r, tState), satTrue, satTrue}
	}
	t := int32(rule.ToState)
	return [3]int32{
		negateIf0(tmWriteVar(f, r), rule.Write),
		negateIfLeft(tmRightVar(f, r), rule.Dir),
		tmToEqVar(f, r, t),
	}
}

func (p *MitMDFAProver) tmTo(f, r TMState, t int32) int32 {
	if 0 <= t && t <= tState {
		return tmToEqVar(int32(f), int32(r), t)
	}
	return satFalse
}

func (p *MitMDFAProver) tmToLe(f, r TMState, t int32) int32 {
	if t <= 0 {
		return p.tmTo(f, r, t)
	}
	if t < tState {
		return tmToLeVar(int32(f), int32(r), t)
	}
	return satTrue
}

func (p *MitMDFAProver) dfa(lr int32, q DFAState, b uint8, t int32) int32 {
	qb := 2*int32(q) + int32(b)
	if qb == 0 && t == 0 {
		return satTrue
	}
	if 0 <= t && t <= qb && t < p.n {
		return dfaTEqVar(p.n, lr, qb, t)
	}
	return satFalse
}

func (p *MitMDFAProver) dfaLe(lr int32, q DFAState, b uint8, t int32) int32 {
	qb := 2*int32(q) + int32(b)
	if t <= 0 {
		return p.dfa(lr, q, b, t)
	}
	if t < qb && t < p.n-1 {
		return dfaTLeVar(p.n, lr, qb, t)
	}
	return satTrue
}

func (p *MitMDFAProver) accept(ql DFAState, f TMState, r uint8, qr DFAState) int32 {
	if ql == 0 && f == 0 && r == 0 && qr == 0 {
		return satFalse
	}
	return acceptedVar(p.n, int32(ql), int32(f), int32(r), int32(qr))
}

func (p *MitMDFAProver) value(lit int32) bool {
	v, ok := p.solver.Value(lit)
	if !ok {
		return lit > 0
	}
	return v
}

func (p *MitMDFAProver) dfaEval(lr int32, q DFAState, b uint8) DFAState {
	for t := int32(0); t < p.n; t++ {
		if p.value(p.dfa(lr, q, b, t)) {
			return DFAState(t)
		}
	}
	return DFAState(p.n - 1)
}

func tmaxEqVar(n, lr, qb, m int32, base []int32) int32 {
	if qb == 2*n && m == n-1 {
		return satTrue
	}
	if m < qb/2 || m >= minI32(n, qb) {
		return satFalse
	}
	if minI32(n, qb)-qb/2 <= 1 {
		return satTrue
	}
	return base[qb] + lr + 2*m
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func (p *MitMDFAProver) init(n int32) {
	p.ready = true
	p.solver.AddClause([]int32{satTrue})

	for f := TMState(0); int32(f) < tState; f++ {
		for r := uint8(0); r < 2; r++ {
			for t := int32(0); t <= tState; t++ {
				p.solver.AddClause([]int32{-p.tmTo(f, r, t), p.tmToLe(f, r, t)})
				p.solver.AddClause([]int32{-p.tmToLe(f, r, t), p.tmToLe(f, r, t+1)})
				p.solver.AddClause([]int32{-p.tmTo(f, r, t+1), -p.tmToLe(f, r, t)})
			}
		}
	}

	for lr := int32(0); lr < 2; lr++ {
		for q := DFAState(0); int32(q) < n; q++ {
			for b := uint8(0); b < 2; b++ {
				for t := int32(0); t < n; t++ {
					p.solver.AddClause([]int32{-p.dfa(lr, q, b, t), p.dfaLe(lr, q, b, t)})
					p.solver.AddClause([]int32{-p.dfaLe(lr, q, b, t), p.dfaLe(lr, q, b, t+1)})
					p.solver.AddClause([]int32{-p.dfa(lr, q, b, t+1), -p.dfaLe(lr, q, b, t)})
				}
				if !(q == 0 && b == 0) {
					qb := 2*int32(q) + int32(b)
					tmax := minI32(qb+1, n)
					var clause []int32
					for t := int32(0); t < tmax; t++ {
						clause = append(clause, dfaTEqVar(n, lr, qb, t))
					}
					p.solver.AddClause(clause)
				}
			}
		}
	}

	for ql := DFAState(0); int32(ql) < n; ql++ {
		for qr := DFAState(0); int32(qr) < n; qr++ {
			for f := TMState(0); int32(f) < tState; f++ {
				for r := uint8(0); r < 2; r++ {
					p.solver.AddClause([]int32{-p.tmTo(f, r, tState), p.accept(ql, f, r, qr)})
					cr := tmRightVar(int32(f), int32(r))
					for w := uint8(0); w < 2; w++ {
						cw := negateIf0(tmWriteVar(int32(f), int32(r)), w)
						for t := TMState(0); int32(t) < tState; t++ {
							ct := p.tmTo(f, r, int32(t))
							for b := uint8(0); b < 2; b++ {
								for qw := DFAState(0); int32(qw) < n; qw++ {
									for qb := DFAState(0); int32(qb) < n; qb++ {
										p.solver.AddClause([]int32{
											p.accept(qb, f, r, qr), -cw, cr, -ct,
											-p.dfa(fromLeft, ql, b, int32(qb)),
											-p.dfa(fromRight, qr, w, int32(qw)),
											-p.accept(ql, t, b, qw),
										})
										p.solver.AddClause([]int32{
											p.accept(ql, f, r, qb), -cw, -cr, -ct,
											-p.dfa(fromRight, qr, b, int32(qb)),
											-p.dfa(fromLeft, ql, w, int32(qw)),
											-p.accept(qw, t, b, qr),
										})
									}
								}
							}
						}
					}
				}
			}
		}
	}

	base := make([]int32, 2*n)
	for i := range base {
		base[i] = auxVar0(n)
	}
	for qb := int32(1); qb < 2*n; qb++ {
		choices := minI32(n, qb) - qb/2 + 1
		if choices > 1 && qb+1 < 2*n {
			base[qb+1] = base[qb] + 2*choices
		}
		base[qb] -= 2 * (qb / 2)
	}
	for qb := int32(1); qb < 2*n; qb++ {
		q, b := DFAState(qb/2), uint8(qb%2)
		for m := qb / 2; m < minI32(n, qb); m++ {
			for lr := int32(0); lr < 2; lr++ {
				p.solver.AddClause([]int32{-tmaxEqVar(n, lr, qb, m, base), p.dfaLe(lr, q, b, m+1)})
				p.solver.AddClause([]int32{
					-tmaxEqVar(n, lr, qb, m, base), -p.dfaLe(lr, q, b, m), tmaxEqVar(n, lr, qb+1, m, base),
				})
				p.solver.AddClause([]int32{
					-tmaxEqVar(n, lr, qb, m, base), -p.dfa(lr, q, b, m+1), tmaxEqVar(n, lr, qb+1, m+1, base),
				})
			}
		}
	}
}
