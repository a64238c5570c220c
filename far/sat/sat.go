// Package sat implements a minimal DPLL SAT solver over CNF formulas
// of int32 literals (a positive literal v means the boolean variable v,
// a negative literal -v means its negation), in the style the
// meet-in-the-middle DFA search encodes its search space: unit
// propagation to a fixpoint, then branch-and-backtrack on the first
// unassigned variable.
package sat

// Solver accumulates clauses and finds a satisfying assignment, if one
// exists.
type Solver struct {
	clauses [][]int32
	numVars int
	model   []int8 // indexed by variable; 0 unknown, 1 true, -1 false
}

// NewSolver returns an empty solver.
func NewSolver() *Solver {
	return &Solver{}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}

func (s *Solver) noteVar(v int32) {
	if int(v) > s.numVars {
		s.numVars = int(v)
	}
}

// AddClause adds one clause (a disjunction of literals) to the
// conjunction the solver must satisfy.
func (s *Solver) AddClause(lits []int32) {
	cl := append([]int32(nil), lits...)
	for _, l := range cl {
		s.noteVar(abs32(l))
	}
	s.clauses = append(s.clauses, cl)
}

// Solve attempts to find a satisfying assignment for the accumulated
// clauses, reporting whether one exists.
func (s *Solver) Solve() bool {
	return s.SolveAssuming(nil)
}

// SolveAssuming attempts to find a satisfying assignment, additionally
// requiring each of assumptions to hold (as extra unit clauses, not
// permanently added to the solver).
func (s *Solver) SolveAssuming(assumptions []int32) bool {
	for _, a := range assumptions {
		s.noteVar(abs32(a))
	}
	clauses := make([][]int32, len(s.clauses), len(s.clauses)+len(assumptions))
	copy(clauses, s.clauses)
	for _, a := range assumptions {
		clauses = append(clauses, []int32{a})
	}

	assign := make([]int8, s.numVars+1)
	ok, model := dpll(clauses, assign, s.numVars)
	if ok {
		s.model = model
	}
	return ok
}

// Value reports the truth value assigned to variable lit's variable by
// the most recent successful Solve/SolveAssuming call (negative lit
// inverts the sense), and whether the solver has a model at all.
func (s *Solver) Value(lit int32) (bool, bool) {
	if s.model == nil {
		return false, false
	}
	v := abs32(lit)
	if int(v) >= len(s.model) || s.model[v] == 0 {
		return false, false
	}
	val := s.model[v] == 1
	if lit < 0 {
		val = !val
	}
	return val, true
}

// dpll performs unit propagation to a fixpoint, then branches on the
// first unassigned variable if no conflict and no complete assignment
// has been reached yet.
func dpll(clauses [][]int32, assign []int8, numVars int) (bool, []int8) {
	for {
		changed := false
		for _, cl := range clauses {
			satisfied := false
			unassignedCount := 0
			var unassignedLit int32
			for _, l := range cl {
				v := abs32(l)
				switch val := assign[v]; {
				case val == 0:
					unassignedCount++
					unassignedLit = l
				case (val == 1) == (l > 0):
					satisfied = true
				}
				if satisfied {
					break
				}
			}
			if satisfied {
				continue
			}
			if unassignedCount == 0 {
				return false, nil
			}
			if unassignedCount == 1 {
				v := abs32(unassignedLit)
				if unassignedLit > 0 {
					assign[v] = 1
				} else {
					assign[v] = -1
				}
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	branchVar := 0
	for v := 1; v <= numVars; v++ {
		if assign[v] == 0 {
			branchVar = v
			break
		}
	}
	if branchVar == 0 {
		return true, assign
	}

	tryTrue := append([]int8(nil), assign...)
	tryTrue[branchVar] = 1
	if ok, model := dpll(clauses, tryTrue, numVars); ok {
		return true, model
	}

	tryFalse := append([]int8(nil), assign...)
	tryFalse[branchVar] = -1
	return dpll(clauses, tryFalse, numVars)
}
