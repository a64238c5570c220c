package far

import (
	"math/bits"

	"github.com/busycoq/deciders/bitops"
)

// ColVector is a Boolean column vector: a set of NFAStates to test
// membership against.
type ColVector NFAStateMask

// RowVector is a Boolean row vector: a set of NFAStates the automaton has
// reached.
type RowVector NFAStateMask

// Matrix is a square Boolean matrix representing a transition: row i
// holds the set of states reachable in one step from state i.
type Matrix struct {
	rows []RowVector
}

// row is a synonym for RowVector's standard basis vector {i}.
func row(i NFAState) RowVector { return RowVector(1) << i }

// col is a synonym for ColVector's standard basis vector {i}.
func col(i NFAState) ColVector { return ColVector(1) << i }

func validateMask(mask NFAStateMask, n int) error {
	if (mask >> uint(n)) != 0 {
		return ErrBadVector
	}
	return nil
}

// Validate ensures v uses only the first n bits.
func (v ColVector) Validate(n int) error { return validateMask(NFAStateMask(v), n) }

// Validate ensures v uses only the first n bits.
func (v RowVector) Validate(n int) error { return validateMask(NFAStateMask(v), n) }

// Le reports whether l is a (non-strict) bitwise subset of r, i.e. l <= r
// under the partial order given by set inclusion.
func (l RowVector) Le(r RowVector) bool { return l&r == l }

// Le reports whether l is a (non-strict) bitwise subset of r.
func (l ColVector) Le(r ColVector) bool { return l&r == l }

// Dot is the Boolean inner product: whether the row and column vectors
// share any set bit.
func (l RowVector) Dot(r ColVector) bool { return NFAStateMask(l)&NFAStateMask(r) != 0 }

// Bits returns the indices of the set bits of v, in ascending order.
func (v RowVector) Bits() []NFAState { return maskBits(NFAStateMask(v)) }

// Bits returns the indices of the set bits of v, in ascending order.
func (v ColVector) Bits() []NFAState { return maskBits(NFAStateMask(v)) }

func maskBits(mask NFAStateMask) []NFAState {
	var out []NFAState
	for mask != 0 {
		lsb := NFAState(bits.TrailingZeros64(mask))
		out = append(out, lsb)
		mask &= mask - 1
	}
	return out
}

// NewMatrix returns an n x n matrix of all-zero rows.
func NewMatrix(n int) Matrix {
	return Matrix{rows: make([]RowVector, n)}
}

// Clone returns a deep copy.
func (m Matrix) Clone() Matrix {
	rows := make([]RowVector, len(m.rows))
	copy(rows, m.rows)
	return Matrix{rows: rows}
}

// Len is the dimension of the vectors this matrix operates on.
func (m Matrix) Len() int { return len(m.rows) }

// Row returns the row vector at index i.
func (m Matrix) Row(i NFAState) RowVector { return m.rows[i] }

// OrRow ORs v into row i (the matrix-construction idiom the original
// builds proofs with, e.g. m.OrRow(0, row(1))).
func (m Matrix) OrRow(i NFAState, v RowVector) {
	m.rows[i] |= v
}

// SetRow replaces row i outright.
func (m Matrix) SetRow(i NFAState, v RowVector) {
	m.rows[i] = v
}

// Validate ensures every row is a valid n-dimensional vector, where n is
// this matrix's own dimension.
func (m Matrix) Validate() error {
	for _, v := range m.rows {
		if err := v.Validate(m.Len()); err != nil {
			return err
		}
	}
	return nil
}

// MulMatrix computes v * m: the set of states reachable in one step from
// any state in v. This is the hottest fold in the package — NFA.Step
// calls it for every rule, at every DFA state, for every proof — so the
// row selection and OR is delegated to bitops, which picks a wider
// unrolled accumulator where the CPU supports it.
func (v RowVector) MulMatrix(m Matrix) RowVector {
	return RowVector(bitops.OrSelected(m.rowWords(), uint64(v)))
}

// rowWords exposes the row slice as the plain []uint64 bitops operates
// on, since RowVector is a distinct named type over NFAStateMask.
func (m Matrix) rowWords() []uint64 {
	words := make([]uint64, len(m.rows))
	for i, r := range m.rows {
		words[i] = uint64(r)
	}
	return words
}

// MulCol computes m * v (matrix times column vector): the set of rows of
// m whose own row-vector intersects v.
func (m Matrix) MulCol(v ColVector) ColVector {
	var out ColVector
	for i, r := range m.rows {
		if r.Dot(v) {
			out |= col(NFAState(i))
		}
	}
	return out
}
