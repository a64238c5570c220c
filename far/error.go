package far

import (
	"fmt"

	"github.com/busycoq/deciders/machine"
)

// BadProofKind enumerates the ways a Proof can fail validation.
type BadProofKind int

const (
	BadDimensions BadProofKind = iota
	BadVector
	BadDFASize
	BadNFASize
	BadDFATransition
	LeadingZeroSensitivity
	TrailingZeroSensitivity
	BadStart
	NotClosed
	BadSteadyState
	RejectedSteadyState
)

func (k BadProofKind) String() string {
	switch k {
	case BadDimensions:
		return "BadDimensions"
	case BadVector:
		return "BadVector"
	case BadDFASize:
		return "BadDFASize"
	case BadNFASize:
		return "BadNFASize"
	case BadDFATransition:
		return "BadDFATransition"
	case LeadingZeroSensitivity:
		return "LeadingZeroSensitivity"
	case TrailingZeroSensitivity:
		return "TrailingZeroSensitivity"
	case BadStart:
		return "BadStart"
	case NotClosed:
		return "NotClosed"
	case BadSteadyState:
		return "BadSteadyState"
	case RejectedSteadyState:
		return "RejectedSteadyState"
	default:
		return "unknown"
	}
}

// BadProof reports why a purported Proof was rejected. For every Kind
// but NotClosed, Q and Rule are zero; NotClosed additionally names the
// DFA state and TM rule the closure check failed at.
type BadProof struct {
	Kind BadProofKind
	Q    DFAState
	Rule machine.Rule
}

func (e *BadProof) Error() string {
	switch e.Kind {
	case BadDimensions:
		return "far: array lengths did not match"
	case BadVector:
		return "far: vector indices out of bounds"
	case BadDFASize:
		return "far: DFA too small to address the initial state"
	case BadNFASize:
		return "far: NFA too small to address the states nfa_start(q, f)"
	case BadDFATransition:
		return "far: DFA transition out of bounds"
	case LeadingZeroSensitivity:
		return "far: DFA failed to ignore leading zeros"
	case TrailingZeroSensitivity:
		return "far: NFA failed to ignore trailing zeros"
	case BadStart:
		return "far: tape automaton accepted the start configuration"
	case NotClosed:
		return fmt.Sprintf("far: closure under %s unmet at q=%d (DFA)", ruleString(e.Rule), e.Q)
	case BadSteadyState:
		return "far: NFA transitions did not preserve the steady state"
	case RejectedSteadyState:
		return "far: NFA did not accept the steady state"
	default:
		return "far: invalid proof"
	}
}

func ruleString(r machine.Rule) string {
	if r.Halt {
		return fmt.Sprintf("Halt{f:%d r:%d}", r.FromState, r.Read)
	}
	return fmt.Sprintf("Move{f:%d r:%d w:%d d:%s t:%d}", r.FromState, r.Read, r.Write, r.Dir, r.ToState)
}

// Sentinel instances for every data-free BadProof kind, matching the
// teacher's errors.New-backed sentinel idiom (used directly by code
// that doesn't need to inspect the Kind any further than identity).
var (
	ErrBadDimensions           = &BadProof{Kind: BadDimensions}
	ErrBadVector               = &BadProof{Kind: BadVector}
	ErrBadDFASize              = &BadProof{Kind: BadDFASize}
	ErrBadNFASize              = &BadProof{Kind: BadNFASize}
	ErrBadDFATransition        = &BadProof{Kind: BadDFATransition}
	ErrLeadingZeroSensitivity  = &BadProof{Kind: LeadingZeroSensitivity}
	ErrTrailingZeroSensitivity = &BadProof{Kind: TrailingZeroSensitivity}
	ErrBadStart                = &BadProof{Kind: BadStart}
	ErrBadSteadyState          = &BadProof{Kind: BadSteadyState}
	ErrRejectedSteadyState     = &BadProof{Kind: RejectedSteadyState}
)

// NotClosedError builds the data-carrying BadProof variant.
func NotClosedError(q DFAState, rule machine.Rule) *BadProof {
	return &BadProof{Kind: NotClosed, Q: q, Rule: rule}
}
