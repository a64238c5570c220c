package bouncer

import (
	"fmt"
	"strings"

	"github.com/busycoq/deciders/tape"
)

// Certificate is the evidence a caller can independently re-check: the
// machine, the formula tape reached after a bounded number of simulation
// steps, and the shift rules (macro-steps) applied afterward to reach a
// special case of that same formula tape.
type Certificate struct {
	MachineStdFormat              string
	FormulaTape                   *FormulaTape
	NumStepsUntilFormulaTape       int
	NumMacroStepsUntilSpecialCase  int
	ShiftRulesApplied             []ShiftRule
}

// SavaskFormat renders the certificate in the human-readable transcript
// format described in SPEC_FULL.md §4.15, grounded on the original's
// bouncer_certificate.rs::to_savask_format: the machine's standard-format
// text, the initial formula tape with the step count to reach it, a header
// line giving the macro-step count, then each applied shift rule on its
// own line.
func (c *Certificate) SavaskFormat() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", c.MachineStdFormat)
	fmt.Fprintf(&b, "Formula tape reached after %d steps:\n%s\n", c.NumStepsUntilFormulaTape, c.FormulaTape.ToSavaskFormat())
	fmt.Fprintf(&b, "Shift rules applied (%d macro-steps to reach a special case):\n", c.NumMacroStepsUntilSpecialCase)
	for _, r := range c.ShiftRulesApplied {
		fmt.Fprintf(&b, "  %s\n", r.ToSavaskFormat())
	}
	return b.String(), nil
}

// ProveNonHalt repeatedly macro-steps f (the formula tape reached after
// simulation) up to macroStepLimit times, checking after each macro-step
// whether the current tape is a special case of the original f (meaning
// the whole shift-rule sequence can repeat forever). It returns the
// certificate on success, or (nil, ErrNoShiftRule)-wrapped errors
// propagated from Step if the formula tape's own dynamics break down.
func (f *FormulaTape) ProveNonHalt(machineStdFormat string, stepCount, macroStepLimit int) (*Certificate, error) {
	model := f.Clone()
	current := f.Clone()

	var applied []ShiftRule
	for i := 0; i < macroStepLimit; i++ {
		rule, err := current.Step()
		if err != nil {
			return nil, err
		}
		if rule != nil {
			applied = append(applied, *rule)
		}

		isSpecial, err := current.IsSpecialCaseOf(model)
		if err != nil {
			return nil, err
		}
		if isSpecial {
			return &Certificate{
				MachineStdFormat:             machineStdFormat,
				FormulaTape:                  model,
				NumStepsUntilFormulaTape:     stepCount,
				NumMacroStepsUntilSpecialCase: i + 1,
				ShiftRulesApplied:           applied,
			}, nil
		}
	}
	return nil, wrap(ErrNoShiftRule)
}

// headSnapshot is a hashable summary of a tape's head, used as the key
// for bucketing record-breaking tapes by head during the search in
// driver.go.
type headSnapshot struct {
	state  uint8
	facing uint8
}

func headKeyOf(t *tape.Tape) (headSnapshot, error) {
	h, err := t.CurrentHead()
	if err != nil {
		return headSnapshot{}, err
	}
	return headSnapshot{state: h.State, facing: uint8(h.Facing)}, nil
}
