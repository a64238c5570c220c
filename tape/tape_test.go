package tape

import (
	"testing"

	"github.com/busycoq/deciders/machine"
)

func TestNewInitialStep(t *testing.T) {
	m, err := machine.Parse("1RB1LC_1RC1RB_1RD0LE_1LA1LD_---0LA")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tp := NewInitial(m)
	if got, want := tp.String(), "0∞A>0∞"; got != want {
		t.Fatalf("initial = %q, want %q", got, want)
	}
	if _, err := tp.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got, want := tp.String(), "0∞1B>0∞"; got != want {
		t.Fatalf("after step = %q, want %q", got, want)
	}
}

func TestStepDirectionReversalRotatesInPlace(t *testing.T) {
	// From state A reading 0: write 1, move right, go to state B.
	// From state B reading 0 (the blank in front of it): write 1, move
	// left, return to state A. The second step reverses facing, so the head
	// should rotate in place rather than slide past the written symbol.
	m, err := machine.Parse("1RB---_1LA---_---0LA_---0LA_---0LA")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tp := NewInitial(m)
	if _, err := tp.Step(); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if got, want := tp.String(), "0∞1B>0∞"; got != want {
		t.Fatalf("step 1 = %q, want %q", got, want)
	}
	if _, err := tp.Step(); err != nil {
		t.Fatalf("Step 2: %v", err)
	}
	if got, want := tp.String(), "0∞1<A10∞"; got != want {
		t.Fatalf("step 2 = %q, want %q", got, want)
	}
}

func TestSubTapeExcludesHeadFails(t *testing.T) {
	m, err := machine.Parse("1RB1LC_1RC1RB_1RD0LE_1LA1LD_---0LA")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tp := New(m, []uint8{1, 0, 1}, Head{State: 0, Facing: machine.Right}, []uint8{1, 1})
	if _, err := tp.SubTape(0, 2); err == nil {
		t.Fatalf("expected error excluding head")
	}
	sub, err := tp.SubTape(2, tp.Len())
	if err != nil {
		t.Fatalf("SubTape: %v", err)
	}
	if sub.HeadPos != tp.HeadPos-2 {
		t.Fatalf("sub.HeadPos = %d, want %d", sub.HeadPos, tp.HeadPos-2)
	}
}

func TestFiniteWordsLeftRightOfHead(t *testing.T) {
	m, err := machine.Parse("1RB1LC_1RC1RB_1RD0LE_1LA1LD_---0LA")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	tp := New(m, []uint8{1, 0, 1}, Head{State: 0, Facing: machine.Right}, []uint8{1, 1})
	left, right, err := tp.FiniteWordsLeftRightOfHead()
	if err != nil {
		t.Fatalf("FiniteWordsLeftRightOfHead: %v", err)
	}
	if got := left; len(got) != 3 || got[0] != 1 || got[1] != 0 || got[2] != 1 {
		t.Fatalf("left = %v, want [1 0 1]", got)
	}
	if got := right; len(got) != 2 || got[0] != 1 || got[1] != 1 {
		t.Fatalf("right = %v, want [1 1]", got)
	}
}
