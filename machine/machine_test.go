package machine

import "testing"

func TestParseAndString(t *testing.T) {
	text := "1RB1LC_1RC1RB_1RD0LE_1LA1LD_---0LA"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := m.String(); got != text {
		t.Fatalf("String() = %q, want %q", got, text)
	}
}

func TestParseHaltCanonicalizes(t *testing.T) {
	m, err := Parse("1RB---_0RC---_0RD---_0RE---_0LE1RB")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got, want := m.String(), "1RB---_0RC---_0RD---_0RE---_0LE1RB"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	tr := m.Transition(0, 1)
	if !tr.IsHalt() {
		t.Fatalf("expected halt transition")
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []string{
		"1RB1LC_1RC1RB_1RD0LE_1LA1LD",      // too few blocks
		"1XB1LC_1RC1RB_1RD0LE_1LA1LD_---0LA", // bad direction
		"2RB1LC_1RC1RB_1RD0LE_1LA1LD_---0LA", // bad write bit
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error, got nil", c)
		}
	}
}

func TestPackedRoundTrip(t *testing.T) {
	text := "1RB1LC_1RC1RB_1RD0LE_1LA1LD_---0LA"
	m, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	packed := m.MarshalPacked()
	m2, err := UnmarshalPacked(packed[:])
	if err != nil {
		t.Fatalf("UnmarshalPacked: %v", err)
	}
	if got := m2.String(); got != text {
		t.Fatalf("round trip = %q, want %q", got, text)
	}
}

func TestRulesIteration(t *testing.T) {
	m, err := Parse("1RB---_0RC---_0RD---_0RE---_0LE1RB")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var halts, moves int
	m.Rules(func(r Rule) {
		if r.Halt {
			halts++
		} else {
			moves++
		}
	})
	if halts != 4 || moves != 6 {
		t.Fatalf("halts=%d moves=%d, want 4 and 6", halts, moves)
	}
}
