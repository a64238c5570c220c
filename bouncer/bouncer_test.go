package bouncer

import (
	"testing"

	"github.com/busycoq/deciders/machine"
)

func mustMachine(t *testing.T, text string) *machine.Machine {
	t.Helper()
	m, err := machine.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	return m
}

func TestParseFormulaTapeRoundTrip(t *testing.T) {
	m := mustMachine(t, "1RB1LE_1LC1RD_1LB1RC_1LA0RD_---0LA")
	texts := []string{
		"0∞(111)1110(11)00D>0∞",
		"0∞1(11)1(11)01D>10(11)11(11)111110∞",
	}
	for _, text := range texts {
		ft, err := ParseFormulaTape(m, text)
		if err != nil {
			t.Fatalf("ParseFormulaTape(%q): %v", text, err)
		}
		if got := ft.String(); got != text {
			t.Errorf("ParseFormulaTape(%q).String() = %q, want %q", text, got, text)
		}
	}
}

// Bouncer no-guess: a pre-supplied formula tape must prove non-halt in
// exactly the macro-step count given by spec.md's end-to-end scenarios.
func TestProveNonHaltNoGuessCase1(t *testing.T) {
	m := mustMachine(t, "1RB1LE_1LC1RD_1LB1RC_1LA0RD_---0LA")
	ft, err := ParseFormulaTape(m, "0∞(111)1110(11)00D>0∞")
	if err != nil {
		t.Fatalf("ParseFormulaTape: %v", err)
	}

	cert, err := ft.ProveNonHalt(m.String(), 0, 100)
	if err != nil {
		t.Fatalf("ProveNonHalt: %v", err)
	}
	if cert.NumMacroStepsUntilSpecialCase != 41 {
		t.Errorf("NumMacroStepsUntilSpecialCase = %d, want 41", cert.NumMacroStepsUntilSpecialCase)
	}
}

func TestDriverDecideProducesExpectedCertificate(t *testing.T) {
	machineText := "1RB0LC_0LA1RC_0LD0LE_1LA1RA_---1LC"
	limits := Limits{StepLimit: 1000, MacroStepLimit: 2000, FormulaTapeLimit: 10}

	result, err := Decide(machineText, limits)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !result.NonHalting {
		t.Fatalf("Decide: expected a non-halting verdict")
	}
	cert := result.Certificate
	if cert == nil {
		t.Fatalf("Decide: expected a certificate")
	}
	if got, want := cert.FormulaTape.String(), "0∞<A10(10)00(0)0∞"; got != want {
		t.Errorf("FormulaTape = %q, want %q", got, want)
	}
	if cert.NumStepsUntilFormulaTape != 33 {
		t.Errorf("NumStepsUntilFormulaTape = %d, want 33", cert.NumStepsUntilFormulaTape)
	}
	if cert.NumMacroStepsUntilSpecialCase != 13 {
		t.Errorf("NumMacroStepsUntilSpecialCase = %d, want 13", cert.NumMacroStepsUntilSpecialCase)
	}
}

func TestIsSpecialCaseOfRejectsDifferentRepeaterCount(t *testing.T) {
	m := mustMachine(t, "1RB1LE_1LC1RD_1LB1RC_1LA0RD_---0LA")
	a, err := ParseFormulaTape(m, "0∞(111)1110(11)00D>0∞")
	if err != nil {
		t.Fatalf("ParseFormulaTape: %v", err)
	}
	b, err := ParseFormulaTape(m, "0∞1(11)1(11)01D>10(11)11(11)111110∞")
	if err != nil {
		t.Fatalf("ParseFormulaTape: %v", err)
	}
	ok, err := a.IsSpecialCaseOf(b)
	if err != nil {
		t.Fatalf("IsSpecialCaseOf: %v", err)
	}
	if ok {
		t.Errorf("expected different repeater counts to reject special-case relation")
	}
}

func TestAlignIsIdempotent(t *testing.T) {
	m := mustMachine(t, "1RB1LE_1LC1RD_1LB1RC_1LA0RD_---0LA")
	ft, err := ParseFormulaTape(m, "0∞(111)1110(11)00D>0∞")
	if err != nil {
		t.Fatalf("ParseFormulaTape: %v", err)
	}
	if err := ft.Align(); err != nil {
		t.Fatalf("Align: %v", err)
	}
	once := ft.String()
	if err := ft.Align(); err != nil {
		t.Fatalf("Align (second pass): %v", err)
	}
	if got := ft.String(); got != once {
		t.Errorf("Align is not idempotent: first pass %q, second pass %q", once, got)
	}
}
