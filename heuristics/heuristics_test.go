package heuristics

import "testing"

func TestDoubledPeriods(t *testing.T) {
	pats := doubledPeriods(1)
	if len(pats) != 2 {
		t.Fatalf("doubledPeriods(1): got %d patterns, want 2", len(pats))
	}
	want := map[string]bool{"00": true, "11": true}
	for _, p := range pats {
		if !want[string(p)] {
			t.Errorf("unexpected pattern %q", p)
		}
	}
}

func TestScoreFindsRepetition(t *testing.T) {
	f := NewRepeaterFilter(3)

	repeated := []uint8{1, 0, 1, 0, 1, 0, 1, 0}
	random := []uint8{1, 1, 0, 0, 0, 1, 1, 0}

	if got := f.Score(repeated); got == 0 {
		t.Errorf("Score(%v) = 0, want > 0 (period-2 repetition)", repeated)
	}
	if f.Score(repeated) <= f.Score(random) {
		t.Errorf("repeated word scored %d, no higher than unstructured word %d",
			f.Score(repeated), f.Score(random))
	}
}

func TestScoreEmptyWord(t *testing.T) {
	f := NewRepeaterFilter(2)
	if got := f.Score(nil); got != 0 {
		t.Errorf("Score(nil) = %d, want 0", got)
	}
}
