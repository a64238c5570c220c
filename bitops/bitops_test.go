package bitops

import "testing"

func TestOrSelected(t *testing.T) {
	rows := []uint64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512}
	cases := []struct {
		mask uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{0b11, 3},
		{0b1010101010, 2 + 8 + 32 + 128 + 512},
		{1023, 1023},
	}
	for _, c := range cases {
		if got := OrSelected(rows, c.mask); got != c.want {
			t.Errorf("OrSelected(rows, %b) = %d, want %d", c.mask, got, c.want)
		}
	}
}

func TestOrSelectedLarge(t *testing.T) {
	rows := make([]uint64, 64)
	for i := range rows {
		rows[i] = 1 << uint(i)
	}
	var mask uint64 = ^uint64(0)
	if got, want := OrSelected(rows, mask), mask; got != want {
		t.Errorf("OrSelected(rows, all-set) = %#x, want %#x", got, want)
	}
}

func TestOrInto(t *testing.T) {
	dst := []uint64{0b001, 0b010, 0b100, 0, 0, 0, 0, 0, 0}
	src := []uint64{0b100, 0b001, 0b010, 1, 2, 3, 4, 5, 6}
	want := []uint64{0b101, 0b011, 0b110, 1, 2, 3, 4, 5, 6}

	OrInto(dst, src)
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestOrIntoLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("OrInto with mismatched lengths did not panic")
		}
	}()
	OrInto([]uint64{1, 2}, []uint64{1})
}
