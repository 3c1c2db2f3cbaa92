package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	cases := map[int]int{0: DefaultLimit, -5: DefaultLimit, 10: 10, 500: MaxLimit}
	for in, want := range cases {
		if got := NormalizeLimit(in); got != want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestLimitWithBuffer(t *testing.T) {
	if got := LimitWithBuffer(0); got != DefaultLimit+1 {
		t.Fatalf("expected %d, got %d", DefaultLimit+1, got)
	}
}

func TestNormalizeOffset(t *testing.T) {
	if NormalizeOffset(-3) != 0 || NormalizeOffset(7) != 7 {
		t.Fatal("unexpected offset normalization")
	}
}
