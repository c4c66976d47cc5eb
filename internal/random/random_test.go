package random

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestString(t *testing.T) {
	for _, n := range []int{2, 24, 64} {
		s, err := String(n)
		if err != nil {
			t.Fatalf("generating string: %v", err)
		}
		testutil.AssertEqual(t, "length", len(s), n)
		for _, c := range s {
			if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
				t.Fatalf("unexpected character %q in %q", c, s)
			}
		}
	}

	a := MustString(24)
	b := MustString(24)
	if a == b {
		t.Fatalf("expected distinct strings, got %q twice", a)
	}
}
