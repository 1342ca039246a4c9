package ident

import "testing"

func TestFormatScanRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 42, 999} {
		s := Format(n)
		if len([]rune(s)) != Width {
			t.Fatalf("Format(%d) = %q, want width %d", n, s, Width)
		}
		got, ok := ScanAt(s, 0)
		if !ok || got != n {
			t.Fatalf("ScanAt(Format(%d)) = (%d,%v), want (%d,true)", n, got, ok, n)
		}
	}
}

func TestScanAtRejectsLiteral(t *testing.T) {
	if _, ok := ScanAt("hello", 0); ok {
		t.Fatalf("ScanAt matched a non-placeholder string")
	}
	if _, ok := ScanAt("Ð12Ð", 0); ok {
		t.Fatalf("ScanAt matched a too-short digit run")
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	s := "CONSTANT " + Format(1) + Format(2) + " +"
	tokens := Decode(s)
	if got := Encode(tokens); got != s {
		t.Fatalf("Encode(Decode(%q)) = %q", s, got)
	}
}

func TestIDsInOrderOfAppearance(t *testing.T) {
	tokens := []Token{Lit('a'), ID(3), ID(1), ID(3)}
	ids := IDsIn(tokens)
	want := []int{3, 1}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] {
		t.Fatalf("IDsIn = %v, want %v", ids, want)
	}
}

func TestSubsetOf(t *testing.T) {
	out := []Token{ID(1), Lit('+')}
	in := []Token{ID(1), ID(2)}
	if !SubsetOf(out, in) {
		t.Fatalf("expected output ids to be subset of input ids")
	}
	out2 := []Token{ID(5)}
	if SubsetOf(out2, in) {
		t.Fatalf("expected id 5 to not be a subset of input ids")
	}
}
