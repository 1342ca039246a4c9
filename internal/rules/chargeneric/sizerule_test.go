package chargeneric

import "testing"

func TestAbstractGenericRule1To1ExpandsReversal(t *testing.T) {
	base, ok := AbstractGenericRule("CONSTANT ab +", "ba", "CONSTANT xy +", "yx", 0)
	if !ok {
		t.Fatalf("base induction failed")
	}
	large, ok := AbstractGenericRule("CONSTANT abc +", "cba", "CONSTANT xyz +", "zyx", 0)
	if !ok {
		t.Fatalf("large induction failed")
	}

	sr, ok := AbstractGenericRule1To1(base.InputPattern, base.OutputPattern, large.InputPattern, large.OutputPattern)
	if !ok {
		t.Fatalf("expected size-rule induction to succeed")
	}

	got, ok := ApplySizeRule(sr, "CONSTANT bkj +")
	if !ok || got != "jkb" {
		t.Fatalf("ApplySizeRule(3) = (%q,%v), want (jkb,true)", got, ok)
	}

	got, ok = ApplySizeRule(sr, "CONSTANT wtybq +")
	if !ok || got != "qbytw" {
		t.Fatalf("ApplySizeRule(5) = (%q,%v), want (qbytw,true)", got, ok)
	}
}

func TestAbstractGenericRule1To1BackGrowthWithSeparator(t *testing.T) {
	sr, ok := AbstractGenericRule1To1(
		"CONSTANT Ð001ÐÐ002Ð +", "Ð002Ð+Ð001Ð",
		"CONSTANT Ð001ÐÐ002ÐÐ003Ð +", "Ð003Ð+Ð002Ð+Ð001Ð",
	)
	if !ok {
		t.Fatalf("expected size-rule induction to succeed")
	}
	got, ok := ApplySizeRule(sr, "CONSTANT abcde +")
	if !ok || got != "e+d+c+b+a" {
		t.Fatalf("ApplySizeRule = (%q,%v), want (e+d+c+b+a,true)", got, ok)
	}
}

func TestSizeStoreAddAndApply(t *testing.T) {
	base, _ := AbstractGenericRule("CONSTANT ab +", "ba", "CONSTANT xy +", "yx", 0)
	large, _ := AbstractGenericRule("CONSTANT abc +", "cba", "CONSTANT xyz +", "zyx", 0)
	sr, ok := AbstractGenericRule1To1(base.InputPattern, base.OutputPattern, large.InputPattern, large.OutputPattern)
	if !ok {
		t.Fatalf("setup induction failed")
	}
	store := NewSizeStore()
	store.Add(sr)
	out, ok := store.ApplyMatchingRule("CONSTANT dcba +")
	if !ok || out != "abcd" {
		t.Fatalf("ApplyMatchingRule = (%q,%v), want (abcd,true)", out, ok)
	}
}
