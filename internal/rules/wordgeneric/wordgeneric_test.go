package wordgeneric

import "testing"

func TestAbstractGenericRuleSwapsWords(t *testing.T) {
	rule, ok := AbstractGenericRule("the cat sat", "sat cat", "the dog sat", "sat dog", 0)
	if !ok {
		t.Fatalf("expected induction to succeed")
	}
	out, ok := ApplyRule(rule, "the fox sat")
	if !ok || out != "sat fox" {
		t.Fatalf("ApplyRule = (%q,%v), want (sat fox,true)", out, ok)
	}
}

func TestAbstractGenericRuleRejectsAllConstant(t *testing.T) {
	if _, ok := AbstractGenericRule("go far", "far go", "go far", "far go", 0); ok {
		t.Fatalf("expected rejection when nothing varies")
	}
}

func TestFindSubWordsDecomposesCompound(t *testing.T) {
	wordToID := map[string]int{"cat": 1, "dog": 2}
	ids, ok := FindSubWords("catdog", wordToID)
	if !ok || len(ids) != 2 {
		t.Fatalf("FindSubWords = (%v,%v), want 2 ids", ids, ok)
	}
}

func TestStoreApplyCompound(t *testing.T) {
	s := New()
	rule, ok := AbstractGenericRule("run fast", "fast run", "run slow", "slow run", 0)
	if !ok {
		t.Fatalf("setup induction failed")
	}
	if !s.Add(rule) {
		t.Fatalf("expected rule to be added")
	}
	out, ok := s.ApplyCompound("run fast")
	if !ok || out != "fast run" {
		t.Fatalf("ApplyCompound = (%q,%v)", out, ok)
	}
}
