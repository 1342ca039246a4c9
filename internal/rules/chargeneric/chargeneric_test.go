package chargeneric

import "testing"

func TestAbstractGenericRuleReversalExample(t *testing.T) {
	rule, ok := AbstractGenericRule("CONSTANT xyz", "zyx", "CONSTANT abc", "cba", 0)
	if !ok {
		t.Fatalf("expected induction to succeed")
	}
	got, ok := ApplyRule(rule, "CONSTANT bkj")
	if !ok || got != "jkb" {
		t.Fatalf("ApplyRule = (%q,%v), want (jkb,true)", got, ok)
	}
}

func TestAbstractGenericRuleRejectsAllConstant(t *testing.T) {
	if _, ok := AbstractGenericRule("a b", "x", "a b", "x", 0); ok {
		t.Fatalf("expected rejection when nothing varies")
	}
}

func TestAbstractGenericRuleRejectsNoWhitespace(t *testing.T) {
	if _, ok := AbstractGenericRule("ab", "b", "cd", "d", 0); ok {
		t.Fatalf("expected rejection for input without whitespace")
	}
}

func TestAbstractGenericRuleRejectsIdenticalWitnesses(t *testing.T) {
	if _, ok := AbstractGenericRule("go far", "far", "go far", "far", 0); ok {
		t.Fatalf("expected rejection for identical witnesses")
	}
}

func TestStoreAddRejectsContradictingRule(t *testing.T) {
	s := New()
	rule, ok := AbstractGenericRule("CONSTANT xyz", "zyx", "CONSTANT abc", "cba", 0)
	if !ok {
		t.Fatalf("setup induction failed")
	}
	if !s.Add(rule) {
		t.Fatalf("expected first rule to be added")
	}
	identity, ok := AbstractGenericRule("CONSTANT xyz", "xyz", "CONSTANT abc", "abc", 0)
	if !ok {
		t.Fatalf("setup induction of the contradicting rule failed")
	}
	if s.Add(identity) {
		t.Fatalf("expected a rule contradicting the stored one to be rejected")
	}
	out, ok := s.ApplyMatchingRule("CONSTANT bkj")
	if !ok || out != "jkb" {
		t.Fatalf("ApplyMatchingRule = (%q,%v)", out, ok)
	}
}

func TestApplyCompoundMatchingRule(t *testing.T) {
	rule, ok := AbstractGenericRule("GO xyz", "zyx", "GO abc", "cba", 0)
	if !ok {
		t.Fatalf("setup induction failed")
	}
	rules := []Rule{rule}
	out, ok := ApplyCompoundMatchingRule(rules, "GO bkj")
	if !ok || out != "jkb" {
		t.Fatalf("ApplyCompoundMatchingRule = (%q,%v)", out, ok)
	}
}
