package mathrule

import "testing"

func TestTokenizeSeparatesOperatorsAndAttachesSign(t *testing.T) {
	toks := Tokenize("3-4")
	if len(toks) != 3 || toks[0].Text != "3" || toks[1].Text != "-" || toks[2].Text != "4" {
		t.Fatalf("Tokenize(3-4) = %+v", toks)
	}
	toks = Tokenize("3*-4")
	if len(toks) != 3 || toks[2].Text != "-4" {
		t.Fatalf("Tokenize(3*-4) = %+v, want sign attached to operand", toks)
	}
}

func TestAbstractGenericRuleAdditionBase10(t *testing.T) {
	// Both witnesses carry into a second decimal digit in a way that hex
	// arithmetic on the same literal digits would not reproduce, so base10
	// is the only base consistent with both.
	rule, ok := AbstractGenericRule("27+38=", "65", "53+19=", "72")
	if !ok {
		t.Fatalf("expected induction to succeed")
	}
	if rule.Op != Add || rule.OperandBase != 10 || rule.ResultBase != 10 {
		t.Fatalf("rule = %+v, want Add base10/10", rule)
	}
	got, ok := ApplyRule(rule, "7+8=")
	if !ok || got != "15" {
		t.Fatalf("ApplyRule = (%q,%v), want (15,true)", got, ok)
	}
}

func TestAbstractGenericRuleRejectsAmbiguousWitness(t *testing.T) {
	// 2+2 and 2*2 both equal 4, and 0+0 and 0*0 both equal 0: addition and
	// multiplication fit both witnesses at once.
	if _, ok := AbstractGenericRule("2+2=", "4", "0+0=", "0"); ok {
		t.Fatalf("expected ambiguous math witnesses to be rejected")
	}
}

func TestApplyCompoundRollingRule(t *testing.T) {
	rule, ok := AbstractGenericRule("27+38=", "65", "53+19=", "72")
	if !ok {
		t.Fatalf("setup induction failed")
	}
	got, ok := ApplyCompoundRollingRule(rule, "1+2+3=")
	if !ok || got != "6" {
		t.Fatalf("ApplyCompoundRollingRule = (%q,%v), want (6,true)", got, ok)
	}
}

func TestApplyRuleDivisionByZeroFails(t *testing.T) {
	rule, ok := AbstractGenericRule("72/8=", "9", "90/9=", "10")
	if !ok {
		t.Fatalf("setup induction failed")
	}
	if rule.Op != Div || rule.OperandBase != 10 || rule.ResultBase != 10 {
		t.Fatalf("rule = %+v, want Div base10/10", rule)
	}
	if _, ok := ApplyRule(rule, "5/0="); ok {
		t.Fatalf("expected division by zero to fail application")
	}
}
