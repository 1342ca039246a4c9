package cryptolalia

import "testing"

func TestRegisterRewardRejectsInvalidChar(t *testing.T) {
	a := New()
	if err := a.RegisterReward('x', false); err == nil {
		t.Fatalf("expected an error for an invalid reward character")
	}
}

func TestRegisterRewardAcceptsContractValues(t *testing.T) {
	a := New()
	for _, r := range []rune{'+', '-', ' '} {
		if err := a.RegisterReward(r, false); err != nil {
			t.Fatalf("RegisterReward(%q, false) returned error: %v", r, err)
		}
	}
}

func TestAnswerAlwaysReturnsExactlyOneCharacter(t *testing.T) {
	a := New()
	out := a.Answer('a')
	if out == 0 {
		t.Fatalf("Answer returned the zero rune")
	}
}
