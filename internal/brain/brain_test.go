package brain

import (
	"testing"

	"cryptolalia/internal/rules/chargeneric"
	"cryptolalia/internal/seenlog"
)

func TestAnswerEchoesThenLearnsMapping(t *testing.T) {
	b := New()

	out := b.Answer('a')
	if out != 'a' {
		t.Fatalf("first Answer = %q, want echo %q", out, 'a')
	}
	b.RegisterReward('+', false)

	out = b.Answer('a')
	if out != 'a' {
		t.Fatalf("second Answer = %q, want mapped %q", out, 'a')
	}
	if r, ok := b.mapping.Retrieve("a"); !ok || r.Output != "a" {
		t.Fatalf("expected mapping rule a->a to be recorded")
	}
}

func TestNewTaskResetsOnlyMappingAndSyntax(t *testing.T) {
	b := New()
	b.alpha.Observe('x')
	b.seen.Append(seenlog.Pair{Input: "x", Output: "y"})
	b.mapping.Successful("x", "y")
	b.descriptor.AnswerNowChar = '.'
	rule, ok := chargeneric.AbstractGenericRule("CONSTANT xyz", "zyx", "CONSTANT abc", "cba", 0)
	if !ok {
		t.Fatalf("setup induction failed")
	}
	b.charGen.Add(rule)

	b.NewTask(true)

	if _, ok := b.mapping.Retrieve("x"); ok {
		t.Fatalf("expected mapping store to be reset")
	}
	if b.descriptor.AnswerNowChar != '.' {
		t.Fatalf("expected AnswerNowChar to be preserved when copyDelimiters=true")
	}
	if b.seen.Len() != 1 {
		t.Fatalf("expected seenlog to persist across a task switch")
	}
	if _, ok := b.alpha.First(); !ok {
		t.Fatalf("expected alphabet to persist across a task switch")
	}
	if len(b.charGen.Rules()) != 1 {
		t.Fatalf("expected generic-rule stores to survive a task switch, got %d char-generic rules", len(b.charGen.Rules()))
	}
}

func TestNewTaskWithoutCopyDelimitersResetsSyntax(t *testing.T) {
	b := New()
	b.descriptor.AnswerNowChar = '.'

	b.NewTask(false)

	if b.descriptor.AnswerNowChar != 0 {
		t.Fatalf("expected AnswerNowChar to reset when copyDelimiters=false")
	}
}

func TestTaskSwitchArbiterSofterRemediationDeletesFiringRule(t *testing.T) {
	b := New()
	rule, ok := chargeneric.AbstractGenericRule("CONSTANT xyz", "zyx", "CONSTANT abc", "cba", 0)
	if !ok {
		t.Fatalf("setup induction failed")
	}
	b.charGen.Add(rule)
	b.lastAnswer = lastAnswer{family: charGenericFamily, inputPattern: rule.InputPattern}

	b.taskSwitchArbiter(false)

	if len(b.charGen.Rules()) != 0 {
		t.Fatalf("expected the firing char-generic rule to be deleted")
	}
}

func TestStatsReportsTicksAndRuleCounts(t *testing.T) {
	b := New()
	rule, ok := chargeneric.AbstractGenericRule("CONSTANT xyz", "zyx", "CONSTANT abc", "cba", 0)
	if !ok {
		t.Fatalf("setup induction failed")
	}
	b.charGen.Add(rule)
	b.ticks = 42
	b.consecutiveWins = 3

	st := b.Stats()
	if st.Ticks != 42 {
		t.Fatalf("Stats().Ticks = %d, want 42", st.Ticks)
	}
	if st.CharGenericRules != 1 {
		t.Fatalf("Stats().CharGenericRules = %d, want 1", st.CharGenericRules)
	}
	if st.ConsecutiveWins != 3 {
		t.Fatalf("Stats().ConsecutiveWins = %d, want 3", st.ConsecutiveWins)
	}
}

func TestRegisterRewardWiresSyntaxDiscovery(t *testing.T) {
	b := New()
	for i := 0; i < 3; i++ {
		b.RegisterReward('+', false)
		b.Answer('.')
	}
	if b.Descriptor().Known() {
		t.Fatalf("syntax should remain unknown before four non-blank rewards are observed")
	}

	b.RegisterReward('+', false)

	if !b.Descriptor().Known() {
		t.Fatalf("expected syntax discovery to run once four non-blank rewards are observed")
	}
	if b.Descriptor().NextRequestChar != '.' {
		t.Fatalf("Descriptor().NextRequestChar = %q, want %q", b.Descriptor().NextRequestChar, '.')
	}
}

func TestTaskStartOffsetScopesDiscoveryToCurrentTask(t *testing.T) {
	b := New()
	for i := 0; i < 4; i++ {
		b.RegisterReward('+', false)
		b.Answer('.')
	}
	if !b.Descriptor().Known() {
		t.Fatalf("setup: expected pre-switch discovery to succeed")
	}

	b.NewTask(false)
	if b.Descriptor().Known() {
		t.Fatalf("expected syntax to reset to unknown on a task switch")
	}

	b.RegisterReward('+', false)

	if b.Descriptor().Known() {
		t.Fatalf("discovery should not reuse the previous task's reward history")
	}
}

func TestTaskSwitchArbiterHardSwitchOnManyLoses(t *testing.T) {
	b := New()
	b.consecutiveLoses = 101
	b.descriptor.AnswerNowChar = '.'

	b.taskSwitchArbiter(false)

	if b.descriptor.AnswerNowChar != 0 {
		t.Fatalf("expected a hard task switch to reset the syntax descriptor")
	}
}
