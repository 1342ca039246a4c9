package stream

import (
	"testing"

	"cryptolalia/internal/syntax"
)

func TestSingleCharCycleReachesAllReady(t *testing.T) {
	desc := syntax.NewDescriptor() // InputLength=1, FeedbackLength=0
	m := New(desc)

	m.ProcessState('a')
	if !m.IsAllReady() {
		t.Fatalf("expected IsAllReady after one char in single-character mode")
	}
	if m.FullInput() != "a" {
		t.Fatalf("FullInput = %q, want %q", m.FullInput(), "a")
	}
}

func TestIsAllReadyAndIsOutputLeftNeverBothTrue(t *testing.T) {
	desc := syntax.NewDescriptor()
	desc.AnswerNowChar = '.'
	desc.FeedbackLength = 1
	m := New(desc)

	for _, c := range "hi." {
		m.ProcessState(c)
		if m.IsAllReady() && m.IsOutputLeft() {
			t.Fatalf("IsAllReady and IsOutputLeft both true after %q", c)
		}
	}
	m.SetOutput("ok")
	for m.IsOutputLeft() {
		m.GetOutput()
		if m.IsAllReady() && m.IsOutputLeft() {
			t.Fatalf("IsAllReady and IsOutputLeft both true while draining output")
		}
	}
}

func TestSetOutputAndGetOutputDrains(t *testing.T) {
	m := New(syntax.NewDescriptor())
	m.SetOutput("xyz")
	if !m.IsOutputLeft() {
		t.Fatalf("expected IsOutputLeft after SetOutput")
	}
	var got []rune
	for m.IsOutputLeft() {
		got = append(got, m.GetOutput())
	}
	if string(got) != "xyz" {
		t.Fatalf("drained %q, want %q", string(got), "xyz")
	}
}

func TestClearOutput(t *testing.T) {
	m := New(syntax.NewDescriptor())
	m.SetOutput("abc")
	m.ClearOutput()
	if m.IsOutputLeft() {
		t.Fatalf("expected IsOutputLeft=false after ClearOutput")
	}
}

func TestIsTeacherSilent(t *testing.T) {
	m := New(syntax.NewDescriptor())
	for i := 0; i < 50; i++ {
		m.inputs += " "
	}
	for i := 0; i < 49; i++ {
		m.rewards += " "
	}
	if !m.IsTeacherSilent() {
		t.Fatalf("expected IsTeacherSilent with all-blank tails")
	}
}
