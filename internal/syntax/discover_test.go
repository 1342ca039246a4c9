package syntax

import "testing"

func TestDetectAnswerNowDirectDelimiter(t *testing.T) {
	// Four rewards line up directly under a '.' in the input stream.
	inputs := "a.b.c.d."
	rewards := " + + + +"
	desc, ok := Discover(inputs, rewards)
	if !ok {
		t.Fatalf("Discover returned ok=false")
	}
	if desc.AnswerNowChar != '.' {
		t.Fatalf("AnswerNowChar = %q, want '.'", desc.AnswerNowChar)
	}
	if desc.FeedbackLength != 1 {
		t.Fatalf("FeedbackLength = %d, want 1", desc.FeedbackLength)
	}
}

func TestSingleCharFallback(t *testing.T) {
	inputs := "abcd"
	rewards := "++++"
	desc, ok := Discover(inputs, rewards)
	if !ok {
		t.Fatalf("Discover returned ok=false")
	}
	if desc.InputLength != 1 || desc.FeedbackLength != 0 {
		t.Fatalf("got InputLength=%d FeedbackLength=%d, want 1,0", desc.InputLength, desc.FeedbackLength)
	}
}

func TestTrimStream(t *testing.T) {
	s := make([]byte, 10001)
	for i := range s {
		s[i] = 'x'
	}
	got := TrimStream(string(s), 10000, 9000)
	if len([]rune(got)) != 1001 {
		t.Fatalf("TrimStream length = %d, want 1001", len([]rune(got)))
	}
}

func TestFeedbackWordsLearnAndParse(t *testing.T) {
	w := NewFeedbackWords()
	w.Observe("wrong! a")
	w.Observe("wrong! b")
	got := w.LearnWrongFeedbackWords()
	if got != "wrong! " {
		t.Fatalf("LearnWrongFeedbackWords = %q, want %q", got, "wrong! ")
	}
	if r := w.ParseFeedbackForRewards("wrong! c"); r != '-' {
		t.Fatalf("ParseFeedbackForRewards(boilerplate present) = %q, want '-'", r)
	}
	if r := w.ParseFeedbackForRewards("correct!"); r != '+' {
		t.Fatalf("ParseFeedbackForRewards(boilerplate absent) = %q, want '+'", r)
	}
}

func TestFeedbackWordsRequiresWhitespaceAndLength(t *testing.T) {
	w := NewFeedbackWords()
	w.Observe("ab")
	w.Observe("cd")
	if got := w.LearnWrongFeedbackWords(); got != "" {
		t.Fatalf("expected empty result for too-short samples, got %q", got)
	}
}
