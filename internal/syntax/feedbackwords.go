package syntax

import "strings"

// FeedbackWords maintains the last two observed full feedback strings in a
// ring and the inferred WrongFeedbackWords boilerplate (spec.md §4.3).
type FeedbackWords struct {
	ring                [2]string
	filled              int
	WrongFeedbackWords  string
	wrongFeedbackLearnt bool
}

// NewFeedbackWords returns an empty FeedbackWords.
func NewFeedbackWords() *FeedbackWords {
	return &FeedbackWords{}
}

// Clone returns a deep copy.
func (w *FeedbackWords) Clone() *FeedbackWords {
	if w == nil {
		return NewFeedbackWords()
	}
	cp := *w
	return &cp
}

// Observe records a full feedback string, keeping only the last two.
func (w *FeedbackWords) Observe(full string) {
	w.ring[0] = w.ring[1]
	w.ring[1] = full
	if w.filled < 2 {
		w.filled++
	}
}

// LearnWrongFeedbackWords returns the longest common word-aligned prefix of
// the last two observed feedback strings, falling back to the longest
// common suffix when the prefix is empty. Requires both samples to contain
// whitespace and be at least three characters; otherwise returns "".
func (w *FeedbackWords) LearnWrongFeedbackWords() string {
	if w.filled < 2 {
		return ""
	}
	a, b := w.ring[0], w.ring[1]
	if len(a) < 3 || len(b) < 3 {
		return ""
	}
	if !strings.ContainsAny(a, " \t") || !strings.ContainsAny(b, " \t") {
		return ""
	}

	prefix := commonWordPrefix(a, b)
	result := prefix
	if result == "" {
		result = commonSuffix(a, b)
	}
	w.WrongFeedbackWords = result
	w.wrongFeedbackLearnt = true
	return result
}

// commonWordPrefix returns the longest common prefix of a and b, trimmed
// back to the last complete whitespace-separated word boundary.
func commonWordPrefix(a, b string) string {
	n := minLen(a, b)
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	prefix := a[:i]
	// Trim back to the last word boundary so we don't cut a word in half.
	if i < len(a) && a[i] != ' ' && i > 0 {
		if last := strings.LastIndexByte(prefix, ' '); last >= 0 {
			prefix = prefix[:last+1]
		} else {
			prefix = ""
		}
	}
	return prefix
}

// commonSuffix returns the longest common suffix of a and b.
func commonSuffix(a, b string) string {
	la, lb := len(a), len(b)
	i := 0
	for i < la && i < lb && a[la-1-i] == b[lb-1-i] {
		i++
	}
	if i == 0 {
		return ""
	}
	return a[la-i:]
}

func minLen(a, b string) int {
	if len(a) < len(b) {
		return len(a)
	}
	return len(b)
}

// ParseFeedbackForRewards returns '+' iff the learned WrongFeedbackWords
// does not occur in s (absence of boilerplate implies the real answer
// replaced it, implying success), else '-'.
func (w *FeedbackWords) ParseFeedbackForRewards(s string) rune {
	if w.WrongFeedbackWords == "" {
		return '-'
	}
	if strings.Contains(s, w.WrongFeedbackWords) {
		return '-'
	}
	return '+'
}
