// Package seenlog implements the bounded circular log of recent successful
// (input, output) pairs used as the second witness for rule induction and
// as a last-resort answer source (spec.md §3, §5).
package seenlog

import "golang.org/x/exp/slices"

// Capacity is the maximum number of pairs retained.
const Capacity = 2000

// Pair is a recorded successful (input, output) exchange.
type Pair struct {
	Input  string
	Output string
}

// Log is a bounded ring buffer of Pairs.
type Log struct {
	items []Pair
	next  int
}

// New returns an empty Log.
func New() *Log {
	return &Log{items: make([]Pair, 0, Capacity)}
}

// Append records p unless an identical pair is already present. On
// overflow the oldest entry is overwritten.
func (l *Log) Append(p Pair) {
	if slices.ContainsFunc(l.items, func(existing Pair) bool {
		return existing == p
	}) {
		return
	}
	if len(l.items) < Capacity {
		l.items = append(l.items, p)
		return
	}
	l.items[l.next] = p
	l.next = (l.next + 1) % Capacity
}

// All returns the recorded pairs in insertion order (oldest surviving
// entry first).
func (l *Log) All() []Pair {
	if len(l.items) < Capacity {
		return append([]Pair(nil), l.items...)
	}
	out := make([]Pair, 0, Capacity)
	out = append(out, l.items[l.next:]...)
	out = append(out, l.items[:l.next]...)
	return out
}

// Len returns the number of recorded pairs.
func (l *Log) Len() int { return len(l.items) }

// ClosestByTokenOverlap returns the output of the pair whose input shares
// the most whitespace-separated tokens with input, used by
// AnswerWithRules' "closest successful-log input" fallback (spec.md §4.9).
func (l *Log) ClosestByTokenOverlap(input string) (string, bool) {
	best := ""
	bestScore := -1
	found := false
	for _, p := range l.All() {
		score := tokenOverlap(p.Input, input)
		if score > bestScore {
			bestScore = score
			best = p.Output
			found = true
		}
	}
	if bestScore <= 0 {
		return "", false
	}
	return best, found
}

func tokenOverlap(a, b string) int {
	aTokens := fields(a)
	bTokens := make(map[string]int)
	for _, t := range fields(b) {
		bTokens[t]++
	}
	score := 0
	for _, t := range aTokens {
		if bTokens[t] > 0 {
			score++
			bTokens[t]--
		}
	}
	return score
}

func fields(s string) []string {
	var out []string
	cur := make([]rune, 0, len(s))
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	for _, r := range s {
		if r == ' ' || r == '\t' {
			flush()
			continue
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Last returns the most recently appended pair, if any.
func (l *Log) Last() (Pair, bool) {
	if len(l.items) == 0 {
		return Pair{}, false
	}
	if len(l.items) < Capacity {
		return l.items[len(l.items)-1], true
	}
	idx := l.next - 1
	if idx < 0 {
		idx = Capacity - 1
	}
	return l.items[idx], true
}
