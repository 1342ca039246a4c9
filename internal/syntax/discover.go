package syntax

import (
	"strings"
	"unicode"
)

// Discover implements the syntax discoverer (spec.md §4.2). It is invoked
// once the raw inputs/rewards streams carry four non-blank reward
// characters, and returns the inferred Descriptor plus false if no
// consistent syntax could be determined.
func Discover(inputs, rewards string) (Descriptor, bool) {
	positions := nonBlankRewardPositions(rewards, 4)
	if len(positions) < 4 {
		return Descriptor{}, false
	}

	desc := Descriptor{InputLength: 1, Words: NewFeedbackWords()}

	if ch, feedbackLen, ok := detectAnswerNow(inputs, positions); ok {
		desc.AnswerNowChar = ch
		desc.FeedbackLength = feedbackLen
	}

	if ch, wrong, ok := detectNextRequestFromLeft(inputs, positions, desc.AnswerNowChar); ok {
		desc.NextRequestChar = ch
		desc.FeedbackRealChars = len(wrong)
		desc.Words.WrongFeedbackWords = wrong
	} else if ch, ok := detectNextRequestFromRight(inputs, positions); ok {
		desc.NextRequestChar = ch
	}

	if desc.AnswerNowChar == 0 && desc.NextRequestChar == 0 {
		if len([]rune(inputs)) >= 4 && positions[3] == len([]rune(inputs))-1 {
			desc.InputLength = 1
			desc.FeedbackLength = 0
			return desc, true
		}
		return Descriptor{}, false
	}

	return desc, true
}

// nonBlankRewardPositions returns the rune indices of the first n non-blank
// characters in rewards.
func nonBlankRewardPositions(rewards string, n int) []int {
	var out []int
	for i, r := range []rune(rewards) {
		if r == ' ' || r == 0 {
			continue
		}
		out = append(out, i)
		if len(out) == n {
			break
		}
	}
	return out
}

// detectAnswerNow implements spec.md §4.2 step 2.
func detectAnswerNow(inputs string, positions []int) (rune, int, bool) {
	r := []rune(inputs)
	chAt := func(i int) (rune, bool) {
		if i < 0 || i >= len(r) {
			return 0, false
		}
		return r[i], true
	}

	var direct []rune
	allSpace := true
	for _, p := range positions {
		c, ok := chAt(p)
		if !ok {
			return 0, 0, false
		}
		direct = append(direct, c)
		if c != ' ' {
			allSpace = false
		}
	}

	if !allSpace && isNonAlnum(direct[0]) && allEqual(direct) {
		return direct[0], 1, true
	}

	if allSpaceOf(direct) {
		var neighbors []answerNeighbor
		for _, p := range positions {
			i := p - 1
			dist := 1
			for i >= 0 {
				c, ok := chAt(i)
				if !ok {
					break
				}
				if c != ' ' {
					neighbors = append(neighbors, answerNeighbor{ch: c, dist: dist})
					break
				}
				i--
				dist++
			}
		}
		if len(neighbors) >= 3 {
			agreeing := majorityChar(neighbors)
			if agreeing != 0 {
				maxDist := 0
				for _, n := range neighbors {
					if n.ch == agreeing && n.dist > maxDist {
						maxDist = n.dist
					}
				}
				return agreeing, maxDist + 1, true
			}
		}
	}

	return 0, 0, false
}

type answerNeighbor struct {
	ch   rune
	dist int
}

func majorityChar(neighbors []answerNeighbor) rune {
	counts := make(map[rune]int)
	for _, n := range neighbors {
		if isNonAlnum(n.ch) {
			counts[n.ch]++
		}
	}
	best := rune(0)
	bestCount := 0
	for ch, c := range counts {
		if c > bestCount {
			best, bestCount = ch, c
		}
	}
	if bestCount >= 3 {
		return best
	}
	return 0
}

func isNonAlnum(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func allEqual(rs []rune) bool {
	for _, r := range rs {
		if r != rs[0] {
			return false
		}
	}
	return true
}

func allSpaceOf(rs []rune) bool {
	for _, r := range rs {
		if r != ' ' {
			return false
		}
	}
	return true
}

// detectNextRequestFromLeft implements spec.md §4.2 step 3: compare the
// feedback substrings between reward 2-3 and reward 3-4, find their
// longest common prefix, and look for a delimiter at the divergence point.
func detectNextRequestFromLeft(inputs string, positions []int, answerNow rune) (rune, string, bool) {
	r := []rune(inputs)
	sub := func(from, to int) string {
		from++
		if from < 0 {
			from = 0
		}
		if to > len(r) {
			to = len(r)
		}
		if from >= to {
			return ""
		}
		return string(r[from:to])
	}

	s1 := sub(positions[1], positions[2])
	s2 := sub(positions[2], positions[3])
	if s1 == "" || s2 == "" {
		return 0, "", false
	}

	n := len(s1)
	if len(s2) < n {
		n = len(s2)
	}
	i := 0
	for i < n && s1[i] == s2[i] {
		i++
	}
	wrong := s1[:i]

	// Scan forward from the divergence point for a non-space symbol that
	// is not the answer-now char.
	for _, s := range []string{s1, s2} {
		rs := []rune(s)
		for j := i; j < len(rs); j++ {
			c := rs[j]
			if c == ' ' || c == answerNow {
				continue
			}
			if isNonAlnum(c) {
				return c, wrong, true
			}
			break
		}
	}
	return 0, "", false
}

// detectNextRequestFromRight implements spec.md §4.2 step 4.
func detectNextRequestFromRight(inputs string, positions []int) (rune, bool) {
	r := []rune(inputs)
	left := func(pos int) (rune, bool) {
		for i := pos - 1; i >= 0; i-- {
			c := r[i]
			if c == ' ' {
				continue
			}
			return c, true
		}
		return 0, false
	}

	c2, ok2 := left(positions[2])
	c3, ok3 := left(positions[3])
	if ok2 && ok3 && c2 == c3 && isNonAlnum(c2) {
		return c2, true
	}
	return 0, false
}

// TrimBlankTail reports whether the last 50 teacher chars and the last 49
// reward chars are all blank — the IsTeacherSilent trigger (spec.md §4.1).
func TrimBlankTail(inputs, rewards string) bool {
	return allBlankTail(inputs, 50) && allBlankTail(rewards, 49)
}

func allBlankTail(s string, n int) bool {
	r := []rune(s)
	if len(r) < n {
		return false
	}
	for _, c := range r[len(r)-n:] {
		if c != ' ' && c != 0 {
			return false
		}
	}
	return true
}

// TrimStream bounds inputs/rewards to at most maxLen characters, dropping
// the oldest dropLen when exceeded (spec.md §5).
func TrimStream(s string, maxLen, dropLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	r := []rune(s)
	if dropLen > len(r) {
		dropLen = len(r)
	}
	return string(r[dropLen:])
}

// StripAnswerNow removes a trailing answer-now char and surrounding space.
func StripAnswerNow(s string, answerNow rune) string {
	if answerNow == 0 {
		return s
	}
	return strings.TrimRight(strings.TrimSuffix(s, string(answerNow)), " ")
}
