// Package chargeneric implements per-character abstraction rules
// (spec.md §4.5): induction of an identifier pattern over two witness
// (input, output) pairs, cross-validation against previously stored
// rules, and application (exact, compound, and closest-match).
package chargeneric

import (
	"strings"

	"cryptolalia/internal/ident"
)

// Rule is one abstracted pattern plus the first witness that produced it,
// retained only so later candidates can be cross-validated against it.
type Rule struct {
	InputPattern  string
	OutputPattern string
	IdentCount    int

	ExampleInput  string
	ExampleOutput string
}

func stripEnd(s string, end rune) string {
	r := []rune(s)
	if len(r) > 0 && end != 0 && r[len(r)-1] == end {
		r = r[:len(r)-1]
	}
	for len(r) > 0 && r[len(r)-1] == ' ' {
		r = r[:len(r)-1]
	}
	return string(r)
}

// AbstractGenericRule induces a char-generic pattern from two witnesses.
func AbstractGenericRule(i1, o1, i2, o2 string, end rune) (Rule, bool) {
	i1, o1 = stripEnd(i1, end), stripEnd(o1, end)
	i2, o2 = stripEnd(i2, end), stripEnd(o2, end)

	wordsI1 := strings.Fields(i1)
	wordsI2 := strings.Fields(i2)
	if len(wordsI1) != len(wordsI2) || len(wordsI1) < 2 {
		return Rule{}, false
	}
	if len(i1) < 3 || len(i2) < 3 {
		return Rule{}, false
	}

	variable := make([]bool, len(wordsI1))
	anyVariable := false
	for i := range wordsI1 {
		if wordsI1[i] != wordsI2[i] {
			variable[i] = true
			anyVariable = true
		}
	}
	if !anyVariable {
		return Rule{}, false
	}
	for i := range wordsI1 {
		if variable[i] && len(wordsI1[i]) != len(wordsI2[i]) {
			return Rule{}, false
		}
	}

	assignment := make([][]int, len(wordsI1))
	for i := range wordsI1 {
		if variable[i] {
			assignment[i] = make([]int, len(wordsI1[i]))
			for j := range assignment[i] {
				assignment[i][j] = -1
			}
		}
	}

	nextID := 1
	charToID := make(map[rune]int)
	var outTokens []ident.Token
	for _, c := range o1 {
		if id, ok := charToID[c]; ok {
			outTokens = append(outTokens, ident.ID(id))
			continue
		}
		found := false
		for wi := range wordsI1 {
			if !variable[wi] {
				continue
			}
			for pos, r := range []rune(wordsI1[wi]) {
				if r == c && assignment[wi][pos] == -1 {
					assignment[wi][pos] = nextID
					found = true
				}
			}
		}
		if found {
			charToID[c] = nextID
			outTokens = append(outTokens, ident.ID(nextID))
			nextID++
		} else {
			outTokens = append(outTokens, ident.Lit(c))
		}
	}

	for wi := range wordsI1 {
		if !variable[wi] {
			continue
		}
		for pos := range assignment[wi] {
			if assignment[wi][pos] == -1 {
				assignment[wi][pos] = nextID
				nextID++
			}
		}
	}
	if nextID == 1 {
		// Nothing in the variable words was ever referenced by the
		// output: not a useful generalization.
		return Rule{}, false
	}

	var inTokens []ident.Token
	for wi, w := range wordsI1 {
		if wi > 0 {
			inTokens = append(inTokens, ident.Lit(' '))
		}
		if !variable[wi] {
			for _, r := range w {
				inTokens = append(inTokens, ident.Lit(r))
			}
			continue
		}
		for pos := range []rune(w) {
			inTokens = append(inTokens, ident.ID(assignment[wi][pos]))
		}
	}

	rule := Rule{
		InputPattern:  ident.Encode(inTokens),
		OutputPattern: ident.Encode(outTokens),
		IdentCount:    nextID - 1,
		ExampleInput:  i1,
		ExampleOutput: o1,
	}

	got, ok := ApplyRule(rule, i2)
	if !ok || got != o2 {
		return Rule{}, false
	}
	return rule, true
}

// ValidateEquivalentPatterns reports whether candidate and existing may
// safely coexist: identical patterns trivially validate, otherwise one
// must generalize the other's literal witness.
func ValidateEquivalentPatterns(candidate, existing Rule) bool {
	if candidate.InputPattern == existing.InputPattern {
		return true
	}
	if out, ok := ApplyRule(candidate, existing.ExampleInput); ok && out == existing.ExampleOutput {
		return true
	}
	if out, ok := ApplyRule(existing, candidate.ExampleInput); ok && out == candidate.ExampleOutput {
		return true
	}
	return false
}

// MoreSpecific reports whether a has strictly more identifiers than b.
func MoreSpecific(a, b Rule) bool { return a.IdentCount > b.IdentCount }

// SentenceMatchesPattern walks pattern words alongside sentence words,
// binding each identifier to the character it stands for on first sight
// and requiring equality on subsequent sightings.
func SentenceMatchesPattern(pattern, sentence string) (map[int]rune, bool) {
	patWords := strings.Fields(pattern)
	sentWords := strings.Fields(sentence)
	if len(patWords) != len(sentWords) {
		return nil, false
	}
	bindings := make(map[int]rune)
	for wi, pw := range patWords {
		tokens := ident.Decode(pw)
		sw := []rune(sentWords[wi])
		if len(tokens) != len(sw) {
			return nil, false
		}
		for i, tok := range tokens {
			if tok.IsID {
				if bound, ok := bindings[tok.ID]; ok {
					if bound != sw[i] {
						return nil, false
					}
				} else {
					bindings[tok.ID] = sw[i]
				}
				continue
			}
			if tok.Lit != sw[i] {
				return nil, false
			}
		}
	}
	return bindings, true
}

// ApplyRule matches input against rule's input pattern and, on success,
// substitutes the bound characters into the output pattern.
func ApplyRule(rule Rule, input string) (string, bool) {
	bindings, ok := SentenceMatchesPattern(rule.InputPattern, input)
	if !ok {
		return "", false
	}
	return substitute(rule.OutputPattern, bindings)
}

func substitute(outputPattern string, bindings map[int]rune) (string, bool) {
	tokens := ident.Decode(outputPattern)
	var b strings.Builder
	for _, tok := range tokens {
		if !tok.IsID {
			b.WriteRune(tok.Lit)
			continue
		}
		r, ok := bindings[tok.ID]
		if !ok {
			return "", false
		}
		b.WriteRune(r)
	}
	return b.String(), true
}

// ApplyCompoundMatchingRule greedily matches a prefix subset of input's
// tokens against any rule, recursively applies the remainder, and
// concatenates outputs with a space separator.
func ApplyCompoundMatchingRule(rules []Rule, input string) (string, bool) {
	words := strings.Fields(input)
	if len(words) == 0 {
		return "", false
	}
	for k := len(words); k >= 1; k-- {
		prefix := strings.Join(words[:k], " ")
		for _, rule := range rules {
			out, ok := ApplyRule(rule, prefix)
			if !ok {
				continue
			}
			rest := words[k:]
			if len(rest) == 0 {
				return out, true
			}
			restOut, ok := ApplyCompoundMatchingRule(rules, strings.Join(rest, " "))
			if !ok {
				continue
			}
			return out + " " + restOut, true
		}
	}
	return "", false
}

// ApplyClosestRule scores every rule by fractional word/character overlap
// with input and applies the highest-scoring rule with nonzero score.
func ApplyClosestRule(rules []Rule, input string) (string, bool) {
	inWords := strings.Fields(input)
	bestScore := 0.0
	bestOut := ""
	found := false
	for _, rule := range rules {
		if out, ok := ApplyRule(rule, input); ok {
			return out, true
		}
		score, out, ok := closestScore(rule, inWords)
		if ok && score > bestScore {
			bestScore = score
			bestOut = out
			found = true
		}
	}
	if !found || bestScore <= 0 {
		return "", false
	}
	return bestOut, true
}

func closestScore(rule Rule, inWords []string) (float64, string, bool) {
	patWords := strings.Fields(rule.InputPattern)
	if len(patWords) != len(inWords) {
		return 0, "", false
	}
	bindings := make(map[int]rune)
	matched := 0.0
	total := float64(len(patWords))
	for wi, pw := range patWords {
		tokens := ident.Decode(pw)
		sw := []rune(inWords[wi])
		if len(tokens) != len(sw) {
			continue
		}
		wordMatched := 0
		for i, tok := range tokens {
			if tok.IsID {
				if bound, ok := bindings[tok.ID]; ok && bound != sw[i] {
					continue
				}
				bindings[tok.ID] = sw[i]
				wordMatched++
				continue
			}
			if tok.Lit == sw[i] {
				wordMatched++
			}
		}
		matched += float64(wordMatched) / float64(len(tokens))
	}
	out, ok := substitute(rule.OutputPattern, bindings)
	if !ok {
		return 0, "", false
	}
	return matched / total, out, true
}

// Store holds every char-generic rule, in the insertion order application
// relies on for cross-validation priority; it is kept across task
// switches.
type Store struct {
	rules []Rule
}

// New returns an empty Store.
func New() *Store { return &Store{} }

// Rules returns every stored rule, in insertion order.
func (s *Store) Rules() []Rule { return append([]Rule(nil), s.rules...) }

// Add validates candidate against every existing rule and, when it
// coexists with all of them, appends it — replacing any existing rule it
// is strictly more specific than.
func (s *Store) Add(candidate Rule) bool {
	kept := s.rules[:0:0]
	for _, existing := range s.rules {
		if !ValidateEquivalentPatterns(candidate, existing) {
			return false
		}
		if existing.InputPattern == candidate.InputPattern {
			continue
		}
		if MoreSpecific(candidate, existing) {
			continue
		}
		kept = append(kept, existing)
	}
	kept = append(kept, candidate)
	s.rules = kept
	return true
}

// Remove deletes the rule with the given input pattern, if present.
func (s *Store) Remove(inputPattern string) {
	out := s.rules[:0]
	for _, r := range s.rules {
		if r.InputPattern != inputPattern {
			out = append(out, r)
		}
	}
	s.rules = out
}

// ApplyMatchingRule tries every stored rule for an exact match.
func (s *Store) ApplyMatchingRule(input string) (string, bool) {
	for _, r := range s.rules {
		if out, ok := ApplyRule(r, input); ok {
			return out, true
		}
	}
	return "", false
}

// ApplyCompound tries the compound-prefix applier over every stored rule.
func (s *Store) ApplyCompound(input string) (string, bool) {
	return ApplyCompoundMatchingRule(s.rules, input)
}

// ApplyClosest tries the closest-match applier over every stored rule.
func (s *Store) ApplyClosest(input string) (string, bool) {
	return ApplyClosestRule(s.rules, input)
}
