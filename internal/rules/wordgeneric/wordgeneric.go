// Package wordgeneric implements whole-token abstraction rules
// (spec.md §4.6): the same induction/application skeleton as
// internal/rules/chargeneric, but identifiers bind entire whitespace
// tokens rather than single characters, and an output token that never
// appears verbatim in the input may be encoded as a concatenation of
// input tokens' identifiers.
package wordgeneric

import (
	"strings"

	"cryptolalia/internal/ident"
)

// Rule is one abstracted word-level pattern plus its founding witness.
type Rule struct {
	InputPattern  string // whitespace-joined words, variable words replaced by a single identifier token
	OutputPattern string // whitespace-joined words; a compound word is itself a concatenation of identifier tokens
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

// FindCommonWords computes the C/V variability vector between two
// equal-length word sequences.
func FindCommonWords(a, b []string) (vector []bool, anyVariable bool) {
	vector = make([]bool, len(a))
	for i := range a {
		if a[i] != b[i] {
			vector[i] = true
			anyVariable = true
		}
	}
	return vector, anyVariable
}

// AbstractGenericRule induces a word-generic pattern from two witnesses.
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
	variable, anyVariable := FindCommonWords(wordsI1, wordsI2)
	if !anyVariable {
		return Rule{}, false
	}

	nextID := 1
	wordToID := make(map[string]int) // witness-1 word value -> identifier
	idToPos := make(map[int][]int)   // identifier -> variable word positions it was assigned to

	patWords := make([]string, len(wordsI1))
	for i, w := range wordsI1 {
		if !variable[i] {
			patWords[i] = w
			continue
		}
		id, ok := wordToID[w]
		if !ok {
			id = nextID
			nextID++
			wordToID[w] = id
		}
		idToPos[id] = append(idToPos[id], i)
		patWords[i] = ident.ID(id).String()
	}
	if nextID == 1 {
		return Rule{}, false
	}

	outWords := strings.Fields(o1)
	encodedOut := make([]string, 0, len(outWords))
	for _, ow := range outWords {
		if id, ok := wordToID[ow]; ok {
			encodedOut = append(encodedOut, ident.ID(id).String())
			continue
		}
		if parts, ok := FindSubWords(ow, wordToID); ok {
			var b strings.Builder
			for _, id := range parts {
				b.WriteString(ident.ID(id).String())
			}
			encodedOut = append(encodedOut, b.String())
			continue
		}
		encodedOut = append(encodedOut, ow)
	}

	rule := Rule{
		InputPattern:  strings.Join(patWords, " "),
		OutputPattern: strings.Join(encodedOut, " "),
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

// FindSubWords attempts to decompose compound into a concatenation of
// known variable-word values, returning their identifiers in order.
func FindSubWords(compound string, wordToID map[string]int) ([]int, bool) {
	if compound == "" {
		return nil, false
	}
	var decompose func(s string) ([]int, bool)
	decompose = func(s string) ([]int, bool) {
		if s == "" {
			return []int{}, true
		}
		for w, id := range wordToID {
			if w == "" || !strings.HasPrefix(s, w) {
				continue
			}
			if rest, ok := decompose(s[len(w):]); ok {
				return append([]int{id}, rest...), true
			}
		}
		return nil, false
	}
	ids, ok := decompose(compound)
	if !ok || len(ids) < 2 {
		return nil, false
	}
	return ids, true
}

// ValidateEquivalentPatterns mirrors chargeneric's cross-validation rule.
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

// MoreSpecific reports whether a binds strictly more identifiers than b.
func MoreSpecific(a, b Rule) bool { return a.IdentCount > b.IdentCount }

// SentenceMatchesPattern binds each identifier token to the whole input
// word at its position.
func SentenceMatchesPattern(pattern, sentence string) (map[int]string, bool) {
	patWords := strings.Fields(pattern)
	sentWords := strings.Fields(sentence)
	if len(patWords) != len(sentWords) {
		return nil, false
	}
	bindings := make(map[int]string)
	for i, pw := range patWords {
		if id, ok := ident.ScanAt(pw, 0); ok && len([]rune(pw)) == ident.Width {
			if bound, exists := bindings[id]; exists {
				if bound != sentWords[i] {
					return nil, false
				}
			} else {
				bindings[id] = sentWords[i]
			}
			continue
		}
		if pw != sentWords[i] {
			return nil, false
		}
	}
	return bindings, true
}

// ApplyRule matches input and substitutes bound words into the output
// pattern, expanding compound identifier runs.
func ApplyRule(rule Rule, input string) (string, bool) {
	bindings, ok := SentenceMatchesPattern(rule.InputPattern, input)
	if !ok {
		return "", false
	}
	return substitute(rule.OutputPattern, bindings)
}

func substitute(outputPattern string, bindings map[int]string) (string, bool) {
	outWords := strings.Fields(outputPattern)
	resultWords := make([]string, 0, len(outWords))
	for _, ow := range outWords {
		toks := ident.Decode(ow)
		if len(toks) == 0 {
			resultWords = append(resultWords, ow)
			continue
		}
		allID := true
		for _, t := range toks {
			if !t.IsID {
				allID = false
				break
			}
		}
		if !allID {
			resultWords = append(resultWords, ow)
			continue
		}
		var b strings.Builder
		ok := true
		for _, t := range toks {
			v, exists := bindings[t.ID]
			if !exists {
				ok = false
				break
			}
			b.WriteString(v)
		}
		if !ok {
			return "", false
		}
		resultWords = append(resultWords, b.String())
	}
	return strings.Join(resultWords, " "), true
}

// Store holds every word-generic rule; it is kept across task switches.
type Store struct {
	rules []Rule
}

// New returns an empty Store.
func New() *Store { return &Store{} }

// Rules returns every stored rule, in insertion order.
func (s *Store) Rules() []Rule { return append([]Rule(nil), s.rules...) }

// Add validates candidate against existing rules before appending it.
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

// ApplyCompound greedily matches a prefix subset of input's words
// against any rule, recursing on the remainder.
func (s *Store) ApplyCompound(input string) (string, bool) {
	words := strings.Fields(input)
	if len(words) == 0 {
		return "", false
	}
	for k := len(words); k >= 1; k-- {
		prefix := strings.Join(words[:k], " ")
		for _, r := range s.rules {
			out, ok := ApplyRule(r, prefix)
			if !ok {
				continue
			}
			rest := words[k:]
			if len(rest) == 0 {
				return out, true
			}
			restOut, ok := s.ApplyCompound(strings.Join(rest, " "))
			if !ok {
				continue
			}
			return out + " " + restOut, true
		}
	}
	return "", false
}
