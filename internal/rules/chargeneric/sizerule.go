package chargeneric

import (
	"strings"

	"cryptolalia/internal/ident"
)

// SizeRule generalizes a char-generic rule over the length of its
// variable identifier word (spec.md §4.8, 1-to-1 shape): applying it to
// an input whose variable word has k placeholders expands the base rule
// by wrapping its output pattern in GrowLeft/GrowRight, once per extra
// placeholder beyond len(BaseIDs), each time with a freshly numbered
// identifier standing in for GrowID.
//
// Growth is pinned to one end of the variable word (Front or Back): the
// base rule's own identifier arrangement occupies the positions nearest
// that fixed end, and every additional placeholder extends outward from
// it.
type SizeRule struct {
	BaseInputPattern  string
	BaseOutputPattern string
	VarWordIndex      int
	BaseIDs           []int // the base word's identifiers, in left-to-right position order
	GrowFront         bool  // true if new placeholders extend the front of the word, false for the back
	GrowID            int   // the identifier number introduced by one growth step in the witnessed pair
	GrowLeft          string
	GrowRight         string
}

// AbstractGenericRule1To1 induces a size rule from a base char-generic
// pattern pair and a pattern pair one identifier larger in its variable
// word.
func AbstractGenericRule1To1(basePattern, baseOutput, largePattern, largeOutput string) (SizeRule, bool) {
	baseWords := strings.Fields(basePattern)
	largeWords := strings.Fields(largePattern)
	if len(baseWords) != len(largeWords) {
		return SizeRule{}, false
	}
	varIdx := -1
	for i := range baseWords {
		if baseWords[i] != largeWords[i] {
			if varIdx != -1 {
				return SizeRule{}, false
			}
			varIdx = i
		}
	}
	if varIdx == -1 {
		return SizeRule{}, false
	}

	baseToks := ident.Decode(baseWords[varIdx])
	largeToks := ident.Decode(largeWords[varIdx])
	if !allID(baseToks) || !allID(largeToks) {
		return SizeRule{}, false
	}
	if len(largeToks) != len(baseToks)+1 {
		return SizeRule{}, false
	}

	var growFront bool
	var growID int
	switch {
	case idsEqual(largeToks[1:], baseToks):
		growFront = true
		growID = largeToks[0].ID
	case idsEqual(largeToks[:len(baseToks)], baseToks):
		growFront = false
		growID = largeToks[len(largeToks)-1].ID
	default:
		return SizeRule{}, false
	}

	idx := strings.Index(largeOutput, baseOutput)
	if idx < 0 {
		return SizeRule{}, false
	}
	growLeft := largeOutput[:idx]
	growRight := largeOutput[idx+len(baseOutput):]
	if !containsID(growLeft, growID) && !containsID(growRight, growID) {
		return SizeRule{}, false
	}

	baseIDs := make([]int, len(baseToks))
	for i, t := range baseToks {
		baseIDs[i] = t.ID
	}

	return SizeRule{
		BaseInputPattern:  basePattern,
		BaseOutputPattern: baseOutput,
		VarWordIndex:      varIdx,
		BaseIDs:           baseIDs,
		GrowFront:         growFront,
		GrowID:            growID,
		GrowLeft:          growLeft,
		GrowRight:         growRight,
	}, true
}

func allID(toks []ident.Token) bool {
	if len(toks) == 0 {
		return false
	}
	for _, t := range toks {
		if !t.IsID {
			return false
		}
	}
	return true
}

func idsEqual(a, b []ident.Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}

func containsID(s string, id int) bool {
	for _, t := range ident.Decode(s) {
		if t.IsID && t.ID == id {
			return true
		}
	}
	return false
}

func remapID(toks []ident.Token, from, to int) []ident.Token {
	out := make([]ident.Token, len(toks))
	for i, t := range toks {
		if t.IsID && t.ID == from {
			t.ID = to
		}
		out[i] = t
	}
	return out
}

// ApplySizeRule matches input against sr's constant words and expands
// the base rule's output pattern to the observed variable-word length
// before delegating the character substitution to substitute.
func ApplySizeRule(sr SizeRule, input string) (string, bool) {
	inWords := strings.Fields(input)
	baseWords := strings.Fields(sr.BaseInputPattern)
	if len(inWords) != len(baseWords) {
		return "", false
	}
	for i, bw := range baseWords {
		if i == sr.VarWordIndex {
			continue
		}
		if bw != inWords[i] {
			return "", false
		}
	}

	varWord := []rune(inWords[sr.VarWordIndex])
	k := len(varWord)
	baseLen := len(sr.BaseIDs)
	if k < baseLen {
		return "", false
	}

	bindings := make(map[int]rune, k)
	m := k - baseLen
	for p, r := range varWord {
		var id int
		switch {
		case sr.GrowFront && p < m:
			id = k - p
		case sr.GrowFront:
			id = sr.BaseIDs[p-m]
		case !sr.GrowFront && p < baseLen:
			id = sr.BaseIDs[p]
		default:
			id = p + 1
		}
		bindings[id] = r
	}

	if k == baseLen {
		return substitute(sr.BaseOutputPattern, bindings)
	}

	growLeftToks := ident.Decode(sr.GrowLeft)
	growRightToks := ident.Decode(sr.GrowRight)
	result := sr.BaseOutputPattern
	for next := baseLen + 1; next <= k; next++ {
		gl := ident.Encode(remapID(growLeftToks, sr.GrowID, next))
		gr := ident.Encode(remapID(growRightToks, sr.GrowID, next))
		result = gl + result + gr
	}
	return substitute(result, bindings)
}

// SizeStore holds every char-generic-size rule; it is kept across task
// switches.
type SizeStore struct {
	rules []SizeRule
}

// NewSizeStore returns an empty SizeStore.
func NewSizeStore() *SizeStore { return &SizeStore{} }

// Rules returns every stored size rule, in insertion order.
func (s *SizeStore) Rules() []SizeRule { return append([]SizeRule(nil), s.rules...) }

// Add appends candidate unless an identical base pattern is already
// present.
func (s *SizeStore) Add(candidate SizeRule) {
	for _, r := range s.rules {
		if r.BaseInputPattern == candidate.BaseInputPattern && r.VarWordIndex == candidate.VarWordIndex {
			return
		}
	}
	s.rules = append(s.rules, candidate)
}

// Remove deletes every size rule grounded on the given base input
// pattern (used when the founding char-generic rule is deleted).
func (s *SizeStore) Remove(baseInputPattern string) {
	out := s.rules[:0]
	for _, r := range s.rules {
		if r.BaseInputPattern != baseInputPattern {
			out = append(out, r)
		}
	}
	s.rules = out
}

// ApplyMatchingRule tries every stored size rule for a match.
func (s *SizeStore) ApplyMatchingRule(input string) (string, bool) {
	for _, r := range s.rules {
		if out, ok := ApplySizeRule(r, input); ok {
			return out, true
		}
	}
	return "", false
}
