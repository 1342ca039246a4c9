// Package mapping implements the exact mapping rule store (spec.md §4.4):
// (input, output, failedOutputs) triples plus the UniformValue and output
// frequency tracking shared across the store.
package mapping

import "golang.org/x/exp/slices"

// Rule is a single input→output mapping with its known-bad outputs.
type Rule struct {
	Input         string
	Output        string
	FailedOutputs map[string]bool
}

// Store owns every mapping rule for the current task plus the
// output-frequency multiset and UniformValue.
type Store struct {
	rules map[string]*Rule
	freq  map[string]int

	uniformValue string
	uniformSet   bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		rules: make(map[string]*Rule),
		freq:  make(map[string]int),
	}
}

// UniformValue returns the shared output of every successful mapping so
// far, or "" if two distinct outputs have ever been recorded.
func (s *Store) UniformValue() string {
	if !s.uniformSet {
		return ""
	}
	return s.uniformValue
}

func (s *Store) ruleFor(input string) *Rule {
	r, ok := s.rules[input]
	if !ok {
		r = &Rule{Input: input, FailedOutputs: make(map[string]bool)}
		s.rules[input] = r
	}
	return r
}

// Successful records that input produced output successfully.
func (s *Store) Successful(input, output string) {
	r := s.ruleFor(input)
	if r.Output != "" && r.Output != output {
		s.freq[r.Output]--
		if s.freq[r.Output] <= 0 {
			delete(s.freq, r.Output)
		}
	}
	r.Output = output
	delete(r.FailedOutputs, output)
	s.freq[output]++

	switch {
	case !s.uniformSet:
		s.uniformSet = true
		s.uniformValue = output
	case s.uniformValue != output:
		// A second distinct output has been observed: UniformValue is
		// cleared permanently for this task.
		s.uniformValue = ""
	}
}

// Failed records that input must not answer output.
func (s *Store) Failed(input, output string) {
	r := s.ruleFor(input)
	if r.Output == output {
		s.freq[r.Output]--
		if s.freq[r.Output] <= 0 {
			delete(s.freq, r.Output)
		}
		r.Output = ""
	}
	r.FailedOutputs[output] = true
	if s.uniformSet && s.uniformValue == output {
		s.uniformValue = ""
	}
}

// Retrieve returns the current rule for input, if any recorded output
// exists.
func (s *Store) Retrieve(input string) (Rule, bool) {
	r, ok := s.rules[input]
	if !ok || r.Output == "" {
		return Rule{}, false
	}
	return cloneRule(r), true
}

// IsFailed reports whether output has already failed for input.
func (s *Store) IsFailed(input, output string) bool {
	r, ok := s.rules[input]
	if !ok {
		return false
	}
	return r.FailedOutputs[output]
}

// RetrieveOutputsSortedByFreq returns every currently recorded output
// string, most frequent first.
func (s *Store) RetrieveOutputsSortedByFreq() []string {
	outputs := make([]string, 0, len(s.freq))
	for o := range s.freq {
		outputs = append(outputs, o)
	}
	slices.SortFunc(outputs, func(a, b string) int {
		if s.freq[a] != s.freq[b] {
			return s.freq[b] - s.freq[a]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return outputs
}

// DistinctOutputsObserved returns the number of distinct output strings
// currently recorded as some input's successful output plus every
// output present in some rule's failed set — the invariant checked by
// spec.md §8's "sum of FailedOutputs.size ... equals distinct outputs".
func (s *Store) DistinctOutputsObserved() int {
	seen := make(map[string]bool)
	for o := range s.freq {
		seen[o] = true
	}
	for _, r := range s.rules {
		for o := range r.FailedOutputs {
			seen[o] = true
		}
	}
	return len(seen)
}

func cloneRule(r *Rule) Rule {
	cp := Rule{Input: r.Input, Output: r.Output, FailedOutputs: make(map[string]bool, len(r.FailedOutputs))}
	for k := range r.FailedOutputs {
		cp.FailedOutputs[k] = true
	}
	return cp
}
