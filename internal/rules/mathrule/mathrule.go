// Package mathrule implements arithmetic abstraction rules (spec.md
// §4.7): tokenizing operand/operator runs, inducing the operation and
// base consistent with two witnesses, exact application in 32-bit signed
// arithmetic, and compound rolling application across a chain.
package mathrule

import (
	"strconv"
	"strings"

	"cryptolalia/internal/ident"
)

// Operation is one of the four arithmetic operators a rule may encode.
type Operation int

const (
	Add Operation = iota
	Sub
	Mul
	Div
)

func (op Operation) apply(a, b int32) (int32, bool) {
	switch op {
	case Add:
		return a + b, true
	case Sub:
		return a - b, true
	case Mul:
		return a * b, true
	case Div:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

func (op Operation) symbol() byte {
	switch op {
	case Add:
		return '+'
	case Sub:
		return '-'
	case Mul:
		return '*'
	case Div:
		return '/'
	}
	return 0
}

var bases = []int{2, 8, 10, 16}

// Rule is an induced math pattern: the input pattern has two variable
// numeric tokens in the given operand base, the output pattern has one
// variable numeric token in the given result base produced by Op.
type Rule struct {
	InputPattern  string
	OutputPattern string
	Op            Operation
	OperandBase   int
	ResultBase    int

	ExampleInput  string
	ExampleOutput string
}

// Token is a lexical unit of a math expression: a digit/letter run
// (Numeric) or a symbol run (constant).
type Token struct {
	Text    string
	Numeric bool
}

// Tokenize splits s into digit/letter runs and symbol runs, then
// reattaches a trailing '-' from a symbol run to the following numeric
// run whenever that '-' itself follows a non-alphanumeric character (or
// opens the string) — so "3-4" tokenizes as [3,-,4] but "3*-4" keeps the
// sign with the operand: [3,*,-4].
func Tokenize(s string) []Token {
	var naive []Token
	runes := []rune(s)
	i := 0
	for i < len(runes) {
		if runes[i] == ident.Delim {
			if _, ok := ident.ScanAt(string(runes[i:]), 0); ok {
				naive = append(naive, Token{Text: string(runes[i : i+ident.Width]), Numeric: false})
				i += ident.Width
				continue
			}
		}
		j := i
		numeric := isAlnum(runes[i])
		for j < len(runes) && isAlnum(runes[j]) == numeric && runes[j] != ident.Delim {
			j++
		}
		naive = append(naive, Token{Text: string(runes[i:j]), Numeric: numeric})
		i = j
	}

	var toks []Token
	for k := 0; k < len(naive); k++ {
		t := naive[k]
		if t.Numeric || !strings.HasSuffix(t.Text, "-") {
			toks = append(toks, t)
			continue
		}
		followsNonAlnum := k == 0 || len(t.Text) > 1
		if !followsNonAlnum || k+1 >= len(naive) || !naive[k+1].Numeric {
			toks = append(toks, t)
			continue
		}
		trimmed := t.Text[:len(t.Text)-1]
		if trimmed != "" {
			toks = append(toks, Token{Text: trimmed, Numeric: false})
		}
		toks = append(toks, Token{Text: "-" + naive[k+1].Text, Numeric: true})
		k++ // consumed the following numeric token as part of the sign
	}
	return toks
}

func isAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func render(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}

// DetermineOperation finds the unique (operation, operandBase,
// resultBase) that explains both witnesses; rejects ambiguous fits.
func DetermineOperation(a1, b1, r1, a2, b2, r2 string) (Operation, int, int, bool) {
	type candidate struct {
		op                    Operation
		operandBase, resultBase int
	}
	var fits []candidate
	for _, ob := range bases {
		x1, ok1 := parseBase(a1, ob)
		y1, ok2 := parseBase(b1, ob)
		x2, ok3 := parseBase(a2, ob)
		y2, ok4 := parseBase(b2, ob)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		for _, op := range []Operation{Add, Sub, Mul, Div} {
			res1, ok1 := op.apply(x1, y1)
			res2, ok2 := op.apply(x2, y2)
			if !ok1 {
				// division by zero in induction is treated as division by one
				if op == Div && y1 == 0 {
					res1, ok1 = x1, true
				}
			}
			if !ok2 {
				if op == Div && y2 == 0 {
					res2, ok2 = x2, true
				}
			}
			if !ok1 || !ok2 {
				continue
			}
			for _, rb := range bases {
				if formatBase(res1, rb) == r1 && formatBase(res2, rb) == r2 {
					fits = append(fits, candidate{op, ob, rb})
				}
			}
		}
	}
	if len(fits) != 1 {
		return 0, 0, 0, false
	}
	return fits[0].op, fits[0].operandBase, fits[0].resultBase, true
}

func parseBase(s string, base int) (int32, bool) {
	n, err := strconv.ParseInt(s, base, 64)
	if err != nil {
		return 0, false
	}
	if n > int64(^uint32(0)>>1) || n < -int64(^uint32(0)>>1)-1 {
		return 0, false
	}
	return int32(n), true
}

func formatBase(n int32, base int) string {
	return strconv.FormatInt(int64(n), base)
}

// AbstractGenericRule induces a math rule from two witnesses, each
// already tokenized as input/output strings. Accepts only the shape
// "two variable numeric tokens in input, one variable numeric token in
// output, all else constant".
func AbstractGenericRule(i1, o1, i2, o2 string) (Rule, bool) {
	t1 := Tokenize(i1)
	t2 := Tokenize(i2)
	if len(t1) != len(t2) {
		return Rule{}, false
	}
	var varIdx []int
	for k := range t1 {
		if t1[k].Numeric && t2[k].Numeric && t1[k].Text != t2[k].Text {
			varIdx = append(varIdx, k)
		} else if t1[k].Text != t2[k].Text {
			return Rule{}, false
		}
	}
	if len(varIdx) != 2 {
		return Rule{}, false
	}

	ot1 := Tokenize(o1)
	ot2 := Tokenize(o2)
	if len(ot1) != len(ot2) {
		return Rule{}, false
	}
	outVar := -1
	for k := range ot1 {
		if ot1[k].Numeric && ot2[k].Numeric && ot1[k].Text != ot2[k].Text {
			if outVar != -1 {
				return Rule{}, false
			}
			outVar = k
		} else if ot1[k].Text != ot2[k].Text {
			return Rule{}, false
		}
	}
	if outVar == -1 {
		return Rule{}, false
	}

	op, operandBase, resultBase, ok := DetermineOperation(
		t1[varIdx[0]].Text, t1[varIdx[1]].Text, ot1[outVar].Text,
		t2[varIdx[0]].Text, t2[varIdx[1]].Text, ot2[outVar].Text,
	)
	if !ok {
		return Rule{}, false
	}

	inPattern := make([]Token, len(t1))
	copy(inPattern, t1)
	inPattern[varIdx[0]] = Token{Text: ident.ID(operandBase*10 + 1).String(), Numeric: false}
	inPattern[varIdx[1]] = Token{Text: ident.ID(operandBase*10 + 2).String(), Numeric: false}

	outPattern := make([]Token, len(ot1))
	copy(outPattern, ot1)
	outPattern[outVar] = Token{Text: ident.ID(int(op)*100 + resultBase).String(), Numeric: false}

	rule := Rule{
		InputPattern:  render(inPattern),
		OutputPattern: render(outPattern),
		Op:            op,
		OperandBase:   operandBase,
		ResultBase:    resultBase,
		ExampleInput:  i1,
		ExampleOutput: o1,
	}
	got, ok := ApplyRule(rule, i2)
	if !ok || got != o2 {
		return Rule{}, false
	}
	return rule, true
}

// ApplyRule matches input's tokens against rule's input pattern,
// performs the arithmetic, and formats the result into the output
// pattern.
func ApplyRule(rule Rule, input string) (string, bool) {
	inToks := Tokenize(input)
	patToks := Tokenize(rule.InputPattern)
	if len(inToks) != len(patToks) {
		return "", false
	}
	var operandA, operandB string
	slot := 0
	for i, pt := range patToks {
		if id, ok := identID(pt.Text); ok {
			switch slot {
			case 0:
				operandA = inToks[i].Text
			case 1:
				operandB = inToks[i].Text
			}
			_ = id
			slot++
			continue
		}
		if pt.Text != inToks[i].Text {
			return "", false
		}
	}
	if slot != 2 {
		return "", false
	}
	a, ok := parseBase(operandA, rule.OperandBase)
	if !ok {
		return "", false
	}
	b, ok := parseBase(operandB, rule.OperandBase)
	if !ok {
		return "", false
	}
	res, ok := rule.Op.apply(a, b)
	if !ok {
		return "", false
	}
	formatted := formatBase(res, rule.ResultBase)

	outToks := Tokenize(rule.OutputPattern)
	var b2 strings.Builder
	for _, ot := range outToks {
		if _, ok := identID(ot.Text); ok {
			b2.WriteString(formatted)
			continue
		}
		b2.WriteString(ot.Text)
	}
	return b2.String(), true
}

func identID(s string) (int, bool) {
	return ident.ScanAt(s, 0)
}

// stepPattern returns the operand+operator prefix of a rule's input
// pattern (through the second identifier slot) and the constant tokens
// that trail it — the part that only closes the top-level expression
// ("=") and is not repeated at each rolling step.
func stepPattern(patToks []Token) (step, closer []Token) {
	seen := 0
	for i, t := range patToks {
		if _, ok := identID(t.Text); ok {
			seen++
			if seen == 2 {
				return patToks[:i+1], patToks[i+1:]
			}
		}
	}
	return patToks, nil
}

// ApplyCompoundRollingRule matches a prefix of input's tokens against the
// rule's operand+operator shape, applies the rule to produce an
// intermediate result in the operand base, prepends it to the remainder,
// and recurses. The final step formats the result in the result base.
func ApplyCompoundRollingRule(rule Rule, input string) (string, bool) {
	patToks := Tokenize(rule.InputPattern)
	step, closer := stepPattern(patToks)
	return rollCompound(rule, Tokenize(input), step, closer)
}

func rollCompound(rule Rule, toks, step, closer []Token) (string, bool) {
	if len(toks) < len(step) {
		return "", false
	}
	rolled, ok := applyRollingStep(rule, toks[:len(step)], step)
	if !ok {
		return "", false
	}
	rest := toks[len(step):]
	if len(rest) == 0 || tokensEqual(rest, closer) {
		return formatBase(rolled, rule.ResultBase), true
	}
	combined := append([]Token{{Text: formatBase(rolled, rule.OperandBase), Numeric: true}}, rest...)
	return rollCompound(rule, combined, step, closer)
}

func tokensEqual(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}

// applyRollingStep matches toks against the operand+operator step pattern
// and returns the raw int32 result, so intermediate steps stay in the
// operand base rather than being formatted into the result base.
func applyRollingStep(rule Rule, toks, step []Token) (int32, bool) {
	if len(toks) != len(step) {
		return 0, false
	}
	var operandA, operandB string
	slot := 0
	for i, pt := range step {
		if _, ok := identID(pt.Text); ok {
			switch slot {
			case 0:
				operandA = toks[i].Text
			case 1:
				operandB = toks[i].Text
			}
			slot++
			continue
		}
		if pt.Text != toks[i].Text {
			return 0, false
		}
	}
	if slot != 2 {
		return 0, false
	}
	a, ok := parseBase(operandA, rule.OperandBase)
	if !ok {
		return 0, false
	}
	b, ok := parseBase(operandB, rule.OperandBase)
	if !ok {
		return 0, false
	}
	return rule.Op.apply(a, b)
}

// Store holds every math rule; it is kept across task switches.
type Store struct {
	rules []Rule
}

// New returns an empty Store.
func New() *Store { return &Store{} }

// Rules returns every stored rule, in insertion order.
func (s *Store) Rules() []Rule { return append([]Rule(nil), s.rules...) }

// Add appends candidate unless a rule with the same input pattern is
// already stored: math rules are keyed by their patterns, so no
// cross-validation step is
// specified for them (spec.md §4.7 describes induction, not store
// merging, unlike §4.5's char-generic family).
func (s *Store) Add(candidate Rule) {
	for _, r := range s.rules {
		if r.InputPattern == candidate.InputPattern {
			return
		}
	}
	s.rules = append(s.rules, candidate)
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

// ApplyCompoundRolling tries the rolling applier over every stored rule.
func (s *Store) ApplyCompoundRolling(input string) (string, bool) {
	for _, r := range s.rules {
		if out, ok := ApplyCompoundRollingRule(r, input); ok {
			return out, true
		}
	}
	return "", false
}
