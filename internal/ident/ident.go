// Package ident implements the Ð<NNN>Ð identifier placeholder used by the
// char-generic, word-generic, and math rule families to mark a bound
// position inside a pattern string.
package ident

import (
	"fmt"
	"strconv"
	"strings"
)

// Delim is the sentinel rune flanking every identifier. It is chosen to be
// a code point that cannot appear in teacher input (single printable ASCII
// characters and digits), per spec.md §9.
const Delim = 'Ð'

// Width is the rune length of every identifier placeholder: one delimiter,
// three digits, one delimiter.
const Width = 5

// Format renders n (0-999) as a Ð<NNN>Ð placeholder.
func Format(n int) string {
	return fmt.Sprintf("%c%03d%c", Delim, n, Delim)
}

// ScanAt reports whether s[i:] begins with a well-formed placeholder and,
// if so, returns its numeric id. A placeholder always spans Width runes.
func ScanAt(s string, i int) (id int, ok bool) {
	r := []rune(s[i:])
	if len(r) < Width {
		return 0, false
	}
	if r[0] != Delim || r[Width-1] != Delim {
		return 0, false
	}
	digits := string(r[1 : Width-1])
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Token is a single element of a pattern: either a literal rune or a bound
// identifier. Representing patterns as a tagged variant (rather than
// disambiguating by scanning width at use time) avoids the original's
// width-based ExtractIdOrChar disambiguation, per spec.md Design Notes §9.
type Token struct {
	IsID bool
	ID   int
	Lit  rune
}

// Lit constructs a literal token.
func Lit(r rune) Token { return Token{Lit: r} }

// ID constructs an identifier token.
func ID(n int) Token { return Token{IsID: true, ID: n} }

// String renders the token in its Ð<NNN>Ð / literal-rune textual form.
func (t Token) String() string {
	if t.IsID {
		return Format(t.ID)
	}
	return string(t.Lit)
}

// Encode renders a slice of tokens back into the Ð-delimited textual form
// used by pattern strings.
func Encode(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.String())
	}
	return b.String()
}

// Decode parses a Ð-delimited textual pattern fragment into tokens.
func Decode(s string) []Token {
	var tokens []Token
	r := []rune(s)
	for i := 0; i < len(r); {
		if id, ok := ScanAt(string(r[i:]), 0); ok {
			tokens = append(tokens, ID(id))
			i += Width
			continue
		}
		tokens = append(tokens, Lit(r[i]))
		i++
	}
	return tokens
}

// IDsIn returns the set of identifier numbers occurring in tokens, in order
// of first appearance.
func IDsIn(tokens []Token) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, t := range tokens {
		if t.IsID && !seen[t.ID] {
			seen[t.ID] = true
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// SubsetOf reports whether every id in a also occurs in b — used to check
// the invariant that an output pattern's identifier set is a subset of its
// input pattern's identifier set (spec.md §3).
func SubsetOf(a, b []Token) bool {
	bIDs := make(map[int]bool)
	for _, id := range IDsIn(b) {
		bIDs[id] = true
	}
	for _, id := range IDsIn(a) {
		if !bIDs[id] {
			return false
		}
	}
	return true
}
