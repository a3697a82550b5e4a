// Package tokens implements the fuzzy matching primitive used to compare
// free-text job levels with known synonyms.
package tokens

import "strings"

var separators = strings.NewReplacer("-", " ", "_", " ")

// Set is an unordered collection of normalized tokens.
type Set map[string]struct{}

// Has reports whether the token is present.
func (s Set) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// Slice returns the tokens in no particular order.
func (s Set) Slice() []string {
	out := make([]string, 0, len(s))
	for token := range s {
		out = append(out, token)
	}
	return out
}

// Normalize lowercases the term and turns hyphens and underscores into spaces.
func Normalize(term string) string {
	return separators.Replace(strings.ToLower(term))
}

// Tokenize breaks a term into the whole normalized term, its words and every
// adjacent word pair. An empty term yields a set holding only "".
func Tokenize(term string) Set {
	normalized := Normalize(term)
	words := strings.Fields(normalized)

	set := make(Set, 1+2*len(words))
	set[normalized] = struct{}{}
	for _, word := range words {
		set[word] = struct{}{}
	}
	for i := 0; i+1 < len(words); i++ {
		set[words[i]+" "+words[i+1]] = struct{}{}
	}

	return set
}

// Overlap reports whether the token sets of a and b share at least one token.
// Only exact token or bigram equality counts; there is no stemming.
func Overlap(a, b string) bool {
	left, right := Tokenize(a), Tokenize(b)
	if len(left) > len(right) {
		left, right = right, left
	}
	for token := range left {
		if right.Has(token) {
			return true
		}
	}
	return false
}
