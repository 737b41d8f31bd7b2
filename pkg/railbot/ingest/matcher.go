package ingest

import "strings"

// Op is a token quantifier.
type Op string

const (
	One        Op = ""
	Optional   Op = "?"
	ZeroOrMore Op = "*"
	OneOrMore  Op = "+"
)

// Set is a set of lowercase words.
type Set map[string]struct{}

// In builds a Set.
func In(words ...string) Set {
	s := make(Set, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

func (s Set) has(w string) bool {
	_, ok := s[w]
	return ok
}

// Spec tests one token. Zero-valued fields are unconstrained; every set
// field must hold for the token to match.
type Spec struct {
	Lemma   Set
	Lower   Set
	POS     string
	Dep     string
	Ent     string
	Shape   string
	LikeNum bool
	Op      Op
}

// Test reports whether t satisfies every constraint of s.
func (s Spec) Test(t Token) bool {
	switch {
	case s.Lemma != nil && !s.Lemma.has(t.Lemma):
		return false
	case s.Lower != nil && !s.Lower.has(t.Lower):
		return false
	case s.POS != "" && s.POS != t.POS:
		return false
	case s.Dep != "" && s.Dep != t.Dep:
		return false
	case s.Ent != "" && s.Ent != t.Ent:
		return false
	case s.Shape != "" && s.Shape != t.Shape:
		return false
	case s.LikeNum && !t.LikeNum:
		return false
	}
	return true
}

// Pattern is a sequence of token specs.
type Pattern []Spec

// Match returns the first span matching p: the earliest start, and at that
// start the longest match. Empty matches are ignored.
func Match(doc *Doc, p Pattern) (Span, bool) {
	if doc == nil || len(p) == 0 {
		return Span{}, false
	}
	for start := 0; start < len(doc.Tokens); start++ {
		if end := longest(doc.Tokens, p, 0, start); end > start {
			return Span{Doc: doc, Start: start, End: end}, true
		}
	}
	return Span{}, false
}

// MatchAny returns the match of the first pattern in ps that matches.
func MatchAny(doc *Doc, ps []Pattern) (Span, bool) {
	for _, p := range ps {
		if s, ok := Match(doc, p); ok {
			return s, true
		}
	}
	return Span{}, false
}

// longest returns the furthest token index at which p[pi:] can finish when
// started at ti, or -1.
func longest(toks []Token, p Pattern, pi, ti int) int {
	if pi == len(p) {
		return ti
	}
	s := p[pi]
	fits := ti < len(toks) && s.Test(toks[ti])
	best := -1
	switch s.Op {
	case One:
		if fits {
			best = longest(toks, p, pi+1, ti+1)
		}
	case Optional:
		best = longest(toks, p, pi+1, ti)
		if fits {
			best = max(best, longest(toks, p, pi+1, ti+1))
		}
	case ZeroOrMore:
		best = longest(toks, p, pi+1, ti)
		if fits {
			best = max(best, longest(toks, p, pi, ti+1))
		}
	case OneOrMore:
		if fits {
			best = max(longest(toks, p, pi+1, ti+1), longest(toks, p, pi, ti+1))
		}
	}
	return best
}
