package facts

import (
	"sort"

	"github.com/cognicore/railbot/pkg/railbot/knowledge"
)

// Bindings maps variable names captured by patterns to their values.
type Bindings map[string]any

// Clone returns a copy of b.
func (b Bindings) Clone() Bindings {
	cp := make(Bindings, len(b)+1)
	for k, v := range b {
		cp[k] = v
	}
	return cp
}

type testKind int

const (
	testLiteral testKind = iota
	testBind
	testPresent
)

// Test is the check a pattern applies to one key.
type Test struct {
	kind  testKind
	value any
	name  string
}

// Eq matches when the key holds value.
func Eq(value any) Test { return Test{kind: testLiteral, value: value} }

// Bind captures the key's value under name. If name is already bound the
// values must agree.
func Bind(name string) Test { return Test{kind: testBind, name: name} }

// Present matches when the key holds any value.
func Present() Test { return Test{kind: testPresent} }

type field struct {
	key  string
	test Test
}

// Pattern is a conjunction of per-key tests over a single fact, optionally
// negated. A negated pattern holds when no fact matches it.
type Pattern struct {
	fields  []field
	negated bool
}

// P starts a pattern testing key.
func P(key string, t Test) Pattern {
	return Pattern{fields: []field{{key: key, test: t}}}
}

// And adds another key test to the pattern.
func (p Pattern) And(key string, t Test) Pattern {
	fields := make([]field, len(p.fields), len(p.fields)+1)
	copy(fields, p.fields)
	p.fields = append(fields, field{key: key, test: t})
	return p
}

// Not negates a pattern.
func Not(p Pattern) Pattern {
	p.negated = !p.negated
	return p
}

// Negated reports whether the pattern is an absence test.
func (p Pattern) Negated() bool { return p.negated }

// Keys returns the keys the pattern tests, sorted.
func (p Pattern) Keys() []string {
	keys := make([]string, 0, len(p.fields))
	for _, f := range p.fields {
		keys = append(keys, f.key)
	}
	sort.Strings(keys)
	return keys
}

// Match tests a single fact against the non-negated form of p. It returns
// the bindings extended with any captures.
func (p Pattern) Match(f Fact, b Bindings) (Bindings, bool) {
	out := b
	cloned := false
	for _, fl := range p.fields {
		v, ok := f.values[fl.key]
		if !ok {
			return nil, false
		}
		switch fl.test.kind {
		case testLiteral:
			if !knowledge.Equal(v, fl.test.value) {
				return nil, false
			}
		case testBind:
			if bound, ok := out[fl.test.name]; ok {
				if !knowledge.Equal(bound, v) {
					return nil, false
				}
				continue
			}
			if !cloned {
				out = b.Clone()
				cloned = true
			}
			out[fl.test.name] = v
		case testPresent:
		}
	}
	if out == nil {
		out = Bindings{}
	}
	return out, true
}
