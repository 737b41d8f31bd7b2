// Package facts implements the working memory of the dialogue reasoner:
// an ordered collection of key/value facts rebuilt at the start of every turn.
package facts

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/railbot/pkg/railbot/knowledge"
)

// ErrUnknownFact is returned when an id does not name a fact in memory.
var ErrUnknownFact = errors.New("unknown fact")

// Fact is an immutable key/value set. ID and Tag are assigned by Memory:
// ID survives Modify, Tag changes on every assert or modify.
type Fact struct {
	ID     int
	Tag    int
	values map[string]any
}

// Of builds a single-slot fact.
func Of(key string, value any) Fact {
	return Fact{values: map[string]any{key: value}}
}

// With builds a fact from a map. The map is copied.
func With(values map[string]any) Fact {
	cp := make(map[string]any, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Fact{values: cp}
}

// Get returns the value held under key.
func (f Fact) Get(key string) (any, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Keys returns the fact's keys in sorted order.
func (f Fact) Keys() []string {
	keys := make([]string, 0, len(f.values))
	for k := range f.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of the fact's key/value pairs.
func (f Fact) Values() map[string]any {
	cp := make(map[string]any, len(f.values))
	for k, v := range f.values {
		cp[k] = v
	}
	return cp
}

// Same reports whether f and o hold identical key/value pairs.
func (f Fact) Same(o Fact) bool {
	if len(f.values) != len(o.values) {
		return false
	}
	for k, v := range f.values {
		ov, ok := o.values[k]
		if !ok || !knowledge.Equal(v, ov) {
			return false
		}
	}
	return true
}

func (f Fact) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "f-%d(", f.ID)
	for i, k := range f.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", k, f.values[k])
	}
	b.WriteString(")")
	return b.String()
}
