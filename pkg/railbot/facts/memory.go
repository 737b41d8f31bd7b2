package facts

import (
	"fmt"
)

// Sink receives durable slot writes made through Memory.
type Sink interface {
	Put(key string, value any)
	Delete(key string)
}

// Match is one query result: the matched fact (zero for a negated pattern)
// and the bindings it produced.
type Match struct {
	Fact     Fact
	Bindings Bindings
}

// Memory is the working memory of one session. Facts are kept in assertion
// order. Writes of non-transient keys are mirrored into the Sink.
type Memory struct {
	facts     []Fact
	index     map[int]int
	nextID    int
	tick      int
	sink      Sink
	transient map[string]struct{}
}

// NewMemory creates an empty working memory. Keys listed in transient are
// never written to sink.
func NewMemory(sink Sink, transient ...string) *Memory {
	t := make(map[string]struct{}, len(transient))
	for _, k := range transient {
		t[k] = struct{}{}
	}
	return &Memory{
		index:     make(map[int]int),
		sink:      sink,
		transient: t,
	}
}

// Transient reports whether key is kept out of the sink.
func (m *Memory) Transient(key string) bool {
	_, ok := m.transient[key]
	return ok
}

// Reset removes every fact. Ids keep increasing across resets.
func (m *Memory) Reset() {
	m.facts = nil
	m.index = make(map[int]int)
}

// Assert adds f and returns its id. Asserting a fact identical to one
// already held returns the existing id and false.
func (m *Memory) Assert(f Fact) (int, bool) {
	for _, held := range m.facts {
		if held.Same(f) {
			return held.ID, false
		}
	}
	m.nextID++
	m.tick++
	f = With(f.values)
	f.ID = m.nextID
	f.Tag = m.tick
	m.index[f.ID] = len(m.facts)
	m.facts = append(m.facts, f)
	m.mirror(f)
	return f.ID, true
}

// Retract removes the fact with the given id. The sink loses the fact's keys.
func (m *Memory) Retract(id int) error {
	pos, ok := m.index[id]
	if !ok {
		return fmt.Errorf("retract f-%d: %w", id, ErrUnknownFact)
	}
	f := m.facts[pos]
	m.facts = append(m.facts[:pos], m.facts[pos+1:]...)
	delete(m.index, id)
	for i := pos; i < len(m.facts); i++ {
		m.index[m.facts[i].ID] = i
	}
	if m.sink != nil {
		for k := range f.values {
			if !m.Transient(k) {
				m.sink.Delete(k)
			}
		}
	}
	return nil
}

// Modify replaces the values of fact id with the merge of its values and
// partial. The id is preserved and the fact gets a new tag.
func (m *Memory) Modify(id int, partial map[string]any) (int, error) {
	pos, ok := m.index[id]
	if !ok {
		return 0, fmt.Errorf("modify f-%d: %w", id, ErrUnknownFact)
	}
	merged := m.facts[pos].Values()
	for k, v := range partial {
		merged[k] = v
	}
	m.tick++
	f := With(merged)
	f.ID = id
	f.Tag = m.tick
	m.facts[pos] = f
	m.mirror(f)
	return id, nil
}

func (m *Memory) mirror(f Fact) {
	if m.sink == nil {
		return
	}
	for k, v := range f.values {
		if !m.Transient(k) {
			m.sink.Put(k, v)
		}
	}
}

// Get returns the fact with the given id.
func (m *Memory) Get(id int) (Fact, bool) {
	pos, ok := m.index[id]
	if !ok {
		return Fact{}, false
	}
	return m.facts[pos], true
}

// Facts returns all facts in assertion order.
func (m *Memory) Facts() []Fact {
	out := make([]Fact, len(m.facts))
	copy(out, m.facts)
	return out
}

// Len returns the number of facts held.
func (m *Memory) Len() int { return len(m.facts) }

// Query returns every fact matching p given the starting bindings. A negated
// pattern yields a single match with the unchanged bindings when no fact
// matches, and nothing otherwise.
func (m *Memory) Query(p Pattern, b Bindings) []Match {
	if b == nil {
		b = Bindings{}
	}
	var out []Match
	for _, f := range m.facts {
		if nb, ok := p.Match(f, b); ok {
			if p.negated {
				return nil
			}
			out = append(out, Match{Fact: f, Bindings: nb})
		}
	}
	if p.negated {
		return []Match{{Bindings: b}}
	}
	return out
}

// Lookup returns the earliest asserted fact holding key.
func (m *Memory) Lookup(key string) (Fact, bool) {
	for _, f := range m.facts {
		if _, ok := f.values[key]; ok {
			return f, true
		}
	}
	return Fact{}, false
}

// Value returns the value of key in the first fact holding it.
func (m *Memory) Value(key string) (any, bool) {
	f, ok := m.Lookup(key)
	if !ok {
		return nil, false
	}
	return f.values[key], true
}
