// Package knowledge holds the durable, cross-turn slot values of a dialogue
// session. Values are keyed by slot name and follow last-write-wins.
package knowledge

import (
	"reflect"
	"sort"
	"time"
)

// Op is the kind of write recorded in the history.
type Op string

const (
	OpPut    Op = "put"
	OpDelete Op = "delete"
)

// Entry is one write in the store's history.
type Entry struct {
	Seq   int
	Op    Op
	Key   string
	Value any
}

// Store maps slot names to their last written value.
// A Store is owned by one session and is not safe for concurrent use.
type Store struct {
	values  map[string]any
	history []Entry
	seq     int
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// Put writes value under key. Writing the value already held is not
// recorded in the history.
func (s *Store) Put(key string, value any) {
	if old, ok := s.values[key]; ok && Equal(old, value) {
		return
	}
	s.values[key] = value
	s.record(OpPut, key, value)
}

// Delete removes key so it is no longer seeded into working memory.
// The history keeps every earlier write.
func (s *Store) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.record(OpDelete, key, nil)
}

func (s *Store) record(op Op, key string, value any) {
	s.seq++
	s.history = append(s.history, Entry{Seq: s.seq, Op: op, Key: key, Value: value})
}

// Get returns the value held for key.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key holds a value.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// String returns the value of key if it is a string.
func (s *Store) String(key string) (string, bool) {
	v, ok := s.values[key].(string)
	return v, ok
}

// Bool returns the value of key if it is a bool.
func (s *Store) Bool(key string) (bool, bool) {
	v, ok := s.values[key].(bool)
	return v, ok
}

// Int returns the value of key if it is an int.
func (s *Store) Int(key string) (int, bool) {
	v, ok := s.values[key].(int)
	return v, ok
}

// Time returns the value of key if it is a time.Time.
func (s *Store) Time(key string) (time.Time, bool) {
	v, ok := s.values[key].(time.Time)
	return v, ok
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of keys held.
func (s *Store) Len() int { return len(s.values) }

// History returns a copy of every write made to the store.
func (s *Store) History() []Entry {
	out := make([]Entry, len(s.history))
	copy(out, s.history)
	return out
}

// Snapshot is a saved copy of the store contents.
type Snapshot struct {
	values  map[string]any
	history int
	seq     int
}

// Snapshot captures the current contents so a failed turn can be undone.
func (s *Store) Snapshot() Snapshot {
	values := make(map[string]any, len(s.values))
	for k, v := range s.values {
		values[k] = v
	}
	return Snapshot{values: values, history: len(s.history), seq: s.seq}
}

// Restore rolls the store back to snap.
func (s *Store) Restore(snap Snapshot) {
	s.values = make(map[string]any, len(snap.values))
	for k, v := range snap.values {
		s.values[k] = v
	}
	s.history = s.history[:snap.history]
	s.seq = snap.seq
}

// Reset empties the store and its history.
func (s *Store) Reset() {
	s.values = make(map[string]any)
	s.history = nil
	s.seq = 0
}

// Equal compares two slot values. Times compare by instant.
func Equal(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	return reflect.DeepEqual(a, b)
}
