// Package slots tracks which fields a task still needs and resolves user
// text into station and date values.
package slots

import (
	"strings"
)

// Task is the job a conversation is collecting fields for.
type Task string

const (
	Chat  Task = "chat"
	Book  Task = "book"
	Delay Task = "delay"
)

// Code is the short name of a required field.
type Code string

const (
	DepartureStation Code = "dl"
	DepartureDate    Code = "dt"
	ArrivalStation   Code = "al"
	ReturnDate       Code = "rt"
	Returning        Code = "rs"
	Adults           Code = "na"
	Children         Code = "nc"
	DepartureDelay   Code = "dd"
)

var keys = map[Code]string{
	DepartureStation: "depart",
	DepartureDate:    "departure_date",
	ArrivalStation:   "arrive",
	ReturnDate:       "return_date",
	Returning:        "returning",
	Adults:           "no_adults",
	Children:         "no_children",
	DepartureDelay:   "departure_delay",
}

// Key returns the knowledge key that fills c.
func (c Code) Key() string { return keys[c] }

var templates = map[Task][]Code{
	Book:  {DepartureStation, DepartureDate, ArrivalStation, ReturnDate, Returning, Adults, Children},
	Delay: {DepartureStation, ArrivalStation, DepartureDate, DepartureDelay},
}

// Template returns the fields task requires, in canonical order.
func Template(t Task) []Code {
	return append([]Code(nil), templates[t]...)
}

// Progress is the set of codes still outstanding. The zero value is empty.
type Progress struct {
	order []Code
}

// NewProgress creates a set holding codes.
func NewProgress(codes ...Code) *Progress {
	p := &Progress{}
	for _, c := range codes {
		p.Add(c)
	}
	return p
}

// ForTask returns the full template for t.
func ForTask(t Task) *Progress { return NewProgress(templates[t]...) }

// Values is the read side of the knowledge store.
type Values interface {
	Get(key string) (any, bool)
}

// Derive rebuilds the outstanding set for t from the values already known.
// A single journey needs no return date.
func Derive(t Task, known Values) *Progress {
	p := &Progress{}
	single := false
	if v, ok := known.Get(Returning.Key()); ok {
		if b, isBool := v.(bool); isBool && !b {
			single = true
		}
	}
	for _, c := range templates[t] {
		if _, ok := known.Get(c.Key()); ok {
			continue
		}
		if c == ReturnDate && single && t == Book {
			continue
		}
		p.order = append(p.order, c)
	}
	return p
}

// Has reports whether c is outstanding.
func (p *Progress) Has(c Code) bool {
	for _, o := range p.order {
		if o == c {
			return true
		}
	}
	return false
}

// Add marks c as outstanding.
func (p *Progress) Add(c Code) {
	if !p.Has(c) {
		p.order = append(p.order, c)
	}
}

// Remove marks c as filled.
func (p *Progress) Remove(c Code) {
	for i, o := range p.order {
		if o == c {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

// Empty reports whether every field is filled.
func (p *Progress) Empty() bool { return len(p.order) == 0 }

// Len returns the number of outstanding fields.
func (p *Progress) Len() int { return len(p.order) }

// Codes returns the outstanding codes in insertion order.
func (p *Progress) Codes() []Code { return append([]Code(nil), p.order...) }

func (p *Progress) String() string {
	parts := make([]string, len(p.order))
	for i, c := range p.order {
		parts[i] = string(c)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
