// Package chain composes the outbound messages of a dialogue session.
package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPriority is returned by Enqueue for a priority outside the enum.
// It is a caller bug and aborts the turn.
var ErrUnknownPriority = errors.New("unknown message priority")

// Priority decides where an enqueued message lands.
type Priority int

const (
	// High inserts at the front of the chain.
	High Priority = iota + 1
	// Standard appends at the back.
	Standard
	// Tag buffers the text as a prefix for the next envelope handed out.
	Tag
)

// Valid reports whether p is one of the declared priorities.
func (p Priority) Valid() bool { return p >= High && p <= Tag }

func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Standard:
		return "standard"
	case Tag:
		return "tag"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// Envelope is one message delivered to the caller.
type Envelope struct {
	Text             string   `json:"message"`
	Suggestions      []string `json:"suggestions"`
	ResponseRequired bool     `json:"response_req"`
}

const (
	apologyText = "I'm sorry. I couldn't help with that. Please try again"
	reloadText  = "Sorry! Something has gone wrong. Please reload the page"

	found     = "I found"
	alsoFound = "I also found"
)

// Apology is the generic fallback placed at turn start.
func Apology() Envelope {
	return Envelope{Text: apologyText, Suggestions: []string{}, ResponseRequired: true}
}

// Reload is handed out when the chain is popped while empty.
func Reload() Envelope {
	return Envelope{Text: reloadText, Suggestions: []string{"Reload Page"}, ResponseRequired: true}
}

func isApology(e Envelope) bool { return e.Text == apologyText && len(e.Suggestions) == 0 }

// Chain is an ordered queue of envelopes plus a pending tag prefix.
// A Chain belongs to one session and is not safe for concurrent use.
type Chain struct {
	items  []Envelope
	prefix string
}

// New creates an empty chain.
func New() *Chain { return &Chain{} }

// Enqueue adds a message. suggestions may be nil.
func (c *Chain) Enqueue(text string, p Priority, responseRequired bool, suggestions []string) error {
	if !p.Valid() {
		return fmt.Errorf("enqueue %q: %w: %s", text, ErrUnknownPriority, p)
	}
	if p == Tag {
		c.prefix += text
		return nil
	}

	if len(c.items) == 1 && isApology(c.items[0]) {
		c.items = c.items[:0]
	}
	if strings.HasPrefix(text, found) && c.contains(found) {
		text = alsoFound + strings.TrimPrefix(text, found)
	}

	if suggestions == nil {
		suggestions = []string{}
	}
	env := Envelope{Text: text, Suggestions: append([]string(nil), suggestions...), ResponseRequired: responseRequired}
	if p == High {
		c.items = append([]Envelope{env}, c.items...)
	} else {
		c.items = append(c.items, env)
	}
	return nil
}

func (c *Chain) contains(sub string) bool {
	for _, e := range c.items {
		if strings.Contains(e.Text, sub) {
			return true
		}
	}
	return false
}

// SeedFallback places the apology envelope if the chain is empty.
func (c *Chain) SeedFallback() {
	if len(c.items) == 0 {
		c.items = append(c.items, Apology())
	}
}

// Pop removes and returns the oldest envelope, prefixed with any pending
// tag text. An empty chain yields the Reload envelope.
func (c *Chain) Pop() Envelope {
	if len(c.items) == 0 {
		return Reload()
	}
	env := c.items[0]
	c.items = c.items[1:]
	if c.prefix != "" {
		env.Text = c.prefix + env.Text
		c.prefix = ""
	}
	return env
}

// Len returns the number of queued envelopes.
func (c *Chain) Len() int { return len(c.items) }

// Pending returns the buffered tag prefix.
func (c *Chain) Pending() string { return c.prefix }

// Items returns a copy of the queued envelopes without the tag prefix.
func (c *Chain) Items() []Envelope {
	out := make([]Envelope, len(c.items))
	copy(out, c.items)
	return out
}

// Clear drops every envelope and the pending prefix.
func (c *Chain) Clear() {
	c.items = nil
	c.prefix = ""
}

// Snapshot is a saved chain state.
type Snapshot struct {
	items  []Envelope
	prefix string
}

// Snapshot captures the chain so a failed turn can be undone.
func (c *Chain) Snapshot() Snapshot {
	return Snapshot{items: c.Items(), prefix: c.prefix}
}

// Restore rolls the chain back to snap.
func (c *Chain) Restore(snap Snapshot) {
	c.items = append([]Envelope(nil), snap.items...)
	c.prefix = snap.prefix
}
