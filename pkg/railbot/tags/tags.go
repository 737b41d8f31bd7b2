// Package tags encodes and decodes the bracketed control tokens exchanged
// with the chat frontend.
//
// Outbound text may carry {REQ:SLOT}, {SLOT:value}, {COMP:True},
// {BOOK:url} and {RELOAD}. Suggestions carry {TAG:SLOT} so the answer a user
// picks comes back naming the slot it fills.
package tags

import (
	"regexp"
	"strings"
)

// Slot names a field in the control-tag vocabulary.
type Slot string

const (
	Departure     Slot = "DEP"
	Arrival       Slot = "ARR"
	DepartureDate Slot = "DDT"
	Return        Slot = "RET"
	ReturnDate    Slot = "RTD"
	Adults        Slot = "ADT"
	Children      Slot = "CHD"
	Delay         Slot = "DDL"

	// Confirmation-only slots.
	DepartureTime Slot = "DTM"
	ReturnTime    Slot = "RTM"
	DelayTime     Slot = "DLY"
	Complete      Slot = "COMP"
	Book          Slot = "BOOK"
	Reload        Slot = "RELOAD"

	// Choice-only slots used by the request prefixes.
	DepartAt Slot = "DAT"
	ReturnAt Slot = "RAT"
)

// ReloadToken is the bare reload control sequence.
const ReloadToken = "{RELOAD}"

// Request marks a message as asking for slot.
func Request(s Slot) string { return "{REQ:" + string(s) + "}" }

// Confirm reports that slot now holds value.
func Confirm(s Slot, value string) string { return "{" + string(s) + ":" + value + "}" }

// Choice prefixes a suggestion so the echoed answer names its slot.
func Choice(s Slot, text string) string { return "{TAG:" + string(s) + "}" + text }

// Completed is the task-complete marker.
func Completed() string { return "{COMP:True}" }

// BookLink wraps a booking url.
func BookLink(url string) string { return "{BOOK:" + url + "}" }

func choiceToken(s Slot) string { return "{TAG:" + string(s) + "}" }

// HasChoice reports whether text carries the {TAG:slot} token.
func HasChoice(text string, s Slot) bool { return strings.Contains(text, choiceToken(s)) }

// StripChoice removes every {TAG:slot} token from text.
func StripChoice(text string, s Slot) string {
	return strings.ReplaceAll(text, choiceToken(s), "")
}

var expansions = []struct{ token, text string }{
	{"{FROM}", "departing from"},
	{"{TO}", "arriving to"},
	{"{TAG:DAT}", "departing at"},
	{"{TAG:RAT}", "returning at"},
}

// literal reports whether text has more than two braces, in which case it
// is a control sequence and must be left as is.
func literal(text string) bool {
	return strings.Count(text, "{")+strings.Count(text, "}") > 2
}

// Normalize prepares inbound text for the reasoner: surrounding space is
// trimmed and the client request prefixes are expanded into words.
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	if literal(text) {
		return text
	}
	for _, e := range expansions {
		text = strings.ReplaceAll(text, e.token, e.text)
	}
	return text
}

var choicePattern = regexp.MustCompile(`\{TAG:[A-Z]+\}`)

// ForAnnotation strips {TAG:X} tokens so the rest reads as natural language.
func ForAnnotation(text string) string {
	if literal(text) {
		return text
	}
	return strings.TrimSpace(choicePattern.ReplaceAllString(text, ""))
}

// Control is one decoded control token.
type Control struct {
	// Kind is REQ, TAG, a slot name, or RELOAD.
	Kind  string
	Value string
}

var controlPattern = regexp.MustCompile(`\{([A-Z]+)(?::([^{}]*))?\}`)

// Parse splits text into its control tokens and the remaining plain text.
func Parse(text string) ([]Control, string) {
	var out []Control
	for _, m := range controlPattern.FindAllStringSubmatch(text, -1) {
		out = append(out, Control{Kind: m[1], Value: m[2]})
	}
	return out, controlPattern.ReplaceAllString(text, "")
}

// Requested returns the slot a message asks for, if any.
func Requested(text string) (Slot, bool) {
	controls, _ := Parse(text)
	for _, c := range controls {
		if c.Kind == "REQ" {
			return Slot(c.Value), true
		}
	}
	return "", false
}

var requestPrefixes = map[Slot]string{
	Departure:     "{FROM}",
	Arrival:       "{TO}",
	DepartureDate: choiceToken(DepartAt),
	Return:        choiceToken(Return),
	ReturnDate:    choiceToken(ReturnAt),
	Adults:        choiceToken(Adults),
	Children:      choiceToken(Children),
	Delay:         choiceToken(Delay),
}

// RequestPrefix is the token a client puts in front of the user's reply to
// a {REQ:slot} message.
func RequestPrefix(s Slot) (string, bool) {
	p, ok := requestPrefixes[s]
	return p, ok
}
