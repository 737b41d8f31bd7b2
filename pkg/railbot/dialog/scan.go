package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/facts"
	"github.com/cognicore/railbot/pkg/railbot/inference"
	"github.com/cognicore/railbot/pkg/railbot/ingest"
	"github.com/cognicore/railbot/pkg/railbot/slots"
	"github.com/cognicore/railbot/pkg/railbot/tags"
)

// scan collects the slot values found in one utterance. Confirmation tags
// accumulate in tags; askable turns false once a corrective prompt has
// been queued, so no generic question follows it.
type scan struct {
	s       *Session
	env     inference.Env
	tags    strings.Builder
	askable bool
}

func (s *Session) newScan(env inference.Env) *scan {
	return &scan{s: s, env: env, askable: true}
}

// set writes value under key, replacing any fact that already holds key.
func (sc *scan) set(key string, value any) error {
	if f, ok := sc.env.Memory().Lookup(key); ok {
		return sc.env.Modify(f.ID, map[string]any{key: value})
	}
	sc.env.Assert(facts.Of(key, value))
	return nil
}

func (sc *scan) value(key string) (any, bool) { return sc.env.Memory().Value(key) }

func (sc *scan) fill(c slots.Code) { sc.s.turn.progress.Remove(c) }

func endpointSlot(e slots.Endpoint) (tags.Slot, string, string) {
	if e == slots.Departure {
		return tags.Departure, KeyDepart, "departure"
	}
	return tags.Arrival, KeyArrive, "arrival"
}

// station looks for a station mention for endpoint. Booking stores the
// station code, the delay task stores its name.
func (sc *scan) station(e slots.Endpoint, byName bool) error {
	if err := e.Validate(); err != nil {
		return err
	}
	slot, key, noun := endpointSlot(e)
	_, opposite, _ := endpointSlot(e.Opposite())

	var search string
	if span, ok := ingest.MatchAny(sc.s.turn.doc, endpointPatterns[e]); ok {
		search = span.From(1).Text()
	} else if tags.HasChoice(sc.s.turn.text, slot) {
		search = strings.TrimSpace(tags.StripChoice(sc.s.turn.text, slot))
	}
	if search == "" {
		return nil
	}

	out, err := sc.s.opts.Stations.Resolve(sc.env.Context(), search)
	if err != nil {
		sc.s.log.Warn("station lookup failed", zap.String("search", search), zap.Error(err))
		out = slots.StationOutcome{Kind: slots.NotFound}
	}

	switch out.Kind {
	case slots.Resolved:
		value := out.Station.Code
		if byName {
			value = out.Station.Name
		}
		if other, ok := sc.value(opposite); ok && other == value {
			sc.askable = false
			return sc.s.say(fmt.Sprintf(sameStation, tags.Request(slot), noun), chain.Standard, true, nil)
		}
		sc.tags.WriteString(tags.Confirm(slot, out.Station.Name))
		if e == slots.Departure {
			sc.fill(slots.DepartureStation)
		} else {
			sc.fill(slots.ArrivalStation)
		}
		return sc.set(key, value)

	case slots.Ambiguous:
		sc.askable = false
		suggestions := make([]string, len(out.Alternatives))
		for i, alt := range out.Alternatives {
			suggestions[i] = tags.Choice(slot, alt.Name)
		}
		return sc.s.say(fmt.Sprintf(foundManyText, noun, search), chain.Standard, true, suggestions)

	default:
		sc.askable = false
		return sc.s.say(fmt.Sprintf(foundNoneText, noun, search), chain.Standard, true, nil)
	}
}

func (sc *scan) matches(p ingest.Pattern) bool {
	_, ok := ingest.Match(sc.s.turn.doc, p)
	return ok
}

// returning recognises return or single, including yes/no answers to the
// return question.
func (sc *scan) returning() error {
	var ret, sgl bool
	if tags.HasChoice(sc.s.turn.text, tags.Return) {
		ret = sc.matches(yesPattern) || sc.matches(returnPattern)
		sgl = sc.matches(noPattern) || sc.matches(singlePattern)
	} else {
		ret = sc.matches(returnPattern)
		sgl = sc.matches(singlePattern)
	}

	switch {
	case ret && !sgl:
		sc.tags.WriteString(tags.Confirm(tags.Return, "RETURN"))
		sc.fill(slots.Returning)
		return sc.set(KeyReturning, true)
	case sgl && !ret:
		sc.tags.WriteString(tags.Confirm(tags.Return, "SINGLE") + tags.Confirm(tags.ReturnTime, "N/A"))
		sc.fill(slots.Returning)
		sc.fill(slots.ReturnDate)
		return sc.set(KeyReturning, false)
	case ret && sgl:
		sc.askable = false
		return sc.s.say(tags.Request(tags.Return)+returnUnclear, chain.High, true, yesNo)
	}
	return nil
}

func (sc *scan) journey() slots.Journey {
	var j slots.Journey
	if v, ok := sc.value(KeyDepartureDate); ok {
		j.Departure, j.HasDeparture = v.(time.Time)
	}
	if v, ok := sc.value(KeyReturnDate); ok {
		j.Return, j.HasReturn = v.(time.Time)
	}
	return j
}

// datePhrase drops the introducing verb and a preposition right after it.
func datePhrase(span ingest.Span) string {
	rest := span.From(1)
	if rest.Len() > 0 && rest.Token(0).POS == ingest.ADP {
		rest = rest.From(1)
	}
	return rest.Text()
}

const stampLayout = "02 Jan 06 @ 15_04"

func (sc *scan) date(field slots.DateField) error {
	if err := field.Validate(); err != nil {
		return err
	}
	span, ok := ingest.MatchAny(sc.s.turn.doc, dateFieldPatterns[field])
	if !ok {
		return nil
	}
	out, err := sc.s.opts.Dates.Resolve(datePhrase(span), field, sc.journey())
	if err != nil {
		return err
	}

	if out.Kind == slots.Resolved {
		t := out.Time
		switch field {
		case slots.DepartField:
			sc.tags.WriteString(tags.Confirm(tags.DepartureTime, t.Format(stampLayout)))
			sc.fill(slots.DepartureDate)
			return sc.set(KeyDepartureDate, t)
		case slots.ReturnField:
			sc.tags.WriteString(tags.Confirm(tags.ReturnTime, t.Format(stampLayout)))
			sc.fill(slots.ReturnDate)
			return sc.set(KeyReturnDate, t)
		default:
			sc.tags.WriteString(tags.Confirm(tags.DelayTime, t.Format("15_04")))
			sc.fill(slots.DepartureDate)
			return sc.set(KeyDepartureDate, t.Format("15:04"))
		}
	}

	request, verb, what := tags.Request(tags.DepartureDate), "departing", "date and time"
	if field == slots.ReturnField {
		request, verb = tags.Request(tags.ReturnDate), "returning"
	}
	if field == slots.DelayField {
		what = "time"
	}
	msg := dateUnclear
	switch out.Kind {
	case slots.OrderViolation:
		msg = dateOrder
	case slots.InPast:
		msg = datePast
	}
	sc.askable = false
	return sc.s.say(fmt.Sprintf(msg, request, what, verb), chain.Standard, true, nil)
}

// count reads a number for slot, either as the answer to a {TAG:slot}
// prompt or from a phrase such as "2 adults".
func (sc *scan) count(slot tags.Slot, phrase ingest.Pattern) (int, bool) {
	var span ingest.Span
	var ok bool
	if tags.HasChoice(sc.s.turn.text, slot) {
		span, ok = ingest.Match(sc.s.turn.doc, numberPattern)
	} else {
		span, ok = ingest.Match(sc.s.turn.doc, phrase)
	}
	if !ok {
		return 0, false
	}
	return ingest.NumberValue(sc.s.opts.Lexicon, span.Token(0))
}

func (sc *scan) passengers() error {
	if n, ok := sc.count(tags.Adults, adultsPattern); ok {
		sc.tags.WriteString(tags.Confirm(tags.Adults, strconv.Itoa(n)))
		sc.fill(slots.Adults)
		if err := sc.set(KeyAdults, n); err != nil {
			return err
		}
	}
	if n, ok := sc.count(tags.Children, childrenPattern); ok {
		sc.tags.WriteString(tags.Confirm(tags.Children, strconv.Itoa(n)))
		sc.fill(slots.Children)
		if err := sc.set(KeyChildren, n); err != nil {
			return err
		}
	}
	return nil
}

func (sc *scan) delayMinutes() error {
	n, ok := sc.count(tags.Delay, minutesPattern)
	if !ok {
		return nil
	}
	sc.tags.WriteString(tags.Confirm(tags.Delay, strconv.Itoa(n)))
	sc.fill(slots.DepartureDelay)
	return sc.set(KeyDepartureDelay, n)
}

// finish queues the confirmation tags.
func (sc *scan) finish() error {
	if sc.tags.Len() == 0 {
		return nil
	}
	return sc.s.say(sc.tags.String(), chain.Tag, false, nil)
}
