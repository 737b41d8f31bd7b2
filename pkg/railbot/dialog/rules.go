package dialog

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/estimate"
	"github.com/cognicore/railbot/pkg/railbot/facts"
	"github.com/cognicore/railbot/pkg/railbot/fares"
	"github.com/cognicore/railbot/pkg/railbot/inference"
	"github.com/cognicore/railbot/pkg/railbot/ingest"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
	"github.com/cognicore/railbot/pkg/railbot/slots"
	"github.com/cognicore/railbot/pkg/railbot/tags"
)

const (
	actionChat  = string(slots.Chat)
	actionBook  = string(slots.Book)
	actionDelay = string(slots.Delay)
)

func is(key string, v any) facts.Pattern { return facts.P(key, facts.Eq(v)) }

func has(key string) facts.Pattern { return facts.P(key, facts.Present()) }

// ask describes one question put to the user for a missing slot.
type ask struct {
	name     string
	salience int
	action   string
	key      string
	slot     tags.Slot
	text     string
	extra    []inference.Condition
	choices  []string
}

func (s *Session) askRule(a ask) inference.Rule {
	conds := []inference.Condition{
		inference.Match(is(KeyAction, a.action)),
		inference.Match(is(KeyExtraInfoReq, true)),
		inference.Absent(has(KeyExtraInfoRequested)),
		inference.Absent(has(a.key)),
	}
	conds = append(conds, a.extra...)
	return inference.Rule{
		Name:       a.name,
		Salience:   a.salience,
		Conditions: conds,
		Action: func(env inference.Env) error {
			env.Assert(facts.Of(KeyExtraInfoRequested, true))
			return s.say(tags.Request(a.slot)+a.text, chain.Standard, true, a.choices)
		},
	}
}

func (s *Session) dispatchRule(name string, task slots.Task, intro string, accept func(*ingest.Doc) bool) inference.Rule {
	return inference.Rule{
		Name:     name,
		Salience: 100,
		Conditions: []inference.Condition{
			inference.As("action", is(KeyAction, actionChat)),
			inference.Match(has(KeyMessage)),
			inference.Test(func(facts.Bindings) bool { return accept(s.turn.doc) }),
		},
		Action: func(env inference.Env) error {
			if err := s.say(intro, chain.Standard, false, nil); err != nil {
				return err
			}
			s.turn.progress = slots.ForTask(task)
			return env.Modify(env.Fact("action"), map[string]any{KeyAction: string(task)})
		},
	}
}

func (s *Session) scanRule(name, action string, read func(*scan) error, done func(inference.Env) error) inference.Rule {
	return inference.Rule{
		Name:     name,
		Salience: 99,
		Conditions: []inference.Condition{
			inference.Match(is(KeyAction, action)),
			inference.Match(has(KeyMessage)),
			inference.As("complete", is(KeyComplete, false)),
			inference.As("extra", is(KeyExtraInfoReq, false)),
			inference.Absent(has(KeyScanned)),
		},
		Action: func(env inference.Env) error {
			env.Assert(facts.Of(KeyScanned, true))
			sc := s.newScan(env)
			if err := read(sc); err != nil {
				return err
			}
			if err := sc.finish(); err != nil {
				return err
			}
			if !s.turn.progress.Empty() {
				if !sc.askable {
					return nil
				}
				return env.Modify(env.Fact("extra"), map[string]any{KeyExtraInfoReq: true})
			}
			if err := env.Modify(env.Fact("complete"), map[string]any{KeyComplete: true}); err != nil {
				return err
			}
			if done != nil {
				return done(env)
			}
			return nil
		},
	}
}

func bookScan(sc *scan) error {
	steps := []func() error{
		func() error { return sc.station(slots.Departure, false) },
		func() error { return sc.station(slots.Arrival, false) },
		sc.returning,
		func() error { return sc.date(slots.DepartField) },
		func() error { return sc.date(slots.ReturnField) },
		sc.passengers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func delayScan(sc *scan) error {
	steps := []func() error{
		func() error { return sc.station(slots.Departure, true) },
		func() error { return sc.station(slots.Arrival, true) },
		func() error { return sc.date(slots.DelayField) },
		sc.delayMinutes,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// rules builds the production rules of one session.
func (s *Session) rules() []inference.Rule {
	rs := []inference.Rule{
		s.dispatchRule("dispatch_book", slots.Book, bookIntro, func(d *ingest.Doc) bool {
			_, ok := ingest.Match(d, bookPattern)
			return ok
		}),
		s.dispatchRule("dispatch_delay", slots.Delay, delayIntro, func(d *ingest.Doc) bool {
			if _, ok := ingest.Match(d, bookPattern); ok {
				return false
			}
			_, ok := ingest.Match(d, delayPattern)
			return ok
		}),
		s.scanRule("book_scan", actionBook, bookScan, nil),
		s.scanRule("delay_scan", actionDelay, delayScan, func(inference.Env) error {
			return s.say(predictIntro, chain.Standard, false, nil)
		}),
	}

	asks := []ask{
		{name: "ask_depart", salience: 98, action: actionBook, key: KeyDepart, slot: tags.Departure, text: askDepart},
		{name: "ask_departure_date", salience: 97, action: actionBook, key: KeyDepartureDate, slot: tags.DepartureDate, text: askDepartDate},
		{name: "ask_arrive", salience: 96, action: actionBook, key: KeyArrive, slot: tags.Arrival, text: askArrive},
		{name: "ask_returning", salience: 95, action: actionBook, key: KeyReturning, slot: tags.Return, text: askReturning, choices: thumbs},
		{
			name: "ask_return_date", salience: 94, action: actionBook, key: KeyReturnDate, slot: tags.ReturnDate, text: askReturnDate,
			extra: []inference.Condition{inference.Match(is(KeyReturning, true))},
		},
		{name: "ask_adults", salience: 92, action: actionBook, key: KeyAdults, slot: tags.Adults, text: askAdults, choices: countChoices(tags.Adults)},
		{name: "ask_children", salience: 91, action: actionBook, key: KeyChildren, slot: tags.Children, text: askChildren, choices: countChoices(tags.Children)},

		{name: "ask_delay_depart", salience: 98, action: actionDelay, key: KeyDepart, slot: tags.Departure, text: askDelayDepart},
		{name: "ask_delay_arrive", salience: 97, action: actionDelay, key: KeyArrive, slot: tags.Arrival, text: askDelayArrive},
		{name: "ask_delay_time", salience: 96, action: actionDelay, key: KeyDepartureDate, slot: tags.DepartureDate, text: askDelayTime},
		{name: "ask_delay", salience: 95, action: actionDelay, key: KeyDepartureDelay, slot: tags.Delay, text: askDelay},
	}
	for _, a := range asks {
		rs = append(rs, s.askRule(a))
	}

	return append(rs,
		inference.Rule{
			Name:     "validate_passengers",
			Salience: 93,
			Conditions: []inference.Condition{
				inference.Match(is(KeyAction, actionBook)),
				inference.As("adults", is(KeyAdults, 0)),
				inference.As("children", is(KeyChildren, 0)),
				inference.As("complete", is(KeyComplete, true)),
			},
			Action: s.rejectPassengers,
		},
		inference.Rule{
			Name:     "book_ticket",
			Salience: 90,
			Conditions: []inference.Condition{
				inference.Match(is(KeyAction, actionBook)),
				inference.Match(is(KeyFinalMessageSent, true)),
				inference.Absent(has(KeyFinalized)),
			},
			Action: s.bookTicket,
		},
		inference.Rule{
			Name:     "book_summary",
			Salience: 89,
			Conditions: []inference.Condition{
				inference.Match(is(KeyAction, actionBook)),
				inference.Match(is(KeyComplete, true)),
				inference.Absent(has(KeyFinalMessageSent)),
			},
			Action: func(env inference.Env) error {
				if err := s.say(tags.Completed()+summaryText, chain.Standard, true, []string{StartSearch, NotRight}); err != nil {
					return err
				}
				env.Assert(facts.Of(KeyFinalMessageSent, true))
				env.Halt()
				return nil
			},
		},
		inference.Rule{
			Name:     "delay_predict",
			Salience: 94,
			Conditions: []inference.Condition{
				inference.Match(is(KeyAction, actionDelay)),
				inference.Match(is(KeyComplete, true)),
				inference.Absent(has(KeyFinalized)),
			},
			Action: s.predictDelay,
		},
	)
}

func (s *Session) rejectPassengers(env inference.Env) error {
	if err := s.say(zeroPassenger, chain.Standard, false, nil); err != nil {
		return err
	}
	if err := env.Retract(env.Fact("adults")); err != nil {
		return err
	}
	if err := env.Retract(env.Fact("children")); err != nil {
		return err
	}
	s.turn.progress.Add(slots.Adults)
	s.turn.progress.Add(slots.Children)
	if err := env.Modify(env.Fact("complete"), map[string]any{KeyComplete: false}); err != nil {
		return err
	}
	if f, ok := env.Memory().Lookup(KeyExtraInfoReq); ok {
		return env.Modify(f.ID, map[string]any{KeyExtraInfoReq: true})
	}
	env.Assert(facts.Of(KeyExtraInfoReq, true))
	return nil
}

var errIncomplete = errors.New("journey details incomplete")

// journey gathers the booking from working memory.
func (s *Session) journey(env inference.Env) (fares.Journey, error) {
	mem := env.Memory()
	str := func(k string) string {
		v, _ := mem.Value(k)
		x, _ := v.(string)
		return x
	}
	num := func(k string) int {
		v, _ := mem.Value(k)
		x, _ := v.(int)
		return x
	}

	j := fares.Journey{From: str(KeyDepart), To: str(KeyArrive), Adults: num(KeyAdults), Children: num(KeyChildren)}
	if v, ok := mem.Value(KeyDepartureDate); ok {
		j.Departure, _ = v.(time.Time)
	}
	if v, ok := mem.Value(KeyReturning); ok {
		j.Returning, _ = v.(bool)
	}
	if j.Returning {
		v, ok := mem.Value(KeyReturnDate)
		if !ok {
			return j, errIncomplete
		}
		j.Return, _ = v.(time.Time)
	}

	ctx := env.Context()
	for _, p := range []struct {
		code string
		name *string
	}{{j.From, &j.FromName}, {j.To, &j.ToName}} {
		st, ok, err := s.opts.Stations.Directory.LookupExact(ctx, p.code)
		if err != nil {
			return j, err
		}
		if ok {
			*p.name = st.Name
		}
	}
	return j, j.Validate()
}

func (s *Session) bookTicket(env inference.Env) error {
	j, err := s.journey(env)
	var q fares.Quote
	if err == nil {
		q, err = s.opts.Fares.Search(env.Context(), j)
	}
	if err != nil {
		s.log.Warn("fare search failed", zap.Error(fmt.Errorf("%w: %w", internalerr.ErrCollaborator, err)))
		return s.say(noFaresText, chain.High, true, []string{TryAgain, NewChat})
	}

	first := fmt.Sprintf(fareLinkText, j.Kind(), q.FromName, q.ToName)
	if q.Price != "" {
		first = fmt.Sprintf(fareText, j.Kind(), q.FromName, q.ToName, q.Price)
	}
	msgs := []struct {
		text string
		resp bool
		sugg []string
	}{
		{first, false, nil},
		{q.Summary, false, nil},
		{bookingText, true, []string{tags.BookLink(q.URL) + "Book now &raquo;", NewChat}},
		{bookClosing, true, []string{NewChat}},
	}
	for _, m := range msgs {
		if err := s.say(m.text, chain.Standard, m.resp, m.sugg); err != nil {
			return err
		}
	}
	env.Assert(facts.Of(KeyFinalized, true))
	return nil
}

func (s *Session) predictDelay(env inference.Env) error {
	mem := env.Memory()
	q := estimate.Query{}
	if v, ok := mem.Value(KeyDepart); ok {
		q.Depart, _ = v.(string)
	}
	if v, ok := mem.Value(KeyArrive); ok {
		q.Arrive, _ = v.(string)
	}
	if v, ok := mem.Value(KeyDepartureDate); ok {
		q.DepartureTime, _ = v.(string)
	}
	if v, ok := mem.Value(KeyDepartureDelay); ok {
		q.DelayMinutes, _ = v.(int)
	}

	p, err := s.opts.Estimator.Estimate(env.Context(), q)
	if err != nil {
		s.log.Warn("delay estimate failed", zap.Error(fmt.Errorf("%w: %w", internalerr.ErrCollaborator, err)))
		return s.say(predictFailed, chain.Standard, true, []string{TryAgain})
	}
	if err := s.say(p.Sentence(), chain.Standard, false, nil); err != nil {
		return err
	}
	if err := s.say(delayClosing, chain.Standard, true, []string{NewChat}); err != nil {
		return err
	}
	env.Assert(facts.Of(KeyFinalized, true))
	return nil
}
