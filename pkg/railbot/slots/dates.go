package slots

import (
	"fmt"
	"time"

	"github.com/cognicore/railbot/pkg/railbot/dates"
)

// DateField selects which date slot a phrase fills.
type DateField string

const (
	DepartField DateField = "DEP"
	ReturnField DateField = "RET"
	// DelayField is a time of day for the delay task; it may lie in the past.
	DelayField DateField = "DLY"
)

// Validate rejects fields outside the declared set.
func (f DateField) Validate() error {
	switch f {
	case DepartField, ReturnField, DelayField:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownStationType, string(f))
}

// DateOutcome is the result of resolving a date phrase.
type DateOutcome struct {
	Kind Kind
	Time time.Time
}

// Journey carries the dates already known for ordering checks.
type Journey struct {
	Departure    time.Time
	HasDeparture bool
	Return       time.Time
	HasReturn    bool
}

// DateResolver validates date phrases for one of the date slots.
type DateResolver struct {
	Parser dates.Parser
	Order  dates.Order
	Now    func() time.Time
}

// NewDateResolver creates a resolver reading numeric dates day first.
func NewDateResolver(p dates.Parser, now func() time.Time) *DateResolver {
	if now == nil {
		now = time.Now
	}
	return &DateResolver{Parser: p, Order: dates.DMY, Now: now}
}

// Resolve parses text for field. known is consulted only for booking dates.
func (r *DateResolver) Resolve(text string, field DateField, known Journey) (DateOutcome, error) {
	if err := field.Validate(); err != nil {
		return DateOutcome{}, err
	}
	text = dates.NormalizeClock(text)
	if !r.Parser.IsParseable(text) {
		return DateOutcome{Kind: Invalid}, nil
	}
	t, ok := r.Parser.Parse(text, r.Order)
	if !ok {
		return DateOutcome{Kind: Invalid}, nil
	}
	if field == DelayField {
		return DateOutcome{Kind: Resolved, Time: t}, nil
	}
	if !t.After(r.Now()) {
		return DateOutcome{Kind: InPast, Time: t}, nil
	}
	switch {
	case field == ReturnField && known.HasDeparture && !t.After(known.Departure):
		return DateOutcome{Kind: OrderViolation, Time: t}, nil
	case field == DepartField && known.HasReturn && !t.Before(known.Return):
		return DateOutcome{Kind: OrderViolation, Time: t}, nil
	}
	return DateOutcome{Kind: Resolved, Time: t}, nil
}
