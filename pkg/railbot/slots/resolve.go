package slots

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/cognicore/railbot/pkg/railbot/stations"
)

// ErrUnknownStationType is returned for an endpoint or date field outside
// the declared set. It is a caller bug.
var ErrUnknownStationType = errors.New("unknown station type")

// Kind is the variant of a resolution outcome.
type Kind int

const (
	Resolved Kind = iota
	Ambiguous
	NotFound
	Invalid
	InPast
	OrderViolation
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	case NotFound:
		return "not-found"
	case Invalid:
		return "invalid"
	case InPast:
		return "in-past"
	case OrderViolation:
		return "order-violation"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Endpoint selects which station a mention refers to.
type Endpoint string

const (
	Departure Endpoint = "DEP"
	Arrival   Endpoint = "ARR"
)

// Validate rejects endpoints outside the declared pair.
func (e Endpoint) Validate() error {
	if e != Departure && e != Arrival {
		return fmt.Errorf("%w: %q", ErrUnknownStationType, string(e))
	}
	return nil
}

// Opposite returns the other endpoint.
func (e Endpoint) Opposite() Endpoint {
	if e == Departure {
		return Arrival
	}
	return Departure
}

// StationOutcome is the result of resolving a station mention.
type StationOutcome struct {
	Kind         Kind
	Station      stations.Station
	Alternatives []stations.Station
}

const (
	// DefaultThreshold is the minimum score a fuzzy candidate needs.
	DefaultThreshold = 60.0
	// DefaultMaxAlternatives caps the candidates offered for disambiguation.
	DefaultMaxAlternatives = 3
)

// StationResolver applies the exact-then-fuzzy station policy.
type StationResolver struct {
	Directory       stations.Directory
	Threshold       float64
	MaxAlternatives int
}

// NewStationResolver creates a resolver with the default policy.
func NewStationResolver(d stations.Directory) *StationResolver {
	return &StationResolver{Directory: d, Threshold: DefaultThreshold, MaxAlternatives: DefaultMaxAlternatives}
}

type scored struct {
	station stations.Station
	score   float64
}

// Resolve maps input to a station. Directory errors are returned as is.
func (r *StationResolver) Resolve(ctx context.Context, input string) (StationOutcome, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return StationOutcome{Kind: NotFound}, nil
	}

	st, ok, err := r.Directory.LookupExact(ctx, input)
	if err != nil {
		return StationOutcome{}, fmt.Errorf("lookup %q: %w", input, err)
	}
	if ok {
		return StationOutcome{Kind: Resolved, Station: st}, nil
	}

	all, err := r.Directory.AllCandidates(ctx)
	if err != nil {
		return StationOutcome{}, fmt.Errorf("list stations: %w", err)
	}

	var qualified []scored
	for _, c := range all {
		if s := Similarity(c.Name, input); s >= r.Threshold {
			qualified = append(qualified, scored{station: c, score: s})
		}
	}
	sort.SliceStable(qualified, func(i, j int) bool { return qualified[i].score > qualified[j].score })

	switch {
	case len(qualified) == 0:
		return StationOutcome{Kind: NotFound}, nil
	case len(qualified) == 1 || qualified[0].score > qualified[1].score:
		return StationOutcome{Kind: Resolved, Station: qualified[0].station}, nil
	}

	limit := r.MaxAlternatives
	if limit <= 0 {
		limit = DefaultMaxAlternatives
	}
	if len(qualified) > limit {
		qualified = qualified[:limit]
	}
	alts := make([]stations.Station, len(qualified))
	for i, q := range qualified {
		alts[i] = q.station
	}
	return StationOutcome{Kind: Ambiguous, Alternatives: alts}, nil
}

// Similarity scores how well input names the station called name, on a
// scale where 100 is a character-for-character match. A parenthesised
// copy of input in the name is ignored, and substring and prefix matches
// earn a bonus of 25 each.
func Similarity(name, input string) float64 {
	name = strings.ToLower(strings.ReplaceAll(name, "("+input+")", ""))
	in := strings.ToLower(input)

	m := difflib.NewMatcher(strings.Split(name, ""), strings.Split(in, ""))
	score := m.Ratio() * 100
	if strings.Contains(name, in) {
		score += 25
	}
	if strings.HasPrefix(name, in) {
		score += 25
	}
	return score
}
