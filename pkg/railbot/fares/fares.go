// Package fares finds a fare and a booking link for a fully specified journey.
package fares

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoFares means the service found nothing to sell for the journey.
var ErrNoFares = errors.New("no fares available")

// Journey is a complete booking request.
type Journey struct {
	From      string // station code
	To        string // station code
	FromName  string
	ToName    string
	Departure time.Time
	Returning bool
	Return    time.Time
	Adults    int
	Children  int
}

// Validate checks the fields every search needs.
func (j Journey) Validate() error {
	switch {
	case j.From == "" || j.To == "":
		return errors.New("journey needs both stations")
	case j.Departure.IsZero():
		return errors.New("journey needs a departure time")
	case j.Returning && !j.Return.After(j.Departure):
		return errors.New("return must follow departure")
	case j.Adults+j.Children <= 0:
		return errors.New("journey needs at least one passenger")
	}
	return nil
}

// Kind is "return" or "single".
func (j Journey) Kind() string {
	if j.Returning {
		return "return"
	}
	return "single"
}

// Quote is the outcome of a fare search.
type Quote struct {
	URL      string
	Price    string
	FromName string
	ToName   string
	Summary  string
}

// Service is the fare search collaborator.
type Service interface {
	Search(ctx context.Context, j Journey) (Quote, error)
}

// DefaultBaseURL is the fare site search endpoint.
const DefaultBaseURL = "https://buy.chilternrailways.co.uk/search"

// LinkService builds a prefilled search link on the fare site without
// fetching it. Price is left empty.
type LinkService struct {
	BaseURL string
	Log     *zap.Logger
}

// NewLinkService creates a LinkService. An empty base uses DefaultBaseURL.
func NewLinkService(base string, log *zap.Logger) *LinkService {
	if base == "" {
		base = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &LinkService{BaseURL: base, Log: log}
}

// Search implements Service.
func (s *LinkService) Search(ctx context.Context, j Journey) (Quote, error) {
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}
	if err := j.Validate(); err != nil {
		return Quote{}, fmt.Errorf("fare search: %w", err)
	}
	link := BuildURL(s.BaseURL, j)
	s.Log.Debug("fare link built", zap.String("url", link))
	return Quote{
		URL:      link,
		FromName: nameOr(j.FromName, j.From),
		ToName:   nameOr(j.ToName, j.To),
		Summary:  Summary(j),
	}, nil
}

func nameOr(name, code string) string {
	if name != "" {
		return name
	}
	return code
}

// BuildURL returns the fare site search link for j.
func BuildURL(base string, j Journey) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?origin=GB" + url.QueryEscape(j.From))
	b.WriteString("&destination=GB" + url.QueryEscape(j.To))
	b.WriteString("&outboundTime=" + j.Departure.Format("2006-01-02") + "T" + j.Departure.Format("15:04:00"))
	b.WriteString("&outboundTimeType=DEPARTURE")
	fmt.Fprintf(&b, "&adults=%d&children=%d", j.Adults, j.Children)
	if j.Returning {
		b.WriteString("&inbound=true&inboundTime=" + j.Return.Format("2006-01-02") + "T" + j.Return.Format("15:04:00"))
		b.WriteString("&inboundTimeType=DEPARTURE")
	}
	b.WriteString("&railcards=%5B%5D")
	return b.String()
}

// Summary describes the itinerary in one sentence.
func Summary(j Journey) string {
	s := fmt.Sprintf("This service will depart %s at %s", j.Departure.Format("Mon 2 Jan"), j.Departure.Format("15:04"))
	if j.Returning {
		s += fmt.Sprintf(" and return %s at %s", j.Return.Format("Mon 2 Jan"), j.Return.Format("15:04"))
	}
	return s + "."
}
