package fares

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dep = time.Date(2026, time.March, 11, 9, 30, 0, 0, time.UTC)

func TestBuildURLSingle(t *testing.T) {
	j := Journey{From: "NRW", To: "ZLS", Departure: dep, Adults: 2, Children: 1}
	got := BuildURL(DefaultBaseURL, j)
	assert.Equal(t,
		"https://buy.chilternrailways.co.uk/search?origin=GBNRW&destination=GBZLS"+
			"&outboundTime=2026-03-11T09:30:00&outboundTimeType=DEPARTURE&adults=2&children=1&railcards=%5B%5D",
		got)
}

func TestBuildURLReturn(t *testing.T) {
	j := Journey{From: "NRW", To: "ZLS", Departure: dep, Returning: true, Return: dep.Add(30 * time.Hour), Adults: 1}
	got := BuildURL(DefaultBaseURL, j)
	assert.Contains(t, got, "&inbound=true&inboundTime=2026-03-12T15:30:00&inboundTimeType=DEPARTURE")
	assert.True(t, strings.HasSuffix(got, "&railcards=%5B%5D"))
}

func TestLinkServiceSearch(t *testing.T) {
	s := NewLinkService("", nil)
	q, err := s.Search(context.Background(), Journey{
		From: "NRW", To: "IPS", FromName: "Norwich", Departure: dep, Adults: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Norwich", q.FromName)
	assert.Equal(t, "IPS", q.ToName)
	assert.Empty(t, q.Price)
	assert.Equal(t, "This service will depart Wed 11 Mar at 09:30.", q.Summary)
}

func TestJourneyValidate(t *testing.T) {
	s := NewLinkService("", nil)
	_, err := s.Search(context.Background(), Journey{From: "NRW", To: "IPS", Departure: dep})
	assert.Error(t, err, "no passengers")

	_, err = s.Search(context.Background(), Journey{From: "NRW", To: "IPS", Departure: dep, Adults: 1, Returning: true, Return: dep})
	assert.Error(t, err, "return not after departure")

	assert.Equal(t, "single", Journey{}.Kind())
	assert.Equal(t, "return", Journey{Returning: true}.Kind())
}
