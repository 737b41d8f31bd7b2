package estimate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaySegment(t *testing.T) {
	assert.Equal(t, Morning, DaySegment(5))
	assert.Equal(t, Midday, DaySegment(10))
	assert.Equal(t, Evening, DaySegment(19))
	assert.Equal(t, Night, DaySegment(20))
	assert.Equal(t, Night, DaySegment(4))
}

func TestRushHour(t *testing.T) {
	assert.False(t, RushHour(5, 44))
	assert.True(t, RushHour(5, 45))
	assert.True(t, RushHour(9, 0))
	assert.False(t, RushHour(9, 1))
	assert.True(t, RushHour(17, 30))
	assert.False(t, RushHour(12, 0))
}

func TestEstimate(t *testing.T) {
	e := NewCarryOver(nil)
	p, err := e.Estimate(context.Background(), Query{
		Depart: "Norwich", Arrive: "London Liverpool Street", DepartureTime: "12:00", DelayMinutes: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 9*time.Minute, p.Delay)
	assert.Equal(t, "The total delay of your journey will be 09 minutes and 00 seconds.", p.Sentence())

	p, err = e.Estimate(context.Background(), Query{
		Depart: "Norwich", Arrive: "Ipswich", DepartureTime: "07:30", DelayMinutes: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 6*time.Minute, p.Delay)
}

func TestEstimateErrors(t *testing.T) {
	e := NewCarryOver(nil)
	_, err := e.Estimate(context.Background(), Query{Depart: "A", Arrive: "B", DepartureTime: "25:00", DelayMinutes: 1})
	assert.Error(t, err)
	_, err = e.Estimate(context.Background(), Query{Arrive: "B", DepartureTime: "10:00"})
	assert.Error(t, err)
	_, err = e.Estimate(context.Background(), Query{Depart: "A", Arrive: "B", DepartureTime: "10:00", DelayMinutes: -1})
	assert.Error(t, err)
}

func TestSentenceRounds(t *testing.T) {
	p := Prediction{Delay: 3*time.Minute + 7*time.Second + 400*time.Millisecond}
	assert.Equal(t, "The total delay of your journey will be 03 minutes and 07 seconds.", p.Sentence())
}
