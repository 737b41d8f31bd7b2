// Package estimate predicts the delay a passenger will have on arrival.
package estimate

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Query describes a delayed journey.
type Query struct {
	Depart        string // station name
	Arrive        string // station name
	DepartureTime string // "HH:MM"
	DelayMinutes  int
}

// Prediction is the estimated delay at the arrival station.
type Prediction struct {
	Delay time.Duration
}

// Sentence renders the prediction for the user.
func (p Prediction) Sentence() string {
	d := p.Delay.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("The total delay of your journey will be %02d minutes and %02d seconds.", minutes, seconds)
}

// Estimator is the delay prediction collaborator.
type Estimator interface {
	Estimate(ctx context.Context, q Query) (Prediction, error)
}

// Segment is the part of the day a departure falls in.
type Segment int

const (
	Morning Segment = iota + 1
	Midday
	Evening
	Night
)

// DaySegment buckets an hour: 5-10 morning, 10-15 midday, 15-20 evening,
// otherwise night.
func DaySegment(hour int) Segment {
	switch {
	case hour >= 5 && hour < 10:
		return Morning
	case hour >= 10 && hour < 15:
		return Midday
	case hour >= 15 && hour < 20:
		return Evening
	}
	return Night
}

// RushHour reports whether a departure falls in 05:45-09:00 or 16:00-18:00.
func RushHour(hour, minute int) bool {
	m := hour*60 + minute
	return (m >= 5*60+45 && m <= 9*60) || (m >= 16*60 && m <= 18*60)
}

// CarryOver assumes a delay carries over to the arrival station, growing a
// little on busy trains and shrinking when timetable slack lets the train
// recover.
type CarryOver struct {
	// Factor scales the known delay per day segment.
	Factor map[Segment]float64
	// RushPenalty is added to the factor during rush hour.
	RushPenalty float64
	Log         *zap.Logger
}

// NewCarryOver creates an estimator with the default factors.
func NewCarryOver(log *zap.Logger) *CarryOver {
	if log == nil {
		log = zap.NewNop()
	}
	return &CarryOver{
		Factor: map[Segment]float64{
			Morning: 1.05,
			Midday:  0.9,
			Evening: 1.0,
			Night:   0.85,
		},
		RushPenalty: 0.15,
		Log:         log,
	}
}

// Estimate implements Estimator.
func (c *CarryOver) Estimate(ctx context.Context, q Query) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	if strings.TrimSpace(q.Depart) == "" || strings.TrimSpace(q.Arrive) == "" {
		return Prediction{}, fmt.Errorf("estimate: both stations are required")
	}
	if q.DelayMinutes < 0 {
		return Prediction{}, fmt.Errorf("estimate: negative delay %d", q.DelayMinutes)
	}
	hour, minute, err := parseClock(q.DepartureTime)
	if err != nil {
		return Prediction{}, fmt.Errorf("estimate: %w", err)
	}

	factor, ok := c.Factor[DaySegment(hour)]
	if !ok {
		factor = 1
	}
	if RushHour(hour, minute) {
		factor += c.RushPenalty
	}
	seconds := math.Round(float64(q.DelayMinutes) * 60 * factor)
	p := Prediction{Delay: time.Duration(seconds) * time.Second}

	c.Log.Debug("delay estimated",
		zap.String("depart", q.Depart),
		zap.String("arrive", q.Arrive),
		zap.String("time", q.DepartureTime),
		zap.Int("delay_minutes", q.DelayMinutes),
		zap.Duration("predicted", p.Delay))
	return p, nil
}

func parseClock(s string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("bad time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("bad hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad minute in %q", s)
	}
	return h, m, nil
}
