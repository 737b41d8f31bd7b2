package railbot

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/railbot/pkg/railbot/config"
	"github.com/cognicore/railbot/pkg/railbot/dates"
	"github.com/cognicore/railbot/pkg/railbot/dialog"
	"github.com/cognicore/railbot/pkg/railbot/estimate"
	"github.com/cognicore/railbot/pkg/railbot/fares"
	"github.com/cognicore/railbot/pkg/railbot/ingest"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
	"github.com/cognicore/railbot/pkg/railbot/lexicon"
	"github.com/cognicore/railbot/pkg/railbot/slots"
	"github.com/cognicore/railbot/pkg/railbot/stations"
	"github.com/cognicore/railbot/pkg/railbot/stations/memdir"
)

func components(t *testing.T, now func() time.Time) *config.Components {
	t.Helper()
	dir := memdir.New(stations.Fixture...)
	words, err := stations.Vocabulary(context.Background(), dir)
	require.NoError(t, err)
	lex := lexicon.Default()
	return &config.Components{
		Directory: dir,
		Lexicon:   lex,
		Annotator: ingest.NewRuleAnnotator(lex, words),
		Stations:  slots.NewStationResolver(dir),
		Dates:     slots.NewDateResolver(dates.NewNatural(now, nil), now),
		Fares:     fares.NewLinkService("", nil),
		Estimator: estimate.NewCarryOver(nil),
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newBot(t *testing.T) (*Bot, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)}
	b, err := New(Options{Components: components(t, clock.Now), Clock: clock.Now})
	require.NoError(t, err)
	return b, clock
}

func TestNewRequiresComponents(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestHandleOpensSession(t *testing.T) {
	b, _ := newBot(t)
	ctx := context.Background()

	env, id, err := b.Handle(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, dialog.Greeting(), env)
	assert.Len(t, id, 26)
	assert.Equal(t, []string{id}, b.IDs())

	env, again, err := b.Handle(ctx, id, "book a train")
	require.NoError(t, err)
	assert.Equal(t, id, again)
	assert.False(t, env.ResponseRequired)

	next, err := b.Pop(id)
	require.NoError(t, err)
	assert.Equal(t, "{REQ:DEP}And where are you travelling from?", next.Text)

	s, err := b.Session(id)
	require.NoError(t, err)
	action, _ := s.Knowledge().String(dialog.KeyAction)
	assert.Equal(t, "book", action)
}

func TestUnknownSession(t *testing.T) {
	b, _ := newBot(t)
	_, err := b.Pop("nope")
	assert.ErrorIs(t, err, internalerr.ErrNotFound)

	_, id, err := b.Handle(context.Background(), "nope", "hello")
	require.NoError(t, err)
	assert.NotEqual(t, "nope", id)
}

func TestIDsAreOrdered(t *testing.T) {
	b, _ := newBot(t)
	var ids []string
	for i := 0; i < 5; i++ {
		id, err := b.Open()
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.Equal(t, ids, b.IDs(), "monotonic ids sort in creation order")
}

func TestPrune(t *testing.T) {
	b, clock := newBot(t)
	old, err := b.Open()
	require.NoError(t, err)
	clock.Advance(time.Hour)
	fresh, err := b.Open()
	require.NoError(t, err)

	assert.Equal(t, 1, b.Prune(30*time.Minute))
	assert.Equal(t, []string{fresh}, b.IDs())

	b.Close(fresh)
	assert.Empty(t, b.IDs())
	_, err = b.Session(old)
	assert.ErrorIs(t, err, internalerr.ErrNotFound)
}

func TestConcurrentSessions(t *testing.T) {
	b, _ := newBot(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, id, err := b.Handle(ctx, "", "book a train")
			if err != nil {
				errs <- err
				return
			}
			if _, _, err := b.Handle(ctx, id, "depart from Norwich"); err != nil {
				errs <- err
				return
			}
			s, err := b.Session(id)
			if err != nil {
				errs <- err
				return
			}
			if v, _ := s.Knowledge().String(dialog.KeyDepart); v != "NRW" {
				errs <- fmt.Errorf("session %s: depart = %q", id, v)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
	assert.Len(t, b.IDs(), 8)
}
