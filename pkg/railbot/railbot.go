// Package railbot hosts dialogue sessions for the train assistant.
package railbot

import (
	"context"
	"crypto/rand"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/config"
	"github.com/cognicore/railbot/pkg/railbot/dialog"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
)

// Options configures a Bot. Every session shares the components.
type Options struct {
	Components      *config.Components
	CycleMultiplier int
	Logger          *zap.Logger
	// Clock stamps session activity; nil uses time.Now.
	Clock func() time.Time
}

type hosted struct {
	mu       sync.Mutex
	session  *dialog.Session
	lastSeen time.Time
}

// Bot is a registry of sessions keyed by ULID. Turns on one session are
// serialised; different sessions run concurrently.
type Bot struct {
	opts    Options
	log     *zap.Logger
	clock   func() time.Time
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	byID    map[string]*hosted
}

// New creates a Bot.
func New(opts Options) (*Bot, error) {
	if opts.Components == nil {
		return nil, fmt.Errorf("%w: components are required", internalerr.ErrInvalidConfig)
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Bot{
		opts:    opts,
		log:     log,
		clock:   clock,
		entropy: ulid.Monotonic(rand.Reader, 0),
		byID:    make(map[string]*hosted),
	}, nil
}

// Open starts a new session and returns its id.
func (b *Bot) Open() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.clock()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	c := b.opts.Components
	s, err := dialog.NewSession(dialog.Options{
		ID:              id,
		Annotator:       c.Annotator,
		Lexicon:         c.Lexicon,
		Stations:        c.Stations,
		Dates:           c.Dates,
		Fares:           c.Fares,
		Estimator:       c.Estimator,
		CycleMultiplier: b.opts.CycleMultiplier,
		Logger:          b.log,
	})
	if err != nil {
		return "", err
	}
	b.byID[id] = &hosted{session: s, lastSeen: now}
	b.log.Debug("session opened", zap.String("session", id))
	return id, nil
}

func (b *Bot) lookup(id string) (*hosted, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.byID[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, internalerr.ErrNotFound)
	}
	return h, nil
}

// Handle runs one turn. An empty or unknown id opens a new session; the
// id actually used is returned with the reply.
func (b *Bot) Handle(ctx context.Context, id, text string) (chain.Envelope, string, error) {
	h, err := b.lookup(id)
	if err != nil {
		if id, err = b.Open(); err != nil {
			return dialog.Broken(), "", err
		}
		if h, err = b.lookup(id); err != nil {
			return dialog.Broken(), "", err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSeen = b.clock()
	env, err := h.session.HandleTurn(ctx, text)
	return env, id, err
}

// Pop returns the next queued reply of session id.
func (b *Bot) Pop(id string) (chain.Envelope, error) {
	h, err := b.lookup(id)
	if err != nil {
		return chain.Reload(), err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastSeen = b.clock()
	return h.session.PopNextMessage(), nil
}

// Session returns the live session for inspection.
func (b *Bot) Session(id string) (*dialog.Session, error) {
	h, err := b.lookup(id)
	if err != nil {
		return nil, err
	}
	return h.session, nil
}

// Close forgets session id.
func (b *Bot) Close(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.byID, id)
}

// Prune forgets sessions idle for longer than maxIdle and returns how
// many were dropped.
func (b *Bot) Prune(maxIdle time.Duration) int {
	cutoff := b.clock().Add(-maxIdle)
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for id, h := range b.byID {
		h.mu.Lock()
		idle := h.lastSeen.Before(cutoff)
		h.mu.Unlock()
		if idle {
			delete(b.byID, id)
			n++
		}
	}
	if n > 0 {
		b.log.Info("pruned idle sessions", zap.Int("count", n))
	}
	return n
}

// IDs lists the open sessions in creation order.
func (b *Bot) IDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]string, 0, len(b.byID))
	for id := range b.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
