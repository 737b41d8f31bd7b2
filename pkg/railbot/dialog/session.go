// Package dialog runs the slot-filling conversation: each user turn is
// annotated, matched against the rule set and answered from the message
// chain.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot/chain"
	"github.com/cognicore/railbot/pkg/railbot/estimate"
	"github.com/cognicore/railbot/pkg/railbot/facts"
	"github.com/cognicore/railbot/pkg/railbot/fares"
	"github.com/cognicore/railbot/pkg/railbot/inference/forward"
	"github.com/cognicore/railbot/pkg/railbot/ingest"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
	"github.com/cognicore/railbot/pkg/railbot/knowledge"
	"github.com/cognicore/railbot/pkg/railbot/lexicon"
	"github.com/cognicore/railbot/pkg/railbot/slots"
	"github.com/cognicore/railbot/pkg/railbot/tags"
)

// ErrTurnAborted wraps any failure inside a turn. The session is left as
// it was before the turn started.
var ErrTurnAborted = errors.New("turn aborted")

// Options wires a Session to its collaborators.
type Options struct {
	ID        string
	Annotator ingest.Annotator
	Lexicon   *lexicon.Lexicon
	Stations  *slots.StationResolver
	Dates     *slots.DateResolver
	Fares     fares.Service
	Estimator estimate.Estimator

	// CycleMultiplier bounds each turn to rules*CycleMultiplier firings.
	CycleMultiplier int
	Logger          *zap.Logger
}

func (o Options) validate() error {
	switch {
	case o.Annotator == nil:
		return errors.New("annotator is required")
	case o.Stations == nil || o.Stations.Directory == nil:
		return errors.New("station resolver is required")
	case o.Dates == nil || o.Dates.Parser == nil:
		return errors.New("date resolver is required")
	case o.Fares == nil:
		return errors.New("fare service is required")
	case o.Estimator == nil:
		return errors.New("estimator is required")
	}
	return nil
}

type turn struct {
	text     string
	doc      *ingest.Doc
	progress *slots.Progress
}

// Session is one conversation. It is not safe for concurrent use.
type Session struct {
	opts   Options
	log    *zap.Logger
	kb     *knowledge.Store
	chain  *chain.Chain
	mem    *facts.Memory
	engine *forward.Engine
	turn   turn
}

// NewSession creates a session in its initial state.
func NewSession(opts Options) (*Session, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if opts.Lexicon == nil {
		opts.Lexicon = lexicon.Default()
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("session", opts.ID))

	s := &Session{
		opts:  opts,
		log:   log,
		kb:    knowledge.New(),
		chain: chain.New(),
		turn:  turn{progress: slots.NewProgress()},
	}
	s.mem = facts.NewMemory(s.kb, Transient...)
	engine, err := forward.New(s.rules(), s.mem, forward.Options{Multiplier: opts.CycleMultiplier, Logger: log})
	if err != nil {
		return nil, err
	}
	s.engine = engine
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.opts.ID }

// Knowledge exposes the slot values gathered so far.
func (s *Session) Knowledge() *knowledge.Store { return s.kb }

// Progress returns the outstanding slot codes after the last turn.
func (s *Session) Progress() []slots.Code { return s.turn.progress.Codes() }

// Pending returns the envelopes queued behind the last reply.
func (s *Session) Pending() []chain.Envelope { return s.chain.Items() }

// Reset returns the session to its initial state.
func (s *Session) Reset() {
	s.kb.Reset()
	s.chain.Clear()
	s.mem.Reset()
	s.turn = turn{progress: slots.NewProgress()}
}

func (s *Session) say(text string, p chain.Priority, responseRequired bool, suggestions []string) error {
	return s.chain.Enqueue(text, p, responseRequired, suggestions)
}

func restart(raw string) bool {
	t := strings.TrimSpace(raw)
	return t == "" || strings.Contains(t, tags.ReloadToken) || strings.EqualFold(t, NewChat)
}

// HandleTurn processes one user utterance and returns the first reply.
// Further replies stay queued for PopNextMessage.
func (s *Session) HandleTurn(ctx context.Context, raw string) (chain.Envelope, error) {
	if restart(raw) {
		s.Reset()
		s.log.Debug("conversation restarted")
		return Greeting(), nil
	}

	if done, _ := s.kb.Bool(KeyFinalized); done {
		s.Reset()
		if err := s.run(ctx, raw); err != nil {
			return Broken(), err
		}
		if a, _ := s.kb.String(KeyAction); a == actionChat && s.onlyApology() {
			s.chain.Clear()
			return Greeting(), nil
		}
		return s.chain.Pop(), nil
	}

	if err := s.run(ctx, raw); err != nil {
		return Broken(), err
	}
	return s.chain.Pop(), nil
}

func (s *Session) onlyApology() bool {
	items := s.chain.Items()
	return len(items) == 1 && items[0].Text == chain.Apology().Text
}

// PopNextMessage returns the next queued reply.
func (s *Session) PopNextMessage() chain.Envelope { return s.chain.Pop() }

func (s *Session) seed(text string) []facts.Fact {
	var seed []facts.Fact
	for _, k := range s.kb.Keys() {
		if k == KeyMessage {
			continue
		}
		v, _ := s.kb.Get(k)
		seed = append(seed, facts.Of(k, v))
	}
	seed = append(seed, facts.Of(KeyMessage, text))
	if !s.kb.Has(KeyAction) {
		seed = append(seed, facts.Of(KeyAction, actionChat))
	}
	if !s.kb.Has(KeyComplete) {
		seed = append(seed, facts.Of(KeyComplete, false))
	}
	return append(seed, facts.Of(KeyExtraInfoReq, false))
}

func (s *Session) run(ctx context.Context, raw string) error {
	text := tags.Normalize(raw)
	s.turn.text = text
	s.turn.doc = s.opts.Annotator.Annotate(tags.ForAnnotation(text))

	s.deriveProgress()

	kbSnap, chainSnap := s.kb.Snapshot(), s.chain.Snapshot()
	s.chain.SeedFallback()
	s.engine.Reset(s.seed(text))
	fired, err := s.engine.Run(ctx)
	if err != nil {
		s.kb.Restore(kbSnap)
		s.chain.Restore(chainSnap)
		s.deriveProgress()
		s.log.Error("turn aborted", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrTurnAborted, err)
	}
	s.log.Debug("turn handled",
		zap.Int("fired", fired),
		zap.Stringer("progress", s.turn.progress),
		zap.Int("queued", s.chain.Len()))
	return nil
}

// deriveProgress rebuilds the outstanding slots from the knowledge store.
func (s *Session) deriveProgress() {
	action, _ := s.kb.String(KeyAction)
	switch slots.Task(action) {
	case slots.Book, slots.Delay:
		s.turn.progress = slots.Derive(slots.Task(action), s.kb)
	default:
		s.turn.progress = slots.NewProgress()
	}
}
