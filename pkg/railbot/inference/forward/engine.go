// Package forward is a forward-chaining production-rule interpreter.
//
// Each cycle recomputes the activations whose conditions hold against
// working memory, fires the one with the highest salience (ties go to the
// most recently activated), and repeats until no activation is left or an
// action halts. An activation is identified by its rule and the exact facts
// it matched; once fired it does not fire again unless one of those facts
// is modified or re-asserted.
package forward

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot/facts"
	"github.com/cognicore/railbot/pkg/railbot/inference"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
)

// ErrCycleLimit is returned when a run exceeds its cycle bound. It means
// the rule set is not refractory for the current memory, which is a bug.
var ErrCycleLimit = errors.New("rule engine exceeded cycle limit")

// DefaultMultiplier bounds a run to len(rules)*DefaultMultiplier cycles.
const DefaultMultiplier = 8

// Options configures an Engine.
type Options struct {
	// Multiplier scales the cycle bound; zero means DefaultMultiplier.
	Multiplier int
	Logger     *zap.Logger
}

// Engine implements inference.Engine.
type Engine struct {
	rules     []inference.Rule
	mem       *facts.Memory
	maxCycles int
	log       *zap.Logger

	agenda map[string]*activation
	fired  map[string]struct{}
	seq    int
	halted bool
}

var _ inference.Engine = (*Engine)(nil)

type activation struct {
	key      string
	rule     *inference.Rule
	order    int
	seq      int
	bindings facts.Bindings
	aliases  map[string]int
}

// New creates an engine over mem. Rule names must be unique.
func New(rules []inference.Rule, mem *facts.Memory, opts Options) (*Engine, error) {
	seen := make(map[string]struct{}, len(rules))
	for _, r := range rules {
		if r.Name == "" || r.Action == nil {
			return nil, fmt.Errorf("rule %q: name and action are required", r.Name)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, fmt.Errorf("rule %q: %w", r.Name, internalerr.ErrDuplicate)
		}
		seen[r.Name] = struct{}{}
	}
	mult := opts.Multiplier
	if mult <= 0 {
		mult = DefaultMultiplier
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		rules:     rules,
		mem:       mem,
		maxCycles: len(rules) * mult,
		log:       log,
	}
	e.clearAgenda()
	return e, nil
}

func (e *Engine) clearAgenda() {
	e.agenda = make(map[string]*activation)
	e.fired = make(map[string]struct{})
	e.halted = false
}

// Memory implements inference.Engine.
func (e *Engine) Memory() *facts.Memory { return e.mem }

// MaxCycles returns the cycle bound of a single run.
func (e *Engine) MaxCycles() int { return e.maxCycles }

// Reset implements inference.Engine.
func (e *Engine) Reset(seed []facts.Fact) {
	e.mem.Reset()
	e.clearAgenda()
	for _, f := range seed {
		e.mem.Assert(f)
	}
}

// Run implements inference.Engine.
func (e *Engine) Run(ctx context.Context) (int, error) {
	fired := 0
	for cycle := 1; ; cycle++ {
		if e.halted {
			e.log.Debug("engine halted", zap.Int("fired", fired))
			return fired, nil
		}
		e.refresh()
		next := e.selectNext()
		if next == nil {
			return fired, nil
		}
		if cycle > e.maxCycles {
			e.log.Warn("cycle limit reached",
				zap.Int("limit", e.maxCycles),
				zap.String("pending", next.rule.Name))
			return fired, fmt.Errorf("%w (%d cycles, next %s)", ErrCycleLimit, e.maxCycles, next.rule.Name)
		}

		delete(e.agenda, next.key)
		e.fired[next.key] = struct{}{}
		fired++
		e.log.Debug("fire",
			zap.Int("cycle", cycle),
			zap.String("rule", next.rule.Name),
			zap.Int("salience", next.rule.Salience))

		env := &firing{ctx: ctx, engine: e, act: next}
		if err := next.rule.Action(env); err != nil {
			return fired, fmt.Errorf("rule %s: %w", next.rule.Name, err)
		}
	}
}

// Agenda returns the names of the rules currently activated, in firing order.
func (e *Engine) Agenda() []string {
	e.refresh()
	acts := make([]*activation, 0, len(e.agenda))
	for _, a := range e.agenda {
		acts = append(acts, a)
	}
	sort.Slice(acts, func(i, j int) bool { return before(acts[i], acts[j]) })
	names := make([]string, len(acts))
	for i, a := range acts {
		names[i] = a.rule.Name
	}
	return names
}

// refresh recomputes the activations. Activations that persist keep their
// sequence number; new ones get a fresh, higher one.
func (e *Engine) refresh() {
	current := make(map[string]*activation)
	for i := range e.rules {
		r := &e.rules[i]
		for _, a := range e.activations(r, i) {
			if _, done := e.fired[a.key]; done {
				continue
			}
			if old, ok := e.agenda[a.key]; ok {
				current[a.key] = old
				continue
			}
			current[a.key] = a
		}
	}
	// Sequence numbers are handed out in rule order so ties within one
	// refresh resolve deterministically.
	fresh := make([]*activation, 0)
	for k, a := range current {
		if _, ok := e.agenda[k]; !ok {
			fresh = append(fresh, a)
		}
	}
	sort.Slice(fresh, func(i, j int) bool {
		if fresh[i].order != fresh[j].order {
			return fresh[i].order > fresh[j].order
		}
		return fresh[i].key < fresh[j].key
	})
	for _, a := range fresh {
		e.seq++
		a.seq = e.seq
	}
	e.agenda = current
}

func (e *Engine) selectNext() *activation {
	var best *activation
	for _, a := range e.agenda {
		if best == nil || before(a, best) {
			best = a
		}
	}
	return best
}

func before(a, b *activation) bool {
	if a.rule.Salience != b.rule.Salience {
		return a.rule.Salience > b.rule.Salience
	}
	return a.seq > b.seq
}

type partial struct {
	bindings facts.Bindings
	aliases  map[string]int
	support  []facts.Fact
}

// activations evaluates the conditions of r left to right, joining on
// bindings, and returns one activation per complete match.
func (e *Engine) activations(r *inference.Rule, order int) []*activation {
	states := []partial{{bindings: facts.Bindings{}, aliases: map[string]int{}}}
	for _, c := range r.Conditions {
		var next []partial
		for _, st := range states {
			switch {
			case c.Test != nil:
				if c.Test(st.bindings) {
					next = append(next, st)
				}
			case c.Pattern.Negated():
				if len(e.mem.Query(c.Pattern, st.bindings)) > 0 {
					next = append(next, st)
				}
			default:
				for _, m := range e.mem.Query(c.Pattern, st.bindings) {
					ns := partial{
						bindings: m.Bindings,
						aliases:  st.aliases,
						support:  append(append([]facts.Fact(nil), st.support...), m.Fact),
					}
					if c.Alias != "" {
						ns.aliases = make(map[string]int, len(st.aliases)+1)
						for k, v := range st.aliases {
							ns.aliases[k] = v
						}
						ns.aliases[c.Alias] = m.Fact.ID
					}
					next = append(next, ns)
				}
			}
		}
		states = next
		if len(states) == 0 {
			return nil
		}
	}

	out := make([]*activation, 0, len(states))
	for _, st := range states {
		out = append(out, &activation{
			key:      activationKey(r.Name, st.support),
			rule:     r,
			order:    order,
			bindings: st.bindings,
			aliases:  st.aliases,
		})
	}
	return out
}

// activationKey identifies a rule instance by the facts supporting it.
// Tags change on modify, so a modified fact yields a new key.
func activationKey(rule string, support []facts.Fact) string {
	var b strings.Builder
	b.WriteString(rule)
	for _, f := range support {
		b.WriteByte('|')
		b.WriteString(strconv.Itoa(f.ID))
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(f.Tag))
	}
	return b.String()
}

type firing struct {
	ctx    context.Context
	engine *Engine
	act    *activation
}

func (f *firing) Context() context.Context   { return f.ctx }
func (f *firing) Bindings() facts.Bindings   { return f.act.bindings }
func (f *firing) Memory() *facts.Memory      { return f.engine.mem }
func (f *firing) Halt()                      { f.engine.halted = true }
func (f *firing) Retract(id int) error       { return f.engine.mem.Retract(id) }
func (f *firing) Assert(fact facts.Fact) int { id, _ := f.engine.mem.Assert(fact); return id }

func (f *firing) Fact(alias string) int { return f.act.aliases[alias] }

func (f *firing) Modify(id int, values map[string]any) error {
	_, err := f.engine.mem.Modify(id, values)
	return err
}
