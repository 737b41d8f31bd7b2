package inference

import (
	"context"

	"github.com/cognicore/railbot/pkg/railbot/facts"
)

// Engine runs a production-rule set over a working memory.
// This interface allows swapping the interpreter (forward chaining, a RETE network, etc.)
type Engine interface {
	// Reset clears working memory and agenda, then asserts the seed facts.
	Reset(seed []facts.Fact)

	// Run fires activations until quiescence or a halt and returns the
	// number of rules fired.
	Run(ctx context.Context) (int, error)

	// Memory exposes the working memory the engine matches against.
	Memory() *facts.Memory
}

// Env is what a rule action sees while it fires.
type Env interface {
	Context() context.Context

	// Bindings holds the variables captured by the rule's conditions.
	Bindings() facts.Bindings

	// Fact returns the id of the fact matched by the condition aliased name.
	Fact(alias string) int

	Assert(f facts.Fact) int
	Modify(id int, values map[string]any) error
	Retract(id int) error

	// Memory gives read access to working memory.
	Memory() *facts.Memory

	// Halt stops the cycle after the current action returns.
	Halt()
}

// Action is the right-hand side of a rule.
type Action func(env Env) error

// Condition is one element of a rule's left-hand side: a fact pattern
// (possibly negated and aliased) or a test over bindings.
type Condition struct {
	Alias   string
	Pattern facts.Pattern
	Test    func(b facts.Bindings) bool
}

// Match builds a condition over one fact.
func Match(p facts.Pattern) Condition { return Condition{Pattern: p} }

// As builds a condition whose matched fact id is exposed under alias.
func As(alias string, p facts.Pattern) Condition { return Condition{Alias: alias, Pattern: p} }

// Absent builds a condition that holds when no fact matches p.
func Absent(p facts.Pattern) Condition { return Condition{Pattern: facts.Not(p)} }

// Test builds a condition that evaluates a predicate over the bindings
// gathered so far.
func Test(fn func(b facts.Bindings) bool) Condition { return Condition{Test: fn} }

// Rule is a condition/action pair. Higher salience fires first.
type Rule struct {
	Name       string
	Salience   int
	Conditions []Condition
	Action     Action
}
