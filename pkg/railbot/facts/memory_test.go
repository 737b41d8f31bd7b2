package facts

import (
	"errors"
	"testing"

	"github.com/cognicore/railbot/pkg/railbot/knowledge"
)

func TestAssertAssignsIDs(t *testing.T) {
	m := NewMemory(nil)
	a, ok := m.Assert(Of("depart", "NRW"))
	if !ok || a != 1 {
		t.Fatalf("first assert = %d,%v", a, ok)
	}
	b, ok := m.Assert(Of("arrive", "ZLS"))
	if !ok || b != 2 {
		t.Fatalf("second assert = %d,%v", b, ok)
	}
	dup, ok := m.Assert(Of("depart", "NRW"))
	if ok || dup != a {
		t.Errorf("duplicate assert = %d,%v, want %d,false", dup, ok, a)
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestModifyKeepsIDChangesTag(t *testing.T) {
	store := knowledge.New()
	m := NewMemory(store)
	id, _ := m.Assert(Of("complete", false))
	before, _ := m.Get(id)

	got, err := m.Modify(id, map[string]any{"complete": true})
	if err != nil {
		t.Fatal(err)
	}
	if got != id {
		t.Errorf("Modify id = %d, want %d", got, id)
	}
	after, _ := m.Get(id)
	if after.Tag == before.Tag {
		t.Error("tag unchanged after modify")
	}
	if v, _ := store.Bool("complete"); !v {
		t.Error("store not updated by modify")
	}
	if _, err := m.Modify(99, nil); !errors.Is(err, ErrUnknownFact) {
		t.Errorf("Modify unknown = %v", err)
	}
}

func TestRetractRemovesFromStore(t *testing.T) {
	store := knowledge.New()
	m := NewMemory(store)
	id, _ := m.Assert(Of("no_adults", 0))
	if !store.Has("no_adults") {
		t.Fatal("assert not mirrored")
	}
	if err := m.Retract(id); err != nil {
		t.Fatal(err)
	}
	if store.Has("no_adults") {
		t.Error("retracted key still in store")
	}
	if _, ok := m.Get(id); ok {
		t.Error("retracted fact still in memory")
	}
	hist := store.History()
	if len(hist) != 2 || hist[1].Op != knowledge.OpDelete {
		t.Errorf("history = %+v", hist)
	}
	if err := m.Retract(id); !errors.Is(err, ErrUnknownFact) {
		t.Errorf("double retract = %v", err)
	}
}

func TestTransientNotMirrored(t *testing.T) {
	store := knowledge.New()
	m := NewMemory(store, "message_text", "extra_info_req")
	m.Assert(Of("message_text", "hello"))
	m.Assert(Of("extra_info_req", false))
	m.Assert(Of("action", "chat"))
	if store.Has("message_text") || store.Has("extra_info_req") {
		t.Error("transient key mirrored")
	}
	if !store.Has("action") {
		t.Error("action not mirrored")
	}
}

func TestQueryPatterns(t *testing.T) {
	m := NewMemory(nil)
	m.Assert(Of("action", "book"))
	m.Assert(With(map[string]any{"depart": "NRW", "kind": "station"}))
	m.Assert(Of("arrive", "NRW"))

	if got := m.Query(P("action", Eq("book")), nil); len(got) != 1 {
		t.Errorf("literal query matched %d", len(got))
	}
	if got := m.Query(P("action", Eq("delay")), nil); len(got) != 0 {
		t.Errorf("wrong literal matched %d", len(got))
	}

	got := m.Query(P("depart", Bind("code")).And("kind", Present()), nil)
	if len(got) != 1 || got[0].Bindings["code"] != "NRW" {
		t.Fatalf("bind query = %+v", got)
	}
	same := m.Query(P("arrive", Bind("code")), got[0].Bindings)
	if len(same) != 1 {
		t.Errorf("join on bound value matched %d", len(same))
	}
	other := m.Query(P("arrive", Bind("code")), Bindings{"code": "ZLS"})
	if len(other) != 0 {
		t.Errorf("join on conflicting value matched %d", len(other))
	}

	if got := m.Query(Not(P("returning", Present())), nil); len(got) != 1 {
		t.Errorf("absent query = %d matches, want 1", len(got))
	}
	if got := m.Query(Not(P("action", Present())), nil); len(got) != 0 {
		t.Errorf("negated present = %d matches, want 0", len(got))
	}
}

func TestLookupAndReset(t *testing.T) {
	m := NewMemory(nil)
	m.Assert(Of("depart", "NRW"))
	m.Assert(Of("depart", "IPS"))
	if v, _ := m.Value("depart"); v != "NRW" {
		t.Errorf("Value = %v, want earliest NRW", v)
	}
	m.Reset()
	if m.Len() != 0 {
		t.Error("Reset left facts")
	}
	id, _ := m.Assert(Of("depart", "NRW"))
	if id != 3 {
		t.Errorf("id after reset = %d, want 3", id)
	}
}
