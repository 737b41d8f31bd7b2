package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/cognicore/railbot/pkg/railbot/stations"
)

func openFixture(t *testing.T) Directory {
	t.Helper()
	ctx := context.Background()
	d, err := Open(ctx, filepath.Join(t.TempDir(), "stations.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := d.UpsertStations(ctx, stations.Fixture); err != nil {
		t.Fatalf("UpsertStations: %v", err)
	}
	return d
}

func TestLookupExactCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	d := openFixture(t)

	for _, in := range []string{"ZLS", "zls", "London Liverpool Street", "LONDON LIVERPOOL STREET"} {
		st, ok, err := d.LookupExact(ctx, in)
		if err != nil {
			t.Fatalf("LookupExact(%q): %v", in, err)
		}
		if !ok || st.Code != "ZLS" {
			t.Errorf("LookupExact(%q) = %+v, %v", in, st, ok)
		}
	}

	if _, ok, err := d.LookupExact(ctx, "Nowhere"); err != nil || ok {
		t.Errorf("unknown station: ok=%v err=%v", ok, err)
	}
}

func TestUpsertRenames(t *testing.T) {
	ctx := context.Background()
	d := openFixture(t)

	if err := d.UpsertStations(ctx, []stations.Station{{Code: "nrw", Name: "Norwich City"}}); err != nil {
		t.Fatal(err)
	}
	st, ok, err := d.LookupExact(ctx, "NRW")
	if err != nil || !ok {
		t.Fatalf("lookup: %v %v", ok, err)
	}
	if st.Name != "Norwich City" {
		t.Errorf("name = %q, want renamed", st.Name)
	}

	all, err := d.AllCandidates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(stations.Fixture) {
		t.Errorf("got %d stations, want %d", len(all), len(stations.Fixture))
	}
}

func TestUpsertRejectsBlank(t *testing.T) {
	d := openFixture(t)
	if err := d.UpsertStations(context.Background(), []stations.Station{{Code: "", Name: "x"}}); err == nil {
		t.Error("expected error for blank code")
	}
}
