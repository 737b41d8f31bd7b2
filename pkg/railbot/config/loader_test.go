package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cognicore/railbot/pkg/railbot/dates"
	"github.com/cognicore/railbot/pkg/railbot/slots"
)

const seed = `stations:
  - code: NRW
    name: Norwich
  - code: ZLS
    name: London Liverpool Street
`

func fixedNow() time.Time { return time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC) }

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stations.yaml")
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderInMemory(t *testing.T) {
	cfg := Default()
	cfg.Stations.SeedPath = writeSeed(t)
	cfg.Clock.DateOrder = "mdy"

	comp, err := (&Loader{Config: cfg, Now: fixedNow}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	out, err := comp.Stations.Resolve(context.Background(), "norwich")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Kind != slots.Resolved || out.Station.Code != "NRW" {
		t.Errorf("got %+v", out)
	}
	if comp.Dates.Order != dates.MDY {
		t.Errorf("date order = %s, want MDY", comp.Dates.Order)
	}
	if comp.Fares == nil || comp.Estimator == nil || comp.Annotator == nil {
		t.Error("collaborators missing")
	}

	doc := comp.Annotator.Annotate("from norwich")
	if doc.Tokens[1].POS != "PROPN" {
		t.Errorf("seeded station word should be a proper noun, got %s", doc.Tokens[1].POS)
	}
}

func TestLoaderSQLite(t *testing.T) {
	cfg := Default()
	cfg.Stations.DBPath = filepath.Join(t.TempDir(), "stations.db")
	cfg.Stations.SeedPath = writeSeed(t)

	comp, err := (&Loader{Config: cfg, Now: fixedNow}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	all, err := comp.Directory.AllCandidates(context.Background())
	if err != nil {
		t.Fatalf("AllCandidates: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 stations, got %d", len(all))
	}
}

func TestLoaderMissingSeed(t *testing.T) {
	cfg := Default()
	cfg.Stations.SeedPath = "/nonexistent/stations.yaml"
	if _, err := (&Loader{Config: cfg}).Load(context.Background()); err == nil {
		t.Error("expected error for missing seed")
	}
}

func TestLoaderBadLocation(t *testing.T) {
	cfg := Default()
	cfg.Clock.Location = "Nowhere/Special"
	if _, err := (&Loader{Config: cfg}).Load(context.Background()); err == nil {
		t.Error("expected error for unknown location")
	}
}

func TestLoaderMissingLexicon(t *testing.T) {
	cfg := Default()
	cfg.LexiconPath = "/nonexistent/lexicon.yaml"
	if _, err := (&Loader{Config: cfg, Now: fixedNow}).Load(context.Background()); err == nil {
		t.Error("expected error for missing lexicon")
	}
}
