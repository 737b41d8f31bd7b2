package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot/config"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
	"github.com/cognicore/railbot/pkg/railbot/slots"
	"github.com/cognicore/railbot/pkg/railbot/stations/sqlite"
)

func repoRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime caller failed")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Stations.SeedPath = filepath.Join(repoRoot(t), "testdata", "stations.yaml")
	return cfg
}

func TestChatSession(t *testing.T) {
	ctx := context.Background()
	bot, cleanup, err := buildBot(ctx, testConfig(t), zap.NewNop())
	if err != nil {
		t.Fatalf("buildBot: %v", err)
	}
	defer cleanup()

	script := strings.Join([]string{"book a train", "Norwich", "/new", "/2"}, "\n")
	var out bytes.Buffer
	if err := runChat(ctx, bot, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runChat: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Hi! I'm your rail assistant",
		"1) Book a ticket",
		"And where are you travelling from?",
		"[DEP: Norwich]\nWhen do you want to depart?",
		"As per latest train data",
		"Goodbye!",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Count(got, "Hi! I'm your rail assistant") != 2 {
		t.Errorf("/new should greet again:\n%s", got)
	}
}

func TestFrame(t *testing.T) {
	c := &conversation{}
	c.last.Text = "{REQ:ADT}How many adults (16+) will be travelling?"
	c.last.Suggestions = []string{"{TAG:ADT}0", "{TAG:ADT}1"}

	if got := c.frame("/2"); got != "{TAG:ADT}1" {
		t.Errorf("frame(/2) = %q", got)
	}
	if got := c.frame("3"); got != "{TAG:ADT} 3" {
		t.Errorf("frame(3) = %q", got)
	}
	if got := c.frame("/9"); got != "{TAG:ADT} /9" {
		t.Errorf("frame(/9) = %q", got)
	}
	if got := c.frame("/new"); got != "{RELOAD}" {
		t.Errorf("frame(/new) = %q", got)
	}
}

func TestImportAndLookup(t *testing.T) {
	ctx := context.Background()
	db := filepath.Join(t.TempDir(), "stations.db")

	if _, err := importStations(ctx, "", "seed.yaml"); err == nil {
		t.Error("import without a database should fail")
	}

	n, err := importStations(ctx, db, filepath.Join(repoRoot(t), "testdata", "stations.yaml"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 21 {
		t.Errorf("imported %d stations, want 21", n)
	}

	dir, err := sqlite.Open(ctx, db)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer dir.Close()
	r := slots.NewStationResolver(dir)

	var out bytes.Buffer
	if err := lookupStation(ctx, r, "norwich", &out); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if out.String() != "NRW  Norwich\n" {
		t.Errorf("got %q", out.String())
	}

	out.Reset()
	if err := lookupStation(ctx, r, "Birmingham", &out); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if out.String() != "BHM  Birmingham New Street\n" {
		t.Errorf("got %q", out.String())
	}

	out.Reset()
	if err := lookupStation(ctx, r, "London", &out); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !strings.Contains(out.String(), "is ambiguous") {
		t.Errorf("got %q", out.String())
	}

	err = lookupStation(ctx, r, "Atlantis", &out)
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
