package stations

import (
	"context"
	"strings"
	"testing"
)

type listDir []Station

func (l listDir) LookupExact(context.Context, string) (Station, bool, error) {
	return Station{}, false, nil
}
func (l listDir) AllCandidates(context.Context) ([]Station, error) { return l, nil }
func (l listDir) Close() error                                     { return nil }

func TestReadSeed(t *testing.T) {
	in := `
stations:
  - code: NRW
    name: Norwich
  - code: ZLS
    name: London Liverpool Street
`
	list, err := ReadSeed(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadSeed: %v", err)
	}
	if len(list) != 2 || list[1].Code != "ZLS" {
		t.Errorf("unexpected seed: %+v", list)
	}

	if _, err := ReadSeed(strings.NewReader("stations:\n  - code: X\n")); err == nil {
		t.Error("expected error for entry without name")
	}
}

func TestVocabulary(t *testing.T) {
	words, err := Vocabulary(context.Background(), listDir{
		{Code: "SRA", Name: "Stratford (London)"},
		{Code: "ZLS", Name: "London Liverpool Street"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"stratford": true, "london": true, "liverpool": true, "street": true, "sra": true, "zls": true}
	if len(words) != len(want) {
		t.Fatalf("words = %v", words)
	}
	for _, w := range words {
		if !want[w] {
			t.Errorf("unexpected word %q", w)
		}
	}
}
