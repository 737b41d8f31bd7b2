// Package stations defines the station directory consulted when resolving
// departure and arrival stations.
package stations

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Station is one directory entry.
type Station struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Directory is the station lookup collaborator.
type Directory interface {
	// LookupExact matches s case-insensitively against station codes, then
	// against names. A name match counts only when it is unique.
	LookupExact(ctx context.Context, s string) (Station, bool, error)

	// AllCandidates returns every station, ordered by code.
	AllCandidates(ctx context.Context) ([]Station, error)

	Close() error
}

// Writer is implemented by directories that can be populated.
type Writer interface {
	UpsertStations(ctx context.Context, list []Station) error
}

// seedFile is the YAML layout of a station list.
type seedFile struct {
	Stations []Station `yaml:"stations"`
}

// LoadSeed reads a YAML station list from path.
func LoadSeed(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open station seed: %w", err)
	}
	defer f.Close()
	return ReadSeed(f)
}

// ReadSeed decodes a YAML station list.
func ReadSeed(r io.Reader) ([]Station, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode station seed: %w", err)
	}
	for i, s := range seed.Stations {
		if strings.TrimSpace(s.Code) == "" || strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("station seed entry %d: code and name are required", i)
		}
	}
	return seed.Stations, nil
}

// Vocabulary returns the lowercase words that make up station names. The
// annotator uses it to recognise lowercase station mentions.
func Vocabulary(ctx context.Context, d Directory) ([]string, error) {
	all, err := d.AllCandidates(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, s := range all {
		for _, w := range strings.Fields(strings.ToLower(s.Name)) {
			w = strings.Trim(w, "()")
			if w != "" {
				seen[w] = struct{}{}
			}
		}
		seen[strings.ToLower(s.Code)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for w := range seen {
		out = append(out, w)
	}
	sort.Strings(out)
	return out, nil
}
