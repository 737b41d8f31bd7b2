// Package memdir is an in-memory station directory for tests and small
// deployments.
package memdir

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/cognicore/railbot/pkg/railbot/stations"
)

// Directory implements stations.Directory over a map keyed by code.
type Directory struct {
	mu    sync.RWMutex
	byKey map[string]stations.Station
}

var (
	_ stations.Directory = (*Directory)(nil)
	_ stations.Writer    = (*Directory)(nil)
)

// New creates a directory holding list.
func New(list ...stations.Station) *Directory {
	d := &Directory{byKey: make(map[string]stations.Station)}
	for _, s := range list {
		d.byKey[strings.ToLower(s.Code)] = s
	}
	return d
}

// Close implements stations.Directory.
func (d *Directory) Close() error { return nil }

// UpsertStations implements stations.Writer.
func (d *Directory) UpsertStations(ctx context.Context, list []stations.Station) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range list {
		d.byKey[strings.ToLower(s.Code)] = s
	}
	return nil
}

// LookupExact implements stations.Directory.
func (d *Directory) LookupExact(ctx context.Context, s string) (stations.Station, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(s))
	if st, ok := d.byKey[key]; ok {
		return st, true, nil
	}
	var found []stations.Station
	for _, st := range d.byKey {
		if strings.ToLower(st.Name) == key {
			found = append(found, st)
		}
	}
	if len(found) == 1 {
		return found[0], true, nil
	}
	return stations.Station{}, false, nil
}

// AllCandidates implements stations.Directory.
func (d *Directory) AllCandidates(ctx context.Context) ([]stations.Station, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]stations.Station, 0, len(d.byKey))
	for _, st := range d.byKey {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}
