package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/railbot/pkg/railbot/dates"
	"github.com/cognicore/railbot/pkg/railbot/estimate"
	"github.com/cognicore/railbot/pkg/railbot/fares"
	"github.com/cognicore/railbot/pkg/railbot/ingest"
	"github.com/cognicore/railbot/pkg/railbot/lexicon"
	"github.com/cognicore/railbot/pkg/railbot/slots"
	"github.com/cognicore/railbot/pkg/railbot/stations"
	"github.com/cognicore/railbot/pkg/railbot/stations/memdir"
	"github.com/cognicore/railbot/pkg/railbot/stations/sqlite"
)

// Loader builds the session collaborators described by a Config.
type Loader struct {
	Config *Config
	Logger *zap.Logger
	// Now overrides the clock; nil uses time.Now in the configured zone.
	Now func() time.Time
}

// Components holds the collaborators shared by every session.
type Components struct {
	Directory stations.Directory
	Lexicon   *lexicon.Lexicon
	Annotator *ingest.RuleAnnotator
	Stations  *slots.StationResolver
	Dates     *slots.DateResolver
	Fares     fares.Service
	Estimator estimate.Estimator
}

// Close releases the station directory.
func (c *Components) Close() error {
	if c.Directory == nil {
		return nil
	}
	return c.Directory.Close()
}

// Load opens the directory, applies the seed file and builds the rest.
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	log := l.Logger
	if log == nil {
		log = zap.NewNop()
	}

	now := l.Now
	if now == nil {
		loc := time.Local
		if cfg.Clock.Location != "" {
			var err error
			if loc, err = time.LoadLocation(cfg.Clock.Location); err != nil {
				return nil, fmt.Errorf("clock location: %w", err)
			}
		}
		now = func() time.Time { return time.Now().In(loc) }
	}

	comp := &Components{}
	dir, err := openDirectory(ctx, cfg.Stations)
	if err != nil {
		return nil, err
	}
	comp.Directory = dir

	if cfg.LexiconPath != "" {
		comp.Lexicon, err = lexicon.LoadFromYAML(cfg.LexiconPath)
		if err != nil {
			comp.Close()
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
	} else {
		comp.Lexicon = lexicon.Default()
	}

	words, err := stations.Vocabulary(ctx, dir)
	if err != nil {
		comp.Close()
		return nil, fmt.Errorf("station vocabulary: %w", err)
	}
	comp.Annotator = ingest.NewRuleAnnotator(comp.Lexicon, words)

	comp.Stations = slots.NewStationResolver(dir)
	comp.Stations.Threshold = cfg.Stations.Threshold
	comp.Stations.MaxAlternatives = cfg.Stations.MaxAlternatives

	comp.Dates = slots.NewDateResolver(dates.NewNatural(now, log.Named("dates")), now)
	if strings.EqualFold(cfg.Clock.DateOrder, string(dates.MDY)) {
		comp.Dates.Order = dates.MDY
	}

	comp.Fares = fares.NewLinkService(cfg.Fares.BaseURL, log.Named("fares"))
	comp.Estimator = estimate.NewCarryOver(log.Named("estimate"))

	log.Info("components loaded",
		zap.Int("stations", len(words)),
		zap.Bool("sqlite", cfg.Stations.DBPath != ""))
	return comp, nil
}

func openDirectory(ctx context.Context, cfg Stations) (stations.Directory, error) {
	var dir interface {
		stations.Directory
		stations.Writer
	}
	if cfg.DBPath != "" {
		db, err := sqlite.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open station db: %w", err)
		}
		dir = db
	} else {
		dir = memdir.New()
	}

	if cfg.SeedPath == "" {
		return dir, nil
	}
	list, err := stations.LoadSeed(cfg.SeedPath)
	if err != nil {
		dir.Close()
		return nil, err
	}
	if err := dir.UpsertStations(ctx, list); err != nil {
		dir.Close()
		return nil, fmt.Errorf("seed stations: %w", err)
	}
	return dir, nil
}
