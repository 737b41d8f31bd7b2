package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/railbot/pkg/railbot/config"
	"github.com/cognicore/railbot/pkg/railbot/internalerr"
	"github.com/cognicore/railbot/pkg/railbot/slots"
	"github.com/cognicore/railbot/pkg/railbot/stations"
	"github.com/cognicore/railbot/pkg/railbot/stations/sqlite"
)

var stationsCmd = &cobra.Command{
	Use:   "stations",
	Short: "Manage the station directory",
}

var importCmd = &cobra.Command{
	Use:   "import <seed.yaml>",
	Short: "Load a YAML station list into the station database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		n, err := importStations(cmd.Context(), cfg.Stations.DBPath, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d stations into %s\n", n, cfg.Stations.DBPath)
		return nil
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Show how a station mention resolves",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		comp, err := (&config.Loader{Config: cfg, Logger: logger}).Load(cmd.Context())
		if err != nil {
			return err
		}
		defer comp.Close()
		return lookupStation(cmd.Context(), comp.Stations, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func init() {
	stationsCmd.AddCommand(importCmd, lookupCmd)
	rootCmd.AddCommand(stationsCmd)
}

func importStations(ctx context.Context, db, seed string) (int, error) {
	if db == "" {
		return 0, fmt.Errorf("a station database is required (--db or stations.db_path)")
	}
	list, err := stations.LoadSeed(seed)
	if err != nil {
		return 0, err
	}
	dir, err := sqlite.Open(ctx, db)
	if err != nil {
		return 0, err
	}
	defer dir.Close()
	if err := dir.UpsertStations(ctx, list); err != nil {
		return 0, err
	}
	return len(list), nil
}

func lookupStation(ctx context.Context, r *slots.StationResolver, name string, out io.Writer) error {
	res, err := r.Resolve(ctx, name)
	if err != nil {
		return err
	}
	switch res.Kind {
	case slots.Resolved:
		fmt.Fprintf(out, "%s  %s\n", res.Station.Code, res.Station.Name)
	case slots.Ambiguous:
		fmt.Fprintf(out, "%q is ambiguous:\n", name)
		for _, s := range res.Alternatives {
			fmt.Fprintf(out, "  %s  %s  (score %.0f)\n", s.Code, s.Name, slots.Similarity(s.Name, name))
		}
	default:
		fmt.Fprintf(out, "no station matches %q\n", name)
		return fmt.Errorf("station %q: %w", name, internalerr.ErrNotFound)
	}
	return nil
}
