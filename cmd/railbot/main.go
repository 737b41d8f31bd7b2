// Command railbot runs the train assistant as a terminal chat or an HTTP
// service, and manages its station directory.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/railbot/pkg/railbot"
	"github.com/cognicore/railbot/pkg/railbot/config"
)

var (
	cfgFile  string
	dbPath   string
	seedPath string
	verbose  bool
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "railbot",
	Short: "Train booking and delay prediction assistant",
	Long: `railbot guides a passenger through booking a train ticket or
predicting the delay of a journey, one question at a time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "station database, overrides stations.db_path")
	rootCmd.PersistentFlags().StringVar(&seedPath, "stations", "", "station seed file, overrides stations.seed_path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config and applies the flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return nil, err
		}
	}
	if dbPath != "" {
		cfg.Stations.DBPath = dbPath
	}
	if seedPath != "" {
		cfg.Stations.SeedPath = seedPath
	}
	return cfg, nil
}

// buildBot loads the components for cfg and wraps them in a Bot. The
// returned cleanup closes the station directory.
func buildBot(ctx context.Context, cfg *config.Config, log *zap.Logger) (*railbot.Bot, func(), error) {
	comp, err := (&config.Loader{Config: cfg, Logger: log}).Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load components: %w", err)
	}
	bot, err := railbot.New(railbot.Options{
		Components:      comp,
		CycleMultiplier: cfg.Engine.CycleMultiplier,
		Logger:          log,
	})
	if err != nil {
		comp.Close()
		return nil, nil, err
	}
	cleanup := func() {
		if err := comp.Close(); err != nil {
			log.Warn("close station directory", zap.Error(err))
		}
	}
	return bot, cleanup, nil
}
