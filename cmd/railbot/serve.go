package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/railbot/internal/server"
)

var (
	port    int
	idleTTL time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat endpoint over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if port != 0 {
			cfg.Server.Port = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		bot, cleanup, err := buildBot(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		srv := server.New(bot, server.Options{
			Addr:            fmt.Sprintf(":%d", cfg.Server.Port),
			AllowAllOrigins: cfg.Server.AllowAllOrigins,
			Logger:          logger,
		})

		if idleTTL > 0 {
			go func() {
				ticker := time.NewTicker(idleTTL / 4)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						bot.Prune(idleTTL)
					}
				}
			}()
		}

		errc := make(chan error, 1)
		go func() { errc <- srv.Start() }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "listen port, overrides server.port")
	serveCmd.Flags().DurationVar(&idleTTL, "idle-ttl", 30*time.Minute, "drop sessions idle for longer than this")
	rootCmd.AddCommand(serveCmd)
}
