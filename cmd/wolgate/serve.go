package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/wolgate/internal/services/httpapi"
	"github.com/fgeck/wolgate/internal/services/waker"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP wake service",
	Long: `Serve the HTTP control surface:
  GET  /         test page
  POST /wakeup   send a magic packet
  GET  /healthz  liveness probe
  GET  /metrics  Prometheus metrics`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info().
		Str("listen", cfg.Server.Listen).
		Str("default_mac", cfg.WOL.MACAddress).
		Str("broadcast", cfg.WOL.BroadcastAddress).
		Int("port", cfg.WOL.Port).
		Bool("telegram", cfg.Telegram != nil).
		Msg("configuration loaded")

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	srv := httpapi.New(log.Logger, *cfg, waker.New(log.Logger, *cfg))
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server failed")
		return err
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}
