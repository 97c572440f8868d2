package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/prxssh/mediactl/internal/config"
	"github.com/prxssh/mediactl/internal/driver"
	"github.com/prxssh/mediactl/internal/metrics"
	"github.com/prxssh/mediactl/internal/player"
	"github.com/prxssh/mediactl/pkg/rng"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Converge the configured player's playlist against the selection network forever",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()

		n, err := loadNetwork(cfg)
		if err != nil {
			return err
		}

		client, err := player.NewClient(cfg.PlayerBaseURL, cfg.PlayerPassword, cfg.RequestTimeout, cfg.DialTimeout, logger)
		if err != nil {
			return fmt.Errorf("build player client: %w", err)
		}

		var m *metrics.Metrics
		if cfg.MetricsEnabled {
			m = metrics.New()
		}

		d := driver.New(logger, driver.Config{
			PollInterval:    cfg.PollInterval,
			LookaheadCount:  cfg.LookaheadCount,
			MaxHistoryCount: cfg.MaxHistoryCount,
		}, client, n, rng.CryptoSource{}, m)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger.Info("mediactl run starting", "player_base_url", cfg.PlayerBaseURL, "poll_interval", cfg.PollInterval)

		g, gctx := errgroup.WithContext(ctx)
		if m != nil {
			srv := metrics.NewServer(cfg.MetricsBindAddr, m)
			g.Go(func() error { return srv.Serve(gctx) })
			logger.Info("metrics server starting", "addr", cfg.MetricsBindAddr)
		}
		g.Go(func() error { return d.Run(gctx) })

		if err := g.Wait(); err != nil {
			return err
		}

		return saveNetwork(cfg, n)
	},
}
