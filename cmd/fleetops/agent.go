package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/benmeehan/fleetops/internal/service_registry"
	"github.com/benmeehan/fleetops/internal/services"
	"github.com/benmeehan/fleetops/internal/tracking"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the driver status board up to date until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.config.Services.DriverStatus

			var mu sync.Mutex
			render := func(view services.View) {
				if view.Loading {
					return
				}
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(a.out, "\n%s\n", view.UpdatedAt.Format("15:04:05"))
				if err := a.printDriverStatuses(view.Drivers); err != nil {
					a.logger.Error().Err(err).Msg("Failed to print driver statuses")
				}
			}

			poller := services.NewDriverStatusPoller(
				cfg.Interval,
				cfg.Workers,
				a.client,
				tracking.NewClassifier(cfg.StaleAfter, cfg.MovingThresholdKmh),
				loggingNotifier{logger: a.logger, w: cmd.ErrOrStderr()},
				a.logger,
				render,
			)
			if err := poller.Start(); err != nil {
				return err
			}

			waitForSignal(cmd.Context())
			return poller.Stop()
		},
	}
}

func newAgentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "agent",
		Short: "Run the configured background services",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := service_registry.NewServiceRegistry(a.client, a.store, loggingNotifier{logger: a.logger, w: cmd.ErrOrStderr()}, a.logger)
			if err := registry.RegisterServices(a.config, nil); err != nil {
				return err
			}
			if len(registry.Names()) == 0 {
				return fmt.Errorf("no services enabled in %s", a.configPath)
			}

			if err := registry.StartServices(); err != nil {
				return err
			}
			a.logger.Info().Msg("All services started successfully")

			waitForSignal(cmd.Context())

			a.logger.Info().Msg("Shutting down gracefully...")
			return registry.StopServices()
		},
	}
}

func waitForSignal(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}
