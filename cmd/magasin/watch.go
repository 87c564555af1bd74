package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/magasin/internal/logger"
	"github.com/erazemk/magasin/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the inventory on a schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := a.scope()
			if err != nil {
				return err
			}

			vm := a.viewModel(scope)
			defer vm.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if err := vm.Load(ctx); err != nil {
				a.log.Warn("initial load incomplete", zap.Error(err))
			}
			if err := a.out.Inventory(vm.State()); err != nil {
				return err
			}

			w, err := watch.New(vm, schedule, watch.Options{
				Timeout: a.cfg.Timeout,
				Logger:  logger.Named(a.log, "watch"),
				OnTick: func(error) {
					if err := a.out.Inventory(vm.State()); err != nil {
						a.log.Error("failed to render inventory", zap.Error(err))
					}
				},
			})
			if err != nil {
				return err
			}

			w.Start()
			a.log.Info("watching", zap.String("schedule", schedule), zap.Time("next", w.Next()))
			<-ctx.Done()
			w.Stop()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", watch.DefaultSchedule, "cron schedule, e.g. \"@every 30s\" or \"*/5 * * * *\"")
	return cmd
}
