package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/magasin/internal/config"
	"github.com/erazemk/magasin/internal/gateway"
	"github.com/erazemk/magasin/internal/inventory"
	"github.com/erazemk/magasin/internal/logger"
	"github.com/erazemk/magasin/internal/render"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	envFile string

	cfg     *config.Config
	log     *zap.Logger
	cleanup func()
	client  *gateway.Client
	out     *render.Renderer
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "magasin",
		Short:         "Browse and manage a tool inventory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.cleanup != nil {
				a.cleanup()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load environment variables from this file (default .env)")
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newToolsCmd(a),
		newShowCmd(a),
		newSearchCmd(a),
		newHistoryCmd(a),
		newCategoriesCmd(a),
		newEmployeesCmd(a),
		newStatsCmd(a),
		newAddToolCmd(a),
		newAddCategoryCmd(a),
		newWatchCmd(a),
		newBrowseCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile, cmd.Flags())
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	log, cleanup, err := logger.New(logger.Options{
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
		Out:   os.Stderr,
		Err:   os.Stderr,
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.cleanup = cleanup
	a.client = gateway.New(gateway.Options{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Retries: cfg.Retries,
		Logger:  logger.Named(log, "gateway"),
	})
	a.out = render.New(cmd.OutOrStdout(), format)

	log.Debug("configured",
		zap.String("base_url", cfg.BaseURL),
		zap.Int("page_size", cfg.PageSize),
		zap.String("scope", cfg.Scope),
	)
	return nil
}

// viewModel builds a view-model over the configured server.
func (a *app) viewModel(scope inventory.Scope) *inventory.ViewModel {
	return inventory.New(a.client, inventory.Options{
		PageSize: a.cfg.PageSize,
		Scope:    scope,
		Logger:   logger.Named(a.log, "inventory"),
	})
}

// scope returns the configured filter scope.
func (a *app) scope() (inventory.Scope, error) {
	return inventory.ParseScope(a.cfg.Scope)
}

// fail renders err in text mode and exits non-zero. Structured output
// leaves the error to stderr so stdout stays parseable.
func (a *app) fail(err error) error {
	if a.out.Format() == render.FormatText {
		a.out.Error(err)
		return exitSilent(1)
	}
	return err
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
