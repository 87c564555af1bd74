package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/magasin/internal/inventory"
	"github.com/erazemk/magasin/internal/render"
)

type toolsOptions struct {
	page     int
	all      bool
	criteria inventory.Criteria
}

func newToolsCmd(a *app) *cobra.Command {
	var opts toolsOptions

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List a page of tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scope, err := a.scope()
			if err != nil {
				return err
			}
			if opts.all {
				scope = inventory.ScopeAll
			}

			vm := a.viewModel(scope)
			defer vm.Close()

			ctx := cmd.Context()
			loadErr := vm.Load(ctx)
			// Criteria first: in ScopeAll they reset the page.
			if !opts.criteria.IsZero() {
				vm.SetCriteria(opts.criteria)
			}
			if opts.page > 1 {
				if err := vm.GoToPage(ctx, opts.page); err != nil {
					return a.fail(err)
				}
			}

			if err := a.out.Inventory(vm.State()); err != nil {
				return err
			}
			if loadErr != nil {
				// Text output already carries State.Err.
				if a.out.Format() == render.FormatText {
					return exitSilent(1)
				}
				return loadErr
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.page, "page", "p", 1, "page to show")
	flags.BoolVar(&opts.all, "all", false, "filter across every page instead of the loaded one")
	flags.StringVarP(&opts.criteria.Query, "query", "q", "", "match tool name or id")
	flags.StringVar(&opts.criteria.CategoryID, "category", "", "category id")
	flags.StringVar(&opts.criteria.EmployeeID, "employee", "", "only tools currently held by this employee id")
	flags.StringVar(&opts.criteria.Status, "status", "", "exact status, e.g. Disponible")
	flags.StringVar(&opts.criteria.DateAdded, "date-added", "", "date added, YYYY-MM-DD")

	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a tool with its movement history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// The tool may live on any page.
			vm := a.viewModel(inventory.ScopeAll)
			defer vm.Close()

			if err := vm.Load(cmd.Context()); err != nil && len(vm.State().Tools) == 0 {
				return a.fail(err)
			}
			if err := vm.OpenDetail(args[0]); err != nil {
				return a.fail(err)
			}

			s := vm.State()
			return a.out.Detail(*s.Detail, s.Categories)
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <term>",
		Short: "Search tools by name on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vm := a.viewModel(inventory.ScopePage)
			defer vm.Close()

			ctx := cmd.Context()
			tools, err := vm.FindTools(ctx, args[0])
			if err != nil {
				return a.fail(err)
			}

			// Category names are cosmetic here.
			categories, err := a.client.Categories(ctx)
			if err != nil {
				a.log.Debug("categories unavailable", zap.Error(err))
			}
			return a.out.Tools(tools, categories)
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	var tool, employee string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List tool movements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			movements, err := a.client.Movements(ctx)
			if err != nil {
				return a.fail(err)
			}
			employees, err := a.client.Employees(ctx)
			if err != nil {
				return a.fail(err)
			}

			entries := inventory.FilterHistory(inventory.NormalizeMovements(movements), employees, tool, employee)
			return a.out.History(entries)
		},
	}

	cmd.Flags().StringVar(&tool, "tool", "", "only movements whose tool id contains this")
	cmd.Flags().StringVar(&employee, "employee", "", "only movements by employees whose name contains this")
	return cmd
}
