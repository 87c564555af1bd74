package main

import (
	"github.com/spf13/cobra"

	"github.com/erazemk/magasin/internal/inventory"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List tool categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			categories, err := a.client.Categories(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			return a.out.Categories(categories)
		},
	}
}

func newEmployeesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "employees",
		Short: "List employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			employees, err := a.client.Employees(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			return a.out.Employees(employees)
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show inventory statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vm := a.viewModel(inventory.ScopePage)
			defer vm.Close()

			ctx := cmd.Context()
			if err := vm.Load(ctx); err != nil && len(vm.State().Tools) == 0 {
				return a.fail(err)
			}
			return a.out.Stats(vm.State().Stats())
		},
	}
}
