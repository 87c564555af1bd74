package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/magasin/internal/inventory"
	"github.com/erazemk/magasin/internal/model"
	"github.com/erazemk/magasin/internal/photo"
)

func newAddToolCmd(a *app) *cobra.Command {
	var (
		tool      model.NewTool
		photoPath string
	)

	cmd := &cobra.Command{
		Use:   "add-tool <name>",
		Short: "Create a tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool.Name = args[0]
			if photoPath != "" {
				p, err := photo.Load(photoPath)
				if err != nil {
					return a.fail(err)
				}
				tool.Photo = p
			}

			vm := a.viewModel(inventory.ScopePage)
			defer vm.Close()

			created, err := vm.AddTool(cmd.Context(), tool)
			if err != nil && created.ID == "" {
				return a.fail(err)
			}
			if err != nil {
				a.log.Warn("tool created but reload failed", zap.Error(err))
			}
			return a.out.Tool(created, vm.State().Categories)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&tool.CategoryID, "category", "", "category id")
	flags.StringVar(&tool.LocRow, "row", "", "storage row")
	flags.StringVar(&tool.LocCol, "column", "", "storage column")
	flags.StringVar(&tool.LocShelf, "shelf", "", "storage shelf")
	flags.StringVar(&tool.Description, "description", "", "free-form description")
	flags.StringVar(&tool.PurchaseDate, "purchase-date", "", "purchase date, YYYY-MM-DD")
	flags.StringVar(&tool.Price, "price", "", "purchase price")
	flags.StringVar(&tool.Status, "status", "", "initial status (server default Disponible)")
	flags.StringVar(&photoPath, "photo", "", "JPEG or PNG photo to attach")

	return cmd
}

func newAddCategoryCmd(a *app) *cobra.Command {
	var category model.NewCategory

	cmd := &cobra.Command{
		Use:   "add-category <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category.Name = args[0]

			vm := a.viewModel(inventory.ScopePage)
			defer vm.Close()

			created, err := vm.AddCategory(cmd.Context(), category)
			if err != nil {
				return a.fail(err)
			}
			return a.out.Category(created)
		},
	}

	cmd.Flags().StringVar(&category.Description, "description", "", "category description")
	return cmd
}
