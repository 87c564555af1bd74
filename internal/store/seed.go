package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/erazemk/magasin/internal/model"
)

// SeedOptions sizes the sample data set.
type SeedOptions struct {
	Tools     int
	Movements int
}

// DefaultSeed is the sample data set served by the development backend.
var DefaultSeed = SeedOptions{Tools: 60, Movements: 40}

var (
	seedCategories = []struct{ name, description string }{
		{"Hand Tools", "Wrenches, screwdrivers and hammers"},
		{"Power Tools", "Corded and cordless machines"},
		{"Safety Equipment", "Protective gear for the workshop"},
		{"Measuring Instruments", "Gauges, levels and meters"},
		{"Electrical", "Testers and wiring tools"},
	}
	seedEmployees = []struct{ name, department string }{
		{"Ana Novak", "Maintenance"},
		{"Marc Dubois", "Logistics"},
		{"Léa Martin", "Maintenance"},
		{"Tomaž Kralj", "IT"},
		{"Sophie Bernard", "Administration"},
		{"Luka Horvat", "Logistics"},
		{"Julien Petit", "Maintenance"},
		{"Nina Zupan", "IT"},
	}
	seedToolNames = []string{
		"Drill", "Saw", "Hammer", "Wrench", "Screwdriver", "Level", "Caliper", "Multimeter",
		"Grinder", "Sander", "Pliers", "Chisel", "Helmet", "Goggles", "Gloves", "Clamp",
	}
	seedStatuses = []string{model.StatusAvailable, model.StatusInRepair, model.StatusBroken}
)

// seedEpoch anchors every generated date so the data set is reproducible.
var seedEpoch = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

// Seed inserts a deterministic sample data set into an empty database. It
// does nothing when categories already exist.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return fmt.Errorf("checking existing data: %w", err)
	}
	if n > 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(7152, 2025))

	var categoryIDs []string
	for _, c := range seedCategories {
		created, err := CreateCategory(ctx, db, c.name, c.description)
		if err != nil {
			return fmt.Errorf("seeding categories: %w", err)
		}
		categoryIDs = append(categoryIDs, created.ID.String())
	}

	var employeeIDs []int64
	for _, e := range seedEmployees {
		created, err := CreateEmployee(ctx, db, e.name, e.department)
		if err != nil {
			return fmt.Errorf("seeding employees: %w", err)
		}
		id, err := rowID(created.ID)
		if err != nil {
			return fmt.Errorf("seeding employees: %w", err)
		}
		employeeIDs = append(employeeIDs, id)
	}

	var toolIDs []int64
	for i := range opts.Tools {
		purchased := seedEpoch.AddDate(0, 0, rng.IntN(700))
		name := seedToolNames[i%len(seedToolNames)]
		if i >= len(seedToolNames) {
			name = fmt.Sprintf("%s %d", name, i/len(seedToolNames)+1)
		}

		created, err := CreateTool(ctx, db, model.NewTool{
			Name:         name,
			CategoryID:   categoryIDs[rng.IntN(len(categoryIDs))],
			LocRow:       strconv.Itoa(rng.IntN(10) + 1),
			LocCol:       strconv.Itoa(rng.IntN(10) + 1),
			LocShelf:     strconv.Itoa(rng.IntN(5) + 1),
			Description:  fmt.Sprintf("Workshop %s, bay %d", name, rng.IntN(4)+1),
			PurchaseDate: purchased.Format(time.DateOnly),
			Price:        strconv.FormatFloat(float64(rng.IntN(99000)+1000)/100, 'f', 2, 64),
			Status:       seedStatuses[rng.IntN(len(seedStatuses))],
		})
		if err != nil {
			return fmt.Errorf("seeding tools: %w", err)
		}
		id, err := rowID(created.ID)
		if err != nil {
			return fmt.Errorf("seeding tools: %w", err)
		}
		toolIDs = append(toolIDs, id)

		maintained := purchased.AddDate(0, 0, rng.IntN(470)+30)
		added := purchased.Add(time.Duration(rng.IntN(24*60)) * time.Minute)
		_, err = db.ExecContext(ctx,
			`UPDATE tools SET last_maintenance = ?, date_ajout = ? WHERE id = ?`,
			maintained.Format(time.DateOnly), added.Format(time.DateTime), id,
		)
		if err != nil {
			return fmt.Errorf("seeding tool dates: %w", err)
		}
	}

	if len(toolIDs) == 0 {
		return nil
	}
	for range opts.Movements {
		borrowed := seedEpoch.AddDate(1, 0, rng.IntN(700)).Add(time.Duration(rng.IntN(10)+8) * time.Hour)
		m := NewMovement{
			ToolID:         toolIDs[rng.IntN(len(toolIDs))],
			EmployeeID:     employeeIDs[rng.IntN(len(employeeIDs))],
			BorrowDate:     borrowed.Format(time.DateTime),
			ExpectedReturn: borrowed.AddDate(0, 0, rng.IntN(14)+1).Format(time.DateOnly),
		}
		if rng.Float64() > 0.3 {
			m.ReturnDate = borrowed.AddDate(0, 0, rng.IntN(14)+1).Format(time.DateTime)
		}
		if _, err := CreateMovement(ctx, db, m); err != nil {
			return fmt.Errorf("seeding movements: %w", err)
		}
	}

	return nil
}
