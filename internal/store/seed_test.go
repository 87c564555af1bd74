package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/magasin/internal/db"
	"github.com/erazemk/magasin/internal/model"
)

func TestSeed(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := Seed(ctx, database, SeedOptions{Tools: 30, Movements: 10}); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	// A second run leaves existing data alone.
	if err := Seed(ctx, database, SeedOptions{Tools: 30, Movements: 10}); err != nil {
		t.Fatalf("Seed again: %v", err)
	}

	categories, _ := ListCategories(ctx, database)
	employees, _ := ListEmployees(ctx, database)
	movements, _ := ListMovements(ctx, database)
	tools, _ := CountTools(ctx, database)
	if len(categories) != 5 || len(employees) != 8 || tools != 30 || len(movements) != 10 {
		t.Errorf("unexpected counts: %d categories, %d employees, %d tools, %d movements",
			len(categories), len(employees), tools, len(movements))
	}

	page, _ := ListTools(ctx, database, 1, 1)
	if page[0].LastMaintenance == "" || page[0].PurchaseDate == "" || page[0].Category == "" {
		t.Errorf("expected seeded dates and category, got %+v", page[0])
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	ctx := context.Background()
	first := db.NewTestDB(t)
	second := db.NewTestDB(t)
	Seed(ctx, first, DefaultSeed)
	Seed(ctx, second, DefaultSeed)

	a, _ := ListTools(ctx, first, 2, 12)
	b, _ := ListTools(ctx, second, 2, 12)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("tool %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGetStats(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for _, status := range []string{
		model.StatusAvailable, model.StatusAvailable, model.StatusBorrowed,
		model.StatusCheckedOut, model.StatusInRepair, model.StatusBroken,
	} {
		CreateTool(ctx, database, model.NewTool{Name: "Tool", Status: status})
	}

	stats, err := GetStats(ctx, database)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	got := model.Stats{}.Overlay(stats)
	want := model.Stats{Total: 6, Available: 2, Borrowed: 2, Maintenance: 1, OutOfService: 1}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestRowID(t *testing.T) {
	if id, err := rowID(model.Flex("17")); err != nil || id != 17 {
		t.Errorf("rowID(17) = %d, %v", id, err)
	}
	for _, bad := range []model.Flex{"", "abc", "0", "-3"} {
		if _, err := rowID(bad); !errors.Is(err, ErrInvalid) {
			t.Errorf("rowID(%q): expected ErrInvalid, got %v", bad, err)
		}
	}
}
