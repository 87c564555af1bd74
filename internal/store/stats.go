package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/magasin/internal/model"
)

// GetStats counts tools by status group.
func GetStats(ctx context.Context, db *sql.DB) (*model.ServerStats, error) {
	var total, available, borrowed, maintenance, broken int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM tools`,
		model.StatusAvailable,
		model.StatusBorrowed, model.StatusCheckedOut,
		model.StatusInRepair, model.StatusMaintenance,
		model.StatusBroken,
	).Scan(&total, &available, &borrowed, &maintenance, &broken)
	if err != nil {
		return nil, fmt.Errorf("counting tools by status: %w", err)
	}

	return &model.ServerStats{
		TotalTools:        &total,
		ActiveTools:       &available,
		AvailableTools:    &available,
		BorrowedTools:     &borrowed,
		MaintenanceTools:  &maintenance,
		OutOfServiceTools: &broken,
	}, nil
}
