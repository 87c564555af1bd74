package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/magasin/internal/model"
)

// NewMovement holds the fields of a borrow record. Dates are
// "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD"; an empty ReturnDate leaves the
// movement open.
type NewMovement struct {
	ToolID         int64
	EmployeeID     int64
	BorrowDate     string
	ExpectedReturn string
	ReturnDate     string
}

// CreateMovement records a borrow and updates the tool's last checkout date.
func CreateMovement(ctx context.Context, db *sql.DB, m NewMovement) (*model.RawMovement, error) {
	borrowed := strings.TrimSpace(m.BorrowDate)
	if borrowed == "" {
		return nil, fmt.Errorf("%w: borrow date required", ErrInvalid)
	}
	status := model.MovementCheckedOut
	if strings.TrimSpace(m.ReturnDate) != "" {
		status = model.MovementReturned
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO movements (tool_id, employee_id, date_emprunt, expected_return, return_date, status)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		m.ToolID, m.EmployeeID, borrowed, nullable(m.ExpectedReturn), nullable(m.ReturnDate), status,
	)
	if err != nil {
		return nil, fmt.Errorf("creating movement: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting movement id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tools SET last_checked_out = ?
		 WHERE id = ? AND (last_checked_out IS NULL OR last_checked_out < ?)`,
		borrowed, m.ToolID, borrowed,
	)
	if err != nil {
		return nil, fmt.Errorf("updating tool checkout date: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing movement: %w", err)
	}

	return &model.RawMovement{
		ID:             flexID(id),
		ToolID:         flexID(m.ToolID),
		EmployeeID:     flexID(m.EmployeeID),
		BorrowDate:     model.Flex(borrowed),
		ExpectedReturn: flexString(nullable(m.ExpectedReturn)),
		ReturnDate:     flexString(nullable(m.ReturnDate)),
		Status:         model.Flex(status),
	}, nil
}

// ListMovements returns every movement ordered by id.
func ListMovements(ctx context.Context, db *sql.DB) ([]model.RawMovement, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, tool_id, employee_id, date_emprunt, expected_return, return_date, status
		 FROM movements ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing movements: %w", err)
	}
	defer rows.Close()

	var movements []model.RawMovement
	for rows.Next() {
		var (
			id, toolID, employeeID int64
			borrowed, status       string
			expected, returned     sql.NullString
		)
		if err := rows.Scan(&id, &toolID, &employeeID, &borrowed, &expected, &returned, &status); err != nil {
			return nil, fmt.Errorf("scanning movement: %w", err)
		}
		movements = append(movements, model.RawMovement{
			ID:             flexID(id),
			ToolID:         flexID(toolID),
			EmployeeID:     flexID(employeeID),
			BorrowDate:     model.Flex(borrowed),
			ExpectedReturn: flexString(expected),
			ReturnDate:     flexString(returned),
			Status:         model.Flex(status),
		})
	}
	return movements, rows.Err()
}
