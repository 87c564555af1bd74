package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/magasin/internal/model"
)

// CreateEmployee creates a new employee.
func CreateEmployee(ctx context.Context, db *sql.DB, name, department string) (*model.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: employee name required", ErrInvalid)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO employees (name, department) VALUES (?, ?)`,
		name, nullable(department),
	)
	if err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting employee id: %w", err)
	}

	return &model.Employee{ID: flexID(id), Name: name, Department: strings.TrimSpace(department)}, nil
}

// ListEmployees returns all employees ordered by name.
func ListEmployees(ctx context.Context, db *sql.DB) ([]model.Employee, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, department FROM employees ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var (
			id         int64
			e          model.Employee
			department sql.NullString
		)
		if err := rows.Scan(&id, &e.Name, &department); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		e.ID = flexID(id)
		e.Department = department.String
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
