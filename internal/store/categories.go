package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/magasin/internal/model"
)

// ErrDuplicate is returned when a unique name is already taken.
var ErrDuplicate = errors.New("already exists")

// CreateCategory creates a new category.
func CreateCategory(ctx context.Context, db *sql.DB, name, description string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name required", ErrInvalid)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, description) VALUES (?, ?)`,
		name, nullable(description),
	)
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("category %q %w", name, ErrDuplicate)
	}
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID, or nil if it does not exist.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	var (
		cid         int64
		c           model.Category
		description sql.NullString
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE id = ?`, id,
	).Scan(&cid, &c.Name, &description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.ID = flexID(cid)
	c.Description = description.String
	return &c, nil
}

// ListCategories returns all categories ordered by id.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var (
			id          int64
			c           model.Category
			description sql.NullString
		)
		if err := rows.Scan(&id, &c.Name, &description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.ID = flexID(id)
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
