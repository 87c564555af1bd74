package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/erazemk/magasin/internal/model"
)

const toolSelect = `SELECT t.id, t.name, t.category_id, c.name, t.loc_row, t.loc_col, t.loc_shelf,
        t.description, t.date_ajout, t.purchase_date, t.last_maintenance, t.last_checked_out,
        t.price, t.status,
        CASE WHEN t.photo IS NULL THEN NULL ELSE '/api/tools/' || t.id || '/photo' END
 FROM tools t
 LEFT JOIN categories c ON c.id = t.category_id`

func scanTool(s rowScanner) (*model.RawTool, error) {
	var (
		id                                       int64
		name, status                             string
		categoryID                               sql.NullInt64
		category, row, col, shelf, description   sql.NullString
		added, purchased, maintained, checkedOut sql.NullString
		price                                    sql.NullFloat64
		photo                                    sql.NullString
	)
	err := s.Scan(&id, &name, &categoryID, &category, &row, &col, &shelf,
		&description, &added, &purchased, &maintained, &checkedOut,
		&price, &status, &photo)
	if err != nil {
		return nil, err
	}

	return &model.RawTool{
		ID:              flexID(id),
		Name:            model.Flex(name),
		CategoryID:      flexInt(categoryID),
		Category:        flexString(category),
		LocRow:          flexString(row),
		LocCol:          flexString(col),
		LocShelf:        flexString(shelf),
		Description:     flexString(description),
		DateAdded:       flexString(added),
		PurchaseDate:    flexString(purchased),
		LastMaintenance: flexString(maintained),
		LastCheckedOut:  flexString(checkedOut),
		Price:           flexFloat(price),
		Status:          model.Flex(status),
		Photo:           flexString(photo),
	}, nil
}

func scanTools(rows *sql.Rows) ([]model.RawTool, error) {
	defer rows.Close()

	var tools []model.RawTool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tool: %w", err)
		}
		tools = append(tools, *t)
	}
	return tools, rows.Err()
}

// ListTools returns one page of tools ordered by id. Pages are 1-based.
func ListTools(ctx context.Context, db *sql.DB, page, perPage int) ([]model.RawTool, error) {
	page = max(page, 1)
	if perPage <= 0 {
		perPage = 12
	}

	rows, err := db.QueryContext(ctx,
		toolSelect+` ORDER BY t.id LIMIT ? OFFSET ?`,
		perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, fmt.Errorf("listing tools: %w", err)
	}
	return scanTools(rows)
}

// GetTool returns a tool by ID, or nil if it does not exist.
func GetTool(ctx context.Context, db *sql.DB, id int64) (*model.RawTool, error) {
	t, err := scanTool(db.QueryRowContext(ctx, toolSelect+` WHERE t.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting tool: %w", err)
	}
	return t, nil
}

// FindTools returns tools whose name contains q or whose id equals q.
func FindTools(ctx context.Context, db *sql.DB, q string) ([]model.RawTool, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		toolSelect+` WHERE t.name LIKE ? ESCAPE '\' OR CAST(t.id AS TEXT) = ? ORDER BY t.name`,
		"%"+escapeLike(q)+"%", q,
	)
	if err != nil {
		return nil, fmt.Errorf("finding tools: %w", err)
	}
	return scanTools(rows)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CreateTool inserts a tool with its optional photo.
func CreateTool(ctx context.Context, db *sql.DB, t model.NewTool) (*model.RawTool, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrInvalid)
	}

	var categoryID sql.NullInt64
	if v := strings.TrimSpace(t.CategoryID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: category id %q", ErrInvalid, v)
		}
		categoryID = sql.NullInt64{Int64: id, Valid: true}
	}

	var price sql.NullFloat64
	if v := strings.TrimSpace(t.Price); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: price %q", ErrInvalid, v)
		}
		price = sql.NullFloat64{Float64: p, Valid: true}
	}

	status := strings.TrimSpace(t.Status)
	if status == "" {
		status = model.StatusAvailable
	}

	var photo []byte
	var photoName, photoMime sql.NullString
	if t.Photo != nil {
		photo = t.Photo.Data
		photoName = nullable(t.Photo.Name)
		photoMime = nullable(t.Photo.MIME)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO tools (name, category_id, loc_row, loc_col, loc_shelf, description,
		                    purchase_date, price, status, photo, photo_name, photo_mime)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, categoryID, nullable(t.LocRow), nullable(t.LocCol), nullable(t.LocShelf),
		nullable(t.Description), nullable(t.PurchaseDate), price, status,
		photo, photoName, photoMime,
	)
	if err != nil {
		return nil, fmt.Errorf("creating tool: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting tool id: %w", err)
	}

	return GetTool(ctx, db, id)
}

// CountTools returns the number of tools.
func CountTools(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tools`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting tools: %w", err)
	}
	return n, nil
}

// GetToolPhoto returns a tool's photo data and MIME type.
func GetToolPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var photo []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM tools WHERE id = ?`, id,
	).Scan(&photo, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting tool photo: %w", err)
	}
	return photo, mime.String, nil
}
