package inventory

import (
	"strings"
	"time"

	"github.com/erazemk/magasin/internal/model"
)

// dateLayouts are tried in order when parsing server dates. The last two
// cover the backend's default datetime rendering.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses a server date string. Empty or unparseable input yields nil.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// FormatDate renders t as YYYY-MM-DD in UTC, or "" when t is nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}

// Normalize converts a server tool record into its canonical form.
func Normalize(raw model.RawTool) model.Tool {
	categoryID := raw.CategoryID
	if categoryID == "" {
		categoryID = raw.Category
	}

	return model.Tool{
		ID:         raw.ID.String(),
		Name:       raw.Name.String(),
		CategoryID: categoryID.String(),
		Category:   raw.Category.String(),
		Location: model.Location{
			Row:   raw.LocRow.String(),
			Col:   raw.LocCol.String(),
			Shelf: raw.LocShelf.String(),
		},
		Description:     raw.Description.String(),
		DateAdded:       ParseDate(raw.DateAdded.String()),
		PurchaseDate:    ParseDate(raw.PurchaseDate.String()),
		LastMaintenance: ParseDate(raw.LastMaintenance.String()),
		LastCheckedOut:  ParseDate(raw.LastCheckedOut.String()),
		Price:           raw.Price,
		Status:          raw.Status.String(),
		Photo:           raw.Photo.String(),
	}
}

// NormalizeAll normalizes every record in raws.
func NormalizeAll(raws []model.RawTool) []model.Tool {
	tools := make([]model.Tool, 0, len(raws))
	for _, r := range raws {
		tools = append(tools, Normalize(r))
	}
	return tools
}

// NormalizeMovement converts a server movement record into its canonical form.
func NormalizeMovement(raw model.RawMovement) model.Movement {
	return model.Movement{
		ID:             raw.ID.String(),
		ToolID:         raw.ToolID.String(),
		EmployeeID:     raw.EmployeeID.String(),
		BorrowDate:     ParseDate(raw.BorrowDate.String()),
		ExpectedReturn: ParseDate(raw.ExpectedReturn.String()),
		ReturnDate:     ParseDate(raw.ReturnDate.String()),
		Status:         raw.Status.String(),
	}
}

// NormalizeMovements normalizes every record in raws.
func NormalizeMovements(raws []model.RawMovement) []model.Movement {
	moves := make([]model.Movement, 0, len(raws))
	for _, r := range raws {
		moves = append(moves, NormalizeMovement(r))
	}
	return moves
}
