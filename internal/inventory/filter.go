package inventory

import (
	"slices"
	"strings"

	"github.com/erazemk/magasin/internal/model"
)

// Criteria is the conjunctive set of optional tool filters. Empty fields match
// everything.
type Criteria struct {
	Query      string `json:"query,omitempty" yaml:"query,omitempty"`
	CategoryID string `json:"category_id,omitempty" yaml:"category_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty" yaml:"employee_id,omitempty"`
	Status     string `json:"status,omitempty" yaml:"status,omitempty"`
	DateAdded  string `json:"date_added,omitempty" yaml:"date_added,omitempty"`
}

// IsZero reports whether no filter is set.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Query) == "" && c.CategoryID == "" && c.EmployeeID == "" &&
		c.Status == "" && c.DateAdded == ""
}

// Apply returns the tools matching c, preserving order. The result never
// aliases tools. EmployeeID is not evaluated here; see HeldBy.
//
//   - Query matches when the lower-cased name or id contains it.
//   - CategoryID matches the tool's category id or category name.
//   - Status matches exactly.
//   - DateAdded matches the tool's added date formatted as YYYY-MM-DD.
func Apply(tools []model.Tool, c Criteria) []model.Tool {
	q := strings.ToLower(strings.TrimSpace(c.Query))
	if q == "" && c.CategoryID == "" && c.Status == "" && c.DateAdded == "" {
		return slices.Clone(tools)
	}

	out := make([]model.Tool, 0, len(tools))
	for _, t := range tools {
		if matches(t, q, c) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t model.Tool, q string, c Criteria) bool {
	if q != "" {
		inName := strings.Contains(strings.ToLower(t.Name), q)
		inID := strings.Contains(strings.ToLower(t.ID), q)
		if !inName && !inID {
			return false
		}
	}
	if c.CategoryID != "" && t.CategoryID != c.CategoryID && t.Category != c.CategoryID {
		return false
	}
	if c.Status != "" && t.Status != c.Status {
		return false
	}
	if c.DateAdded != "" && FormatDate(t.DateAdded) != c.DateAdded {
		return false
	}
	return true
}

// HeldBy returns the tools that have an unreturned movement by employeeID.
// An empty employeeID returns tools unchanged.
func HeldBy(tools []model.Tool, movements []model.Movement, employeeID string) []model.Tool {
	if employeeID == "" {
		return tools
	}

	held := make(map[string]bool)
	for _, m := range movements {
		if m.EmployeeID == employeeID && m.Open() {
			held[m.ToolID] = true
		}
	}

	out := make([]model.Tool, 0, len(held))
	for _, t := range tools {
		if held[t.ID] {
			out = append(out, t)
		}
	}
	return out
}
