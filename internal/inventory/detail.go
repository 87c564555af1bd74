package inventory

import (
	"strings"

	"github.com/erazemk/magasin/internal/model"
)

// HistoryEntry is a movement with its employee name resolved.
type HistoryEntry struct {
	Movement model.Movement `json:"movement" yaml:"movement"`
	Employee string         `json:"employee" yaml:"employee"`
}

// Detail is the open tool detail view.
type Detail struct {
	Tool    model.Tool     `json:"tool" yaml:"tool"`
	History []HistoryEntry `json:"history" yaml:"history"`
}

// Lookup finds a tool by id in the loaded list.
func Lookup(tools []model.Tool, id string) (model.Tool, bool) {
	for _, t := range tools {
		if t.ID == id {
			return t, true
		}
	}
	return model.Tool{}, false
}

// EmployeeName resolves an employee id, falling back to "#<id>".
func EmployeeName(employees []model.Employee, id string) string {
	for _, e := range employees {
		if e.ID.String() == id {
			return e.Name
		}
	}
	return "#" + id
}

// History returns the movements of toolID, in list order. No match is an
// empty result, not an error.
func History(movements []model.Movement, employees []model.Employee, toolID string) []HistoryEntry {
	out := []HistoryEntry{}
	for _, m := range movements {
		if m.ToolID == toolID {
			out = append(out, HistoryEntry{Movement: m, Employee: EmployeeName(employees, m.EmployeeID)})
		}
	}
	return out
}

// FilterHistory returns the movements whose tool id contains toolQuery and
// whose employee name contains employeeQuery, both case-insensitive.
func FilterHistory(movements []model.Movement, employees []model.Employee, toolQuery, employeeQuery string) []HistoryEntry {
	tq := strings.ToLower(strings.TrimSpace(toolQuery))
	eq := strings.ToLower(strings.TrimSpace(employeeQuery))

	out := []HistoryEntry{}
	for _, m := range movements {
		name := EmployeeName(employees, m.EmployeeID)
		if !strings.Contains(strings.ToLower(m.ToolID), tq) {
			continue
		}
		if !strings.Contains(strings.ToLower(name), eq) {
			continue
		}
		out = append(out, HistoryEntry{Movement: m, Employee: name})
	}
	return out
}
