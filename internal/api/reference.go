package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/magasin/internal/model"
	"github.com/erazemk/magasin/internal/store"
)

// ReferenceHandler serves the read-only lists: employees, movements and
// tool counters.
type ReferenceHandler struct {
	DB *sql.DB
}

// Employees handles GET /api/employees.
func (h *ReferenceHandler) Employees(w http.ResponseWriter, r *http.Request) {
	employees, err := store.ListEmployees(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, err, "failed to list employees")
		return
	}
	if employees == nil {
		employees = []model.Employee{}
	}
	jsonResponse(w, http.StatusOK, employees)
}

// Movements handles GET /api/movements.
func (h *ReferenceHandler) Movements(w http.ResponseWriter, r *http.Request) {
	movements, err := store.ListMovements(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, err, "failed to list movements")
		return
	}
	if movements == nil {
		movements = []model.RawMovement{}
	}
	jsonResponse(w, http.StatusOK, movements)
}

// Stats handles GET /api/stats.
func (h *ReferenceHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := store.GetStats(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, err, "failed to count tools")
		return
	}
	jsonResponse(w, http.StatusOK, stats)
}
