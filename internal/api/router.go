package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the development backend router with all endpoints registered.
func NewRouter(db *sql.DB) http.Handler {
	mux := http.NewServeMux()

	toolsHandler := &ToolsHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	referenceHandler := &ReferenceHandler{DB: db}

	// Tools.
	mux.HandleFunc("GET /api/tools", toolsHandler.List)
	mux.HandleFunc("POST /api/tools", toolsHandler.Create)
	mux.HandleFunc("GET /api/tools/{id}", toolsHandler.Get)
	mux.HandleFunc("GET /api/tools/{id}/photo", toolsHandler.GetPhoto)
	mux.HandleFunc("GET /find-tools", toolsHandler.Find)

	// Categories.
	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("POST /api/categories", categoriesHandler.Create)

	// Employees, movements and counters.
	mux.HandleFunc("GET /api/employees", referenceHandler.Employees)
	mux.HandleFunc("GET /api/movements", referenceHandler.Movements)
	mux.HandleFunc("GET /api/stats", referenceHandler.Stats)

	return mux
}
