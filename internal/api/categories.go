package api

import (
	"database/sql"
	"errors"
	"mime"
	"net/http"

	"github.com/erazemk/magasin/internal/model"
	"github.com/erazemk/magasin/internal/store"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	DB *sql.DB
}

type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := store.ListCategories(r.Context(), h.DB)
	if err != nil {
		serverError(w, r, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/categories with a JSON or form body.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		req.Name = r.FormValue("name")
		req.Description = r.FormValue("description")
	}

	if req.Name == "" {
		jsonError(w, http.StatusBadRequest, "Category name required")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Name, req.Description)
	switch {
	case errors.Is(err, store.ErrDuplicate):
		jsonError(w, http.StatusConflict, "category already exists")
		return
	case errors.Is(err, store.ErrInvalid):
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		serverError(w, r, err, "failed to create category")
		return
	}
	jsonResponse(w, http.StatusCreated, category)
}
