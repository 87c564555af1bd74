package api

import (
	"database/sql"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/erazemk/magasin/internal/model"
	"github.com/erazemk/magasin/internal/store"
)

const (
	defaultPerPage = 12
	maxPerPage     = 100
	maxPhotoSize   = 5 << 20
)

// ToolsHandler handles tool endpoints.
type ToolsHandler struct {
	DB *sql.DB
}

type toolsPage struct {
	Items []model.RawTool `json:"items"`
	Page  int             `json:"page"`
}

// List handles GET /api/tools.
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := min(queryInt(r, "per_page", defaultPerPage), maxPerPage)

	tools, err := store.ListTools(r.Context(), h.DB, page, perPage)
	if err != nil {
		serverError(w, r, err, "failed to list tools")
		return
	}
	if tools == nil {
		tools = []model.RawTool{}
	}
	jsonResponse(w, http.StatusOK, toolsPage{Items: tools, Page: page})
}

// Get handles GET /api/tools/{id}.
func (h *ToolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	tool, err := store.GetTool(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, err, "failed to get tool")
		return
	}
	if tool == nil {
		jsonError(w, http.StatusNotFound, "tool not found")
		return
	}
	jsonResponse(w, http.StatusOK, tool)
}

// Find handles GET /find-tools.
func (h *ToolsHandler) Find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		jsonError(w, http.StatusBadRequest, "search term required")
		return
	}

	tools, err := store.FindTools(r.Context(), h.DB, q)
	if err != nil {
		serverError(w, r, err, "failed to search tools")
		return
	}
	if tools == nil {
		tools = []model.RawTool{}
	}
	jsonResponse(w, http.StatusOK, tools)
}

// Create handles POST /api/tools. The body is a multipart form with an
// optional "photo" file part, or a urlencoded form.
func (h *ToolsHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	nt := model.NewTool{
		Name:         r.FormValue("name"),
		CategoryID:   r.FormValue("category_id"),
		LocRow:       r.FormValue("loc_row"),
		LocCol:       r.FormValue("loc_col"),
		LocShelf:     r.FormValue("loc_shelf"),
		Description:  r.FormValue("description"),
		PurchaseDate: r.FormValue("purchase_date"),
		Price:        r.FormValue("price"),
		Status:       r.FormValue("status"),
	}
	if nt.Name == "" {
		jsonError(w, http.StatusBadRequest, "name required")
		return
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		jsonError(w, http.StatusBadRequest, "invalid photo")
		return
	default:
		defer file.Close()

		mime := header.Header.Get("Content-Type")
		if mime != "image/jpeg" && mime != "image/png" {
			jsonError(w, http.StatusBadRequest, "photo must be JPEG or PNG")
			return
		}
		data, err := io.ReadAll(file)
		if err != nil {
			serverError(w, r, err, "failed to read photo")
			return
		}
		nt.Photo = &model.Photo{Name: header.Filename, MIME: mime, Data: data}
	}

	tool, err := store.CreateTool(r.Context(), h.DB, nt)
	if errors.Is(err, store.ErrInvalid) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		serverError(w, r, err, "failed to create tool")
		return
	}
	jsonResponse(w, http.StatusCreated, tool)
}

// GetPhoto handles GET /api/tools/{id}/photo.
func (h *ToolsHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid tool id")
		return
	}

	data, mime, err := store.GetToolPhoto(r.Context(), h.DB, id)
	if err != nil {
		serverError(w, r, err, "failed to get photo")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no photo")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// queryInt reads a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}
