package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/erazemk/magasin/internal/db"
	"github.com/erazemk/magasin/internal/gateway"
	"github.com/erazemk/magasin/internal/inventory"
	"github.com/erazemk/magasin/internal/model"
	"github.com/erazemk/magasin/internal/photo"
	"github.com/erazemk/magasin/internal/store"
)

func setupTestServer(t *testing.T, seed bool) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	if seed {
		if err := store.Seed(context.Background(), database, store.SeedOptions{Tools: 30, Movements: 20}); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
	server := httptest.NewServer(NewRouter(database))
	t.Cleanup(server.Close)
	return server
}

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
	return resp.StatusCode
}

func TestListToolsEndpoint(t *testing.T) {
	server := setupTestServer(t, true)

	var page struct {
		Items []map[string]any `json:"items"`
		Page  int              `json:"page"`
	}
	if status := getJSON(t, server.URL+"/api/tools?page=3&per_page=12", &page); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if page.Page != 3 {
		t.Errorf("expected page 3, got %d", page.Page)
	}
	if len(page.Items) != 6 {
		t.Errorf("expected 6 tools on the last page, got %d", len(page.Items))
	}
	if _, ok := page.Items[0]["id"].(float64); !ok {
		t.Errorf("expected numeric id, got %T", page.Items[0]["id"])
	}
	if _, ok := page.Items[0]["date_ajout"].(string); !ok {
		t.Errorf("expected date_ajout string, got %T", page.Items[0]["date_ajout"])
	}
}

func TestEmptyListsAreArrays(t *testing.T) {
	server := setupTestServer(t, false)

	for _, path := range []string{"/api/categories", "/api/employees", "/api/movements", "/find-tools?q=x"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		var body bytes.Buffer
		body.ReadFrom(resp.Body)
		resp.Body.Close()
		if strings.TrimSpace(body.String()) != "[]" {
			t.Errorf("%s: expected [], got %s", path, body.String())
		}
	}

	var page map[string]any
	getJSON(t, server.URL+"/api/tools", &page)
	if items, ok := page["items"].([]any); !ok || len(items) != 0 {
		t.Errorf("expected empty items array, got %v", page["items"])
	}
}

func TestFindToolsRequiresTerm(t *testing.T) {
	server := setupTestServer(t, true)

	var body map[string]string
	if status := getJSON(t, server.URL+"/find-tools?q=", &body); status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", status)
	}
	if body["error"] != "search term required" {
		t.Errorf("unexpected error message %q", body["error"])
	}
}

func TestCreateCategoryEndpoint(t *testing.T) {
	server := setupTestServer(t, true)

	resp, _ := http.PostForm(server.URL+"/api/categories", url.Values{"name": {"Welding"}})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.PostForm(server.URL+"/api/categories", url.Values{"name": {"Welding"}})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for a duplicate, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp, _ = http.Post(server.URL+"/api/categories", "application/json", strings.NewReader(`{"name": ""}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for a blank name, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestCreateToolRejectsBadPhoto(t *testing.T) {
	server := setupTestServer(t, false)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("name", "Drill")
	part, _ := mw.CreateFormFile("photo", "drill.gif")
	part.Write([]byte("GIF89a"))
	mw.Close()

	resp, err := http.Post(server.URL+"/api/tools", mw.FormDataContentType(), &body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := LoggingMiddleware(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tools?page=2", nil)
	req.Header.Set("X-Request-ID", "abc")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusTeapot) || fields["path"] != "/api/tools?page=2" || fields["request_id"] != "abc" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestServerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	database := db.NewTestDB(t)
	router := NewRouter(database)
	database.Close()

	req := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "failed to list employees" {
		t.Errorf("unexpected body: %v", body)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 error entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["request_id"] != "req-1" || fields["error"] == nil {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestCreateCategoryRejectsTrailingJSON(t *testing.T) {
	server := setupTestServer(t, false)

	resp, err := http.Post(server.URL+"/api/categories", "application/json", strings.NewReader(`{"name": "A"} {"name": "B"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGatewayAgainstBackend(t *testing.T) {
	server := setupTestServer(t, true)
	client := gateway.New(gateway.Options{BaseURL: server.URL})
	ctx := context.Background()

	page, err := client.ToolsPage(ctx, 1, 12)
	if err != nil {
		t.Fatalf("ToolsPage: %v", err)
	}
	if len(page.Items) != 12 || page.Page != 1 {
		t.Errorf("unexpected page: %d items, page %d", len(page.Items), page.Page)
	}

	categories, err := client.Categories(ctx)
	if err != nil || len(categories) != 5 {
		t.Errorf("Categories: %d, %v", len(categories), err)
	}
	employees, err := client.Employees(ctx)
	if err != nil || len(employees) != 8 {
		t.Errorf("Employees: %d, %v", len(employees), err)
	}
	movements, err := client.Movements(ctx)
	if err != nil || len(movements) != 20 {
		t.Errorf("Movements: %d, %v", len(movements), err)
	}
	stats, err := client.Stats(ctx)
	if err != nil || stats.TotalTools == nil || *stats.TotalTools != 30 {
		t.Errorf("Stats: %+v, %v", stats, err)
	}

	found, err := client.FindTools(ctx, "drill")
	if err != nil || len(found) == 0 {
		t.Errorf("FindTools: %d, %v", len(found), err)
	}

	_, err = client.CreateCategory(ctx, model.NewCategory{Name: "Hand Tools"})
	var gerr *gateway.Error
	if !errors.As(err, &gerr) || gerr.StatusCode != http.StatusConflict || gerr.Message != "category already exists" {
		t.Errorf("expected 409 gateway error, got %v", err)
	}

	_, err = client.FetchCollection(ctx, "/api/nothing", nil)
	if !errors.As(err, &gerr) || gerr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 gateway error, got %v", err)
	}
}

func TestCreateToolWithPhotoRoundTrip(t *testing.T) {
	server := setupTestServer(t, true)
	client := gateway.New(gateway.Options{BaseURL: server.URL})
	ctx := context.Background()

	var img bytes.Buffer
	png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 1200, 600)))
	p, err := photo.Prepare("wrench.png", &img)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	created, err := client.CreateTool(ctx, model.NewTool{
		Name: "Torque Wrench", CategoryID: "1", Price: "89.90", LocRow: "4", Photo: p,
	})
	if err != nil {
		t.Fatalf("CreateTool: %v", err)
	}
	tool := inventory.Normalize(*created)
	if tool.Name != "Torque Wrench" || tool.Category != "Hand Tools" || tool.Location.Row != "4" {
		t.Errorf("unexpected tool: %+v", tool)
	}
	if tool.DateAdded == nil {
		t.Error("expected the backend date to parse")
	}

	resp, err := http.Get(server.URL + tool.Photo)
	if err != nil {
		t.Fatalf("GET photo: %v", err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("Content-Type") != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %q", resp.Header.Get("Content-Type"))
	}
	decoded, _, err := image.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decoding stored photo: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 800 || b.Dy() != 400 {
		t.Errorf("expected 800x400 photo, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestViewModelAgainstBackend(t *testing.T) {
	server := setupTestServer(t, true)
	vm := inventory.New(gateway.New(gateway.Options{BaseURL: server.URL}), inventory.Options{})
	ctx := context.Background()

	if err := vm.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s := vm.State()
	if len(s.Visible) != 12 || len(s.Categories) != 5 || len(s.Movements) != 20 {
		t.Errorf("unexpected state: %d visible, %d categories, %d movements",
			len(s.Visible), len(s.Categories), len(s.Movements))
	}
	if s.Stats().Total != 30 {
		t.Errorf("expected server total 30, got %d", s.Stats().Total)
	}

	vm.NextPage(ctx)
	vm.NextPage(ctx)
	if s := vm.State(); s.Page != 3 || len(s.Visible) != 6 {
		t.Errorf("expected 6 tools on page 3, got %d on page %d", len(s.Visible), s.Page)
	}

	all := inventory.New(gateway.New(gateway.Options{BaseURL: server.URL}), inventory.Options{Scope: inventory.ScopeAll})
	if err := all.Load(ctx); err != nil {
		t.Fatalf("Load all: %v", err)
	}
	if s := all.State(); len(s.Tools) != 30 || s.PageCount != 3 {
		t.Errorf("expected 30 tools on 3 pages, got %d on %d", len(s.Tools), s.PageCount)
	}
}
