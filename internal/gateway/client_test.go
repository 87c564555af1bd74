package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/magasin/internal/model"
)

func newTestClient(t *testing.T, mux *http.ServeMux) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return New(Options{BaseURL: server.URL + "/"}), server
}

func TestToolsPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "12", r.URL.Query().Get("per_page"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[{"id":1,"name":"Drill","status":"Disponible"}],"page":2}`)
	})
	client, _ := newTestClient(t, mux)

	page, err := client.ToolsPage(context.Background(), 2, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, model.Flex("1"), page.Items[0].ID)
	assert.Equal(t, model.Flex("Drill"), page.Items[0].Name)
}

func TestToolsPageNullBodyIsEmpty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/tools", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "null")
	})
	client, _ := newTestClient(t, mux)

	page, err := client.ToolsPage(context.Background(), 1, 12)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestStatusFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"failed to list categories"}`)
	})
	client, _ := newTestClient(t, mux)

	cats, err := client.Categories(context.Background())
	assert.Nil(t, cats)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))
	assert.False(t, errors.Is(err, ErrNetwork))

	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusInternalServerError, gwErr.StatusCode)
	assert.Equal(t, "failed to list categories", gwErr.Message)
	assert.Contains(t, gwErr.Error(), "/api/categories")
}

func TestDecodeFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/employees", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>oops</html>`)
	})
	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {})
	client, _ := newTestClient(t, mux)

	_, err := client.Employees(context.Background())
	assert.True(t, errors.Is(err, ErrDecode))

	_, err = client.Stats(context.Background())
	assert.True(t, errors.Is(err, ErrDecode), "empty body should be a decode failure")
}

func TestNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.NewServeMux())
	url := server.URL
	server.Close()

	client := New(Options{BaseURL: url})
	_, err := client.ToolsPage(context.Background(), 1, 12)
	assert.True(t, errors.Is(err, ErrNetwork))
}

func TestCanceledContext(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	})
	client, _ := newTestClient(t, mux)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Stats(ctx)
	assert.True(t, errors.Is(err, ErrNetwork))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestFindToolsEscapesQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /find-tools", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "clé & co", r.URL.Query().Get("q"))
		io.WriteString(w, `[{"id":"T9","name":"Clé & co","loc_row":1,"loc_col":2,"loc_shelf":3}]`)
	})
	client, _ := newTestClient(t, mux)

	tools, err := client.FindTools(context.Background(), "clé & co")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, model.Flex("3"), tools[0].LocShelf)
}

func TestStatsPartialFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"total_tools": 200, "active_tools": 150}`)
	})
	client, _ := newTestClient(t, mux)

	stats, err := client.Stats(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats.TotalTools)
	assert.Equal(t, 200, *stats.TotalTools)
	assert.Nil(t, stats.BorrowedTools)
}

func TestCreateToolMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/tools", func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Drill", r.FormValue("name"))
		assert.Equal(t, "2", r.FormValue("category_id"))
		_, hasPrice := r.MultipartForm.Value["price"]
		assert.False(t, hasPrice, "empty fields are not sent")

		file, header, err := r.FormFile("photo")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "drill.jpg", header.Filename)
		assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		assert.Equal(t, "jpeg-bytes", string(data))

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": 41, "name": "Drill", "category_id": 2}`)
	})
	client, _ := newTestClient(t, mux)

	created, err := client.CreateTool(context.Background(), model.NewTool{
		Name:       "Drill",
		CategoryID: "2",
		Photo:      &model.Photo{Name: "drill.jpg", MIME: "image/jpeg", Data: []byte("jpeg-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, model.Flex("41"), created.ID)
}

func TestCreateToolUnimplementedServer(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())

	_, err := client.CreateTool(context.Background(), model.NewTool{Name: "Drill"})
	var gwErr *Error
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, KindStatus, gwErr.Kind)
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode)
}

func TestCreateCategoryForm(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/categories", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		if !assert.NoError(t, r.ParseForm()) {
			return
		}
		assert.Equal(t, "Electrical", r.PostForm.Get("name"))
		assert.Equal(t, "Cables and testers", r.PostForm.Get("description"))
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id": 6, "name": "Electrical"}`)
	})
	client, _ := newTestClient(t, mux)

	cat, err := client.CreateCategory(context.Background(), model.NewCategory{
		Name:        "Electrical",
		Description: "Cables and testers",
	})
	require.NoError(t, err)
	assert.Equal(t, "Electrical", cat.Name)
	assert.Equal(t, model.Flex("6"), cat.ID)
}
