package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/magasin/internal/api"
	"github.com/erazemk/magasin/internal/db"
	"github.com/erazemk/magasin/internal/store"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	return setupServerWith(t, nil)
}

// setupServerWith seeds a backend and lets wrap intercept its routes.
func setupServerWith(t *testing.T, wrap func(http.Handler) http.Handler) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	require.NoError(t, store.Seed(context.Background(), database, store.SeedOptions{Tools: 30, Movements: 20}))

	handler := api.NewRouter(database)
	if wrap != nil {
		handler = wrap(handler)
	}
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func run(t *testing.T, server *httptest.Server, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer

	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--base-url", server.URL, "--log-level", "error"))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestToolsPageJSON(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "tools", "--page", "2", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Page  int              `json:"page"`
		Tools []map[string]any `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 2, view.Page)
	assert.Len(t, view.Tools, 12)
}

func TestToolsFilterText(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "tools", "--all", "--query", "no such tool")
	require.NoError(t, err)
	assert.Contains(t, out, "No tools found matching your search.")
	assert.Contains(t, out, "query=no such tool")
}

func TestToolsAllScopePageWithFilter(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "tools", "--all", "--page-size", "5", "--page", "2", "--query", "1", "-o", "json")
	require.NoError(t, err)

	var view struct {
		Page      int              `json:"page"`
		PageCount int              `json:"page_count"`
		Criteria  map[string]any   `json:"criteria"`
		Tools     []map[string]any `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 2, view.Page)
	assert.Greater(t, view.PageCount, 1)
	assert.Equal(t, "1", view.Criteria["query"])
	assert.NotEmpty(t, view.Tools)
}

func TestToolsReportsReferenceFailureOnLaterPage(t *testing.T) {
	server := setupServerWith(t, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/categories" {
				http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	out, err := run(t, server, "", "tools", "--page", "2")
	var exitErr exitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.code)
	assert.Contains(t, out, "Page 2")
	assert.Contains(t, out, "Error:")
	assert.Contains(t, out, "/api/categories")
}

func TestShowSearchesEveryPage(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "show", "30", "-o", "json")
	require.NoError(t, err)

	var detail struct {
		Tool struct {
			ID string `json:"id"`
		} `json:"tool"`
		History []any `json:"history"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &detail))
	assert.Equal(t, "30", detail.Tool.ID)
	assert.NotNil(t, detail.History)
}

func TestShowUnknownTool(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "show", "999")
	var exitErr exitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.code)
	assert.Contains(t, out, "Error: tool not found: 999")
}

func TestSearchBlankTerm(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "search", "  ")
	require.Error(t, err)
	assert.Contains(t, out, "search term required")
}

func TestAddCategoryThenList(t *testing.T) {
	server := setupServer(t)

	_, err := run(t, server, "", "add-category", "Ladders", "--description", "Step and extension")
	require.NoError(t, err)

	out, err := run(t, server, "", "categories", "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"Ladders"`)
}

func TestAddToolRequiresName(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "add-tool", " ")
	require.Error(t, err)
	assert.Contains(t, out, "tool name required")
}

func TestHistoryFilter(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "", "history", "--employee", "no such employee", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestBrowseSession(t *testing.T) {
	server := setupServer(t)

	out, err := run(t, server, "n\nopen 1\nclose\nbogus\nq\n", "browse")
	require.NoError(t, err)
	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "Page 2")
	assert.Contains(t, out, `unknown command "bogus"`)
}

// endless yields "n" lines forever.
type endless struct{}

func (endless) Read(p []byte) (int, error) {
	for i := range p {
		if i%2 == 0 {
			p[i] = 'n'
		} else {
			p[i] = '\n'
		}
	}
	return len(p) - len(p)%2, nil
}

func TestReadLinesStopsWhenCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	lines := readLines(ctx, endless{})

	assert.Equal(t, "n", <-lines)
	cancel()

	received := 0
	for range lines {
		received++
		if received > 10000 {
			t.Fatal("reader kept sending after cancel")
		}
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	server := setupServer(t)

	_, err := run(t, server, "", "stats", "-o", "xml")
	require.Error(t, err)
}
