// Package testutil provides shared test helpers: a temporary identifier
// cache and an in-memory stand-in for the remote store's HTTP API.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/notion"
)

// TestCache creates a temporary SQLite cache that is automatically cleaned up.
func TestCache(t *testing.T) *cache.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := cache.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// CreatedPageID is the identifier FakeStore assigns to created pages.
const CreatedPageID = "f00dbabef00dbabef00dbabef00dbabe"

// Call is one recorded request against the fake store.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

// FakeStore fakes the remote store's HTTP JSON API for tests, recording
// every request it serves.
type FakeStore struct {
	t *testing.T

	// Fixtures, keyed by the id as it appears in the request path.
	Pages      map[string]map[string]any
	Blocks     map[string][]map[string]any
	Databases  map[string]map[string]any
	QueryRows  map[string][]map[string]any
	SearchHits []map[string]any

	Calls []Call
	srv   *httptest.Server
}

// NewFakeStore starts a fake store that is shut down with the test.
func NewFakeStore(t *testing.T) *FakeStore {
	t.Helper()
	f := &FakeStore{
		t:         t,
		Pages:     make(map[string]map[string]any),
		Blocks:    make(map[string][]map[string]any),
		Databases: make(map[string]map[string]any),
		QueryRows: make(map[string][]map[string]any),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.srv.Close)
	return f
}

// Client returns a notion.Client pointed at the fake store.
func (f *FakeStore) Client() *notion.Client {
	return notion.NewClient(f.srv.URL, "test-token", "2022-06-28")
}

// CallCount returns how many recorded calls match method and path prefix.
func (f *FakeStore) CallCount(method, pathPrefix string) int {
	n := 0
	for _, c := range f.Calls {
		if c.Method == method && strings.HasPrefix(c.Path, pathPrefix) {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call matching method and path prefix,
// failing the test when there is none.
func (f *FakeStore) LastCall(method, pathPrefix string) Call {
	f.t.Helper()
	for i := len(f.Calls) - 1; i >= 0; i-- {
		c := f.Calls[i]
		if c.Method == method && strings.HasPrefix(c.Path, pathPrefix) {
			return c
		}
	}
	f.t.Fatalf("no %s %s call recorded", method, pathPrefix)
	return Call{}
}

func (f *FakeStore) handle(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	f.Calls = append(f.Calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "v1" {
		f.notFound(w)
		return
	}

	switch parts[1] {
	case "search":
		f.writeJSON(w, map[string]any{"results": f.SearchHits, "has_more": false})

	case "pages":
		f.handlePages(w, r, parts)

	case "blocks":
		f.handleBlocks(w, parts)

	case "databases":
		f.handleDatabases(w, r, parts)

	default:
		f.notFound(w)
	}
}

func (f *FakeStore) handlePages(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) == 2 && r.Method == http.MethodPost {
		f.writeJSON(w, map[string]any{
			"object": "page",
			"id":     cache.FormatID(CreatedPageID),
			"url":    "https://example.com/" + CreatedPageID,
		})
		return
	}
	page, ok := f.Pages[parts[2]]
	if !ok {
		f.notFound(w)
		return
	}
	f.writeJSON(w, page)
}

func (f *FakeStore) handleBlocks(w http.ResponseWriter, parts []string) {
	if len(parts) == 4 && parts[3] == "children" {
		blocks := f.Blocks[parts[2]]
		if blocks == nil {
			blocks = []map[string]any{}
		}
		f.writeJSON(w, map[string]any{"results": blocks, "has_more": false})
		return
	}
	// DELETE /v1/blocks/{id} archives.
	f.writeJSON(w, map[string]any{"object": "block", "id": parts[2], "archived": true})
}

func (f *FakeStore) handleDatabases(w http.ResponseWriter, r *http.Request, parts []string) {
	if len(parts) == 4 && parts[3] == "query" {
		rows := f.QueryRows[parts[2]]
		if rows == nil {
			rows = []map[string]any{}
		}
		f.writeJSON(w, map[string]any{"results": rows, "has_more": false})
		return
	}
	if r.Method == http.MethodPatch {
		f.writeJSON(w, map[string]any{"object": "database", "id": parts[2]})
		return
	}
	db, ok := f.Databases[parts[2]]
	if !ok {
		f.notFound(w)
		return
	}
	f.writeJSON(w, db)
}

func (f *FakeStore) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		f.t.Errorf("fake store: encode response: %v", err)
	}
}

func (f *FakeStore) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"object":  "error",
		"status":  404,
		"code":    "object_not_found",
		"message": "Could not find object",
	})
}
