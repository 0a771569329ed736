package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "secret-token", "2022-06-28")
}

func TestClientSendsAuthHeaders(t *testing.T) {
	var gotAuth, gotVersion string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		json.NewEncoder(w).Encode(Page{ID: "x"})
	})

	if _, err := c.GetPage(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want Bearer secret-token", gotAuth)
	}
	if gotVersion != "2022-06-28" {
		t.Errorf("Notion-Version = %q, want 2022-06-28", gotVersion)
	}
}

func TestSearchFiltersAndCapsResults(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)

		results := make([]map[string]any, 15)
		for i := range results {
			results[i] = map[string]any{"object": "page", "id": fmt.Sprintf("id-%d", i)}
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results, "has_more": false})
	})

	pages, err := c.Search(context.Background(), "notes", "database")
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 10 {
		t.Errorf("len(pages) = %d, want capped at 10", len(pages))
	}
	filter, _ := gotBody["filter"].(map[string]any)
	if filter["value"] != "database" {
		t.Errorf("filter = %v, want object filter for database", gotBody["filter"])
	}
	if gotBody["query"] != "notes" {
		t.Errorf("query = %v, want notes", gotBody["query"])
	}
}

func TestGetBlocksFollowsPagination(t *testing.T) {
	var cursors []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("start_cursor")
		cursors = append(cursors, cursor)
		if cursor == "" {
			json.NewEncoder(w).Encode(map[string]any{
				"results":     []map[string]any{{"object": "block", "type": "paragraph", "paragraph": map[string]any{"rich_text": []any{}}}},
				"has_more":    true,
				"next_cursor": "c2",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"results":  []map[string]any{{"object": "block", "type": "divider", "divider": map[string]any{}}},
			"has_more": false,
		})
	})

	blocks, err := c.GetBlocks(context.Background(), "some-id")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 2 {
		t.Errorf("len(blocks) = %d, want 2 across pages", len(blocks))
	}
	if len(cursors) != 2 || cursors[1] != "c2" {
		t.Errorf("cursors = %v, want second request with c2", cursors)
	}
}

func TestQueryDatabaseClampsPageSizeAndHonoursLimit(t *testing.T) {
	var pageSizes []float64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		ps, _ := body["page_size"].(float64)
		pageSizes = append(pageSizes, ps)

		results := make([]map[string]any, int(ps))
		for i := range results {
			results[i] = map[string]any{"object": "page", "id": fmt.Sprintf("row-%d", i)}
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results, "has_more": true, "next_cursor": "more"})
	})

	rows, err := c.QueryDatabase(context.Background(), "db", nil, 150)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 150 {
		t.Errorf("len(rows) = %d, want 150", len(rows))
	}
	if len(pageSizes) != 2 || pageSizes[0] != 100 || pageSizes[1] != 50 {
		t.Errorf("page sizes = %v, want [100 50]", pageSizes)
	}
}

func TestQueryDatabasePassesFilter(t *testing.T) {
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}, "has_more": false})
	})

	filter := json.RawMessage(`{"property": "Done", "checkbox": {"equals": true}}`)
	if _, err := c.QueryDatabase(context.Background(), "db", filter, 5); err != nil {
		t.Fatal(err)
	}
	f, _ := gotBody["filter"].(map[string]any)
	if f["property"] != "Done" {
		t.Errorf("filter = %v, want pass-through predicate", gotBody["filter"])
	}
}

func TestAppendBlocksPatchesChildren(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	})

	children := []Block{{Object: "block", Type: "paragraph", Paragraph: &BlockText{}}}
	if err := c.AppendBlocks(context.Background(), "page-id", children); err != nil {
		t.Fatal(err)
	}
	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if _, ok := gotBody["children"]; !ok {
		t.Errorf("body = %v, want children key", gotBody)
	}
}

func TestAPIErrorFromStore(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"object":  "error",
			"status":  404,
			"code":    "object_not_found",
			"message": "Could not find page",
		})
	})

	_, err := c.GetPage(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if !apiErr.NotFound() {
		t.Errorf("NotFound() = false for status %d", apiErr.Status)
	}
	if apiErr.Code != "object_not_found" {
		t.Errorf("code = %q, want object_not_found", apiErr.Code)
	}
}
