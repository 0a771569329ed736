package resolver_test

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/resolver"
	"github.com/starford/ansuz/internal/testutil"
)

const pageID = "28e0b827f2338013846de7a6257a4480"

func searchHit(id, title, object string) map[string]any {
	return map[string]any{
		"object": object,
		"id":     cache.FormatID(id),
		"url":    "https://example.com/" + id,
		"properties": map[string]any{
			"title": map[string]any{
				"type":  "title",
				"title": []map[string]any{{"plain_text": title}},
			},
		},
	}
}

func TestResolve_IDShapedRefBypassesEverything(t *testing.T) {
	db := testutil.TestCache(t)
	store := testutil.NewFakeStore(t)
	r := resolver.New(db, store.Client())

	got, err := r.Resolve(context.Background(), pageID, "")
	if err != nil {
		t.Fatal(err)
	}
	if got != cache.FormatID(pageID) {
		t.Errorf("Resolve = %q, want %q", got, cache.FormatID(pageID))
	}
	if len(store.Calls) != 0 {
		t.Errorf("remote calls = %d, want 0", len(store.Calls))
	}
}

func TestResolve_CacheHitSkipsRemote(t *testing.T) {
	db := testutil.TestCache(t)
	store := testutil.NewFakeStore(t)
	r := resolver.New(db, store.Client())

	if err := db.Upsert(cache.Entry{ID: pageID, Name: "Meeting Notes"}); err != nil {
		t.Fatal(err)
	}

	got, err := r.Resolve(context.Background(), "meeting notes", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != cache.FormatID(pageID) {
		t.Errorf("Resolve = %q, want %q", got, cache.FormatID(pageID))
	}
	if n := store.CallCount("POST", "/v1/search"); n != 0 {
		t.Errorf("search calls = %d, want 0", n)
	}
}

func TestResolve_RemoteExactMatchPopulatesCache(t *testing.T) {
	db := testutil.TestCache(t)
	store := testutil.NewFakeStore(t)
	store.SearchHits = []map[string]any{
		searchHit("11111111111111111111111111111111", "Meeting Notes Archive", "page"),
		searchHit(pageID, "Meeting Notes", "page"),
	}
	r := resolver.New(db, store.Client())

	got, err := r.Resolve(context.Background(), "MEETING NOTES", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != cache.FormatID(pageID) {
		t.Errorf("Resolve = %q, want exact title match %q", got, cache.FormatID(pageID))
	}

	// Second resolution is served from the cache.
	if _, err := r.Resolve(context.Background(), "Meeting Notes", ""); err != nil {
		t.Fatal(err)
	}
	if n := store.CallCount("POST", "/v1/search"); n != 1 {
		t.Errorf("search calls = %d, want 1", n)
	}

	entry, err := db.GetByName("Meeting Notes")
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != pageID || entry.Kind != "page" {
		t.Errorf("cached entry = %+v, want id %s kind page", entry, pageID)
	}
}

func TestResolve_NoExactMatchReturnsAmbiguous(t *testing.T) {
	db := testutil.TestCache(t)
	store := testutil.NewFakeStore(t)
	store.SearchHits = []map[string]any{
		searchHit("11111111111111111111111111111111", "Notes 2024", "page"),
		searchHit("22222222222222222222222222222222", "Notes 2025", "database"),
	}
	r := resolver.New(db, store.Client())

	_, err := r.Resolve(context.Background(), "Notes", "")
	var ambiguous *resolver.AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want *AmbiguousError", err)
	}
	if !errors.Is(err, apperr.ErrAmbiguous) {
		t.Error("error does not unwrap to ErrAmbiguous")
	}
	if len(ambiguous.Candidates) != 2 {
		t.Fatalf("candidates = %d, want 2", len(ambiguous.Candidates))
	}
	if ambiguous.Candidates[1].Kind != "database" {
		t.Errorf("candidate kind = %q, want database", ambiguous.Candidates[1].Kind)
	}
}

func TestResolve_NoHitsReturnsEmptyAmbiguous(t *testing.T) {
	db := testutil.TestCache(t)
	store := testutil.NewFakeStore(t)
	r := resolver.New(db, store.Client())

	_, err := r.Resolve(context.Background(), "Nothing Here", "")
	var ambiguous *resolver.AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("err = %v, want *AmbiguousError", err)
	}
	if len(ambiguous.Candidates) != 0 {
		t.Errorf("candidates = %d, want 0", len(ambiguous.Candidates))
	}
}

func TestResolve_HintScopesSearch(t *testing.T) {
	db := testutil.TestCache(t)
	store := testutil.NewFakeStore(t)
	store.SearchHits = []map[string]any{searchHit(pageID, "Tasks", "database")}
	r := resolver.New(db, store.Client())

	if _, err := r.Resolve(context.Background(), "Tasks", "database"); err != nil {
		t.Fatal(err)
	}
	call := store.LastCall("POST", "/v1/search")
	filter, _ := call.Body["filter"].(map[string]any)
	if filter["value"] != "database" {
		t.Errorf("search filter = %v, want database object filter", call.Body["filter"])
	}
}
