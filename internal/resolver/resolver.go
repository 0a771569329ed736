// Package resolver turns caller-supplied references (raw identifiers or
// cached names) into canonical store identifiers.
package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/notion"
)

// maxCandidates caps how many candidates an AmbiguousError carries.
const maxCandidates = 10

// Candidate is one possible match for an ambiguous reference.
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// AmbiguousError is returned when a name resolves to zero or several
// remote candidates and none matches the reference exactly. The caller
// gets the candidate list; nothing is ever auto-picked beyond an exact
// (case-insensitive) title match.
type AmbiguousError struct {
	Ref        string
	Candidates []Candidate
}

func (e *AmbiguousError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("resolver: no match for %q", e.Ref)
	}
	names := make([]string, 0, len(e.Candidates))
	for _, c := range e.Candidates {
		names = append(names, c.Name)
	}
	return fmt.Sprintf("resolver: %q is ambiguous, candidates: %s", e.Ref, strings.Join(names, ", "))
}

func (e *AmbiguousError) Unwrap() error {
	return apperr.ErrAmbiguous
}

// Resolver resolves references cache-first, falling back to remote
// search. Successful remote resolutions populate the cache, so the
// second resolution of a name never touches the network.
type Resolver struct {
	cache  *cache.DB
	client *notion.Client
}

// New creates a resolver over the given cache handle and remote client.
func New(db *cache.DB, client *notion.Client) *Resolver {
	return &Resolver{cache: db, client: client}
}

// Resolve returns the formatted canonical identifier for ref. An
// identifier-shaped ref is returned directly with no cache or remote
// access. hint optionally scopes the remote search to "page" or
// "database".
func (r *Resolver) Resolve(ctx context.Context, ref, hint string) (string, error) {
	if cache.IsID(ref) {
		return cache.FormatID(ref), nil
	}

	if entry, err := r.cache.GetByName(ref); err == nil {
		return cache.FormatID(entry.ID), nil
	}

	results, err := r.client.Search(ctx, ref, hint)
	if err != nil {
		return "", fmt.Errorf("resolver: search %q: %w", ref, err)
	}

	for i := range results {
		p := &results[i]
		title := notion.ExtractTitle(p)
		if !strings.EqualFold(title, ref) {
			continue
		}
		err := r.cache.Upsert(cache.Entry{
			ID:   p.ID,
			Name: title,
			Kind: p.Object,
			Path: p.URL,
		})
		if err != nil {
			return "", err
		}
		return cache.FormatID(p.ID), nil
	}

	ambiguous := &AmbiguousError{Ref: ref}
	for i := range results {
		if i == maxCandidates {
			break
		}
		p := &results[i]
		ambiguous.Candidates = append(ambiguous.Candidates, Candidate{
			ID:   p.ID,
			Name: notion.ExtractTitle(p),
			Kind: p.Object,
		})
	}
	return "", ambiguous
}
