// Package pageservice composes the resolver, the codec, and the remote
// client into the eight document operations exposed to callers.
package pageservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/starford/ansuz/internal/apperr"
	"github.com/starford/ansuz/internal/cache"
	"github.com/starford/ansuz/internal/codec"
	"github.com/starford/ansuz/internal/notion"
	"github.com/starford/ansuz/internal/resolver"
)

// Service coordinates cache, resolver, and remote store operations.
type Service struct {
	cache    *cache.DB
	client   *notion.Client
	resolver *resolver.Resolver
}

// New creates a new document service.
func New(db *cache.DB, client *notion.Client, res *resolver.Resolver) *Service {
	return &Service{cache: db, client: client, resolver: res}
}

// Match is one search hit. Source tells the caller whether it came from
// the local cache or the remote store.
type Match struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Path   string `json:"path,omitempty"`
	Source string `json:"source"`
}

// Search merges cache substring hits with remote search results. Cache
// hits come first, remote-only hits are appended, and duplicates are
// removed by identifier.
func (s *Service) Search(ctx context.Context, query, kind string) ([]Match, error) {
	cached, err := s.cache.Search(query)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []Match
	for _, e := range cached {
		if kind != "" && e.Kind != kind {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, Match{
			ID:     cache.FormatID(e.ID),
			Name:   e.Name,
			Kind:   e.Kind,
			Path:   e.Path,
			Source: "cache",
		})
	}

	remote, err := s.client.Search(ctx, query, kind)
	if err != nil {
		return nil, fmt.Errorf("pageservice: remote search: %w", err)
	}
	for i := range remote {
		p := &remote[i]
		id := cache.NormalizeID(p.ID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Match{
			ID:     p.ID,
			Name:   notion.ExtractTitle(p),
			Kind:   p.Object,
			Path:   p.URL,
			Source: "remote",
		})
	}

	return out, nil
}

// PageDetail is a fetched page with its content rendered as Markdown.
type PageDetail struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url,omitempty"`
	Content string `json:"content"`
}

// GetPage resolves ref, fetches the page and its child blocks, and
// renders the content as dialect Markdown.
func (s *Service) GetPage(ctx context.Context, ref string) (*PageDetail, error) {
	id, err := s.resolver.Resolve(ctx, ref, "")
	if err != nil {
		return nil, err
	}

	page, err := s.client.GetPage(ctx, id)
	if err != nil {
		return nil, remoteErr(ref, err)
	}
	blocks, err := s.client.GetBlocks(ctx, id)
	if err != nil {
		return nil, remoteErr(ref, err)
	}

	return &PageDetail{
		ID:      id,
		Title:   notion.ExtractTitle(page),
		URL:     page.URL,
		Content: codec.Render(notion.DecodeBlocks(blocks)),
	}, nil
}

// CreatePageRequest describes a page to create. Content is dialect
// Markdown; Properties targets database-row creation.
type CreatePageRequest struct {
	Parent     string
	Title      string
	Content    string
	Properties map[string]any
}

// CreateResult echoes the created page.
type CreateResult struct {
	ID    string `json:"id"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title"`
}

// CreatePage creates a page under a page or database parent. Database
// parents get their properties formatted against the schema; Markdown
// content becomes the page body. The new page is cached under its title.
func (s *Service) CreatePage(ctx context.Context, req CreatePageRequest) (*CreateResult, error) {
	parentID, err := s.resolver.Resolve(ctx, req.Parent, "")
	if err != nil {
		return nil, err
	}

	wireReq := notion.CreatePageRequest{}
	if req.Content != "" {
		wireReq.Children = notion.EncodeBlocks(codec.Parse(req.Content))
	}

	if s.isDatabase(ctx, req.Parent, parentID) {
		db, err := s.client.GetDatabase(ctx, parentID)
		if err != nil {
			return nil, remoteErr(req.Parent, err)
		}
		wireReq.Parent = notion.Parent{DatabaseID: parentID}
		wireReq.Properties = FormatProperties(ExpandDateKeys(req.Properties), db.Properties, req.Title)
	} else {
		wireReq.Parent = notion.Parent{PageID: parentID}
		wireReq.Properties = map[string]any{"title": notion.TitleProperty(req.Title)}
	}

	page, err := s.client.CreatePage(ctx, wireReq)
	if err != nil {
		return nil, remoteErr(req.Parent, err)
	}

	if err := s.cache.Upsert(cache.Entry{ID: page.ID, Name: req.Title, Kind: "page", Path: page.URL}); err != nil {
		return nil, err
	}

	return &CreateResult{ID: page.ID, URL: page.URL, Title: req.Title}, nil
}

// isDatabase reports whether ref names a database, checking the cache
// before asking the remote.
func (s *Service) isDatabase(ctx context.Context, ref, id string) bool {
	if e, err := s.cache.GetByID(id); err == nil {
		return e.Kind == "database"
	}
	if e, err := s.cache.GetByName(ref); err == nil {
		return e.Kind == "database"
	}
	_, err := s.client.GetDatabase(ctx, id)
	return err == nil
}

// UpdatePage patches properties and/or appends Markdown content as
// trailing blocks. Existing blocks are never replaced.
func (s *Service) UpdatePage(ctx context.Context, ref string, properties map[string]any, appendMD string) (string, error) {
	id, err := s.resolver.Resolve(ctx, ref, "")
	if err != nil {
		return "", err
	}

	if len(properties) > 0 {
		if _, err := s.client.UpdatePage(ctx, id, notion.PagePatch{Properties: properties}); err != nil {
			return "", remoteErr(ref, err)
		}
	}
	if appendMD != "" {
		children := notion.EncodeBlocks(codec.Parse(appendMD))
		if err := s.client.AppendBlocks(ctx, id, children); err != nil {
			return "", remoteErr(ref, err)
		}
	}
	return id, nil
}

// DeletePage archives a page (soft delete, never a hard delete).
func (s *Service) DeletePage(ctx context.Context, ref string) (string, error) {
	id, err := s.resolver.Resolve(ctx, ref, "")
	if err != nil {
		return "", err
	}
	if err := s.client.DeleteBlock(ctx, id); err != nil {
		return "", remoteErr(ref, err)
	}
	return id, nil
}

// MovePage reassigns a page to a new parent page.
func (s *Service) MovePage(ctx context.Context, ref, parentRef string) (string, error) {
	id, err := s.resolver.Resolve(ctx, ref, "")
	if err != nil {
		return "", err
	}
	parentID, err := s.resolver.Resolve(ctx, parentRef, "")
	if err != nil {
		return "", err
	}
	patch := notion.PagePatch{Parent: &notion.Parent{PageID: parentID}}
	if _, err := s.client.UpdatePage(ctx, id, patch); err != nil {
		return "", remoteErr(ref, err)
	}
	return id, nil
}

// Row is one database query result with simplified properties.
type Row struct {
	ID         string         `json:"id"`
	URL        string         `json:"url,omitempty"`
	Properties map[string]any `json:"properties"`
}

// QueryDatabase runs a query with an opaque filter, unioning result
// pages until limit rows or exhaustion.
func (s *Service) QueryDatabase(ctx context.Context, ref string, filter json.RawMessage, limit int) ([]Row, error) {
	id, err := s.resolver.Resolve(ctx, ref, "database")
	if err != nil {
		return nil, err
	}

	pages, err := s.client.QueryDatabase(ctx, id, filter, limit)
	if err != nil {
		return nil, remoteErr(ref, err)
	}

	rows := make([]Row, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		rows = append(rows, Row{
			ID:         p.ID,
			URL:        p.URL,
			Properties: SimplifyProperties(p.Properties),
		})
	}
	return rows, nil
}

// UpdateDatabase patches a database's title and/or property schema.
func (s *Service) UpdateDatabase(ctx context.Context, ref, title string, properties map[string]any) (string, error) {
	id, err := s.resolver.Resolve(ctx, ref, "database")
	if err != nil {
		return "", err
	}

	patch := notion.DatabasePatch{Properties: properties}
	if title != "" {
		patch.Title = []notion.RichText{{Type: "text", Text: &notion.Text{Content: title}}}
	}
	if err := s.client.UpdateDatabase(ctx, id, patch); err != nil {
		return "", remoteErr(ref, err)
	}
	return id, nil
}

// remoteErr maps a remote 404 onto the NotFound sentinel and leaves
// every other store failure intact with its status and message.
func remoteErr(ref string, err error) error {
	var apiErr *notion.APIError
	if errors.As(err, &apiErr) && apiErr.NotFound() {
		return fmt.Errorf("%s: %w", ref, apperr.ErrNotFound)
	}
	return err
}
