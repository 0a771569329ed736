package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// MaxPageSize is the store's hard per-request result cap.
const MaxPageSize = 100

// maxSearchResults caps how many remote search hits are surfaced.
const maxSearchResults = 10

// APIError is a non-2xx response from the store, surfaced with the
// store's status and message. Retry policy belongs to the transport, not
// this layer.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %s (status %d, code %q)", e.Message, e.Status, e.Code)
}

// NotFound reports whether the store said the identifier does not exist.
func (e *APIError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// Client talks to the store's versioned HTTP JSON API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	version string
}

// NewClient creates a client for the given API root (e.g.
// https://api.notion.com), Bearer token, and Notion-Version header value.
func NewClient(baseURL, token, version string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   token,
		version: version,
	}
}

// listResponse is the envelope of every paginated list endpoint.
type listResponse struct {
	Results    []json.RawMessage `json:"results"`
	HasMore    bool              `json:"has_more"`
	NextCursor string            `json:"next_cursor"`
}

// Search finds pages and databases by title. objectType optionally
// restricts results to "page" or "database".
func (c *Client) Search(ctx context.Context, query, objectType string) ([]Page, error) {
	body := map[string]any{"query": query}
	if objectType != "" {
		body["filter"] = map[string]any{"property": "object", "value": objectType}
	}

	var resp listResponse
	if err := c.do(ctx, http.MethodPost, "/v1/search", body, &resp); err != nil {
		return nil, err
	}
	pages, err := decodePages(resp.Results)
	if err != nil {
		return nil, err
	}
	if len(pages) > maxSearchResults {
		pages = pages[:maxSearchResults]
	}
	return pages, nil
}

// GetPage fetches page metadata.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+url.PathEscape(id), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBlocks fetches all child blocks of a page or block, following
// pagination to exhaustion.
func (c *Client) GetBlocks(ctx context.Context, id string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		path := fmt.Sprintf("/v1/blocks/%s/children?page_size=%d", url.PathEscape(id), MaxPageSize)
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var resp listResponse
		if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
			return nil, err
		}
		for _, raw := range resp.Results {
			var b Block
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, fmt.Errorf("notion: decode block: %w", err)
			}
			blocks = append(blocks, b)
		}
		if !resp.HasMore {
			return blocks, nil
		}
		cursor = resp.NextCursor
	}
}

// CreatePageRequest is the body of a page creation call.
type CreatePageRequest struct {
	Parent     Parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
	Children   []Block        `json:"children,omitempty"`
}

// CreatePage creates a page under a page or database parent.
func (c *Client) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdatePage patches page properties, parent, or archival state.
func (c *Client) UpdatePage(ctx context.Context, id string, patch PagePatch) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+url.PathEscape(id), patch, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AppendBlocks appends children to a page or block. It never replaces
// existing content.
func (c *Client) AppendBlocks(ctx context.Context, id string, children []Block) error {
	body := map[string]any{"children": children}
	return c.do(ctx, http.MethodPatch, "/v1/blocks/"+url.PathEscape(id)+"/children", body, nil)
}

// DeleteBlock archives a block or page (soft delete).
func (c *Client) DeleteBlock(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/blocks/"+url.PathEscape(id), nil, nil)
}

// QueryDatabase runs a database query, unioning pages until limit rows
// are collected or the store is exhausted. filter is passed through as an
// opaque predicate; per-request page size is clamped to MaxPageSize.
func (c *Client) QueryDatabase(ctx context.Context, id string, filter json.RawMessage, limit int) ([]Page, error) {
	if limit <= 0 {
		limit = MaxPageSize
	}

	var rows []Page
	cursor := ""
	for len(rows) < limit {
		body := map[string]any{"page_size": min(limit-len(rows), MaxPageSize)}
		if len(filter) > 0 {
			body["filter"] = filter
		}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var resp listResponse
		if err := c.do(ctx, http.MethodPost, "/v1/databases/"+url.PathEscape(id)+"/query", body, &resp); err != nil {
			return nil, err
		}
		pages, err := decodePages(resp.Results)
		if err != nil {
			return nil, err
		}
		rows = append(rows, pages...)
		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

// GetDatabase fetches database metadata and its property schema.
func (c *Client) GetDatabase(ctx context.Context, id string) (*Database, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+url.PathEscape(id), nil, &db); err != nil {
		return nil, err
	}
	return &db, nil
}

// UpdateDatabase patches a database's title or property schema.
func (c *Client) UpdateDatabase(ctx context.Context, id string, patch DatabasePatch) error {
	return c.do(ctx, http.MethodPatch, "/v1/databases/"+url.PathEscape(id), patch, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notion: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("notion: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("notion: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notion: decode response: %w", err)
	}
	return nil
}

func decodePages(raw []json.RawMessage) ([]Page, error) {
	pages := make([]Page, 0, len(raw))
	for _, r := range raw {
		var p Page
		if err := json.Unmarshal(r, &p); err != nil {
			return nil, fmt.Errorf("notion: decode result: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}
