// Package mcpserver exposes the document operations as MCP (Model
// Context Protocol) tools over stdio or streamable HTTP transports.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/pageservice"
	"github.com/starford/ansuz/internal/resolver"
)

// Server wraps the MCP server with the Ansuz document tools.
type Server struct {
	mcp *server.MCPServer
	svc *pageservice.Service
}

// New creates a new MCP server with all eight document tools registered.
func New(svc *pageservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search",
		mcp.WithDescription("Find pages/databases by name. Checks the local cache first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("type", mcp.Description("Filter by kind: page or database")),
	), s.search)

	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Get page content as Markdown."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Page ID or cached name (e.g. 'COLLECT')")),
	), s.getPage)

	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create a page. Content is dialect Markdown: # headings, - lists, "+
			"1. lists, **bold**, *italic*, [links](url), > quotes. Read the "+
			"ansuz://markdown-dialect resource for the full contract."),
		mcp.WithString("parent", mcp.Required(), mcp.Description("Parent page/database ID or cached name")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Page title")),
		mcp.WithString("content", mcp.Description("Page content as dialect Markdown")),
		mcp.WithObject("properties", mcp.Description("Database properties (for database rows)")),
	), s.createPage)

	s.mcp.AddTool(mcp.NewTool("update_page",
		mcp.WithDescription("Update page properties or append Markdown content. Appends never replace existing blocks."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Page ID or cached name")),
		mcp.WithObject("properties", mcp.Description("Properties to patch")),
		mcp.WithString("append", mcp.Description("Markdown content to append")),
	), s.updatePage)

	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Archive a page (soft delete)."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Page ID or cached name")),
	), s.deletePage)

	s.mcp.AddTool(mcp.NewTool("move_page",
		mcp.WithDescription("Move a page under a new parent page."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Page ID or cached name")),
		mcp.WithString("parent", mcp.Required(), mcp.Description("New parent page ID or cached name")),
	), s.movePage)

	s.mcp.AddTool(mcp.NewTool("query_database",
		mcp.WithDescription("Query a database with an optional filter."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Database ID or cached name")),
		mcp.WithObject("filter", mcp.Description("Opaque store filter object, passed through")),
		mcp.WithNumber("limit", mcp.Description("Max rows (default 100)")),
	), s.queryDatabase)

	s.mcp.AddTool(mcp.NewTool("update_database",
		mcp.WithDescription("Update a database's title or property schema."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Database ID or cached name")),
		mcp.WithString("title", mcp.Description("New database title")),
		mcp.WithObject("properties", mcp.Description("Property schema patch")),
	), s.updateDatabase)

	// Resource: the Markdown dialect contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://markdown-dialect", "Markdown Dialect Contract",
			mcp.WithResourceDescription("The constrained Markdown dialect used for page content."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDialectResource,
	)

	return s
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is cancelled
// or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// Handler returns the streamable HTTP transport for mounting on a router.
func (s *Server) Handler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kind := optionalString(req, "type")

	matches, err := s.svc.Search(ctx, query, kind)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"results": matches}), nil
}

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	detail, err := s.svc.GetPage(ctx, ref)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(detail), nil
}

func (s *Server) createPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	parent, err := req.RequireString("parent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.svc.CreatePage(ctx, pageservice.CreatePageRequest{
		Parent:     parent,
		Title:      title,
		Content:    optionalString(req, "content"),
		Properties: objectArg(req, "properties"),
	})
	if err != nil {
		return toolError(err), nil
	}

	out, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("Created page: %s\n\n%s", title, out)), nil
}

func (s *Server) updatePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := s.svc.UpdatePage(ctx, ref, objectArg(req, "properties"), optionalString(req, "append"))
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated page %s", id)), nil
}

func (s *Server) deletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := s.svc.DeletePage(ctx, ref)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Archived page %s", id)), nil
}

func (s *Server) movePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	parent, err := req.RequireString("parent")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := s.svc.MovePage(ctx, ref, parent)
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Moved page %s", id)), nil
}

func (s *Server) queryDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var filter json.RawMessage
	if f := objectArg(req, "filter"); f != nil {
		filter, _ = json.Marshal(f)
	}
	limit := 0
	if v, ok := req.GetArguments()["limit"].(float64); ok {
		limit = int(v)
	}

	rows, err := s.svc.QueryDatabase(ctx, ref, filter, limit)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(map[string]any{"count": len(rows), "results": rows}), nil
}

func (s *Server) updateDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id, err := s.svc.UpdateDatabase(ctx, ref, optionalString(req, "title"), objectArg(req, "properties"))
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Updated database %s", id)), nil
}

func (s *Server) readDialectResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://markdown-dialect",
			MIMEType: "text/markdown",
			Text:     DialectContract,
		},
	}, nil
}

func optionalString(req mcp.CallToolRequest, key string) string {
	if v, ok := req.GetArguments()[key].(string); ok {
		return v
	}
	return ""
}

func objectArg(req mcp.CallToolRequest, key string) map[string]any {
	if v, ok := req.GetArguments()[key].(map[string]any); ok {
		return v
	}
	return nil
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

// toolError renders a service failure. Ambiguous references include the
// candidate list so the caller can pick one instead of guessing.
func toolError(err error) *mcp.CallToolResult {
	var ambiguous *resolver.AmbiguousError
	if errors.As(err, &ambiguous) {
		out, _ := json.MarshalIndent(map[string]any{
			"error":      ambiguous.Error(),
			"ref":        ambiguous.Ref,
			"candidates": ambiguous.Candidates,
		}, "", "  ")
		return mcp.NewToolResultError(string(out))
	}
	return mcp.NewToolResultError(err.Error())
}
