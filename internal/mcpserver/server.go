// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes savscan tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/savscan/internal/saveservice"
)

const guideURI = "savscan://search-guide"

// Server wraps the MCP server with savscan tools.
type Server struct {
	mcp *server.MCPServer
	svc *saveservice.Service
}

// New creates a new MCP server with all savscan tools registered.
func New(svc *saveservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"savscan",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_saves",
		mcp.WithDescription("List save files under the configured save directory with size, checksum and modification time."),
	), s.listSaves)

	s.mcp.AddTool(mcp.NewTool("summarize_save",
		mcp.WithDescription("Decode a save and describe its root: type, length, and every top-level key with its type."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Save path relative to the save directory (e.g. slot1.sav)")),
	), s.summarizeSave)

	s.mcp.AddTool(mcp.NewTool("find_value",
		mcp.WithDescription("Find every string value equal to or containing the target. "+
			"Read the search guide via get_search_guide or the "+guideURI+" resource for path notation."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Save path relative to the save directory")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Text to look for")),
		mcp.WithBoolean("case_sensitive", mcp.Description("Match case exactly (default false)")),
	), s.findValue)

	s.mcp.AddTool(mcp.NewTool("find_key",
		mcp.WithDescription("Find every key whose name contains the substring, with the value's type and a preview."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Save path relative to the save directory")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Key substring to look for")),
		mcp.WithBoolean("case_sensitive", mcp.Description("Match case exactly (default false)")),
	), s.findKey)

	s.mcp.AddTool(mcp.NewTool("get_search_guide",
		mcp.WithDescription("Returns the save format and search notation guide."),
	), s.getSearchGuide)

	s.mcp.AddResource(
		mcp.NewResource(guideURI, "Search Guide",
			mcp.WithResourceDescription("Save container format, path notation and match kinds."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readGuideResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listSaves(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	saves, err := s.svc.ListSaves(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(saves)
}

func (s *Server) summarizeSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.Summary(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) findValue(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("target")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.FindValue(ctx, path, target, req.GetBool("case_sensitive", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) findKey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	res, err := s.svc.FindKey(ctx, path, key, req.GetBool("case_sensitive", false))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(res)
}

func (s *Server) getSearchGuide(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SearchGuide), nil
}

func (s *Server) readGuideResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      guideURI,
			MIMEType: "text/markdown",
			Text:     SearchGuide,
		},
	}, nil
}
