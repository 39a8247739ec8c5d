// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the search engine's tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/EdwardDiehl/file-indexer/internal/engine"
)

// Server wraps the MCP server with search tools.
type Server struct {
	mcp *server.MCPServer
	eng *engine.Engine
}

// New creates a new MCP server with all tools registered.
func New(eng *engine.Engine) *Server {
	s := &Server{eng: eng}

	s.mcp = server.NewMCPServer(
		"file-indexer",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("search_files",
		mcp.WithDescription("Search indexed files by word. Multiple whitespace-separated "+
			"words rank files by how many of them they contain."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query; one or more words")),
	), s.searchFiles)

	s.mcp.AddTool(mcp.NewTool("lookup_file",
		mcp.WithDescription("Return the indexed record for a file: its last-modified "+
			"timestamp and the full token set."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute path of the indexed file")),
	), s.lookupFile)

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

func (s *Server) searchFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return mcp.NewToolResultError("query is empty"), nil
	}
	results := s.eng.SearchAll(terms)
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) lookupFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, ok := s.eng.Lookup(path)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("not indexed: %s", path)), nil
	}
	out, _ := json.MarshalIndent(rec, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}
