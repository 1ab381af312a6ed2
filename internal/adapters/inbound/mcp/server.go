package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewValidatorMCPServer creates an MCP server exposing profile
// validation, manifest lookup, and cache status tools.
func NewValidatorMCPServer(cacheDir string, offline bool) *server.MCPServer {
	s := server.NewMCPServer(
		"mcvalidate",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, cacheDir, offline)

	return s
}
