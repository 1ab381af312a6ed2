package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/manifestcache"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/manifests"
	"github.com/Talieisin/mobileconfig-validator/internal/adapters/outbound/plist"
	"github.com/Talieisin/mobileconfig-validator/internal/application"
)

// registerTools registers all mcvalidate MCP tools on the given server.
func registerTools(s *server.MCPServer, cacheDir string, offline bool) {
	// 1. mcvalidate_validate
	s.AddTool(
		mcplib.NewTool("mcvalidate_validate",
			mcplib.WithDescription("Validate mobileconfig files against ProfileManifests schemas. Returns per-file issues and a summary as JSON."),
			mcplib.WithString("files",
				mcplib.Required(),
				mcplib.Description("Comma-separated paths to mobileconfig files"),
			),
		),
		handleValidate(cacheDir, offline),
	)

	// 2. mcvalidate_lookup
	s.AddTool(
		mcplib.NewTool("mcvalidate_lookup",
			mcplib.WithDescription("Returns the full key inventory a payload type's manifest defines, including nested and array-item keys"),
			mcplib.WithString("payload_type",
				mcplib.Required(),
				mcplib.Description("Payload type to look up (e.g. com.apple.dock)"),
			),
		),
		handleLookup(cacheDir, offline),
	)

	// 3. mcvalidate_cache_status
	s.AddTool(
		mcplib.NewTool("mcvalidate_cache_status",
			mcplib.WithDescription("Returns the state of the local ProfileManifests cache"),
		),
		handleCacheStatus(cacheDir, offline),
	)
}

func newCache(cacheDir string, offline bool) *manifestcache.Cache {
	return manifestcache.New(cacheDir, 0, offline)
}

func handleValidate(cacheDir string, offline bool) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		filesStr, err := request.RequireString("files")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		repoDir, err := newCache(cacheDir, offline).Ensure()
		if err != nil {
			return errorResult(fmt.Sprintf("manifest cache unavailable: %v", err)), nil
		}

		svc := application.NewValidateService(plist.New(), manifests.New(repoDir))
		batch := svc.ValidateFiles(splitAndTrim(filesStr))
		return jsonResult(batch.Report())
	}
}

func handleLookup(cacheDir string, offline bool) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		payloadType, err := request.RequireString("payload_type")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		repoDir, err := newCache(cacheDir, offline).Ensure()
		if err != nil {
			return errorResult(fmt.Sprintf("manifest cache unavailable: %v", err)), nil
		}

		loader := manifests.New(repoDir)
		manifest, ok := loader.Resolve(payloadType)
		if !ok {
			return errorResult(fmt.Sprintf("no manifest found for %q", payloadType)), nil
		}

		type keyInfo struct {
			Key        string `json:"key"`
			Type       string `json:"type,omitempty"`
			Require    string `json:"require,omitempty"`
			Deprecated bool   `json:"deprecated,omitempty"`
		}

		flattened := manifest.FlattenedKeys()
		keys := make([]string, 0, len(flattened))
		for k := range flattened {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		infos := make([]keyInfo, 0, len(keys))
		for _, k := range keys {
			def := flattened[k]
			infos = append(infos, keyInfo{Key: k, Type: def.Type, Require: def.Require, Deprecated: def.Deprecated})
		}

		result := struct {
			PayloadType string    `json:"payload_type"`
			Title       string    `json:"title,omitempty"`
			Keys        []keyInfo `json:"keys"`
		}{payloadType, manifest.Title, infos}

		return jsonResult(result)
	}
}

func handleCacheStatus(cacheDir string, offline bool) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(newCache(cacheDir, offline).GetStatus())
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
